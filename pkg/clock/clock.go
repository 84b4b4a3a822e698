package clock

import "time"

// Clock abstracts time so that countdown and expiry logic can be tested
// without real timers.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

func New() Clock {
	return realClock{}
}
