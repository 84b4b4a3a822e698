package pendingorder

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ali25developer/Kartcis-sub000/pkg/clock"
)

// Countdown derives the remaining payment window from the order's absolute
// deadline. Every tick recomputes from the deadline and the injected clock,
// never from a local decrement, so the value stays correct across process
// sleep and several controllers over the same order stay in agreement. The
// expiry callback fires at most once per controller.
type Countdown struct {
	logger     *logrus.Logger
	clock      clock.Clock
	interval   time.Duration
	expiryTime int64
	onTick     func(remaining int64)
	onExpire   func()

	mu      sync.Mutex
	done    chan struct{}
	running bool
	fired   bool
}

type CountdownProperty struct {
	Logger     *logrus.Logger
	Clock      clock.Clock
	Interval   time.Duration
	ExpiryTime int64
	OnTick     func(remaining int64)
	OnExpire   func()
}

func NewCountdown(props CountdownProperty) *Countdown {
	interval := props.Interval
	if interval <= 0 {
		interval = time.Second
	}

	return &Countdown{
		logger:     props.Logger,
		clock:      props.Clock,
		interval:   interval,
		expiryTime: props.ExpiryTime,
		onTick:     props.OnTick,
		onExpire:   props.OnExpire,
	}
}

// ExpiryTime returns the absolute deadline in epoch milliseconds.
func (c *Countdown) ExpiryTime() int64 {
	return c.expiryTime
}

// Remaining returns whole seconds until the deadline, floored at zero.
func (c *Countdown) Remaining() int64 {
	diff := c.expiryTime - c.clock.Now().UnixMilli()
	if diff <= 0 {
		return 0
	}

	return diff / 1000
}

// Start computes the first value immediately and begins ticking. Starting a
// countdown whose deadline already passed fires the expiry right away.
func (c *Countdown) Start() {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return
	}
	c.running = true
	c.done = make(chan struct{})
	done := c.done
	c.mu.Unlock()

	remaining := c.Remaining()
	c.tick(remaining)

	if remaining == 0 {
		c.mu.Lock()
		c.running = false
		c.mu.Unlock()

		c.expire()
		return
	}

	go c.loop(done)
}

// Stop cancels the repeating tick. Owning surfaces must call it on unmount.
func (c *Countdown) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return
	}

	c.running = false
	close(c.done)
}

func (c *Countdown) loop(done chan struct{}) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			remaining := c.Remaining()
			c.tick(remaining)

			if remaining == 0 {
				c.mu.Lock()
				c.running = false
				c.mu.Unlock()

				c.expire()
				return
			}
		}
	}
}

func (c *Countdown) tick(remaining int64) {
	if c.onTick != nil {
		c.onTick(remaining)
	}
}

func (c *Countdown) expire() {
	c.mu.Lock()
	if c.fired {
		c.mu.Unlock()
		return
	}
	c.fired = true
	c.mu.Unlock()

	if c.onExpire != nil {
		c.onExpire()
	}
}

// FormatDuration renders remaining seconds as zero-padded HH:MM:SS.
func FormatDuration(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}

	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}

// FormatDurationShort drops the hour segment when the value rounds to under
// an hour, per the checkout surface's convention.
func FormatDurationShort(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}

	if seconds < 3600 {
		return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
	}

	return FormatDuration(seconds)
}

// FormatCompact renders the header banner's abbreviated form, e.g. "23j 59m".
func FormatCompact(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}

	return fmt.Sprintf("%dj %dm", seconds/3600, (seconds%3600)/60)
}
