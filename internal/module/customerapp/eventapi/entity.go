package eventapi

const (
	StatusPublished = "published"
	StatusSoldOut   = "sold_out"
	StatusCancelled = "cancelled"
)

type TicketType struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Available int64  `json:"available"`
	Quota     int64  `json:"quota"`
}

type Event struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Venue       string       `json:"venue"`
	City        string       `json:"city"`
	EventDate   string       `json:"event_date"`
	EventTime   string       `json:"event_time"`
	Image       string       `json:"image"`
	Status      string       `json:"status"`
	TicketTypes []TicketType `json:"ticket_types"`
}

// TicketTypeByID returns the matching ticket type, if the event still sells it.
func (e Event) TicketTypeByID(id string) (TicketType, bool) {
	for _, tt := range e.TicketTypes {
		if tt.ID == id {
			return tt, true
		}
	}

	return TicketType{}, false
}
