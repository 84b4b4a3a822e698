package ticket

const (
	StatusActive    = "active"
	StatusCancelled = "cancelled"
)

// PurchasedTicket is one issued ticket, written when a pending order reaches
// the paid state while a customer session exists.
type PurchasedTicket struct {
	ID           string `json:"id"`
	TicketCode   string `json:"ticket_code"`
	OrderID      string `json:"order_id"`
	UserID       string `json:"user_id,omitempty"`
	EventID      string `json:"event_id"`
	EventTitle   string `json:"event_title"`
	EventImage   string `json:"event_image"`
	TicketType   string `json:"ticket_type"`
	AttendeeName string `json:"attendee_name"`
	Status       string `json:"status"`
	CreatedAt    int64  `json:"created_at"`
}
