package cart

// MaxQuantityPerLine caps how many tickets of one type a single buyer may
// hold in the cart.
const MaxQuantityPerLine int64 = 10

// Item is one (event, ticket type) selection. Lines are unique per
// (EventID, TicketTypeID); display fields ride along for the UI surfaces.
type Item struct {
	EventID        string `json:"event_id"`
	EventTitle     string `json:"event_title"`
	EventImage     string `json:"event_image"`
	TicketTypeID   string `json:"ticket_type_id"`
	TicketTypeName string `json:"ticket_type_name"`
	Quantity       int64  `json:"quantity"`
	UnitPrice      int64  `json:"unit_price"`
}

func (i Item) Subtotal() int64 {
	return i.Quantity * i.UnitPrice
}

func clampQuantity(quantity int64) int64 {
	if quantity < 1 {
		return 1
	}
	if quantity > MaxQuantityPerLine {
		return MaxQuantityPerLine
	}

	return quantity
}
