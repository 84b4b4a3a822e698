package cart

type AddItemRequest struct {
	EventID        string `json:"event_id" validate:"required"`
	EventTitle     string `json:"event_title"`
	EventImage     string `json:"event_image"`
	TicketTypeID   string `json:"ticket_type_id" validate:"required"`
	TicketTypeName string `json:"ticket_type_name"`
	Quantity       int64  `json:"quantity" validate:"required,min=1,max=10"`
	UnitPrice      int64  `json:"unit_price" validate:"min=0"`
}

type UpdateQuantityRequest struct {
	EventID      string `json:"event_id" validate:"required"`
	TicketTypeID string `json:"ticket_type_id" validate:"required"`
	Quantity     int64  `json:"quantity"`
}
