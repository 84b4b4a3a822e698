package pendingorder

type CheckoutItemRequest struct {
	EventID      string `json:"event_id" validate:"required"`
	EventTitle   string `json:"event_title" validate:"required"`
	EventImage   string `json:"event_image"`
	TicketTypeID string `json:"ticket_type_id" validate:"required"`
	TicketType   string `json:"ticket_type" validate:"required"`
	Quantity     int64  `json:"quantity" validate:"required,min=1,max=10"`
	UnitPrice    int64  `json:"unit_price" validate:"min=0"`
}

type CheckoutRequest struct {
	Items         []CheckoutItemRequest `json:"items" validate:"required,min=1,dive"`
	PaymentMethod string                `json:"payment_method" validate:"required"`
	CustomerName  string                `json:"customer_name" validate:"required"`
	CustomerEmail string                `json:"customer_email" validate:"required,email"`
	CustomerPhone string                `json:"customer_phone" validate:"required"`
}
