package orderapi

const (
	StatusPending   = "pending"
	StatusPaid      = "paid"
	StatusExpired   = "expired"
	StatusCancelled = "cancelled"
)

type LineItem struct {
	EventID      string `json:"event_id"`
	TicketTypeID string `json:"ticket_type_id"`
	Quantity     int64  `json:"quantity"`
}

type CustomerInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type CreateOrderRequest struct {
	Items         []LineItem   `json:"items"`
	PaymentMethod string       `json:"payment_method"`
	CustomerInfo  CustomerInfo `json:"customer_info"`
}

type PaymentDetails struct {
	VANumber   string `json:"va_number,omitempty"`
	PaymentURL string `json:"payment_url,omitempty"`
	QRISURL    string `json:"qris_url,omitempty"`
}

type OrderItem struct {
	EventID        string `json:"event_id"`
	EventTitle     string `json:"event_title"`
	EventImage     string `json:"event_image"`
	TicketTypeID   string `json:"ticket_type_id"`
	TicketTypeName string `json:"ticket_type_name"`
	Quantity       int64  `json:"quantity"`
	UnitPrice      int64  `json:"unit_price"`
}

type Order struct {
	OrderNumber    string         `json:"order_number"`
	Status         string         `json:"status"`
	PaymentMethod  string         `json:"payment_method"`
	PaymentDetails PaymentDetails `json:"payment_details"`
	TotalAmount    int64          `json:"total_amount"`
	ExpiresAt      string         `json:"expires_at,omitempty"`
	CreatedAt      string         `json:"created_at,omitempty"`
	CustomerName   string         `json:"customer_name"`
	CustomerEmail  string         `json:"customer_email"`
	CustomerPhone  string         `json:"customer_phone"`
	Items          []OrderItem    `json:"order_items"`
}
