package pendingorder

import "time"

type OrderItemResponse struct {
	EventID      string `json:"event_id"`
	EventTitle   string `json:"event_title"`
	EventImage   string `json:"event_image"`
	TicketTypeID string `json:"ticket_type_id"`
	TicketType   string `json:"ticket_type"`
	Quantity     int64  `json:"quantity"`
	UnitPrice    int64  `json:"unit_price"`
	Subtotal     int64  `json:"subtotal"`
}

type OrderResponse struct {
	OrderID              string              `json:"order_id"`
	Status               Status              `json:"status"`
	PaymentMethod        string              `json:"payment_method"`
	PaymentType          PaymentType         `json:"payment_type"`
	VirtualAccountNumber string              `json:"virtual_account_number,omitempty"`
	PaymentURL           string              `json:"payment_url,omitempty"`
	Amount               int64               `json:"amount"`
	ExpiryTime           int64               `json:"expiry_time"`
	CreatedAt            int64               `json:"created_at"`
	TimeLeft             int64               `json:"time_left"`
	FormattedTimeLeft    string              `json:"formatted_time_left"`
	CustomerName         string              `json:"customer_name"`
	CustomerEmail        string              `json:"customer_email"`
	CustomerPhone        string              `json:"customer_phone"`
	Items                []OrderItemResponse `json:"items"`
}

// PopulateFromEntity maps a pending order onto the response, deriving the
// countdown fields from the given wall clock instant.
func (r *OrderResponse) PopulateFromEntity(order PendingOrder, now time.Time) {
	remaining := order.RemainingSeconds(now)

	r.OrderID = order.OrderID
	r.Status = order.Status
	r.PaymentMethod = order.PaymentMethod
	r.PaymentType = order.PaymentType
	r.VirtualAccountNumber = order.VirtualAccountNumber
	r.PaymentURL = order.PaymentURL
	r.Amount = order.Amount
	r.ExpiryTime = order.ExpiryTime
	r.CreatedAt = order.CreatedAt
	r.TimeLeft = remaining
	r.FormattedTimeLeft = FormatDuration(remaining)
	r.CustomerName = order.CustomerInfo.Name
	r.CustomerEmail = order.CustomerInfo.Email
	r.CustomerPhone = order.CustomerInfo.Phone

	r.Items = make([]OrderItemResponse, len(order.Items))
	for k, item := range order.Items {
		r.Items[k] = OrderItemResponse{
			EventID:      item.EventID,
			EventTitle:   item.EventTitle,
			EventImage:   item.EventImage,
			TicketTypeID: item.TicketTypeID,
			TicketType:   item.TicketType,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
			Subtotal:     item.Quantity * item.UnitPrice,
		}
	}
}

type ChangePaymentMethodResponse struct {
	OrderID       string `json:"order_id"`
	RestoredItems int    `json:"restored_items"`
	SkippedItems  int    `json:"skipped_items"`
}
