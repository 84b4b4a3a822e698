package pendingorder

import (
	"strings"
	"time"

	"github.com/ali25developer/Kartcis-sub000/internal/module/customerapp/cart"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusExpired   Status = "expired"
	StatusCancelled Status = "cancelled"
)

// IsTerminal reports whether no further transition may leave the status.
func (s Status) IsTerminal() bool {
	return s != StatusPending
}

var validNext = map[Status]map[Status]bool{
	StatusPending:   {StatusPaid: true, StatusExpired: true, StatusCancelled: true},
	StatusPaid:      {},
	StatusExpired:   {},
	StatusCancelled: {},
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

type PaymentType string

const (
	PaymentTypeVA         PaymentType = "va"
	PaymentTypeEwallet    PaymentType = "ewallet"
	PaymentTypeQRIS       PaymentType = "qris"
	PaymentTypeCreditCard PaymentType = "credit_card"
)

// PaymentTypeOf derives the payment channel class from the method name.
func PaymentTypeOf(paymentMethod string) PaymentType {
	method := strings.ToLower(paymentMethod)

	switch {
	case strings.Contains(method, "qris"):
		return PaymentTypeQRIS
	case strings.Contains(method, "gopay"), strings.Contains(method, "ovo"), strings.Contains(method, "shopee"), strings.Contains(method, "dana"):
		return PaymentTypeEwallet
	case strings.Contains(method, "card"):
		return PaymentTypeCreditCard
	default:
		return PaymentTypeVA
	}
}

// LineItem is one purchased line, frozen at order creation. It is keyed by
// the same stable ids the cart uses so the cart can be reconstructed exactly.
type LineItem struct {
	EventID      string `json:"event_id"`
	EventTitle   string `json:"event_title"`
	EventImage   string `json:"event_image"`
	TicketTypeID string `json:"ticket_type_id"`
	TicketType   string `json:"ticket_type"`
	Quantity     int64  `json:"quantity"`
	UnitPrice    int64  `json:"unit_price"`
}

type CustomerInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// PendingOrder tracks one order from creation until a terminal transition.
// ExpiryTime is the sole source of truth for the countdown and expiry; it is
// set once at creation and never mutated.
type PendingOrder struct {
	OrderID              string       `json:"order_id"`
	PaymentMethod        string       `json:"payment_method"`
	PaymentType          PaymentType  `json:"payment_type"`
	VirtualAccountNumber string       `json:"virtual_account_number,omitempty"`
	PaymentURL           string       `json:"payment_url,omitempty"`
	Amount               int64        `json:"amount"`
	ExpiryTime           int64        `json:"expiry_time"`
	CreatedAt            int64        `json:"created_at"`
	Status               Status       `json:"status"`
	Items                []LineItem   `json:"items"`
	CustomerInfo         CustomerInfo `json:"customer_info"`
}

// RemainingSeconds is the countdown value derived from the absolute deadline.
func (o PendingOrder) RemainingSeconds(now time.Time) int64 {
	diff := o.ExpiryTime - now.UnixMilli()
	if diff <= 0 {
		return 0
	}

	return diff / 1000
}

// IsActive reports whether the order is still awaiting payment.
func (o PendingOrder) IsActive(now time.Time) bool {
	return o.Status == StatusPending && o.ExpiryTime > now.UnixMilli()
}

// CartLines converts the frozen snapshot back into cart lines.
func (o PendingOrder) CartLines() []cart.Item {
	lines := make([]cart.Item, len(o.Items))
	for k, item := range o.Items {
		lines[k] = cart.Item{
			EventID:        item.EventID,
			EventTitle:     item.EventTitle,
			EventImage:     item.EventImage,
			TicketTypeID:   item.TicketTypeID,
			TicketTypeName: item.TicketType,
			Quantity:       item.Quantity,
			UnitPrice:      item.UnitPrice,
		}
	}

	return lines
}
