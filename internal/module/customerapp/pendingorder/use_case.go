package pendingorder

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ali25developer/Kartcis-sub000/internal/module/customerapp/cart"
	"github.com/ali25developer/Kartcis-sub000/internal/module/customerapp/orderapi"
	"github.com/ali25developer/Kartcis-sub000/internal/module/customerapp/ticket"
	"github.com/ali25developer/Kartcis-sub000/internal/pkg/session"
	"github.com/ali25developer/Kartcis-sub000/pkg/clock"
	"github.com/ali25developer/Kartcis-sub000/pkg/errors"
	"github.com/ali25developer/Kartcis-sub000/pkg/status"
)

// PendingOrderUseCase drives the order lifecycle: pending on checkout, then
// exactly one of paid, expired or cancelled. Terminal decisions other than
// local expiry are validated against the order service before they take
// effect.
type PendingOrderUseCase interface {
	Checkout(ctx context.Context, req CheckoutRequest) (OrderResponse, error)
	GetActiveOrder(ctx context.Context) (*OrderResponse, error)
	GetOrder(ctx context.Context, orderID string) (OrderResponse, error)
	ConfirmPayment(ctx context.Context, orderID string) (OrderResponse, error)
	CancelOrder(ctx context.Context, orderID string) error
	ChangePaymentMethod(ctx context.Context, orderID string) (ChangePaymentMethodResponse, error)
	ExpireOrder(ctx context.Context, orderID string) error
	ReconcileActiveOrder(ctx context.Context) error
}

type pendingOrderUseCase struct {
	logger              *logrus.Logger
	timeout             time.Duration
	orderExpireDuration time.Duration
	clock               clock.Clock
	store               Store
	cartUseCase         cart.CartUseCase
	ticketStore         ticket.Store
	session             session.Store
	orderAPIRepository  orderapi.OrderAPIRepository

	confirmingMu sync.Mutex
	confirming   map[string]bool
}

type PendingOrderUseCaseProperty struct {
	Logger              *logrus.Logger
	Timeout             time.Duration
	OrderExpireDuration time.Duration
	Clock               clock.Clock
	Store               Store
	CartUseCase         cart.CartUseCase
	TicketStore         ticket.Store
	Session             session.Store
	OrderAPIRepository  orderapi.OrderAPIRepository
}

func NewPendingOrderUseCase(props PendingOrderUseCaseProperty) PendingOrderUseCase {
	return &pendingOrderUseCase{
		logger:              props.Logger,
		timeout:             props.Timeout,
		orderExpireDuration: props.OrderExpireDuration,
		clock:               props.Clock,
		store:               props.Store,
		cartUseCase:         props.CartUseCase,
		ticketStore:         props.TicketStore,
		session:             props.Session,
		orderAPIRepository:  props.OrderAPIRepository,
		confirming:          make(map[string]bool),
	}
}

// Checkout implements PendingOrderUseCase. Nothing is written locally until
// the order service has confirmed the order, so a failed creation leaves no
// orphaned pending entry.
func (u *pendingOrderUseCase) Checkout(ctx context.Context, req CheckoutRequest) (OrderResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	apiItems := make([]orderapi.LineItem, len(req.Items))
	for k, item := range req.Items {
		apiItems[k] = orderapi.LineItem{
			EventID:      item.EventID,
			TicketTypeID: item.TicketTypeID,
			Quantity:     item.Quantity,
		}
	}

	created, err := u.orderAPIRepository.Create(ctx, orderapi.CreateOrderRequest{
		Items:         apiItems,
		PaymentMethod: req.PaymentMethod,
		CustomerInfo: orderapi.CustomerInfo{
			Name:  req.CustomerName,
			Email: req.CustomerEmail,
			Phone: req.CustomerPhone,
		},
	})
	if err != nil {
		return OrderResponse{}, err
	}

	order := u.mapOrder(created)
	if len(order.Items) == 0 {
		items := make([]LineItem, len(req.Items))
		for k, item := range req.Items {
			items[k] = LineItem{
				EventID:      item.EventID,
				EventTitle:   item.EventTitle,
				EventImage:   item.EventImage,
				TicketTypeID: item.TicketTypeID,
				TicketType:   item.TicketType,
				Quantity:     item.Quantity,
				UnitPrice:    item.UnitPrice,
			}
		}
		order.Items = items
	}
	if order.CustomerInfo == (CustomerInfo{}) {
		order.CustomerInfo = CustomerInfo{
			Name:  req.CustomerName,
			Email: req.CustomerEmail,
			Phone: req.CustomerPhone,
		}
	}

	u.store.Add(order)

	resp := OrderResponse{}
	resp.PopulateFromEntity(order, u.clock.Now())

	return resp, nil
}

// GetActiveOrder implements PendingOrderUseCase. A nil response means no
// active order exists.
func (u *pendingOrderUseCase) GetActiveOrder(ctx context.Context) (*OrderResponse, error) {
	order, ok := u.store.GetActive()
	if !ok {
		return nil, nil
	}

	resp := OrderResponse{}
	resp.PopulateFromEntity(order, u.clock.Now())

	return &resp, nil
}

// GetOrder implements PendingOrderUseCase. A local miss falls back to the
// order service; a still-pending server order is rehydrated into the store
// so the banner and countdown pick it up after a reload.
func (u *pendingOrderUseCase) GetOrder(ctx context.Context, orderID string) (OrderResponse, error) {
	if order, ok := u.store.GetByID(orderID); ok {
		resp := OrderResponse{}
		resp.PopulateFromEntity(order, u.clock.Now())
		return resp, nil
	}

	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	remote, err := u.orderAPIRepository.FindByOrderNumber(ctx, orderID)
	if err != nil {
		return OrderResponse{}, err
	}

	order := u.mapOrder(remote)
	if order.IsActive(u.clock.Now()) {
		u.store.Add(order)
	} else {
		u.store.Remove(order.OrderID)
	}

	resp := OrderResponse{}
	resp.PopulateFromEntity(order, u.clock.Now())

	return resp, nil
}

// ConfirmPayment implements PendingOrderUseCase. This is the "I have
// transferred" path: the server is asked for the real status, and only a
// server-confirmed paid state finalizes the order. While the confirmation is
// in flight, a concurrent countdown expiry for the same order is suppressed;
// the server-verified signal is the stronger one.
func (u *pendingOrderUseCase) ConfirmPayment(ctx context.Context, orderID string) (OrderResponse, error) {
	order, ok := u.store.GetByID(orderID)
	if !ok {
		return OrderResponse{}, errors.New(http.StatusNotFound, status.NOT_FOUND, "there is no pending payment for this order")
	}

	u.confirmingMu.Lock()
	u.confirming[orderID] = true
	u.confirmingMu.Unlock()

	defer func() {
		u.confirmingMu.Lock()
		delete(u.confirming, orderID)
		u.confirmingMu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	remote, err := u.orderAPIRepository.FindByOrderNumber(ctx, orderID)
	if err != nil {
		return OrderResponse{}, err
	}

	switch remote.Status {
	case orderapi.StatusPaid:
		order.Status = StatusPaid
		u.finalizePaid(ctx, order)

		resp := OrderResponse{}
		resp.PopulateFromEntity(order, u.clock.Now())
		return resp, nil

	case orderapi.StatusExpired, orderapi.StatusCancelled:
		u.store.Remove(orderID)
		return OrderResponse{}, errors.New(http.StatusConflict, status.ORDER_EXPIRED, "the order expired while processing the payment confirmation")

	default:
		if order.ExpiryTime <= u.clock.Now().UnixMilli() {
			u.store.UpdateStatus(orderID, StatusExpired)
			return OrderResponse{}, errors.New(http.StatusConflict, status.ORDER_EXPIRED, "the order expired while processing the payment confirmation")
		}

		return OrderResponse{}, errors.New(http.StatusConflict, status.PAYMENT_NOT_RECEIVED, "the payment has not been received yet")
	}
}

// CancelOrder implements PendingOrderUseCase. The cart is deliberately left
// untouched so the buyer can retry with the same selection.
func (u *pendingOrderUseCase) CancelOrder(ctx context.Context, orderID string) error {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	if err := u.orderAPIRepository.Cancel(ctx, orderID); err != nil {
		return err
	}

	u.store.Remove(orderID)

	return nil
}

// ChangePaymentMethod implements PendingOrderUseCase. When the live cart is
// empty it is repopulated from the order's frozen snapshot so checkout can be
// resumed without re-browsing the catalog. Snapshot lines whose event or
// ticket type disappeared are skipped.
func (u *pendingOrderUseCase) ChangePaymentMethod(ctx context.Context, orderID string) (ChangePaymentMethodResponse, error) {
	order, ok := u.store.GetByID(orderID)
	if !ok {
		return ChangePaymentMethodResponse{}, errors.New(http.StatusNotFound, status.NOT_FOUND, "there is no pending payment for this order")
	}

	resp := ChangePaymentMethodResponse{OrderID: order.OrderID}

	if len(u.cartUseCase.GetItems(ctx)) > 0 {
		return resp, nil
	}

	resp.RestoredItems, resp.SkippedItems = u.cartUseCase.RestoreFromSnapshot(ctx, order.CartLines())

	return resp, nil
}

// ExpireOrder implements PendingOrderUseCase. The transition is idempotent:
// an order that is already expired, removed or being confirmed paid is left
// alone.
func (u *pendingOrderUseCase) ExpireOrder(ctx context.Context, orderID string) error {
	u.confirmingMu.Lock()
	inFlight := u.confirming[orderID]
	u.confirmingMu.Unlock()

	if inFlight {
		u.logger.WithContext(ctx).WithField("order_id", orderID).Info("skipping expiry, a payment confirmation is in flight")
		return nil
	}

	u.store.UpdateStatus(orderID, StatusExpired)

	return nil
}

// ReconcileActiveOrder implements PendingOrderUseCase. The background poll:
// when the server says the active order is no longer pending, the local copy
// is resolved accordingly. Poll failures are logged and swallowed; the next
// cycle retries.
func (u *pendingOrderUseCase) ReconcileActiveOrder(ctx context.Context) error {
	order, ok := u.store.GetActive()
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	remote, err := u.orderAPIRepository.FindByOrderNumber(ctx, order.OrderID)
	if err != nil {
		u.logger.WithContext(ctx).WithField("order_id", order.OrderID).WithError(err).Warn("background status check failed")
		return nil
	}

	switch remote.Status {
	case orderapi.StatusPending:
		return nil
	case orderapi.StatusPaid:
		order.Status = StatusPaid
		u.finalizePaid(ctx, order)
	default:
		u.store.Remove(order.OrderID)
	}

	return nil
}

// finalizePaid applies the paid transition's side effects: issued tickets
// join the buyer's collection when a session exists, the cart is cleared and
// the order leaves the pending store.
func (u *pendingOrderUseCase) finalizePaid(ctx context.Context, order PendingOrder) {
	if acc, ok := u.session.Account(); ok {
		now := u.clock.Now().UnixMilli()

		var tickets []ticket.PurchasedTicket
		for _, item := range order.Items {
			for i := int64(0); i < item.Quantity; i++ {
				tickets = append(tickets, ticket.PurchasedTicket{
					ID:           uuid.NewString(),
					TicketCode:   generateTicketCode(),
					OrderID:      order.OrderID,
					UserID:       acc.ID,
					EventID:      item.EventID,
					EventTitle:   item.EventTitle,
					EventImage:   item.EventImage,
					TicketType:   item.TicketType,
					AttendeeName: order.CustomerInfo.Name,
					Status:       ticket.StatusActive,
					CreatedAt:    now,
				})
			}
		}
		u.ticketStore.AddMany(tickets)
	}

	u.cartUseCase.ClearCart(ctx)
	u.store.Remove(order.OrderID)
}

func generateTicketCode() string {
	return "KTC-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
}

// mapOrder converts the order service representation into the local entity.
// A missing or unparseable server deadline falls back to the configured
// payment window anchored at creation time.
func (u *pendingOrderUseCase) mapOrder(remote orderapi.Order) PendingOrder {
	now := u.clock.Now()

	createdAt := now.UnixMilli()
	if t, err := parseAPITime(remote.CreatedAt); err == nil {
		createdAt = t.UnixMilli()
	}

	expiryTime := createdAt + u.orderExpireDuration.Milliseconds()
	if t, err := parseAPITime(remote.ExpiresAt); err == nil {
		expiryTime = t.UnixMilli()
	}

	orderStatus := Status(remote.Status)
	switch orderStatus {
	case StatusPending, StatusPaid, StatusExpired, StatusCancelled:
	default:
		orderStatus = StatusPending
	}

	items := make([]LineItem, len(remote.Items))
	for k, item := range remote.Items {
		items[k] = LineItem{
			EventID:      item.EventID,
			EventTitle:   item.EventTitle,
			EventImage:   item.EventImage,
			TicketTypeID: item.TicketTypeID,
			TicketType:   item.TicketTypeName,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
		}
	}

	return PendingOrder{
		OrderID:              remote.OrderNumber,
		PaymentMethod:        remote.PaymentMethod,
		PaymentType:          PaymentTypeOf(remote.PaymentMethod),
		VirtualAccountNumber: remote.PaymentDetails.VANumber,
		PaymentURL:           firstNonEmpty(remote.PaymentDetails.PaymentURL, remote.PaymentDetails.QRISURL),
		Amount:               remote.TotalAmount,
		ExpiryTime:           expiryTime,
		CreatedAt:            createdAt,
		Status:               orderStatus,
		Items:                items,
		CustomerInfo: CustomerInfo{
			Name:  remote.CustomerName,
			Email: remote.CustomerEmail,
			Phone: remote.CustomerPhone,
		},
	}
}

// parseAPITime accepts both RFC3339 and the space-separated variant some
// backends emit for timestamps.
func parseAPITime(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}

	return time.Parse("2006-01-02 15:04:05", strings.TrimSpace(value))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
