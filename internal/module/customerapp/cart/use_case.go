package cart

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ali25developer/Kartcis-sub000/internal/module/customerapp/eventapi"
)

type Summary struct {
	ItemCount   int64
	TotalAmount int64
}

type CartUseCase interface {
	GetItems(ctx context.Context) []Item
	GetSummary(ctx context.Context) Summary
	AddItem(ctx context.Context, item Item)
	UpdateQuantity(ctx context.Context, eventID, ticketTypeID string, quantity int64)
	RemoveItem(ctx context.Context, eventID, ticketTypeID string)
	ClearCart(ctx context.Context)

	// RestoreFromSnapshot repopulates an empty cart from a pending order's
	// frozen line items. Lines whose event or ticket type no longer exists
	// on the catalog are skipped; the restore is best effort.
	RestoreFromSnapshot(ctx context.Context, lines []Item) (restored int, skipped int)
}

type cartUseCase struct {
	logger          *logrus.Logger
	timeout         time.Duration
	store           Store
	eventRepository eventapi.EventRepository
}

type CartUseCaseProperty struct {
	Logger          *logrus.Logger
	Timeout         time.Duration
	Store           Store
	EventRepository eventapi.EventRepository
}

func NewCartUseCase(props CartUseCaseProperty) CartUseCase {
	return &cartUseCase{
		logger:          props.Logger,
		timeout:         props.Timeout,
		store:           props.Store,
		eventRepository: props.EventRepository,
	}
}

// GetItems implements CartUseCase.
func (u *cartUseCase) GetItems(ctx context.Context) []Item {
	return u.store.Items()
}

// GetSummary implements CartUseCase.
func (u *cartUseCase) GetSummary(ctx context.Context) Summary {
	var summary Summary
	for _, item := range u.store.Items() {
		summary.ItemCount += item.Quantity
		summary.TotalAmount += item.Subtotal()
	}

	return summary
}

// AddItem implements CartUseCase. An existing (event, ticket type) line is
// merged; the merged quantity never exceeds the per-line cap.
func (u *cartUseCase) AddItem(ctx context.Context, item Item) {
	items := u.store.Items()

	for k, existing := range items {
		if existing.EventID == item.EventID && existing.TicketTypeID == item.TicketTypeID {
			items[k].Quantity = clampQuantity(existing.Quantity + item.Quantity)
			u.store.Save(items)
			return
		}
	}

	item.Quantity = clampQuantity(item.Quantity)
	u.store.Save(append(items, item))
}

// UpdateQuantity implements CartUseCase. A non-positive quantity removes the
// line.
func (u *cartUseCase) UpdateQuantity(ctx context.Context, eventID, ticketTypeID string, quantity int64) {
	if quantity <= 0 {
		u.RemoveItem(ctx, eventID, ticketTypeID)
		return
	}

	items := u.store.Items()
	for k, item := range items {
		if item.EventID == eventID && item.TicketTypeID == ticketTypeID {
			items[k].Quantity = clampQuantity(quantity)
			u.store.Save(items)
			return
		}
	}
}

// RemoveItem implements CartUseCase.
func (u *cartUseCase) RemoveItem(ctx context.Context, eventID, ticketTypeID string) {
	items := u.store.Items()

	remaining := make([]Item, 0, len(items))
	for _, item := range items {
		if item.EventID == eventID && item.TicketTypeID == ticketTypeID {
			continue
		}
		remaining = append(remaining, item)
	}

	if len(remaining) != len(items) {
		u.store.Save(remaining)
	}
}

// ClearCart implements CartUseCase.
func (u *cartUseCase) ClearCart(ctx context.Context) {
	u.store.Clear()
}

// RestoreFromSnapshot implements CartUseCase. Each snapshot line is verified
// against the live catalog by its stable ids; title and price come from the
// catalog so that resumed checkouts reflect current data.
func (u *cartUseCase) RestoreFromSnapshot(ctx context.Context, lines []Item) (int, int) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	var restored, skipped int

	for _, line := range lines {
		e, err := u.eventRepository.FindByID(ctx, line.EventID)
		if err != nil {
			u.logger.WithContext(ctx).WithField("event_id", line.EventID).WithError(err).Warn("skipping cart line, event lookup failed")
			skipped++
			continue
		}

		if e.Status == eventapi.StatusCancelled {
			skipped++
			continue
		}

		tt, ok := e.TicketTypeByID(line.TicketTypeID)
		if !ok {
			u.logger.WithContext(ctx).WithFields(logrus.Fields{
				"event_id":       line.EventID,
				"ticket_type_id": line.TicketTypeID,
			}).Warn("skipping cart line, ticket type is no longer sold")
			skipped++
			continue
		}

		u.AddItem(ctx, Item{
			EventID:        e.ID,
			EventTitle:     e.Title,
			EventImage:     e.Image,
			TicketTypeID:   tt.ID,
			TicketTypeName: tt.Name,
			Quantity:       line.Quantity,
			UnitPrice:      tt.Price,
		})
		restored++
	}

	return restored, skipped
}
