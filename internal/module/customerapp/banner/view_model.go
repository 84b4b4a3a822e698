package banner

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ali25developer/Kartcis-sub000/internal/module/customerapp/pendingorder"
	"github.com/ali25developer/Kartcis-sub000/pkg/clock"
)

// Snapshot is what a surface renders: either no banner, or the active
// order with its countdown.
type Snapshot struct {
	Visible           bool        `json:"visible"`
	OrderID           string      `json:"order_id,omitempty"`
	PaymentMethod     string      `json:"payment_method,omitempty"`
	Amount            int64       `json:"amount,omitempty"`
	TimeLeft          int64       `json:"time_left"`
	FormattedTimeLeft string      `json:"formatted_time_left,omitempty"`
	Items             []TicketRow `json:"items,omitempty"`
}

type TicketRow struct {
	EventTitle string `json:"event_title"`
	TicketType string `json:"ticket_type"`
	Quantity   int64  `json:"quantity"`
}

// ViewModel keeps the payment banner in sync with the pending order store.
// Every surface reads the same store through the same view model, so the
// banner, the order page and the checkout page always agree on whether a
// payment is pending and how much time is left.
type ViewModel interface {
	Mount(ctx context.Context)
	Unmount()
	Snapshot() Snapshot
}

type viewModel struct {
	logger              *logrus.Logger
	clock               clock.Clock
	store               pendingorder.Store
	pendingOrderUseCase pendingorder.PendingOrderUseCase
	reconcileInterval   time.Duration

	mu          sync.Mutex
	mounted     bool
	unsubscribe func()
	countdown   *pendingorder.Countdown
	reconcile   *time.Ticker
	done        chan struct{}
}

type ViewModelProperty struct {
	Logger              *logrus.Logger
	Clock               clock.Clock
	Store               pendingorder.Store
	PendingOrderUseCase pendingorder.PendingOrderUseCase
	ReconcileInterval   time.Duration
}

func NewViewModel(props ViewModelProperty) ViewModel {
	interval := props.ReconcileInterval
	if interval <= 0 {
		interval = 2 * time.Minute
	}

	return &viewModel{
		logger:              props.Logger,
		clock:               props.Clock,
		store:               props.Store,
		pendingOrderUseCase: props.PendingOrderUseCase,
		reconcileInterval:   interval,
	}
}

// Mount implements ViewModel. It binds the countdown to the current active
// order, subscribes to store changes so the countdown follows transitions
// made elsewhere, and starts the background status poll.
func (vm *viewModel) Mount(ctx context.Context) {
	vm.mu.Lock()
	if vm.mounted {
		vm.mu.Unlock()
		return
	}
	vm.mounted = true
	vm.done = make(chan struct{})
	vm.mu.Unlock()

	vm.unsubscribe = vm.store.Subscribe(func() {
		vm.rebind(ctx)
	})
	vm.rebind(ctx)

	vm.reconcile = time.NewTicker(vm.reconcileInterval)
	go vm.reconcileLoop(ctx)
}

// Unmount implements ViewModel. Safe to call more than once.
func (vm *viewModel) Unmount() {
	vm.mu.Lock()
	if !vm.mounted {
		vm.mu.Unlock()
		return
	}
	vm.mounted = false
	close(vm.done)
	countdown := vm.countdown
	vm.countdown = nil
	vm.mu.Unlock()

	if vm.unsubscribe != nil {
		vm.unsubscribe()
		vm.unsubscribe = nil
	}
	if vm.reconcile != nil {
		vm.reconcile.Stop()
	}
	if countdown != nil {
		countdown.Stop()
	}
}

// Snapshot implements ViewModel. The remaining time is recomputed from the
// order's deadline and the wall clock on every call, never from an internal
// counter, so a stale snapshot cannot drift.
func (vm *viewModel) Snapshot() Snapshot {
	order, ok := vm.store.GetActive()
	if !ok {
		return Snapshot{}
	}

	remaining := order.RemainingSeconds(vm.clock.Now())

	rows := make([]TicketRow, len(order.Items))
	for k, item := range order.Items {
		rows[k] = TicketRow{
			EventTitle: item.EventTitle,
			TicketType: item.TicketType,
			Quantity:   item.Quantity,
		}
	}

	return Snapshot{
		Visible:           true,
		OrderID:           order.OrderID,
		PaymentMethod:     order.PaymentMethod,
		Amount:            order.Amount,
		TimeLeft:          remaining,
		FormattedTimeLeft: pendingorder.FormatCompact(remaining),
		Items:             rows,
	}
}

// rebind points the countdown at whatever order is currently active. When
// the active order changes or disappears the old countdown stops first, so
// at most one countdown runs at a time.
func (vm *viewModel) rebind(ctx context.Context) {
	order, ok := vm.store.GetActive()

	vm.mu.Lock()
	if !vm.mounted {
		vm.mu.Unlock()
		return
	}

	current := vm.countdown
	if !ok {
		vm.countdown = nil
		vm.mu.Unlock()

		if current != nil {
			current.Stop()
		}
		return
	}

	if current != nil && current.ExpiryTime() == order.ExpiryTime {
		vm.mu.Unlock()
		return
	}

	orderID := order.OrderID
	next := pendingorder.NewCountdown(pendingorder.CountdownProperty{
		Logger:     vm.logger,
		Clock:      vm.clock,
		ExpiryTime: order.ExpiryTime,
		OnExpire: func() {
			if err := vm.pendingOrderUseCase.ExpireOrder(ctx, orderID); err != nil {
				vm.logger.WithContext(ctx).WithField("order_id", orderID).WithError(err).Error("failed to expire the order")
			}
		},
	})
	vm.countdown = next
	vm.mu.Unlock()

	if current != nil {
		current.Stop()
	}
	next.Start()
}

func (vm *viewModel) reconcileLoop(ctx context.Context) {
	for {
		select {
		case <-vm.done:
			return
		case <-vm.reconcile.C:
			if err := vm.pendingOrderUseCase.ReconcileActiveOrder(ctx); err != nil {
				vm.logger.WithContext(ctx).WithError(err).Warn("background order reconciliation failed")
			}
		}
	}
}
