package pendingorder

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ali25developer/Kartcis-sub000/internal/module/customerapp/cart"
	"github.com/ali25developer/Kartcis-sub000/internal/module/customerapp/eventapi"
	"github.com/ali25developer/Kartcis-sub000/internal/module/customerapp/orderapi"
	"github.com/ali25developer/Kartcis-sub000/internal/module/customerapp/ticket"
	"github.com/ali25developer/Kartcis-sub000/internal/pkg/session"
	"github.com/ali25developer/Kartcis-sub000/pkg/errors"
	"github.com/ali25developer/Kartcis-sub000/pkg/localstorage"
	"github.com/ali25developer/Kartcis-sub000/pkg/status"
)

type fakeOrderAPI struct {
	createFn func(ctx context.Context, req orderapi.CreateOrderRequest) (orderapi.Order, error)
	findFn   func(ctx context.Context, orderNumber string) (orderapi.Order, error)
	cancelFn func(ctx context.Context, orderNumber string) error
}

func (f *fakeOrderAPI) Create(ctx context.Context, req orderapi.CreateOrderRequest) (orderapi.Order, error) {
	return f.createFn(ctx, req)
}

func (f *fakeOrderAPI) FindByOrderNumber(ctx context.Context, orderNumber string) (orderapi.Order, error) {
	return f.findFn(ctx, orderNumber)
}

func (f *fakeOrderAPI) Cancel(ctx context.Context, orderNumber string) error {
	return f.cancelFn(ctx, orderNumber)
}

type fakeSession struct {
	account session.Account
	signed  bool
}

func (f *fakeSession) Token() (string, bool) {
	if !f.signed {
		return "", false
	}

	return "token", true
}

func (f *fakeSession) Account() (session.Account, bool) {
	return f.account, f.signed
}

type fakeEventCatalog struct {
	events map[string]eventapi.Event
}

func (f *fakeEventCatalog) FindByID(ctx context.Context, id string) (eventapi.Event, error) {
	e, ok := f.events[id]
	if !ok {
		return eventapi.Event{}, errors.New(http.StatusNotFound, status.NOT_FOUND, "event is not found")
	}

	return e, nil
}

type useCaseFixture struct {
	clock       *fakeClock
	store       Store
	cartUseCase cart.CartUseCase
	ticketStore ticket.Store
	session     *fakeSession
	orderAPI    *fakeOrderAPI
	useCase     PendingOrderUseCase
}

func newUseCaseFixture(t *testing.T) *useCaseFixture {
	t.Helper()

	logger := quietLogger()
	clk := newFakeClock(time.Now())
	storage := localstorage.NewMemoryStorage()

	sessionStore := &fakeSession{
		account: session.Account{ID: "usr-1", Name: "Budi", Email: "budi@example.com"},
		signed:  true,
	}
	orderAPI := &fakeOrderAPI{
		createFn: func(ctx context.Context, req orderapi.CreateOrderRequest) (orderapi.Order, error) {
			return orderapi.Order{}, errors.New(http.StatusBadGateway, status.INTERNAL_SERVER_ERROR, "unexpected call")
		},
		findFn: func(ctx context.Context, orderNumber string) (orderapi.Order, error) {
			return orderapi.Order{}, errors.New(http.StatusBadGateway, status.INTERNAL_SERVER_ERROR, "unexpected call")
		},
		cancelFn: func(ctx context.Context, orderNumber string) error {
			return errors.New(http.StatusBadGateway, status.INTERNAL_SERVER_ERROR, "unexpected call")
		},
	}

	store := NewStore(logger, storage, clk)
	cartUseCase := cart.NewCartUseCase(cart.CartUseCaseProperty{
		Logger:  logger,
		Timeout: time.Second,
		Store:   cart.NewStore(logger, storage),
		EventRepository: &fakeEventCatalog{events: map[string]eventapi.Event{
			"evt-1": {
				ID:     "evt-1",
				Title:  "Jazz di Kota Tua",
				Status: eventapi.StatusPublished,
				TicketTypes: []eventapi.TicketType{
					{ID: "tt-1", Name: "Festival", Price: 175000, Available: 100},
				},
			},
		}},
	})
	ticketStore := ticket.NewStore(logger, storage)

	useCase := NewPendingOrderUseCase(PendingOrderUseCaseProperty{
		Logger:              logger,
		Timeout:             time.Second,
		OrderExpireDuration: 24 * time.Hour,
		Clock:               clk,
		Store:               store,
		CartUseCase:         cartUseCase,
		TicketStore:         ticketStore,
		Session:             sessionStore,
		OrderAPIRepository:  orderAPI,
	})

	return &useCaseFixture{
		clock:       clk,
		store:       store,
		cartUseCase: cartUseCase,
		ticketStore: ticketStore,
		session:     sessionStore,
		orderAPI:    orderAPI,
		useCase:     useCase,
	}
}

func checkoutRequest() CheckoutRequest {
	return CheckoutRequest{
		Items: []CheckoutItemRequest{
			{
				EventID:      "evt-1",
				EventTitle:   "Jazz di Kota Tua",
				TicketTypeID: "tt-1",
				TicketType:   "Festival",
				Quantity:     2,
				UnitPrice:    175000,
			},
		},
		PaymentMethod: "BCA Virtual Account",
		CustomerName:  "Budi",
		CustomerEmail: "budi@example.com",
		CustomerPhone: "0812",
	}
}

func TestPendingOrderUseCase_Checkout_ServerFailureLeavesNoLocalState(t *testing.T) {
	f := newUseCaseFixture(t)

	f.orderAPI.createFn = func(ctx context.Context, req orderapi.CreateOrderRequest) (orderapi.Order, error) {
		return orderapi.Order{}, errors.New(http.StatusConflict, status.CONFLICT, "insufficient ticket stock")
	}

	_, err := f.useCase.Checkout(context.Background(), checkoutRequest())
	require.Error(t, err)

	assert.Empty(t, f.store.GetAll())
}

func TestPendingOrderUseCase_Checkout_PersistsServerConfirmedOrder(t *testing.T) {
	f := newUseCaseFixture(t)

	expiresAt := f.clock.Now().Add(24 * time.Hour)
	f.orderAPI.createFn = func(ctx context.Context, req orderapi.CreateOrderRequest) (orderapi.Order, error) {
		require.Len(t, req.Items, 1)
		assert.Equal(t, int64(2), req.Items[0].Quantity)

		return orderapi.Order{
			OrderNumber:   "ORD-1001",
			Status:        orderapi.StatusPending,
			PaymentMethod: req.PaymentMethod,
			PaymentDetails: orderapi.PaymentDetails{
				VANumber: "8808123456",
			},
			TotalAmount: 350000,
			ExpiresAt:   expiresAt.Format(time.RFC3339),
		}, nil
	}

	resp, err := f.useCase.Checkout(context.Background(), checkoutRequest())
	require.NoError(t, err)

	assert.Equal(t, "ORD-1001", resp.OrderID)
	assert.Equal(t, StatusPending, resp.Status)
	assert.Equal(t, PaymentTypeVA, resp.PaymentType)
	assert.Equal(t, "8808123456", resp.VirtualAccountNumber)
	assert.InDelta(t, 24*60*60, resp.TimeLeft, 2)

	// server response carried no line items, the snapshot falls back to the
	// request lines
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Jazz di Kota Tua", resp.Items[0].EventTitle)

	active, ok := f.store.GetActive()
	require.True(t, ok)
	assert.Equal(t, "ORD-1001", active.OrderID)
}

func TestPendingOrderUseCase_Checkout_MissingDeadlineUsesConfiguredWindow(t *testing.T) {
	f := newUseCaseFixture(t)

	f.orderAPI.createFn = func(ctx context.Context, req orderapi.CreateOrderRequest) (orderapi.Order, error) {
		return orderapi.Order{
			OrderNumber: "ORD-1002",
			Status:      orderapi.StatusPending,
			TotalAmount: 350000,
		}, nil
	}

	resp, err := f.useCase.Checkout(context.Background(), checkoutRequest())
	require.NoError(t, err)

	expected := f.clock.Now().Add(24 * time.Hour).UnixMilli()
	assert.Equal(t, expected, resp.ExpiryTime)
}

func TestPendingOrderUseCase_ConfirmPayment_PaidFinalizesOrder(t *testing.T) {
	f := newUseCaseFixture(t)

	f.cartUseCase.AddItem(context.Background(), cart.Item{
		EventID: "evt-1", TicketTypeID: "tt-1", Quantity: 2, UnitPrice: 175000,
	})
	f.store.Add(testOrder("ORD-1001", f.clock.Now().Add(time.Hour)))

	f.orderAPI.findFn = func(ctx context.Context, orderNumber string) (orderapi.Order, error) {
		return orderapi.Order{OrderNumber: orderNumber, Status: orderapi.StatusPaid}, nil
	}

	resp, err := f.useCase.ConfirmPayment(context.Background(), "ORD-1001")
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, resp.Status)

	// one ticket per purchased unit joins the signed-in buyer's collection
	tickets := f.ticketStore.GetByUserID("usr-1")
	require.Len(t, tickets, 2)
	assert.Equal(t, "ORD-1001", tickets[0].OrderID)
	assert.Equal(t, ticket.StatusActive, tickets[0].Status)
	assert.NotEqual(t, tickets[0].TicketCode, tickets[1].TicketCode)

	assert.Empty(t, f.cartUseCase.GetItems(context.Background()))
	assert.Empty(t, f.store.GetAll())
}

func TestPendingOrderUseCase_ConfirmPayment_NoTicketsWithoutSession(t *testing.T) {
	f := newUseCaseFixture(t)
	f.session.signed = false

	f.store.Add(testOrder("ORD-1001", f.clock.Now().Add(time.Hour)))
	f.orderAPI.findFn = func(ctx context.Context, orderNumber string) (orderapi.Order, error) {
		return orderapi.Order{OrderNumber: orderNumber, Status: orderapi.StatusPaid}, nil
	}

	_, err := f.useCase.ConfirmPayment(context.Background(), "ORD-1001")
	require.NoError(t, err)

	assert.Empty(t, f.ticketStore.GetAll())
	assert.Empty(t, f.store.GetAll())
}

func TestPendingOrderUseCase_ConfirmPayment_StillPending(t *testing.T) {
	f := newUseCaseFixture(t)

	f.store.Add(testOrder("ORD-1001", f.clock.Now().Add(time.Hour)))
	f.orderAPI.findFn = func(ctx context.Context, orderNumber string) (orderapi.Order, error) {
		return orderapi.Order{OrderNumber: orderNumber, Status: orderapi.StatusPending}, nil
	}

	_, err := f.useCase.ConfirmPayment(context.Background(), "ORD-1001")
	require.Error(t, err)

	appErr := errors.Destruct(err)
	assert.Equal(t, http.StatusConflict, appErr.HTTPStatusCode)
	assert.Equal(t, status.PAYMENT_NOT_RECEIVED, appErr.Status)

	// the order keeps waiting
	_, ok := f.store.GetActive()
	assert.True(t, ok)
}

func TestPendingOrderUseCase_ConfirmPayment_ExpiredWhileProcessing(t *testing.T) {
	f := newUseCaseFixture(t)

	f.store.Add(testOrder("ORD-1001", f.clock.Now().Add(time.Hour)))
	f.orderAPI.findFn = func(ctx context.Context, orderNumber string) (orderapi.Order, error) {
		// the deadline passes while the confirmation round trip is running
		f.clock.Advance(2 * time.Hour)
		return orderapi.Order{OrderNumber: orderNumber, Status: orderapi.StatusPending}, nil
	}

	_, err := f.useCase.ConfirmPayment(context.Background(), "ORD-1001")
	require.Error(t, err)

	appErr := errors.Destruct(err)
	assert.Equal(t, status.ORDER_EXPIRED, appErr.Status)
	assert.Contains(t, appErr.Message, "expired while processing")

	assert.Empty(t, f.store.GetAll())
}

func TestPendingOrderUseCase_ConfirmPayment_ServerSaysExpired(t *testing.T) {
	f := newUseCaseFixture(t)

	f.store.Add(testOrder("ORD-1001", f.clock.Now().Add(time.Hour)))
	f.orderAPI.findFn = func(ctx context.Context, orderNumber string) (orderapi.Order, error) {
		return orderapi.Order{OrderNumber: orderNumber, Status: orderapi.StatusExpired}, nil
	}

	_, err := f.useCase.ConfirmPayment(context.Background(), "ORD-1001")
	require.Error(t, err)
	assert.Equal(t, status.ORDER_EXPIRED, errors.Destruct(err).Status)

	assert.Empty(t, f.store.GetAll())
}

func TestPendingOrderUseCase_ConfirmPayment_UnknownOrder(t *testing.T) {
	f := newUseCaseFixture(t)

	_, err := f.useCase.ConfirmPayment(context.Background(), "ORD-404")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, errors.Destruct(err).HTTPStatusCode)
}

func TestPendingOrderUseCase_ExpireOrder_SkippedWhileConfirmationInFlight(t *testing.T) {
	f := newUseCaseFixture(t)

	f.store.Add(testOrder("ORD-1001", f.clock.Now().Add(time.Hour)))

	started := make(chan struct{})
	release := make(chan struct{})
	f.orderAPI.findFn = func(ctx context.Context, orderNumber string) (orderapi.Order, error) {
		close(started)
		<-release
		return orderapi.Order{OrderNumber: orderNumber, Status: orderapi.StatusPaid}, nil
	}

	confirmed := make(chan error, 1)
	go func() {
		_, err := f.useCase.ConfirmPayment(context.Background(), "ORD-1001")
		confirmed <- err
	}()

	<-started

	// the countdown fires while the confirmation round trip is still
	// running; the server-verified paid result must win
	require.NoError(t, f.useCase.ExpireOrder(context.Background(), "ORD-1001"))

	order, ok := f.store.GetByID("ORD-1001")
	require.True(t, ok)
	assert.Equal(t, StatusPending, order.Status)

	close(release)
	require.NoError(t, <-confirmed)

	assert.Len(t, f.ticketStore.GetByUserID("usr-1"), 2)
	assert.Empty(t, f.store.GetAll())
}

func TestPendingOrderUseCase_ExpireOrder_Idempotent(t *testing.T) {
	f := newUseCaseFixture(t)

	f.store.Add(testOrder("ORD-1001", f.clock.Now().Add(time.Hour)))

	require.NoError(t, f.useCase.ExpireOrder(context.Background(), "ORD-1001"))
	require.NoError(t, f.useCase.ExpireOrder(context.Background(), "ORD-1001"))

	assert.Empty(t, f.store.GetAll())
}

func TestPendingOrderUseCase_CancelOrder_KeepsCart(t *testing.T) {
	f := newUseCaseFixture(t)

	f.cartUseCase.AddItem(context.Background(), cart.Item{
		EventID: "evt-1", TicketTypeID: "tt-1", Quantity: 2, UnitPrice: 175000,
	})
	f.store.Add(testOrder("ORD-1001", f.clock.Now().Add(time.Hour)))

	f.orderAPI.cancelFn = func(ctx context.Context, orderNumber string) error {
		assert.Equal(t, "ORD-1001", orderNumber)
		return nil
	}

	require.NoError(t, f.useCase.CancelOrder(context.Background(), "ORD-1001"))

	assert.Empty(t, f.store.GetAll())
	assert.Len(t, f.cartUseCase.GetItems(context.Background()), 1)
}

func TestPendingOrderUseCase_CancelOrder_ServerFailureKeepsOrder(t *testing.T) {
	f := newUseCaseFixture(t)

	f.store.Add(testOrder("ORD-1001", f.clock.Now().Add(time.Hour)))
	f.orderAPI.cancelFn = func(ctx context.Context, orderNumber string) error {
		return errors.New(http.StatusBadGateway, status.INTERNAL_SERVER_ERROR, "order service is unreachable")
	}

	require.Error(t, f.useCase.CancelOrder(context.Background(), "ORD-1001"))

	_, ok := f.store.GetActive()
	assert.True(t, ok)
}

func TestPendingOrderUseCase_ChangePaymentMethod_RestoresEmptyCart(t *testing.T) {
	f := newUseCaseFixture(t)

	order := testOrder("ORD-1001", f.clock.Now().Add(time.Hour))
	order.Items = append(order.Items, LineItem{
		EventID:      "evt-gone",
		EventTitle:   "Konser yang Dibatalkan",
		TicketTypeID: "tt-9",
		TicketType:   "VIP",
		Quantity:     1,
		UnitPrice:    500000,
	})
	f.store.Add(order)

	resp, err := f.useCase.ChangePaymentMethod(context.Background(), "ORD-1001")
	require.NoError(t, err)

	assert.Equal(t, 1, resp.RestoredItems)
	assert.Equal(t, 1, resp.SkippedItems)

	items := f.cartUseCase.GetItems(context.Background())
	require.Len(t, items, 1)
	assert.Equal(t, "evt-1", items[0].EventID)
	assert.Equal(t, int64(2), items[0].Quantity)

	// the pending order itself stays until cancelled or replaced
	_, ok := f.store.GetActive()
	assert.True(t, ok)
}

func TestPendingOrderUseCase_ChangePaymentMethod_NonEmptyCartIsLeftAlone(t *testing.T) {
	f := newUseCaseFixture(t)

	f.cartUseCase.AddItem(context.Background(), cart.Item{
		EventID: "evt-1", TicketTypeID: "tt-1", Quantity: 1, UnitPrice: 175000,
	})
	f.store.Add(testOrder("ORD-1001", f.clock.Now().Add(time.Hour)))

	resp, err := f.useCase.ChangePaymentMethod(context.Background(), "ORD-1001")
	require.NoError(t, err)

	assert.Zero(t, resp.RestoredItems)
	assert.Zero(t, resp.SkippedItems)
	assert.Len(t, f.cartUseCase.GetItems(context.Background()), 1)
}

func TestPendingOrderUseCase_GetOrder_RehydratesPendingFromServer(t *testing.T) {
	f := newUseCaseFixture(t)

	expiresAt := f.clock.Now().Add(12 * time.Hour)
	f.orderAPI.findFn = func(ctx context.Context, orderNumber string) (orderapi.Order, error) {
		return orderapi.Order{
			OrderNumber: orderNumber,
			Status:      orderapi.StatusPending,
			TotalAmount: 350000,
			ExpiresAt:   expiresAt.Format(time.RFC3339),
		}, nil
	}

	resp, err := f.useCase.GetOrder(context.Background(), "ORD-1001")
	require.NoError(t, err)
	assert.Equal(t, StatusPending, resp.Status)

	// the order is back in the store, so the banner reappears after a
	// fresh start
	active, ok := f.store.GetActive()
	require.True(t, ok)
	assert.Equal(t, "ORD-1001", active.OrderID)
}

func TestPendingOrderUseCase_GetOrder_TerminalServerStateIsNotRehydrated(t *testing.T) {
	f := newUseCaseFixture(t)

	f.orderAPI.findFn = func(ctx context.Context, orderNumber string) (orderapi.Order, error) {
		return orderapi.Order{OrderNumber: orderNumber, Status: orderapi.StatusCancelled}, nil
	}

	resp, err := f.useCase.GetOrder(context.Background(), "ORD-1001")
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, resp.Status)

	assert.Empty(t, f.store.GetAll())
}

func TestPendingOrderUseCase_ReconcileActiveOrder(t *testing.T) {
	f := newUseCaseFixture(t)

	// nothing active, nothing to do
	require.NoError(t, f.useCase.ReconcileActiveOrder(context.Background()))

	f.store.Add(testOrder("ORD-1001", f.clock.Now().Add(time.Hour)))

	f.orderAPI.findFn = func(ctx context.Context, orderNumber string) (orderapi.Order, error) {
		return orderapi.Order{OrderNumber: orderNumber, Status: orderapi.StatusPending}, nil
	}
	require.NoError(t, f.useCase.ReconcileActiveOrder(context.Background()))
	_, ok := f.store.GetActive()
	assert.True(t, ok)

	f.orderAPI.findFn = func(ctx context.Context, orderNumber string) (orderapi.Order, error) {
		return orderapi.Order{OrderNumber: orderNumber, Status: orderapi.StatusCancelled}, nil
	}
	require.NoError(t, f.useCase.ReconcileActiveOrder(context.Background()))
	_, ok = f.store.GetActive()
	assert.False(t, ok)
}

func TestPendingOrderUseCase_ReconcileActiveOrder_PaidFinalizes(t *testing.T) {
	f := newUseCaseFixture(t)

	f.store.Add(testOrder("ORD-1001", f.clock.Now().Add(time.Hour)))
	f.orderAPI.findFn = func(ctx context.Context, orderNumber string) (orderapi.Order, error) {
		return orderapi.Order{OrderNumber: orderNumber, Status: orderapi.StatusPaid}, nil
	}

	require.NoError(t, f.useCase.ReconcileActiveOrder(context.Background()))

	assert.Len(t, f.ticketStore.GetByUserID("usr-1"), 2)
	assert.Empty(t, f.store.GetAll())
}

func TestPendingOrderUseCase_ReconcileActiveOrder_SwallowsLookupFailure(t *testing.T) {
	f := newUseCaseFixture(t)

	f.store.Add(testOrder("ORD-1001", f.clock.Now().Add(time.Hour)))
	f.orderAPI.findFn = func(ctx context.Context, orderNumber string) (orderapi.Order, error) {
		return orderapi.Order{}, errors.New(http.StatusBadGateway, status.INTERNAL_SERVER_ERROR, "order service is unreachable")
	}

	require.NoError(t, f.useCase.ReconcileActiveOrder(context.Background()))

	_, ok := f.store.GetActive()
	assert.True(t, ok)
}
