package cart

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ali25developer/Kartcis-sub000/internal/module/customerapp/eventapi"
	"github.com/ali25developer/Kartcis-sub000/pkg/errors"
	"github.com/ali25developer/Kartcis-sub000/pkg/localstorage"
	"github.com/ali25developer/Kartcis-sub000/pkg/status"
)

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

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return logger
}

func newCartUseCase(catalog map[string]eventapi.Event) CartUseCase {
	logger := quietLogger()

	return NewCartUseCase(CartUseCaseProperty{
		Logger:          logger,
		Timeout:         time.Second,
		Store:           NewStore(logger, localstorage.NewMemoryStorage()),
		EventRepository: &fakeEventCatalog{events: catalog},
	})
}

func festivalLine(quantity int64) Item {
	return Item{
		EventID:        "evt-1",
		EventTitle:     "Jazz di Kota Tua",
		TicketTypeID:   "tt-1",
		TicketTypeName: "Festival",
		Quantity:       quantity,
		UnitPrice:      175000,
	}
}

func TestCartUseCase_AddItem_MergesSameLine(t *testing.T) {
	uc := newCartUseCase(nil)
	ctx := context.Background()

	uc.AddItem(ctx, festivalLine(2))
	uc.AddItem(ctx, festivalLine(3))

	items := uc.GetItems(ctx)
	require.Len(t, items, 1)
	assert.Equal(t, int64(5), items[0].Quantity)
}

func TestCartUseCase_AddItem_CapsMergedQuantity(t *testing.T) {
	uc := newCartUseCase(nil)
	ctx := context.Background()

	uc.AddItem(ctx, festivalLine(8))
	uc.AddItem(ctx, festivalLine(7))

	items := uc.GetItems(ctx)
	require.Len(t, items, 1)
	assert.Equal(t, int64(MaxQuantityPerLine), items[0].Quantity)
}

func TestCartUseCase_AddItem_DifferentTicketTypesAreSeparateLines(t *testing.T) {
	uc := newCartUseCase(nil)
	ctx := context.Background()

	uc.AddItem(ctx, festivalLine(1))

	vip := festivalLine(1)
	vip.TicketTypeID = "tt-2"
	vip.TicketTypeName = "VIP"
	uc.AddItem(ctx, vip)

	assert.Len(t, uc.GetItems(ctx), 2)
}

func TestCartUseCase_UpdateQuantity(t *testing.T) {
	uc := newCartUseCase(nil)
	ctx := context.Background()

	uc.AddItem(ctx, festivalLine(2))

	uc.UpdateQuantity(ctx, "evt-1", "tt-1", 7)
	items := uc.GetItems(ctx)
	require.Len(t, items, 1)
	assert.Equal(t, int64(7), items[0].Quantity)

	// values above the cap clamp instead of erroring
	uc.UpdateQuantity(ctx, "evt-1", "tt-1", 99)
	assert.Equal(t, int64(MaxQuantityPerLine), uc.GetItems(ctx)[0].Quantity)

	// zero removes the line
	uc.UpdateQuantity(ctx, "evt-1", "tt-1", 0)
	assert.Empty(t, uc.GetItems(ctx))
}

func TestCartUseCase_GetSummary(t *testing.T) {
	uc := newCartUseCase(nil)
	ctx := context.Background()

	uc.AddItem(ctx, festivalLine(2))

	vip := festivalLine(1)
	vip.TicketTypeID = "tt-2"
	vip.UnitPrice = 500000
	uc.AddItem(ctx, vip)

	summary := uc.GetSummary(ctx)
	assert.Equal(t, int64(3), summary.ItemCount)
	assert.Equal(t, int64(2*175000+500000), summary.TotalAmount)
}

func TestCartUseCase_RestoreFromSnapshot(t *testing.T) {
	uc := newCartUseCase(map[string]eventapi.Event{
		"evt-1": {
			ID:     "evt-1",
			Title:  "Jazz di Kota Tua (Edisi Baru)",
			Status: eventapi.StatusPublished,
			TicketTypes: []eventapi.TicketType{
				{ID: "tt-1", Name: "Festival", Price: 200000, Available: 50},
			},
		},
		"evt-2": {
			ID:     "evt-2",
			Title:  "Konser Dibatalkan",
			Status: eventapi.StatusCancelled,
			TicketTypes: []eventapi.TicketType{
				{ID: "tt-5", Name: "Reguler", Price: 100000},
			},
		},
	})
	ctx := context.Background()

	snapshot := []Item{
		festivalLine(2),
		{EventID: "evt-2", TicketTypeID: "tt-5", Quantity: 1, UnitPrice: 100000},
		{EventID: "evt-404", TicketTypeID: "tt-9", Quantity: 1, UnitPrice: 100000},
	}

	restored, skipped := uc.RestoreFromSnapshot(ctx, snapshot)
	assert.Equal(t, 1, restored)
	assert.Equal(t, 2, skipped)

	items := uc.GetItems(ctx)
	require.Len(t, items, 1)

	// quantity comes from the snapshot, title and price from the catalog
	assert.Equal(t, int64(2), items[0].Quantity)
	assert.Equal(t, "Jazz di Kota Tua (Edisi Baru)", items[0].EventTitle)
	assert.Equal(t, int64(200000), items[0].UnitPrice)
}

func TestCartUseCase_RestoreFromSnapshot_SkipsDroppedTicketType(t *testing.T) {
	uc := newCartUseCase(map[string]eventapi.Event{
		"evt-1": {
			ID:     "evt-1",
			Status: eventapi.StatusPublished,
			TicketTypes: []eventapi.TicketType{
				{ID: "tt-2", Name: "VIP", Price: 500000},
			},
		},
	})
	ctx := context.Background()

	restored, skipped := uc.RestoreFromSnapshot(ctx, []Item{festivalLine(2)})
	assert.Zero(t, restored)
	assert.Equal(t, 1, skipped)
	assert.Empty(t, uc.GetItems(ctx))
}
