package pendingorder

import (
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ali25developer/Kartcis-sub000/pkg/clock"
	"github.com/ali25developer/Kartcis-sub000/pkg/localstorage"
)

const storageKey = "masup_pending_orders"

// Store is the persisted pending-order list. Every read filters out entries
// that are expired or no longer pending and writes the filtered set back, so
// the persisted state heals itself without a background process. Mutations
// notify subscribers; the self-healing filter does not.
type Store interface {
	GetAll() []PendingOrder
	GetByID(orderID string) (PendingOrder, bool)
	GetActive() (PendingOrder, bool)
	Add(order PendingOrder)
	UpdateStatus(orderID string, orderStatus Status)
	Remove(orderID string)
	Clear()
	Subscribe(fn func()) func()
}

type localStore struct {
	logger  *logrus.Logger
	storage localstorage.Storage
	clock   clock.Clock

	mu sync.Mutex

	subMu   sync.Mutex
	subs    map[int]func()
	nextSub int
}

func NewStore(logger *logrus.Logger, storage localstorage.Storage, clk clock.Clock) Store {
	return &localStore{
		logger:  logger,
		storage: storage,
		clock:   clk,
		subs:    make(map[int]func()),
	}
}

// GetAll implements Store.
func (s *localStore) GetAll() []PendingOrder {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.readValid()
}

// GetByID implements Store.
func (s *localStore) GetByID(orderID string) (PendingOrder, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range s.readValid() {
		if o.OrderID == orderID {
			return o, true
		}
	}

	return PendingOrder{}, false
}

// GetActive implements Store. With the single-active-order invariant the
// first still-valid entry is the session's order to resume.
func (s *localStore) GetActive() (PendingOrder, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders := s.readValid()
	if len(orders) == 0 {
		return PendingOrder{}, false
	}

	return orders[0], true
}

// Add implements Store. An entry with the same order id is replaced.
func (s *localStore) Add(order PendingOrder) {
	s.mu.Lock()

	orders := s.readRaw()
	replaced := false
	for k, o := range orders {
		if o.OrderID == order.OrderID {
			orders[k] = order
			replaced = true
			break
		}
	}
	if !replaced {
		orders = append(orders, order)
	}
	s.persist(orders)

	s.mu.Unlock()

	s.notify()
}

// UpdateStatus implements Store. Unknown order ids and transitions out of a
// terminal state are no-ops and emit no notification.
func (s *localStore) UpdateStatus(orderID string, orderStatus Status) {
	s.mu.Lock()

	orders := s.readRaw()
	updated := false
	for k, o := range orders {
		if o.OrderID != orderID {
			continue
		}
		if !CanTransition(o.Status, orderStatus) {
			break
		}
		orders[k].Status = orderStatus
		updated = true
		break
	}
	if updated {
		s.persist(orders)
	}

	s.mu.Unlock()

	if updated {
		s.notify()
	}
}

// Remove implements Store.
func (s *localStore) Remove(orderID string) {
	s.mu.Lock()

	orders := s.readRaw()
	remaining := make([]PendingOrder, 0, len(orders))
	for _, o := range orders {
		if o.OrderID == orderID {
			continue
		}
		remaining = append(remaining, o)
	}
	s.persist(remaining)

	s.mu.Unlock()

	s.notify()
}

// Clear implements Store.
func (s *localStore) Clear() {
	s.mu.Lock()
	if err := s.storage.RemoveItem(storageKey); err != nil {
		s.logger.WithError(err).Error("failed to clear pending orders")
	}
	s.mu.Unlock()

	s.notify()
}

// Subscribe implements Store. The returned function cancels the
// subscription; surfaces call it on unmount.
func (s *localStore) Subscribe(fn func()) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

// readRaw returns the persisted list as stored. Parse failures degrade to an
// empty store.
func (s *localStore) readRaw() []PendingOrder {
	raw, ok := s.storage.GetItem(storageKey)
	if !ok || raw == "" {
		return nil
	}

	var orders []PendingOrder
	if err := json.Unmarshal([]byte(raw), &orders); err != nil {
		s.logger.WithError(err).Warn("persisted pending orders are corrupted, treating as empty")
		return nil
	}

	return orders
}

// readValid applies lazy expiry: entries past their deadline or no longer
// pending are dropped, and the pruned set is written back when anything was
// dropped.
func (s *localStore) readValid() []PendingOrder {
	orders := s.readRaw()

	now := s.clock.Now()
	valid := make([]PendingOrder, 0, len(orders))
	for _, o := range orders {
		if o.IsActive(now) {
			valid = append(valid, o)
		}
	}

	if len(valid) != len(orders) {
		s.persist(valid)
	}

	return valid
}

func (s *localStore) persist(orders []PendingOrder) {
	buff, err := json.Marshal(orders)
	if err != nil {
		s.logger.WithError(err).Error("failed to serialize pending orders")
		return
	}

	if err := s.storage.SetItem(storageKey, string(buff)); err != nil {
		s.logger.WithError(err).Error("failed to persist pending orders")
	}
}

func (s *localStore) notify() {
	s.subMu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
