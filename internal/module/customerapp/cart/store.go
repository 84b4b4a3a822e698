package cart

import (
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ali25developer/Kartcis-sub000/pkg/localstorage"
)

const storageKey = "masup_cart"

// Store is the persisted cart line collection. Reads always go through the
// serialized representation; corrupted data degrades to an empty cart.
type Store interface {
	Items() []Item
	Save(items []Item)
	Clear()
	Subscribe(fn func()) func()
}

type localStore struct {
	logger  *logrus.Logger
	storage localstorage.Storage

	mu sync.Mutex

	subMu   sync.Mutex
	subs    map[int]func()
	nextSub int
}

func NewStore(logger *logrus.Logger, storage localstorage.Storage) Store {
	return &localStore{
		logger:  logger,
		storage: storage,
		subs:    make(map[int]func()),
	}
}

// Items implements Store.
func (s *localStore) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.read()
}

// Save implements Store.
func (s *localStore) Save(items []Item) {
	s.mu.Lock()
	s.persist(items)
	s.mu.Unlock()

	s.notify()
}

// Clear implements Store.
func (s *localStore) Clear() {
	s.mu.Lock()
	if err := s.storage.RemoveItem(storageKey); err != nil {
		s.logger.WithError(err).Error("failed to clear the cart")
	}
	s.mu.Unlock()

	s.notify()
}

// Subscribe implements Store. The returned function cancels the
// subscription.
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

func (s *localStore) read() []Item {
	raw, ok := s.storage.GetItem(storageKey)
	if !ok || raw == "" {
		return nil
	}

	var items []Item
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.logger.WithError(err).Warn("persisted cart is corrupted, treating as empty")
		return nil
	}

	return items
}

func (s *localStore) persist(items []Item) {
	buff, err := json.Marshal(items)
	if err != nil {
		s.logger.WithError(err).Error("failed to serialize the cart")
		return
	}

	if err := s.storage.SetItem(storageKey, string(buff)); err != nil {
		s.logger.WithError(err).Error("failed to persist the cart")
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
