package ticket

import (
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ali25developer/Kartcis-sub000/pkg/localstorage"
)

const storageKey = "kartcis_purchased_tickets"

// Store keeps the locally mirrored ticket collection. The server remains the
// authority; this is what "my tickets" renders offline.
type Store interface {
	GetAll() []PurchasedTicket
	GetByUserID(userID string) []PurchasedTicket
	GetByID(ticketID string) (PurchasedTicket, bool)
	AddMany(tickets []PurchasedTicket)
	UpdateStatus(ticketID string, ticketStatus string)
	Clear()
}

type localStore struct {
	logger  *logrus.Logger
	storage localstorage.Storage

	mu sync.Mutex
}

func NewStore(logger *logrus.Logger, storage localstorage.Storage) Store {
	return &localStore{
		logger:  logger,
		storage: storage,
	}
}

// GetAll implements Store.
func (s *localStore) GetAll() []PurchasedTicket {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.read()
}

// GetByUserID implements Store.
func (s *localStore) GetByUserID(userID string) []PurchasedTicket {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []PurchasedTicket
	for _, t := range s.read() {
		if t.UserID == userID {
			matched = append(matched, t)
		}
	}

	return matched
}

// GetByID implements Store.
func (s *localStore) GetByID(ticketID string) (PurchasedTicket, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.read() {
		if t.ID == ticketID {
			return t, true
		}
	}

	return PurchasedTicket{}, false
}

// AddMany implements Store.
func (s *localStore) AddMany(tickets []PurchasedTicket) {
	if len(tickets) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.persist(append(s.read(), tickets...))
}

// UpdateStatus implements Store.
func (s *localStore) UpdateStatus(ticketID string, ticketStatus string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tickets := s.read()
	for k, t := range tickets {
		if t.ID == ticketID {
			tickets[k].Status = ticketStatus
			s.persist(tickets)
			return
		}
	}
}

// Clear implements Store.
func (s *localStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.RemoveItem(storageKey); err != nil {
		s.logger.WithError(err).Error("failed to clear purchased tickets")
	}
}

func (s *localStore) read() []PurchasedTicket {
	raw, ok := s.storage.GetItem(storageKey)
	if !ok || raw == "" {
		return nil
	}

	var tickets []PurchasedTicket
	if err := json.Unmarshal([]byte(raw), &tickets); err != nil {
		s.logger.WithError(err).Warn("persisted tickets are corrupted, treating as empty")
		return nil
	}

	return tickets
}

func (s *localStore) persist(tickets []PurchasedTicket) {
	buff, err := json.Marshal(tickets)
	if err != nil {
		s.logger.WithError(err).Error("failed to serialize purchased tickets")
		return
	}

	if err := s.storage.SetItem(storageKey, string(buff)); err != nil {
		s.logger.WithError(err).Error("failed to persist purchased tickets")
	}
}
