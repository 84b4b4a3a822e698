package localstorage

import "sync"

type memoryStorage struct {
	mu    sync.Mutex
	items map[string]string
}

// NewMemoryStorage returns a non-durable storage, used by tests and as a
// fallback when no state directory is configured.
func NewMemoryStorage() Storage {
	return &memoryStorage{
		items: make(map[string]string),
	}
}

func (s *memoryStorage) GetItem(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.items[key]
	return v, ok
}

func (s *memoryStorage) SetItem(key string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[key] = value
	return nil
}

func (s *memoryStorage) RemoveItem(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, key)
	return nil
}
