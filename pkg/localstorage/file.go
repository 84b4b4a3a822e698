package localstorage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
)

// fileStorage persists the whole key space as a single JSON document on disk.
// The file is loaded once on open; a corrupted file degrades to an empty
// store. Writes rewrite the full document through a temp file rename.
type fileStorage struct {
	logger *logrus.Logger
	path   string

	mu    sync.Mutex
	items map[string]string
}

func NewFileStorage(logger *logrus.Logger, path string) Storage {
	s := &fileStorage{
		logger: logger,
		path:   path,
		items:  make(map[string]string),
	}

	buff, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.WithField("path", path).WithError(err).Warn("local storage file is unreadable, starting empty")
		}
		return s
	}

	if err := json.Unmarshal(buff, &s.items); err != nil {
		logger.WithField("path", path).WithError(err).Warn("local storage file is corrupted, starting empty")
		s.items = make(map[string]string)
	}

	return s
}

func (s *fileStorage) GetItem(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.items[key]
	return v, ok
}

func (s *fileStorage) SetItem(key string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[key] = value
	return s.flush()
}

func (s *fileStorage) RemoveItem(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, key)
	return s.flush()
}

func (s *fileStorage) flush() error {
	buff, err := json.Marshal(s.items)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, buff, 0o644); err != nil {
		return err
	}

	return os.Rename(tmp, s.path)
}
