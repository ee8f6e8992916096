// Package memory stores snapshot objects in-memory for tests and
// development.
package memory

import (
	"context"
	"sync"
)

// Store keeps objects in a mutex-guarded map.
type Store struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{data: make(map[string][]byte)}
}

// Save copies the content into the map, overwriting any prior object.
func (s *Store) Save(_ context.Context, objectName string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[objectName] = append([]byte(nil), data...)
	return nil
}

// Get returns a stored object and whether it exists.
func (s *Store) Get(objectName string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.data[objectName]
	return data, ok
}

// Len reports how many objects have been stored.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Objects returns a snapshot copy of the stored map.
func (s *Store) Objects() map[string][]byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string][]byte, len(s.data))
	for name, data := range s.data {
		out[name] = append([]byte(nil), data...)
	}
	return out
}
