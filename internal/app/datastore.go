package app

import (
	"encoding/json"
	"sync"
)

// DataStore is the global last-write-wins key-value store shared by every
// connection regardless of room. Values are opaque JSON.
type DataStore struct {
	mu   sync.RWMutex
	data map[string]json.RawMessage
}

func NewDataStore() *DataStore {
	return &DataStore{data: make(map[string]json.RawMessage)}
}

func (s *DataStore) Get(key string) (json.RawMessage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok
}

func (s *DataStore) Set(key string, value json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
}
