package cache

import (
	"context"
	"sync"
)

// MemoryStore is the default single-process backend. Entries live until the
// next Clear; the configured TTL is not swept here since every mutation
// clears the cache anyway.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string][]byte)}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.entries[key]
	return b, ok
}

func (s *MemoryStore) Set(_ context.Context, key string, val []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = val
}

func (s *MemoryStore) Clear(_ context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string][]byte)
}
