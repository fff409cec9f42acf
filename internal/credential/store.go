// Package credential keeps the Lost Ark API key a user saved through the
// settings surface and decides which key authorizes the next request.
package credential

import (
	"context"
	"sync"
)

// StorageKey identifies the persisted API key. No other keys are stored.
const StorageKey = "lostark_api_key"

// Store persists a single credential value.
type Store interface {
	// Read returns the stored value, or "" when nothing is stored.
	Read(ctx context.Context) (string, error)
	// Write stores value, replacing any previous one. The value is not validated.
	Write(ctx context.Context, value string) error
	// Clear removes the stored value.
	Clear(ctx context.Context) error
}

// MemoryStore is a process-local Store. The server falls back to it when the
// durable database is unavailable.
type MemoryStore struct {
	mu    sync.RWMutex
	value string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Read(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value, nil
}

func (s *MemoryStore) Write(_ context.Context, value string) error {
	s.mu.Lock()
	s.value = value
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	s.value = ""
	s.mu.Unlock()
	return nil
}
