package session

import (
	"context"
	"maps"
	"sync"
)

// Entry is a single key-value pair.
type Entry struct {
	Key   string
	Value string
}

// Store is a string key-value store.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error) // Get returns the value and whether the key exists
	Set(ctx context.Context, key, value string) error          // Set creates or replaces the value for key
}

// BatchStore is implemented by stores that can write several entries atomically.
type BatchStore interface {
	SetAll(ctx context.Context, entries []Entry) error
}

var (
	_ Store      = (*MemoryStore)(nil)
	_ BatchStore = (*MemoryStore)(nil)
)

// MemoryStore is an in-memory [Store].
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewMemoryStore creates a [MemoryStore], optionally seeded with entries.
func NewMemoryStore(seed map[string]string) *MemoryStore {
	entries := make(map[string]string, len(seed))
	maps.Copy(entries, seed)
	return &MemoryStore{entries: entries}
}

func (s *MemoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.entries[key]
	return v, ok, nil
}

func (s *MemoryStore) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
	return nil
}

func (s *MemoryStore) SetAll(ctx context.Context, entries []Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		s.entries[e.Key] = e.Value
	}
	return nil
}

// Snapshot returns a copy of every stored entry.
func (s *MemoryStore) Snapshot() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.entries)
}
