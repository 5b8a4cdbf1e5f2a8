package session

import (
	"context"
	"maps"
	"sync"
	"time"
)

// MemoryStore keeps sessions in process memory.
// Sessions are lost on restart; use it for development and tests.
type MemoryStore struct {
	items map[string]Session
	mu    sync.RWMutex
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]Session)}
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.RLock()
	item, ok := m.items[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	if item.IsExpired() {
		_ = m.Delete(context.Background(), id)
		return nil, ErrExpired
	}

	item.Values = maps.Clone(item.Values)
	return &item, nil
}

func (m *MemoryStore) Save(_ context.Context, s *Session, ttl time.Duration) error {
	item := *s
	item.Values = maps.Clone(s.Values)
	if ttl > 0 {
		item.ExpiresAt = time.Now().Add(ttl)
	}
	item.dirty, item.isNew = false, false

	m.mu.Lock()
	m.items[s.ID] = item
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.items, id)
	m.mu.Unlock()
	return nil
}

// Len returns the number of stored sessions.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}
