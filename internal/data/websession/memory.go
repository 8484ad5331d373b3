package websession

import (
	"context"
	"strings"
	"sync"
	"time"
)

type memoryEntry struct {
	rec       Record
	expiresAt time.Time
}

// MemoryStore is the single-process fallback used when Redis is absent.
type MemoryStore struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]memoryEntry
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{ttl: ttl, now: time.Now, entries: map[string]memoryEntry{}}
}

func (m *MemoryStore) Create(_ context.Context, rec Record) (string, error) {
	id := newID()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweepLocked()
	m.entries[id] = memoryEntry{rec: rec, expiresAt: m.now().Add(m.ttl)}
	return id, nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (Record, error) {
	id = strings.TrimSpace(id)
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	if !m.now().Before(e.expiresAt) {
		delete(m.entries, id)
		return Record{}, ErrNotFound
	}
	return e.rec, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.entries, strings.TrimSpace(id))
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) sweepLocked() {
	now := m.now()
	for id, e := range m.entries {
		if !now.Before(e.expiresAt) {
			delete(m.entries, id)
		}
	}
}
