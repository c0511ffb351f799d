package cache

import (
	"context"
	"sync"
	"time"
)

// sweepEvery is how many writes pass between scans for expired entries.
const sweepEvery = 256

type memoryEntry struct {
	value   string
	expires time.Time // zero means no expiry
}

// MemoryCache is an in-process Cache, used when no Redis address is configured.
type MemoryCache struct {
	mu   sync.Mutex
	data map[string]memoryEntry
	now  func() time.Time

	writes int
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		data: make(map[string]memoryEntry),
		now:  time.Now,
	}
}

func (m *MemoryCache) Get(_ context.Context, key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.data[key]
	if !ok {
		return "", false
	}
	if !e.expires.IsZero() && !m.now().Before(e.expires) {
		delete(m.data, key)
		return "", false
	}
	return e.value, true
}

func (m *MemoryCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.writes++
	if m.writes%sweepEvery == 0 {
		m.sweep(now)
	}

	e := memoryEntry{value: value}
	if ttl > 0 {
		e.expires = now.Add(ttl)
	}
	m.data[key] = e
	return nil
}

// sweep drops every entry expired at now. Projection keys embed the request date and
// inputs, so most are never read again and would otherwise stay forever.
func (m *MemoryCache) sweep(now time.Time) {
	for k, e := range m.data {
		if !e.expires.IsZero() && !now.Before(e.expires) {
			delete(m.data, k)
		}
	}
}

// Len reports the number of stored entries. Expired entries count until the next sweep
// or until they are read.
func (m *MemoryCache) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}
