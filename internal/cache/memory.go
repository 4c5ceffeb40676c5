package cache

import (
	"context"
	"sync"
	"time"

	"cookiespots_backend/internal/venues"
)

type memoryEntry struct {
	value    []venues.Candidate
	expireAt time.Time
}

// Memory is an in-process TTL cache backed by a map. Expiry is passive:
// expired entries are dropped when read, and swept opportunistically on write.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
	writes  int
}

// sweepEvery controls how often Set scans for expired entries.
const sweepEvery = 256

// NewMemory creates an empty in-memory cache.
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// NewMemoryWithClock creates a cache with an injectable clock for tests.
func NewMemoryWithClock(now func() time.Time) *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		now:     now,
	}
}

// Get implements Cache.
func (m *Memory) Get(_ context.Context, key string) ([]venues.Candidate, bool, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}

	if m.now().After(entry.expireAt) {
		m.mu.Lock()
		// Recheck under the write lock: a concurrent Set may have refreshed it.
		if current, still := m.entries[key]; still && m.now().After(current.expireAt) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return nil, false, nil
	}

	return entry.value, true, nil
}

// Set implements Cache.
func (m *Memory) Set(_ context.Context, key string, value []venues.Candidate, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = memoryEntry{
		value:    value,
		expireAt: m.now().Add(ttl),
	}

	m.writes++
	if m.writes%sweepEvery == 0 {
		m.sweepLocked()
	}

	return nil
}

// FlushAll implements Cache.
func (m *Memory) FlushAll(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]memoryEntry)
	return nil
}

// Len reports the number of live entries, counting not-yet-swept expired ones.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *Memory) sweepLocked() {
	now := m.now()
	for key, entry := range m.entries {
		if now.After(entry.expireAt) {
			delete(m.entries, key)
		}
	}
}
