package cache

import (
	"log"
	"sync"
	"time"

	"github.com/mirtech/salesdash-go/config"
)

// Entry is one cached payload with its expiry metadata. Entries are
// immutable once written; a refresh overwrites the whole entry, never
// patches it.
type Entry struct {
	Payload    any
	ComputedAt time.Time
	TTL        time.Duration
}

// Manager is a shared key-value cache accessed by concurrent requests.
// Read-then-write on a miss is deliberately not transactionally guarded:
// two concurrent misses for the same key may both compute and store the
// same value. Last write wins, which is safe because every payload is a
// pure function of the query descriptor and the dataset snapshot.
type Manager struct {
	entries map[string]*Entry
	mu      sync.RWMutex

	maxEntries int
}

// NewManager creates a new cache manager
func NewManager() *Manager {
	return &Manager{
		entries:    make(map[string]*Entry),
		maxEntries: config.MaxCacheEntries,
	}
}

// Get retrieves a payload from cache. Expired entries are treated as misses
// and removed lazily by the cleanup routine.
func (m *Manager) Get(key string) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, found := m.entries[key]
	if !found {
		return nil, false
	}
	if IsExpired(entry.ComputedAt, entry.TTL) {
		return nil, false
	}
	return entry.Payload, true
}

// Exists reports whether a live entry is present for the key.
func (m *Manager) Exists(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Set stores a payload under the key, overwriting any previous entry wholesale.
func (m *Manager) Set(key string, payload any, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.entries) >= m.maxEntries {
		if _, exists := m.entries[key]; !exists {
			log.Printf("WARNING: Maximum cache entries reached (%d/%d). Evicting oldest entry.",
				len(m.entries), m.maxEntries)
			m.evictOldestUnsafe()
		}
	}

	m.entries[key] = &Entry{
		Payload:    payload,
		ComputedAt: time.Now().UTC(),
		TTL:        ttl,
	}
}

// Invalidate removes a single entry.
func (m *Manager) Invalidate(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
}

// InvalidateAll clears the whole cache.
func (m *Manager) InvalidateAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]*Entry)
}

// Len returns the number of entries, including any not yet swept.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// evictOldestUnsafe removes the entry with the oldest ComputedAt.
// INTERNAL USE ONLY: assumes caller already holds m.mu.Lock()
func (m *Manager) evictOldestUnsafe() {
	var oldestKey string
	oldestTime := time.Now().UTC()

	for key, entry := range m.entries {
		if entry.ComputedAt.Before(oldestTime) {
			oldestTime = entry.ComputedAt
			oldestKey = key
		}
	}

	if oldestKey != "" {
		delete(m.entries, oldestKey)
	}
}

// cleanupExpiredEntries removes every expired entry in one sweep.
func cleanupExpiredEntries(m *Manager) {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for key, entry := range m.entries {
		if IsExpired(entry.ComputedAt, entry.TTL) {
			delete(m.entries, key)
			removed++
		}
	}
	if removed > 0 {
		log.Printf("Cache cleanup: removed %d expired entries, %d remaining", removed, len(m.entries))
	}
}

// StartCleanupRoutine starts a background goroutine that periodically sweeps
// expired entries so abandoned keys don't accumulate between requests.
func StartCleanupRoutine(m *Manager) {
	go func() {
		ticker := time.NewTicker(config.CleanupInterval)
		defer ticker.Stop()

		for range ticker.C {
			cleanupExpiredEntries(m)
		}
	}()
}
