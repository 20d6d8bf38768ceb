package cache

import (
	"sync"
	"time"
)

// DefaultTTL is the freshness window for catalog responses.
const DefaultTTL = 5 * time.Minute

type entry[T any] struct {
	value     T
	fetchedAt time.Time
}

// TTL is an in-memory cache whose entries are fresh while younger than the
// TTL. Stale entries behave as absent and are replaced on the next Set.
// There is no size bound.
type TTL[T any] struct {
	mu      sync.RWMutex
	entries map[string]entry[T]
	ttl     time.Duration
	now     func() time.Time
}

// NewTTL creates a cache with the given freshness window (DefaultTTL if <= 0).
func NewTTL[T any](ttl time.Duration) *TTL[T] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &TTL[T]{
		entries: make(map[string]entry[T]),
		ttl:     ttl,
		now:     time.Now,
	}
}

// WithClock replaces the time source. Used by tests.
func (c *TTL[T]) WithClock(now func() time.Time) *TTL[T] {
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
	return c
}

// Get returns the value for key if present and fresh.
func (c *TTL[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || c.now().Sub(e.fetchedAt) >= c.ttl {
		var zero T
		return zero, false
	}
	return e.value, true
}

// Set stores value under key, stamped with the current time.
func (c *TTL[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[T]{value: value, fetchedAt: c.now()}
}

// Delete removes key.
func (c *TTL[T]) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Purge removes every entry.
func (c *TTL[T]) Purge() {
	c.mu.Lock()
	c.entries = make(map[string]entry[T])
	c.mu.Unlock()
}

// Len returns the number of stored entries, fresh or not.
func (c *TTL[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
