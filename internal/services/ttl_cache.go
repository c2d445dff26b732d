package services

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// TTLCache is a small in-process expiring cache for computed projection
// contexts. A stale or missing entry is always a miss, never an error.
// Concurrent callers computing the same uncached key are coalesced to a
// single computation.
type TTLCache struct {
	mu      sync.RWMutex
	entries map[string]ttlEntry
	group   singleflight.Group
	nowFunc func() time.Time
}

type ttlEntry struct {
	value      interface{}
	validUntil time.Time
}

func NewTTLCache() *TTLCache {
	return &TTLCache{
		entries: make(map[string]ttlEntry),
		nowFunc: time.Now,
	}
}

// GetOrCompute returns the cached value for key if still valid, otherwise
// runs fn once (coalescing concurrent callers) and caches its result for
// ttl. fn errors are returned without caching.
func (c *TTLCache) GetOrCompute(key string, ttl time.Duration, fn func() (interface{}, error)) (interface{}, error) {
	if value, ok := c.get(key); ok {
		return value, nil
	}

	value, err, _ := c.group.Do(key, func() (interface{}, error) {
		// Re-check under the flight: another caller may have just
		// populated the entry.
		if value, ok := c.get(key); ok {
			return value, nil
		}
		value, err := fn()
		if err != nil {
			return nil, err
		}
		c.set(key, value, ttl)
		return value, nil
	})
	return value, err
}

// Invalidate drops entries. With no keys it clears the whole cache.
func (c *TTLCache) Invalidate(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(keys) == 0 {
		c.entries = make(map[string]ttlEntry)
		return
	}
	for _, key := range keys {
		delete(c.entries, key)
	}
}

// Len reports the number of live (non-expired) entries.
func (c *TTLCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	now := c.nowFunc()
	count := 0
	for _, e := range c.entries {
		if e.validUntil.After(now) {
			count++
		}
	}
	return count
}

func (c *TTLCache) get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[key]
	if !ok || !entry.validUntil.After(c.nowFunc()) {
		return nil, false
	}
	return entry.value, true
}

func (c *TTLCache) set(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.nowFunc()
	// Opportunistic purge of expired entries.
	for k, e := range c.entries {
		if !e.validUntil.After(now) {
			delete(c.entries, k)
		}
	}
	c.entries[key] = ttlEntry{value: value, validUntil: now.Add(ttl)}
}
