package services

import (
	"sync"
	"time"
)

const (
	// StatsCacheCapacity bounds the number of memoized stat payloads
	StatsCacheCapacity = 10
	// StatsCacheTTL is how long a cached payload stays fresh
	StatsCacheTTL = 2 * time.Minute
)

type statsEntry struct {
	value      interface{}
	expiresAt  time.Time
	lastAccess time.Time
}

// StatsCache is a fixed-capacity, fixed-TTL in-memory cache for the admin
// stats aggregation. Entries expire after the TTL; when the cache is full,
// the least recently used entry is evicted on insert.
type StatsCache struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	entries  map[string]*statsEntry
	now      func() time.Time // overridable in tests
}

// NewStatsCache creates a cache with the given capacity and TTL.
func NewStatsCache(capacity int, ttl time.Duration) *StatsCache {
	if capacity <= 0 {
		capacity = StatsCacheCapacity
	}
	if ttl <= 0 {
		ttl = StatsCacheTTL
	}
	return &StatsCache{
		capacity: capacity,
		ttl:      ttl,
		entries:  make(map[string]*statsEntry),
		now:      time.Now,
	}
}

// Get returns the cached value for key if present and not expired.
func (c *StatsCache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}

	now := c.now()
	if now.After(entry.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}

	entry.lastAccess = now
	return entry.value, true
}

// Set stores a value under key, evicting the least recently used entry when
// the cache is at capacity.
func (c *StatsCache) Set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()

	// Drop expired entries first so they don't count against capacity
	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.capacity {
		c.evictLRU()
	}

	c.entries[key] = &statsEntry{
		value:      value,
		expiresAt:  now.Add(c.ttl),
		lastAccess: now,
	}
}

// evictLRU removes the least recently accessed entry. Caller holds the lock.
func (c *StatsCache) evictLRU() {
	var oldestKey string
	var oldestTime time.Time

	for k, e := range c.entries {
		if oldestKey == "" || e.lastAccess.Before(oldestTime) {
			oldestKey = k
			oldestTime = e.lastAccess
		}
	}

	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

// Len reports the current number of entries (expired entries included until
// the next Get/Set touches them).
func (c *StatsCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// AdminStatsCache is the shared cache for GET /api/admin/stats.
var AdminStatsCache = NewStatsCache(StatsCacheCapacity, StatsCacheTTL)
