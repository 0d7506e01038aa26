package lyrics

import (
	"sync"
	"time"
)

type cacheEntry struct {
	value      string
	insertedAt time.Time
}

// Cache is a bounded in-memory cache whose entries expire a fixed TTL after
// insertion. Expiry is checked lazily on Get; Put evicts the oldest
// insertion when a new key would exceed the capacity. All access goes
// through a single mutex, so the cache is safe for concurrent in-flight
// requests.
type Cache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	ttl     time.Duration
	maxSize int
	now     func() time.Time
}

// NewCache creates a cache holding at most maxSize entries, each live for ttl.
func NewCache(ttl time.Duration, maxSize int) *Cache {
	return &Cache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		maxSize: maxSize,
		now:     time.Now,
	}
}

// Get returns the cached value for key if it exists and has not expired.
// An expired entry is removed on the way out.
func (c *Cache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return "", false
	}
	if c.now().Sub(entry.insertedAt) >= c.ttl {
		delete(c.entries, key)
		return "", false
	}
	return entry.value, true
}

// Put stores value under key, stamping the insertion time. Overwriting an
// existing key refreshes its timestamp without evicting anything; a new key
// at capacity first sweeps expired entries, then evicts the entry that was
// inserted longest ago.
func (c *Cache) Put(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxSize {
		c.sweepExpiredLocked()
		if len(c.entries) >= c.maxSize {
			c.evictOldestLocked()
		}
	}

	c.entries[key] = cacheEntry{value: value, insertedAt: c.now()}
}

// Len returns the number of physically stored entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) sweepExpiredLocked() {
	now := c.now()
	for key, entry := range c.entries {
		if now.Sub(entry.insertedAt) >= c.ttl {
			delete(c.entries, key)
		}
	}
}

func (c *Cache) evictOldestLocked() {
	var oldestKey string
	var oldestAt time.Time
	for key, entry := range c.entries {
		if oldestKey == "" || entry.insertedAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = entry.insertedAt
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}
