package cache

import (
	"bytes"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Bounds for the front layer. Values past them still reach the back layer
// through LayeredCache.
const (
	DefaultMemoryItems      = 10_000
	DefaultMemoryEntryBytes = 1 << 20
)

// MemoryCache is the process-local front layer. Values are copied on the
// way in and out so cached articles cannot be mutated by callers.
type MemoryCache struct {
	items    *gocache.Cache
	maxItems int
	maxBytes int
	hits     atomic.Int64
	misses   atomic.Int64
}

// NewMemoryCache creates a memory cache. A zero defaultTTL keeps entries
// until they are deleted.
func NewMemoryCache(defaultTTL time.Duration, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{
		items:    gocache.New(defaultTTL, cleanupInterval),
		maxItems: DefaultMemoryItems,
		maxBytes: DefaultMemoryEntryBytes,
	}
}

// WithLimits overrides the item and entry-size bounds; non-positive values
// keep the current ones
func (c *MemoryCache) WithLimits(maxItems, maxEntryBytes int) *MemoryCache {
	if maxItems > 0 {
		c.maxItems = maxItems
	}
	if maxEntryBytes > 0 {
		c.maxBytes = maxEntryBytes
	}
	return c
}

// Get implements Cache
func (c *MemoryCache) Get(key string) ([]byte, bool) {
	if val, found := c.items.Get(key); found {
		if b, ok := val.([]byte); ok {
			c.hits.Add(1)
			return bytes.Clone(b), true
		}
	}
	c.misses.Add(1)
	return nil, false
}

// Set implements Cache. A zero ttl uses the default expiry. Oversized
// values are skipped, and a full cache first drops expired entries and
// then refuses new keys.
func (c *MemoryCache) Set(key string, value []byte, ttl time.Duration) error {
	if len(value) > c.maxBytes {
		return nil
	}
	if _, exists := c.items.Get(key); !exists && c.items.ItemCount() >= c.maxItems {
		c.items.DeleteExpired()
		if c.items.ItemCount() >= c.maxItems {
			return nil
		}
	}
	if ttl == 0 {
		ttl = gocache.DefaultExpiration
	}
	c.items.Set(key, bytes.Clone(value), ttl)
	return nil
}

// Delete implements Cache
func (c *MemoryCache) Delete(key string) error {
	c.items.Delete(key)
	return nil
}

// Clear implements Cache
func (c *MemoryCache) Clear() error {
	c.items.Flush()
	return nil
}

// Len returns the number of cached items, including expired ones not yet
// cleaned up
func (c *MemoryCache) Len() int {
	return c.items.ItemCount()
}

// Stats reports lookups since creation
func (c *MemoryCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}
