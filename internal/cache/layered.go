package cache

import (
	"io"
	"time"
)

// LayeredCache implements a two-layer cache: a fast front (memory) and a
// shared or persistent back (disk or redis)
type LayeredCache struct {
	front Cache
	back  Cache
}

// NewLayeredCache creates a new layered cache
func NewLayeredCache(front, back Cache) *LayeredCache {
	return &LayeredCache{
		front: front,
		back:  back,
	}
}

// Get retrieves a value from the cache (checks the front first, then the back)
func (c *LayeredCache) Get(key string) ([]byte, bool) {
	if val, found := c.front.Get(key); found {
		return val, true
	}

	if val, found := c.back.Get(key); found {
		// Promote to the front layer
		_ = c.front.Set(key, val, 0) // Use default TTL
		return val, true
	}

	return nil, false
}

// Set stores a value in both layers
func (c *LayeredCache) Set(key string, value []byte, ttl time.Duration) error {
	if err := c.front.Set(key, value, ttl); err != nil {
		return err
	}
	return c.back.Set(key, value, ttl)
}

// Delete removes a value from both layers
func (c *LayeredCache) Delete(key string) error {
	_ = c.front.Delete(key)
	return c.back.Delete(key)
}

// Clear removes all values from both layers
func (c *LayeredCache) Clear() error {
	_ = c.front.Clear()
	return c.back.Clear()
}

// Stats reports the front layer's hits and misses when it counts them
func (c *LayeredCache) Stats() (hits, misses int64) {
	if s, ok := c.front.(interface{ Stats() (int64, int64) }); ok {
		return s.Stats()
	}
	return 0, 0
}

// Close closes the back layer when it holds a connection
func (c *LayeredCache) Close() error {
	if closer, ok := c.back.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
