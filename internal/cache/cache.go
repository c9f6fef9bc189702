// Package cache wraps a TTL in-memory store used to memoize read endpoints.
// It is a best-effort side channel: writers invalidate their entries before
// returning, and nothing in the order engine ever reads from it.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// ProductListKey caches the full product listing.
const ProductListKey = "products:all"

// ProductKey returns the cache key for a single product view.
func ProductKey(id string) string { return "product:" + id }

// CustomerKey returns the cache key for a single customer view.
func CustomerKey(id string) string { return "customer:" + id }

// Cache is a TTL-bound memoization store.
type Cache struct {
	store *gocache.Cache
}

// New creates a Cache whose entries expire after ttl.
func New(ttl time.Duration) *Cache {
	return &Cache{store: gocache.New(ttl, 2*ttl)}
}

// Get returns the cached value for key, if present and not expired.
func (c *Cache) Get(key string) (interface{}, bool) {
	if c == nil {
		return nil, false
	}
	return c.store.Get(key)
}

// Set stores value under key with the default TTL.
func (c *Cache) Set(key string, value interface{}) {
	if c == nil {
		return
	}
	c.store.SetDefault(key, value)
}

// Delete removes key. Deleting an absent key is a no-op.
func (c *Cache) Delete(key string) {
	if c == nil {
		return
	}
	c.store.Delete(key)
}
