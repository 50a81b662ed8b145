package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// ResultCache is a short-lived, process-local cache for search results.
// Entries expire after the configured TTL; Flush drops everything after a
// reindex.
type ResultCache[V any] struct {
	items *gocache.Cache
}

// NewResultCache creates a cache. A zero ttl disables caching.
func NewResultCache[V any](ttl time.Duration) *ResultCache[V] {
	if ttl <= 0 {
		return &ResultCache[V]{}
	}
	return &ResultCache[V]{items: gocache.New(ttl, 2*ttl)}
}

// Get returns a cached value
func (c *ResultCache[V]) Get(key string) (V, bool) {
	var zero V
	if c.items == nil {
		return zero, false
	}
	v, ok := c.items.Get(key)
	if !ok {
		return zero, false
	}
	typed, ok := v.(V)
	return typed, ok
}

// Set stores a value with the default TTL
func (c *ResultCache[V]) Set(key string, v V) {
	if c.items != nil {
		c.items.SetDefault(key, v)
	}
}

// Flush removes every entry
func (c *ResultCache[V]) Flush() {
	if c.items != nil {
		c.items.Flush()
	}
}

// Len returns the number of cached entries
func (c *ResultCache[V]) Len() int {
	if c.items == nil {
		return 0
	}
	return c.items.ItemCount()
}
