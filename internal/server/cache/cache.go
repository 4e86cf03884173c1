// Package cache holds rendered API responses in memory using go-cache.
//
// Entries are keyed by route and canonical query string. Any mutation that
// can change a rendered response (a favorite toggle) clears the whole cache
// and advances its generation. Writers that computed a value before a clear
// use SetIfGeneration so the stale value is dropped instead of stored.
package cache

import (
	"net/url"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache is a TTL cache of response payloads.
type Cache struct {
	store *gocache.Cache

	mu  sync.Mutex
	gen uint64
}

// Stats reports cache occupancy.
type Stats struct {
	ItemCount int `json:"item_count"`
}

// New returns a cache whose entries expire after ttl. Expired entries are
// swept every cleanup; a cleanup of 0 disables the janitor goroutine.
func New(ttl, cleanup time.Duration) *Cache {
	return &Cache{store: gocache.New(ttl, cleanup)}
}

// Key builds a cache key from a route name and its query. Parameter order in
// the request does not matter.
func Key(route string, query url.Values) string {
	if len(query) == 0 {
		return route
	}
	return route + "?" + query.Encode()
}

// Get returns the value for key.
func (c *Cache) Get(key string) (any, bool) {
	return c.store.Get(key)
}

// Set stores value with the default TTL.
func (c *Cache) Set(key string, value any) {
	c.store.Set(key, value, gocache.DefaultExpiration)
}

// Generation returns the current generation. Capture it before computing a
// value that will later be passed to SetIfGeneration.
func (c *Cache) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// SetIfGeneration stores value with the default TTL only if no Clear has
// happened since gen was read. It reports whether the value was stored.
func (c *Cache) SetIfGeneration(key string, value any, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return false
	}
	c.store.Set(key, value, gocache.DefaultExpiration)
	return true
}

// SetWithTTL stores value with an explicit TTL.
func (c *Cache) SetWithTTL(key string, value any, ttl time.Duration) {
	c.store.Set(key, value, ttl)
}

// Delete removes key.
func (c *Cache) Delete(key string) {
	c.store.Delete(key)
}

// Clear drops every entry and advances the generation.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.store.Flush()
}

// ItemCount returns the number of entries, including expired ones not yet swept.
func (c *Cache) ItemCount() int {
	return c.store.ItemCount()
}

// Stats returns a snapshot of cache occupancy.
func (c *Cache) Stats() Stats {
	return Stats{ItemCount: c.store.ItemCount()}
}
