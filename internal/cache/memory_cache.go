package cache

import (
	"fmt"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryCache is a bounded in-process LRU with a per-entry TTL.
// The web server uses it so repeated route lookups skip the network.
type MemoryCache struct {
	lru *lru.Cache[string, memoryEntry]
	ttl time.Duration
	now func() time.Time

	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewMemoryCache creates an LRU holding at most size entries
func NewMemoryCache(size int, ttl time.Duration) (*MemoryCache, error) {
	l, err := lru.New[string, memoryEntry](size)
	if err != nil {
		return nil, fmt.Errorf("creating LRU cache: %w", err)
	}
	return &MemoryCache{lru: l, ttl: ttl, now: time.Now}, nil
}

// Get returns the value for key if present and not expired
func (c *MemoryCache) Get(key string) ([]byte, bool) {
	if entry, ok := c.lru.Get(key); ok {
		if c.now().Before(entry.expiresAt) {
			c.hits.Add(1)
			return entry.data, true
		}
		c.lru.Remove(key)
	}
	c.misses.Add(1)
	return nil, false
}

// Set stores value under key
func (c *MemoryCache) Set(key string, value []byte) error {
	c.lru.Add(key, memoryEntry{data: value, expiresAt: c.now().Add(c.ttl)})
	return nil
}

// Len returns the number of stored entries, expired ones included
func (c *MemoryCache) Len() int {
	return c.lru.Len()
}

// Stats reports hit and miss counts since creation
func (c *MemoryCache) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}

// Store is the contract shared by every cache layer
type Store interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte) error
}

// Tiered checks a fast layer before a slow one and promotes slow hits
type Tiered struct {
	fast Store
	slow Store
}

// NewTiered layers fast over slow
func NewTiered(fast, slow Store) *Tiered {
	return &Tiered{fast: fast, slow: slow}
}

// Get looks up key in the fast layer then the slow one
func (t *Tiered) Get(key string) ([]byte, bool) {
	if data, ok := t.fast.Get(key); ok {
		return data, true
	}
	data, ok := t.slow.Get(key)
	if !ok {
		return nil, false
	}
	_ = t.fast.Set(key, data)
	return data, true
}

// Set writes to both layers. The fast layer is written even when the
// slow one fails.
func (t *Tiered) Set(key string, value []byte) error {
	_ = t.fast.Set(key, value)
	if err := t.slow.Set(key, value); err != nil {
		return fmt.Errorf("writing slow cache layer: %w", err)
	}
	return nil
}
