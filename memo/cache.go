package memo

import (
	"sync"
	"sync/atomic"
)

// Cache is the table behind one memoized function.
//
// The store is created on first use. Every method holds the cache lock for a
// single store operation only, so callers can recurse into the memoized
// function between a miss and the matching insertion. A Cache is safe for
// concurrent use; two goroutines missing on the same key both compute and the
// later insertion wins.
type Cache[K, V any] struct {
	mu       sync.Mutex
	newStore func() Store[K, V]
	store    Store[K, V]

	hits    atomic.Uint64
	misses  atomic.Uint64
	inserts atomic.Uint64
}

// Stats is a snapshot of a Cache's counters.
type Stats struct {
	Hits    uint64
	Misses  uint64
	Inserts uint64
}

// NewCache returns a Cache whose store is built by newStore on first use.
func NewCache[K, V any](newStore func() Store[K, V]) *Cache[K, V] {
	if newStore == nil {
		panic("memo: NewCache requires a store constructor")
	}
	return &Cache[K, V]{newStore: newStore}
}

// storeLocked returns the store, creating it if needed. c.mu must be held.
func (c *Cache[K, V]) storeLocked() Store[K, V] {
	if c.store == nil {
		c.store = c.newStore()
	}
	return c.store
}

// Get looks key up. The lock is released before Get returns.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	v, ok := c.storeLocked().Get(key)
	c.mu.Unlock()

	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return v, ok
}

// InsertAndGet stores value under key and returns the value now resident
// under key, all under one acquisition of the lock.
func (c *Cache[K, V]) InsertAndGet(key K, value V) V {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.storeLocked()
	s.Insert(key, value)
	c.inserts.Add(1)
	resident, ok := s.Get(key)
	if !ok {
		panic("memo: store lost a key right after inserting it")
	}
	return resident
}

// Stats returns the hit, miss and insert counts observed so far.
func (c *Cache[K, V]) Stats() Stats {
	return Stats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Inserts: c.inserts.Load(),
	}
}

// Memoize returns the value cached under key, or runs compute, caches its
// result and returns the cached copy. compute runs with the lock released.
func Memoize[K, V any](c *Cache[K, V], key K, compute func() V) V {
	if v, ok := c.Get(key); ok {
		return v
	}
	return c.InsertAndGet(key, compute())
}
