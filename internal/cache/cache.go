// Package cache provides the small in-process read-through caches the
// endpoints use to keep request volume to the spreadsheet down. Cached
// values are non-owning, time-bounded copies; the spreadsheet stays the
// only source of truth and any miss is resolved by re-reading it.
package cache

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Clock abstracts time.Now so TTL behavior is testable.
type Clock func() time.Time

type entry[V any] struct {
	value   V
	written time.Time
}

// Cache is a TTL map with single-flight loading: concurrent callers
// missing on the same key share one upstream load instead of issuing
// duplicates. This replaces the busy-wait flag the endpoints used to
// carry, keeping the observable behavior (one upstream call, shared
// result) without the unbounded polling.
type Cache[V any] struct {
	ttl   time.Duration
	clock Clock

	mu      sync.Mutex
	entries map[string]entry[V]
	group   singleflight.Group
}

// New creates a cache with the given TTL. A nil clock means time.Now.
func New[V any](ttl time.Duration, clock Clock) *Cache[V] {
	if clock == nil {
		clock = time.Now
	}
	return &Cache[V]{
		ttl:     ttl,
		clock:   clock,
		entries: make(map[string]entry[V]),
	}
}

// Get returns the cached value for key when it is younger than the TTL,
// otherwise loads it through load and stores the result. Load errors
// are returned to every waiting caller and nothing is cached.
func (c *Cache[V]) Get(key string, load func() (V, error)) (V, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok && c.clock().Sub(e.written) < c.ttl {
		c.mu.Unlock()
		return e.value, nil
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		value, err := load()
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[key] = entry[V]{value: value, written: c.clock()}
		c.mu.Unlock()
		return value, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return v.(V), nil
}

// Invalidate drops the entry for key. Used after writes so the next
// read sees fresh rows.
func (c *Cache[V]) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// InvalidateAll empties the cache.
func (c *Cache[V]) InvalidateAll() {
	c.mu.Lock()
	c.entries = make(map[string]entry[V])
	c.mu.Unlock()
}

// Singleton is the key for caches holding one value for the whole
// process, such as the order list.
const Singleton = "singleton"
