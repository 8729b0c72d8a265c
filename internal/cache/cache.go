// Package cache provides the process-wide TTL caches used by the
// recommendation and metadata services. Entries carry an absolute expiry and
// are treated as misses on read once past it; concurrent misses on the same
// key are collapsed so the upstream call happens once.
package cache

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache is a string-keyed TTL cache. The zero value is not usable; construct
// with New (unbounded map) or NewBounded (LRU-capped).
type Cache[V any] struct {
	ttl time.Duration
	now func() time.Time

	mu       sync.Mutex
	entries  map[string]entry[V]
	bounded  *lru.Cache[string, entry[V]]
	inflight map[string]*inflightCall[V]
}

type inflightCall[V any] struct {
	wg    sync.WaitGroup
	value V
	err   error
}

// New returns an unbounded cache. Keys are never evicted; growth is bounded
// only by process restart.
func New[V any](ttl time.Duration) *Cache[V] {
	return &Cache[V]{
		ttl:      ttl,
		now:      time.Now,
		entries:  make(map[string]entry[V]),
		inflight: make(map[string]*inflightCall[V]),
	}
}

// NewBounded returns a cache capped at size entries with LRU eviction on top
// of the usual TTL-on-read expiry.
func NewBounded[V any](ttl time.Duration, size int) *Cache[V] {
	l, err := lru.New[string, entry[V]](size)
	if err != nil {
		// lru only fails on non-positive sizes
		return New[V](ttl)
	}
	return &Cache[V]{
		ttl:      ttl,
		now:      time.Now,
		bounded:  l,
		inflight: make(map[string]*inflightCall[V]),
	}
}

func (c *Cache[V]) load(key string) (entry[V], bool) {
	if c.bounded != nil {
		return c.bounded.Get(key)
	}
	e, ok := c.entries[key]
	return e, ok
}

func (c *Cache[V]) store(key string, e entry[V]) {
	if c.bounded != nil {
		c.bounded.Add(key, e)
		return
	}
	c.entries[key] = e
}

// Get returns the cached value for key if present and unexpired.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.load(key)
	if !ok || c.now().After(e.expiresAt) {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key with the cache's TTL. Last write wins.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store(key, entry[V]{value: value, expiresAt: c.now().Add(c.ttl)})
}

// GetOrCompute returns the cached value for key, computing and storing it on
// a miss. Concurrent misses on the same key run compute once; the other
// callers block until it finishes and share its result. A compute error is
// returned to all waiting callers and nothing is cached; a nil error caches
// the value even when it is the zero value, so negative results are not
// re-queried until the TTL elapses.
func (c *Cache[V]) GetOrCompute(key string, compute func() (V, error)) (V, error) {
	c.mu.Lock()
	if e, ok := c.load(key); ok && !c.now().After(e.expiresAt) {
		c.mu.Unlock()
		return e.value, nil
	}
	if call, ok := c.inflight[key]; ok {
		c.mu.Unlock()
		call.wg.Wait()
		return call.value, call.err
	}
	call := &inflightCall[V]{}
	call.wg.Add(1)
	c.inflight[key] = call
	c.mu.Unlock()

	call.value, call.err = compute()

	c.mu.Lock()
	if call.err == nil {
		c.store(key, entry[V]{value: call.value, expiresAt: c.now().Add(c.ttl)})
	}
	delete(c.inflight, key)
	c.mu.Unlock()
	call.wg.Done()

	return call.value, call.err
}

// Len reports the number of stored entries, expired ones included.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.bounded != nil {
		return c.bounded.Len()
	}
	return len(c.entries)
}
