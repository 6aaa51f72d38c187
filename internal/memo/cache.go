// Package memo provides the bounded, thread-safe memoization cache shared by
// the combinatorial tables. Entries are pure function results keyed by the full
// argument tuple, so a cached value never changes once inserted.
package memo

import (
	"errors"
	"fmt"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// ─────────────────────────────────────────────────────────────────────────────
// Bounded Memoization Cache
// ─────────────────────────────────────────────────────────────────────────────

// DefaultCapacity is the number of entries a cache holds when no explicit
// capacity is configured.
const DefaultCapacity = 4096

// ErrInvalidCapacity is returned when a cache is created with a non-positive size.
var ErrInvalidCapacity = errors.New("memo: capacity must be positive")

// Cache is a fixed-capacity LRU cache with duplicate-suppressed population.
// Concurrent misses on the same key run the compute function once; the other
// callers share its result.
type Cache[K comparable, V any] struct {
	capacity  int
	entries   *lru.Cache[K, V]
	group     singleflight.Group
	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// Stats is a point-in-time snapshot of cache activity.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Size      int
	Capacity  int
	HitRate   float64
}

// New creates a cache holding at most capacity entries.
//
// Parameters:
//   - capacity: The maximum number of entries, must be positive.
//
// Returns:
//   - *Cache[K, V]: The new cache.
//   - error: ErrInvalidCapacity if capacity < 1.
func New[K comparable, V any](capacity int) (*Cache[K, V], error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}
	c := &Cache[K, V]{capacity: capacity}
	entries, err := lru.NewWithEvict[K, V](capacity, func(K, V) {
		c.evictions.Add(1)
	})
	if err != nil {
		return nil, err
	}
	c.entries = entries
	return c, nil
}

// MustNew is like New but panics on an invalid capacity.
func MustNew[K comparable, V any](capacity int) *Cache[K, V] {
	c, err := New[K, V](capacity)
	if err != nil {
		panic(err)
	}
	return c
}

// Get returns the cached value for key, if present.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	v, ok := c.entries.Get(key)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return v, ok
}

// Add stores a value. Existing entries are overwritten with the same value,
// since every producer is deterministic.
func (c *Cache[K, V]) Add(key K, value V) {
	c.entries.Add(key, value)
}

// GetOrCompute returns the cached value for key or computes, stores and
// returns it. Errors are not cached.
//
// Parameters:
//   - key: The full argument tuple of the memoized function.
//   - compute: The pure function producing the value on a miss.
//
// Returns:
//   - V: The cached or freshly computed value.
//   - error: The error returned by compute, if any.
func (c *Cache[K, V]) GetOrCompute(key K, compute func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	res, err, _ := c.group.Do(fmt.Sprint(key), func() (any, error) {
		if v, ok := c.entries.Peek(key); ok {
			return v, nil
		}
		v, err := compute()
		if err != nil {
			return v, err
		}
		c.entries.Add(key, v)
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return res.(V), nil
}

// Len returns the number of cached entries.
func (c *Cache[K, V]) Len() int { return c.entries.Len() }

// Capacity returns the configured maximum number of entries.
func (c *Cache[K, V]) Capacity() int { return c.capacity }

// Stats returns current cache statistics.
func (c *Cache[K, V]) Stats() Stats {
	hits := c.hits.Load()
	misses := c.misses.Load()
	total := hits + misses

	var hitRate float64
	if total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	return Stats{
		Hits:      hits,
		Misses:    misses,
		Evictions: c.evictions.Load(),
		Size:      c.entries.Len(),
		Capacity:  c.capacity,
		HitRate:   hitRate,
	}
}

// Reset removes all entries and zeroes the counters.
func (c *Cache[K, V]) Reset() {
	c.entries.Purge()
	c.hits.Store(0)
	c.misses.Store(0)
	c.evictions.Store(0)
}
