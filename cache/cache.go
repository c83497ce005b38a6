// Package cache provides stores whose lifetime is the execution
// environment, not a single invocation. The hosting runtime may reuse one
// environment across sequential requests, so anything cached here is
// visible to later, unrelated invocations until evicted. The request
// adapter calls Evict at the end of every invocation to enforce that
// isolation boundary.
package cache

import (
	"sync"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/pkg/errors"
)

// Evictable is anything that can drop all of its entries.
type Evictable interface {
	Evict()
}

var (
	mu       sync.Mutex
	registry []Evictable
)

// Register adds e to the process-wide eviction set. Safe for concurrent
// use; typically called from package init or cache construction.
func Register(e Evictable) {
	mu.Lock()
	registry = append(registry, e)
	mu.Unlock()
}

// Evict clears every registered cache. Idempotent and side-effect-only;
// the request adapter invokes it unconditionally before returning.
func Evict() {
	mu.Lock()
	regs := append([]Evictable(nil), registry...)
	mu.Unlock()
	for _, e := range regs {
		e.Evict()
	}
}

// Cache is a ristretto-backed store registered for per-invocation
// eviction. Writes are flushed before Set returns so entries are visible
// within the same invocation.
type Cache[K ristretto.Key, V any] struct {
	name string
	c    *ristretto.Cache[K, V]
}

// New creates a Cache holding up to maxEntries values and registers it
// with the eviction set.
func New[K ristretto.Key, V any](name string, maxEntries int64) (*Cache[K, V], error) {
	rc, err := ristretto.NewCache(&ristretto.Config[K, V]{
		NumCounters: maxEntries * 10,
		MaxCost:     maxEntries,
		BufferItems: 64,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "cache %q", name)
	}
	c := &Cache[K, V]{name: name, c: rc}
	Register(c)
	return c, nil
}

// Name returns the cache's registration name.
func (c *Cache[K, V]) Name() string { return c.name }

func (c *Cache[K, V]) Get(key K) (V, bool) {
	return c.c.Get(key)
}

func (c *Cache[K, V]) Set(key K, value V) {
	c.c.Set(key, value, 1)
	c.c.Wait()
}

func (c *Cache[K, V]) Del(key K) {
	c.c.Del(key)
}

// Evict drops every entry. The cache remains usable afterwards.
func (c *Cache[K, V]) Evict() {
	c.c.Clear()
}
