// Package tilecache keeps encoded tiles in a bounded in-memory cache and
// makes sure each tile is only rendered once at a time.
package tilecache

import (
	"container/list"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Key identifies one encoded tile.
type Key struct {
	Layer   string
	Z, X, Y uint32
	Format  string
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%d/%d/%d.%s", k.Layer, k.Z, k.X, k.Y, k.Format)
}

// Cache is an LRU over encoded tiles, bounded by entry count. It is safe
// for concurrent use.
type Cache struct {
	capacity int

	mu      sync.Mutex
	entries map[Key]*entry
	lru     *list.List

	group singleflight.Group

	hits   int64
	misses int64
}

type entry struct {
	key     Key
	data    []byte
	element *list.Element
}

// New creates a cache holding at most capacity tiles. A capacity below one
// disables eviction.
func New(capacity int) *Cache {
	return &Cache{
		capacity: capacity,
		entries:  make(map[Key]*entry),
		lru:      list.New(),
	}
}

// Get returns a cached tile and marks it most recently used.
func (c *Cache) Get(key Key) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false
	}
	c.hits++
	c.lru.MoveToFront(e.element)
	return e.data, true
}

// Add inserts a tile, evicting the least recently used entries when the
// cache is over capacity.
func (c *Cache) Add(key Key, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.data = data
		c.lru.MoveToFront(e.element)
		return
	}
	e := &entry{key: key, data: data}
	e.element = c.lru.PushFront(e)
	c.entries[key] = e

	for c.capacity > 0 && c.lru.Len() > c.capacity {
		back := c.lru.Back()
		if back == nil {
			break
		}
		evicted := back.Value.(*entry)
		c.lru.Remove(back)
		delete(c.entries, evicted.key)
	}
}

// GetOrBuild returns the cached tile or builds it. Concurrent callers of
// the same key share a single build; the result is cached only on success,
// a build error is handed to every waiter and nothing is stored.
func (c *Cache) GetOrBuild(key Key, build func() ([]byte, error)) ([]byte, error) {
	if data, ok := c.Get(key); ok {
		return data, nil
	}
	v, err, _ := c.group.Do(key.String(), func() (any, error) {
		// Another flight may have finished between the miss and this
		// call.
		if data, ok := c.Get(key); ok {
			return data, nil
		}
		data, err := build()
		if err != nil {
			return nil, err
		}
		c.Add(key, data)
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Purge drops every cached tile.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[Key]*entry)
	c.lru.Init()
}

// Len returns the number of cached tiles.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Stats holds cache performance counters.
type Stats struct {
	Entries int
	Hits    int64
	Misses  int64
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{Entries: c.lru.Len(), Hits: c.hits, Misses: c.misses}
}
