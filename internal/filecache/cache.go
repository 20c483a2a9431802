// Package filecache implements the editor's bounded least-recently-used cache
// of parsed file payloads. The cache composes a keyed entry map with an
// intrusive recency list whose nodes, like the entries themselves, are drawn
// from recycling pools; get, put, and evict are all O(1).
//
// The cache performs no I/O and keeps no locks: it is driven from the host's
// single event loop. Multi-threaded hosts use the Synced wrapper.
package filecache

import (
	"context"
	"iter"
	"time"

	"github.com/dragonbaba/rpgeditor/errs"
	"github.com/dragonbaba/rpgeditor/internal/pool"
	"github.com/dragonbaba/rpgeditor/internal/telemetry"
)

// DefaultCapacity is the entry limit used by the editor deployment.
const DefaultCapacity = 50

const subsystem = "filecache"

// EvictFunc is notified just before a capacity eviction releases an entry.
// The callback must not retain the payload reference it receives.
type EvictFunc func(key, displayName string, payload any)

// Cache is a bounded LRU cache of file payloads. The key set of the entry map
// always equals the key set of the node index, and list order always reflects
// access order with the tail most recently used.
type Cache struct {
	capacity int
	entries  map[string]*Entry
	index    map[string]*node
	list     *recencyList

	entryPool *pool.Pool[*Entry]
	clock     func() time.Time
	onEvict   EvictFunc
	metrics   *telemetry.CacheMetrics
}

// Option configures optional cache behaviour.
type Option func(*Cache)

// WithClock overrides the timestamp source, primarily for tests.
func WithClock(clock func() time.Time) Option {
	return func(c *Cache) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithEvictFunc registers a callback for capacity evictions. Remove and Clear
// do not notify: the caller initiated those itself.
func WithEvictFunc(fn EvictFunc) Option {
	return func(c *Cache) {
		c.onEvict = fn
	}
}

// WithMetrics wires cache instruments into Get and eviction paths.
func WithMetrics(metrics *telemetry.CacheMetrics) Option {
	return func(c *Cache) {
		c.metrics = metrics
	}
}

// New constructs a cache holding at most capacity entries. Non-positive
// capacities fall back to DefaultCapacity.
func New(capacity int, opts ...Option) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	c := &Cache{
		capacity:  capacity,
		entries:   make(map[string]*Entry, capacity),
		index:     make(map[string]*node, capacity),
		list:      newRecencyList(pool.New("filecache.nodes", capacity, func() *node { return new(node) })),
		entryPool: pool.New("filecache.entries", capacity, func() *Entry { return new(Entry) }),
		clock:     time.Now,
		onEvict:   nil,
		metrics:   nil,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Put inserts or refreshes the payload stored under key. An existing entry is
// mutated in place and re-tailed; a new key at capacity evicts exactly one
// least-recently-used entry first. Empty keys and nil payloads are rejected
// without mutating any state.
func (c *Cache) Put(key, displayName string, payload any) error {
	if key == "" {
		return errs.New(subsystem, errs.CodeInvalid, errs.WithMessage("empty cache key"))
	}
	if payload == nil {
		return errs.New(subsystem, errs.CodeInvalid, errs.WithKey(key),
			errs.WithMessage("nil payload"))
	}

	if entry, ok := c.entries[key]; ok {
		entry.displayName = displayName
		entry.touchedAt = c.clock()
		entry.payload = payload
		c.index[key] = c.list.moveToTail(c.index[key])
		return nil
	}

	if len(c.entries) >= c.capacity {
		c.evictOldest()
	}

	entry := c.entryPool.Acquire()
	entry.key = key
	entry.displayName = displayName
	entry.touchedAt = c.clock()
	entry.payload = payload
	c.entries[key] = entry
	c.index[key] = c.list.pushTail(key)
	return nil
}

// Get returns the entry stored under key, promoting it to most recently used.
// A miss has no side effect; a hit never mutates the stored payload.
func (c *Cache) Get(key string) (*Entry, bool) {
	entry, ok := c.entries[key]
	if !ok {
		c.metrics.RecordMiss(context.Background())
		return nil, false
	}
	entry.touchedAt = c.clock()
	c.index[key] = c.list.moveToTail(c.index[key])
	c.metrics.RecordHit(context.Background())
	return entry, true
}

// Remove drops the entry stored under key, reporting whether it was present.
// Removing an absent key is a no-op.
func (c *Cache) Remove(key string) bool {
	entry, ok := c.entries[key]
	if !ok {
		return false
	}
	c.list.unlink(c.index[key])
	delete(c.entries, key)
	delete(c.index, key)
	c.entryPool.Release(entry)
	return true
}

// List snapshots every entry newest first for presentation. It does not
// affect recency.
func (c *Cache) List() []Snapshot {
	out := make([]Snapshot, 0, len(c.entries))
	for key := range c.list.keysNewestFirst() {
		entry := c.entries[key]
		out = append(out, Snapshot{
			Key:         entry.key,
			DisplayName: entry.displayName,
			TouchedAt:   entry.touchedAt,
		})
	}
	return out
}

// Keys walks the cached keys newest first. Read-only introspection; the cache
// must not be mutated during iteration.
func (c *Cache) Keys() iter.Seq[string] {
	return c.list.keysNewestFirst()
}

// Clear releases every entry and node and empties the cache.
func (c *Cache) Clear() {
	for _, entry := range c.entries {
		c.entryPool.Release(entry)
	}
	for {
		if _, ok := c.list.popHead(); !ok {
			break
		}
	}
	clear(c.entries)
	clear(c.index)
}

// Len returns the number of cached entries.
func (c *Cache) Len() int { return len(c.entries) }

// Capacity returns the fixed entry limit.
func (c *Cache) Capacity() int { return c.capacity }

func (c *Cache) evictOldest() {
	key, ok := c.list.popHead()
	if !ok {
		return
	}
	entry := c.entries[key]
	delete(c.entries, key)
	delete(c.index, key)
	if c.onEvict != nil {
		c.onEvict(entry.key, entry.displayName, entry.payload)
	}
	c.metrics.RecordEviction(context.Background())
	c.entryPool.Release(entry)
}
