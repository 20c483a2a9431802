// Package pool contains object recycling primitives for the editor runtime.
//
// The editor churns through short-lived helper objects (recency nodes, cache
// entries, decode scratch documents) on every user interaction; pools amortise
// that allocation cost. All types here assume a single logical thread of
// control, matching the host's event loop. A multi-threaded host must guard
// every operation with its own coarse lock.
package pool

import "fmt"

// Stats reports lifetime counters for a single pool.
type Stats struct {
	// Allocated counts instances constructed via the factory.
	Allocated uint64
	// Reused counts acquisitions served from the free list.
	Reused uint64
	// Dropped counts releases discarded because the free list was full.
	Dropped uint64
	// Idle is the number of instances currently retained for reuse.
	Idle int
}

// Pool recycles instances of a single Item type. The number of instances
// constructed over time is unbounded by demand; only idle instances retained
// at once are capped, so memory falls back to the cap after usage spikes.
type Pool[T Item] struct {
	name    string
	factory func() T
	free    []T
	cap     int
	stats   Stats
	debug   *debugState
}

// New constructs a pool with the provided capacity and factory. Capacity must
// be positive, the name non-empty, and the factory non-nil.
func New[T Item](name string, capacity int, factory func() T) *Pool[T] {
	if name == "" {
		panic("pool: name must be non-empty")
	}
	if capacity <= 0 {
		panic(fmt.Sprintf("pool %s: capacity must be positive", name))
	}
	if factory == nil {
		panic(fmt.Sprintf("pool %s: factory must be provided", name))
	}
	return &Pool[T]{
		name:    name,
		factory: factory,
		free:    make([]T, 0, capacity),
		cap:     capacity,
		stats:   Stats{},
		debug:   newDebugState(name),
	}
}

// Acquire returns an idle instance when one is available and constructs a new
// one otherwise. It never returns a partially initialized item; callers run
// their own setup before use. Ownership transfers to the caller until Release.
func (p *Pool[T]) Acquire() T {
	if n := len(p.free); n > 0 {
		item := p.free[n-1]
		var zero T
		p.free[n-1] = zero
		p.free = p.free[:n-1]
		p.stats.Reused++
		p.debug.clear(item)
		p.debug.recordAcquire(item)
		return item
	}
	p.stats.Allocated++
	item := p.factory()
	p.debug.recordAcquire(item)
	return item
}

// Release resets the item, then retains it when the free list is below
// capacity and discards it otherwise. Releasing an item twice, or an item
// owned by another pool, is undefined behaviour here; there is no identity
// tracking, for speed. Build with the debug tag to detect both.
func (p *Pool[T]) Release(item T) {
	p.debug.recordRelease(item)
	item.Reset()
	p.debug.poison(item)
	if len(p.free) >= p.cap {
		p.stats.Dropped++
		return
	}
	p.free = append(p.free, item)
}

// Name returns the pool's registered name.
func (p *Pool[T]) Name() string { return p.name }

// Cap returns the maximum number of idle instances retained.
func (p *Pool[T]) Cap() int { return p.cap }

// Stats returns a snapshot of the pool's lifetime counters.
func (p *Pool[T]) Stats() Stats {
	s := p.stats
	s.Idle = len(p.free)
	return s
}
