package filecache

import "sync"

// Synced wraps a Cache behind one coarse mutex for multi-threaded hosts. The
// entry map and intrusive list mutate together non-atomically, so every
// public operation takes the same lock. Entries returned by Get remain owned
// by the cache; concurrent callers must treat them as read-only and copy what
// they need.
//
// The key iterator is deliberately absent here: an iterator cannot hold the
// lock safely across caller code, and List covers the same need.
type Synced struct {
	mu    sync.Mutex
	cache *Cache
}

// NewSynced constructs a locked cache with the same options as New.
func NewSynced(capacity int, opts ...Option) *Synced {
	return &Synced{mu: sync.Mutex{}, cache: New(capacity, opts...)}
}

// Put inserts or refreshes the payload stored under key.
func (s *Synced) Put(key, displayName string, payload any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Put(key, displayName, payload)
}

// Get returns the entry stored under key, promoting it to most recently used.
func (s *Synced) Get(key string) (*Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Get(key)
}

// Remove drops the entry stored under key, reporting whether it was present.
func (s *Synced) Remove(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Remove(key)
}

// List snapshots every entry newest first.
func (s *Synced) List() []Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.List()
}

// Clear releases every entry and empties the cache.
func (s *Synced) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Clear()
}

// Len returns the number of cached entries.
func (s *Synced) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Len()
}

// Capacity returns the fixed entry limit.
func (s *Synced) Capacity() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Capacity()
}
