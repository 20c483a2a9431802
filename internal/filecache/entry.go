package filecache

import "time"

// Entry holds one cached file payload plus its presentation metadata. Entries
// are owned by the cache for as long as they are mapped: callers may read
// them but must not retain them past the next cache mutation, and semantic
// ownership of the payload stays with the host.
type Entry struct {
	key         string
	displayName string
	touchedAt   time.Time
	payload     any
}

// Key returns the lookup key the entry is stored under.
func (e *Entry) Key() string { return e.key }

// DisplayName returns the human-readable name recorded at the last Put.
func (e *Entry) DisplayName() string { return e.displayName }

// TouchedAt returns when the entry was last inserted or accessed. The
// timestamp is display metadata only; eviction is purely recency-based.
func (e *Entry) TouchedAt() time.Time { return e.touchedAt }

// Payload returns the cached value.
func (e *Entry) Payload() any { return e.payload }

func (e *Entry) Reset() {
	e.key = ""
	e.displayName = ""
	e.touchedAt = time.Time{}
	e.payload = nil
}

// Snapshot is a detached copy of an entry's presentation fields, safe to hold
// after the cache mutates.
type Snapshot struct {
	Key         string
	DisplayName string
	TouchedAt   time.Time
}
