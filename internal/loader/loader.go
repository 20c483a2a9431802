// Package loader reads and decodes editor data files through the recent-file
// cache. All file I/O for the substrate lives here; the cache and pools
// beneath it never touch the disk.
package loader

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/dragonbaba/rpgeditor/errs"
	"github.com/dragonbaba/rpgeditor/internal/document"
	"github.com/dragonbaba/rpgeditor/internal/filecache"
	"github.com/dragonbaba/rpgeditor/internal/observability"
	"github.com/dragonbaba/rpgeditor/internal/pool"
)

const (
	subsystem       = "loader"
	scratchPoolName = "loader.documents"

	defaultMaxAttempts   = 3
	defaultRetryInterval = 50 * time.Millisecond
)

// Store is the cache surface the loader needs. Both *filecache.Cache and
// *filecache.Synced satisfy it; Warm requires the latter.
type Store interface {
	Get(key string) (*filecache.Entry, bool)
	Put(key, displayName string, payload any) error
	Remove(key string) bool
	List() []filecache.Snapshot
}

// Loader loads data files into the cache, decoding through a pooled scratch
// document so repeated loads allocate no new decode buffers.
type Loader struct {
	store    Store
	pools    *pool.Registry
	poolMu   sync.Mutex
	readFile func(string) ([]byte, error)

	maxAttempts     int
	retryInterval   time.Duration
	scratchCapacity int

	warmWorkers int
	warmRate    float64
	warmBurst   int
}

// Option configures optional loader behaviour.
type Option func(*Loader)

// WithScratchCapacity sizes the scratch-document pool.
func WithScratchCapacity(capacity int) Option {
	return func(l *Loader) {
		if capacity > 0 {
			l.scratchCapacity = capacity
		}
	}
}

// WithRetry overrides read retry behaviour. attempts counts total tries.
func WithRetry(attempts int, initialInterval time.Duration) Option {
	return func(l *Loader) {
		if attempts > 0 {
			l.maxAttempts = attempts
		}
		if initialInterval > 0 {
			l.retryInterval = initialInterval
		}
	}
}

// WithReadFile replaces the file reader, primarily for tests.
func WithReadFile(read func(string) ([]byte, error)) Option {
	return func(l *Loader) {
		if read != nil {
			l.readFile = read
		}
	}
}

// WithWarmup configures concurrent warm-up: worker count and the disk read
// rate limit.
func WithWarmup(workers int, ratePerSecond float64, burst int) Option {
	return func(l *Loader) {
		if workers > 0 {
			l.warmWorkers = workers
		}
		if ratePerSecond > 0 {
			l.warmRate = ratePerSecond
		}
		if burst > 0 {
			l.warmBurst = burst
		}
	}
}

// New constructs a loader over the provided store. The registry owning the
// scratch pool stays internal to the loader so scratch-document lifetime is
// visible in exactly one place.
func New(store Store, opts ...Option) (*Loader, error) {
	l := &Loader{
		store:           store,
		pools:           nil,
		readFile:        os.ReadFile,
		maxAttempts:     defaultMaxAttempts,
		retryInterval:   defaultRetryInterval,
		warmWorkers:     4,
		warmRate:        200,
		warmBurst:       1,
		scratchCapacity: 8,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	l.pools = pool.NewRegistry()
	err := l.pools.Register(scratchPoolName, l.scratchCapacity, func() pool.Item {
		return new(document.Document)
	})
	if err != nil {
		return nil, err
	}
	return l, nil
}

// NormalizeKey converts a file path into its cache key: cleaned, forward
// slashes, lowercased. The original host treats data paths case-insensitively,
// so two spellings of the same file share one cache slot.
func NormalizeKey(path string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return ""
	}
	return strings.ToLower(filepath.ToSlash(filepath.Clean(trimmed)))
}

// Load returns the document stored under path, reading and decoding it on a
// cache miss. Read and decode failures never enter the cache.
func (l *Loader) Load(ctx context.Context, path string) (*document.Document, error) {
	key := NormalizeKey(path)
	if key == "" {
		return nil, errs.New(subsystem, errs.CodeInvalid, errs.WithMessage("empty path"))
	}

	if entry, ok := l.store.Get(key); ok {
		if doc, ok := entry.Payload().(*document.Document); ok {
			return doc, nil
		}
	}

	data, err := l.read(ctx, path)
	if err != nil {
		return nil, errs.New(subsystem, errs.CodeIO, errs.WithPath(path), errs.WithCause(err),
			errs.WithRemediation("check the file exists and is readable"))
	}

	item, err := l.acquireScratch()
	if err != nil {
		return nil, err
	}
	scratch := item.(*document.Document)
	if err := json.Unmarshal(data, scratch); err != nil {
		l.releaseScratch(scratch)
		return nil, errs.New(subsystem, errs.CodeDecode, errs.WithPath(path), errs.WithCause(err))
	}

	frozen := scratch.Clone()
	l.releaseScratch(scratch)
	frozen.Revision = uuid.NewString()

	display := frozen.Name
	if display == "" {
		display = filepath.Base(path)
	}
	if err := l.store.Put(key, display, frozen); err != nil {
		return nil, err
	}
	return frozen, nil
}

// Invalidate drops the cached document for path, reporting whether one was
// cached.
func (l *Loader) Invalidate(path string) bool {
	return l.store.Remove(NormalizeKey(path))
}

// Recent returns the cache's newest-first listing for the editor's recent
// files view.
func (l *Loader) Recent() []filecache.Snapshot {
	return l.store.List()
}

// ScratchStats exposes the scratch pool counters for diagnostics.
func (l *Loader) ScratchStats() pool.Stats {
	l.poolMu.Lock()
	defer l.poolMu.Unlock()
	stats, err := l.pools.Stats(scratchPoolName)
	if err != nil {
		return pool.Stats{}
	}
	return stats
}

// acquireScratch and releaseScratch guard the single-threaded registry; Warm
// drives Load from several goroutines at once.
func (l *Loader) acquireScratch() (pool.Item, error) {
	l.poolMu.Lock()
	defer l.poolMu.Unlock()
	return l.pools.Acquire(scratchPoolName)
}

func (l *Loader) releaseScratch(scratch *document.Document) {
	l.poolMu.Lock()
	defer l.poolMu.Unlock()
	l.pools.Release(scratchPoolName, scratch)
}

// read fetches the file with bounded exponential retry. Transient filesystem
// errors during editor saves (partial writes, locked files) resolve within a
// retry or two; persistent errors surface after maxAttempts.
func (l *Loader) read(ctx context.Context, path string) ([]byte, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = l.retryInterval

	var lastErr error
	for attempt := 1; attempt <= l.maxAttempts; attempt++ {
		data, err := l.readFile(path)
		if err == nil {
			return data, nil
		}
		lastErr = err
		if attempt == l.maxAttempts {
			break
		}
		observability.Log().Debug("read retry",
			observability.String("path", path),
			observability.Int("attempt", attempt),
			observability.Err(err))
		sleep := policy.NextBackOff()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(sleep):
		}
	}
	return nil, lastErr
}
