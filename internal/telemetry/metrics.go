package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// PoolMetrics records acquisition and release outcomes for named pools. All
// methods are nil-safe so instrumentation can be left unwired in tests.
type PoolMetrics struct {
	environment string
	acquired    metric.Int64Counter
	released    metric.Int64Counter
}

// NewPoolMetrics constructs pool instruments from the global meter provider.
// Instrument creation failures leave the corresponding counter nil; recording
// then becomes a no-op rather than an error surfaced to pooling hot paths.
func NewPoolMetrics(environment string) *PoolMetrics {
	m := &PoolMetrics{environment: environment, acquired: nil, released: nil}
	meter := otel.Meter("rpgeditor.pool")
	if counter, err := meter.Int64Counter("rpgeditor_pool_acquired_total",
		metric.WithDescription("Pool acquisitions by pool name and outcome"),
		metric.WithUnit("{object}")); err == nil {
		m.acquired = counter
	}
	if counter, err := meter.Int64Counter("rpgeditor_pool_released_total",
		metric.WithDescription("Pool releases by pool name and outcome"),
		metric.WithUnit("{object}")); err == nil {
		m.released = counter
	}
	return m
}

// RecordAcquire counts one acquisition, distinguishing reuse from allocation.
func (m *PoolMetrics) RecordAcquire(ctx context.Context, poolName string, reused bool) {
	if m == nil || m.acquired == nil {
		return
	}
	result := ResultAllocated
	if reused {
		result = ResultReused
	}
	m.acquired.Add(ctx, 1, metric.WithAttributes(PoolAttributes(m.environment, poolName, result)...))
}

// RecordRelease counts one release, distinguishing retention from discard.
func (m *PoolMetrics) RecordRelease(ctx context.Context, poolName string, dropped bool) {
	if m == nil || m.released == nil {
		return
	}
	result := ResultRetained
	if dropped {
		result = ResultDropped
	}
	m.released.Add(ctx, 1, metric.WithAttributes(PoolAttributes(m.environment, poolName, result)...))
}

// CacheMetrics records hit/miss/eviction counts and observes the entry count
// for one cache instance. All methods are nil-safe.
type CacheMetrics struct {
	attrs     []attribute.KeyValue
	hits      metric.Int64Counter
	misses    metric.Int64Counter
	evictions metric.Int64Counter
}

// NewCacheMetrics constructs cache instruments from the global meter provider.
// size, when non-nil, backs an observable entry gauge; it is invoked from the
// metric collector's goroutine, so only pass it for caches wrapped in Synced.
func NewCacheMetrics(environment, cacheName string, size func() int) *CacheMetrics {
	m := &CacheMetrics{
		attrs:     CacheAttributes(environment, cacheName),
		hits:      nil,
		misses:    nil,
		evictions: nil,
	}
	meter := otel.Meter("rpgeditor.filecache")
	if counter, err := meter.Int64Counter("rpgeditor_cache_hits_total",
		metric.WithDescription("Cache hits by cache name"),
		metric.WithUnit("{lookup}")); err == nil {
		m.hits = counter
	}
	if counter, err := meter.Int64Counter("rpgeditor_cache_misses_total",
		metric.WithDescription("Cache misses by cache name"),
		metric.WithUnit("{lookup}")); err == nil {
		m.misses = counter
	}
	if counter, err := meter.Int64Counter("rpgeditor_cache_evictions_total",
		metric.WithDescription("Capacity evictions by cache name"),
		metric.WithUnit("{entry}")); err == nil {
		m.evictions = counter
	}
	if size != nil {
		attrs := metric.WithAttributes(m.attrs...)
		_, _ = meter.Int64ObservableGauge("rpgeditor_cache_entries",
			metric.WithDescription("Current cache entry count"),
			metric.WithUnit("{entry}"),
			metric.WithInt64Callback(func(_ context.Context, observer metric.Int64Observer) error {
				observer.Observe(int64(size()), attrs)
				return nil
			}))
	}
	return m
}

// RecordHit counts one cache hit.
func (m *CacheMetrics) RecordHit(ctx context.Context) {
	if m == nil || m.hits == nil {
		return
	}
	m.hits.Add(ctx, 1, metric.WithAttributes(m.attrs...))
}

// RecordMiss counts one cache miss.
func (m *CacheMetrics) RecordMiss(ctx context.Context) {
	if m == nil || m.misses == nil {
		return
	}
	m.misses.Add(ctx, 1, metric.WithAttributes(m.attrs...))
}

// RecordEviction counts one capacity eviction.
func (m *CacheMetrics) RecordEviction(ctx context.Context) {
	if m == nil || m.evictions == nil {
		return
	}
	m.evictions.Add(ctx, 1, metric.WithAttributes(m.attrs...))
}
