package telemetry

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func withManualReader(t *testing.T) *sdkmetric.ManualReader {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	previous := otel.GetMeterProvider()
	otel.SetMeterProvider(provider)
	t.Cleanup(func() {
		otel.SetMeterProvider(previous)
		_ = provider.Shutdown(context.Background())
	})
	return reader
}

func metricNames(rm metricdata.ResourceMetrics) map[string]bool {
	names := make(map[string]bool)
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			names[m.Name] = true
		}
	}
	return names
}

func TestNilMetricsAreNoops(t *testing.T) {
	var pm *PoolMetrics
	var cm *CacheMetrics

	ctx := context.Background()
	pm.RecordAcquire(ctx, "pool", true)
	pm.RecordRelease(ctx, "pool", false)
	cm.RecordHit(ctx)
	cm.RecordMiss(ctx)
	cm.RecordEviction(ctx)
}

func TestPoolMetricsRecordCounters(t *testing.T) {
	reader := withManualReader(t)
	pm := NewPoolMetrics("dev")

	ctx := context.Background()
	pm.RecordAcquire(ctx, "filecache.nodes", true)
	pm.RecordAcquire(ctx, "filecache.nodes", false)
	pm.RecordRelease(ctx, "filecache.nodes", true)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	names := metricNames(rm)
	for _, want := range []string{"rpgeditor_pool_acquired_total", "rpgeditor_pool_released_total"} {
		if !names[want] {
			t.Errorf("missing metric %s in %v", want, names)
		}
	}
}

func TestCacheMetricsRecordCountersAndGauge(t *testing.T) {
	reader := withManualReader(t)
	cm := NewCacheMetrics("dev", "recent-files", func() int { return 7 })

	ctx := context.Background()
	cm.RecordHit(ctx)
	cm.RecordMiss(ctx)
	cm.RecordEviction(ctx)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	names := metricNames(rm)
	for _, want := range []string{
		"rpgeditor_cache_hits_total",
		"rpgeditor_cache_misses_total",
		"rpgeditor_cache_evictions_total",
		"rpgeditor_cache_entries",
	} {
		if !names[want] {
			t.Errorf("missing metric %s in %v", want, names)
		}
	}
}

func TestAttributeHelpers(t *testing.T) {
	attrs := PoolAttributes("dev", "loader.documents", ResultReused)
	if len(attrs) != 3 {
		t.Fatalf("PoolAttributes len = %d", len(attrs))
	}
	if attrs[1].Key != AttrPoolName || attrs[1].Value.AsString() != "loader.documents" {
		t.Errorf("pool attribute = %v", attrs[1])
	}

	cacheAttrs := CacheAttributes("prod", "recent-files")
	if len(cacheAttrs) != 2 || cacheAttrs[1].Value.AsString() != "recent-files" {
		t.Errorf("CacheAttributes = %v", cacheAttrs)
	}
}
