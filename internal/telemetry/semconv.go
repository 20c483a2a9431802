// Package telemetry provides semantic conventions and metric instruments for
// editor observability.
package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Semantic convention attribute keys for editor-specific telemetry.
// Following OpenTelemetry naming conventions: namespace.attribute_name
const (
	// Pool attributes
	AttrPoolName   = attribute.Key("pool.name")
	AttrObjectType = attribute.Key("object.type")
	AttrOperation  = attribute.Key("operation")
	AttrResult     = attribute.Key("result")

	// Cache attributes
	AttrCacheName = attribute.Key("cache.name")

	// Environment attribute
	AttrEnvironment = attribute.Key("environment")
)

// Result values recorded under AttrResult.
const (
	ResultReused    = "reused"
	ResultAllocated = "allocated"
	ResultRetained  = "retained"
	ResultDropped   = "dropped"
)

// PoolAttributes returns common attributes for pool metrics.
func PoolAttributes(environment, poolName, result string) []attribute.KeyValue {
	return []attribute.KeyValue{
		AttrEnvironment.String(environment),
		AttrPoolName.String(poolName),
		AttrResult.String(result),
	}
}

// CacheAttributes returns common attributes for cache metrics.
func CacheAttributes(environment, cacheName string) []attribute.KeyValue {
	return []attribute.KeyValue{
		AttrEnvironment.String(environment),
		AttrCacheName.String(cacheName),
	}
}
