// Package config centralises runtime configuration helpers for the editor
// substrate.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/dragonbaba/rpgeditor/internal/filecache"
)

// Environment identifies the runtime environment where the editor operates.
type Environment string

const (
	// EnvDev marks the development environment.
	EnvDev Environment = "dev"
	// EnvStaging marks the staging environment.
	EnvStaging Environment = "staging"
	// EnvProd marks the production environment.
	EnvProd Environment = "prod"
)

// DefaultCacheCapacity is the entry limit used by the editor deployment.
const DefaultCacheCapacity = filecache.DefaultCapacity

// CacheSettings sizes the recent-file cache.
type CacheSettings struct {
	Capacity int
}

// PoolSettings sizes the recycling pool for decode scratch documents.
type PoolSettings struct {
	DocumentCapacity int
}

// WarmupSettings controls concurrent cache warm-up at editor startup.
type WarmupSettings struct {
	Workers       int
	RatePerSecond float64
	Burst         int
}

// TelemetrySettings configures OTLP metric export.
type TelemetrySettings struct {
	OTLPEndpoint string
	ServiceName  string
}

// Settings contains the editor configuration tree loaded from defaults and
// overrides.
type Settings struct {
	Environment Environment
	Cache       CacheSettings
	Pools       PoolSettings
	Warmup      WarmupSettings
	Telemetry   TelemetrySettings
}

// Default returns the default editor configuration.
func Default() Settings {
	return Settings{
		Environment: EnvProd,
		Cache:       CacheSettings{Capacity: DefaultCacheCapacity},
		Pools:       PoolSettings{DocumentCapacity: 8},
		Warmup: WarmupSettings{
			Workers:       4,
			RatePerSecond: 200,
			Burst:         1,
		},
		Telemetry: TelemetrySettings{
			OTLPEndpoint: "",
			ServiceName:  "rpgeditor",
		},
	}
}

// ApplyEnv overlays RPGEDIT_* environment variables onto the base settings.
func ApplyEnv(base Settings) Settings {
	cfg := base.clone()
	if env := strings.TrimSpace(os.Getenv("RPGEDIT_ENV")); env != "" {
		cfg.Environment = Environment(strings.ToLower(env))
	}
	if v := strings.TrimSpace(os.Getenv("RPGEDIT_CACHE_CAPACITY")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Cache.Capacity = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("RPGEDIT_DOCUMENT_POOL_CAPACITY")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Pools.DocumentCapacity = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("RPGEDIT_WARMUP_WORKERS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Warmup.Workers = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("RPGEDIT_WARMUP_RATE")); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.Warmup.RatePerSecond = f
		}
	}
	if v := strings.TrimSpace(os.Getenv("RPGEDIT_OTLP_ENDPOINT")); v != "" {
		cfg.Telemetry.OTLPEndpoint = v
	}
	if v := strings.TrimSpace(os.Getenv("RPGEDIT_SERVICE_NAME")); v != "" {
		cfg.Telemetry.ServiceName = v
	}
	return cfg
}

// FromEnv loads configuration values from environment variables, overriding
// defaults.
func FromEnv() Settings {
	return ApplyEnv(Default())
}

// Option mutates Settings when applied via Apply.
type Option func(*Settings)

// Apply applies the provided Option set to a copy of the base Settings.
func Apply(base Settings, opts ...Option) Settings {
	cfg := base.clone()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithEnvironment configures the top-level environment.
func WithEnvironment(env Environment) Option {
	return func(s *Settings) {
		if env != "" {
			s.Environment = env
		}
	}
}

// WithCacheCapacity overrides the recent-file cache entry limit.
func WithCacheCapacity(capacity int) Option {
	return func(s *Settings) {
		if capacity > 0 {
			s.Cache.Capacity = capacity
		}
	}
}

// WithWarmupWorkers overrides the warm-up worker count.
func WithWarmupWorkers(workers int) Option {
	return func(s *Settings) {
		if workers > 0 {
			s.Warmup.Workers = workers
		}
	}
}

// WithTelemetryEndpoint overrides the OTLP metric endpoint.
func WithTelemetryEndpoint(endpoint string) Option {
	trimmed := strings.TrimSpace(endpoint)
	return func(s *Settings) {
		s.Telemetry.OTLPEndpoint = trimmed
	}
}

func (s Settings) clone() Settings {
	// All fields are value types; a shallow copy is a deep copy.
	return s
}
