package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// WorkerSetting encapsulates the warm-up worker configuration allowing both
// numeric and symbolic values.
type WorkerSetting struct {
	kind  workerKind
	value int
}

type workerKind int

const (
	workerUnset workerKind = iota
	workerExplicit
	workerAuto
	workerDefault
)

// UnmarshalYAML supports integer, "auto", and "default" values for workers.
func (s *WorkerSetting) UnmarshalYAML(node *yaml.Node) error {
	if node == nil {
		*s = WorkerSetting{kind: workerUnset, value: 0}
		return nil
	}

	text := strings.TrimSpace(node.Value)
	if text == "" {
		s.kind = workerUnset
		s.value = 0
		return nil
	}

	switch strings.ToLower(text) {
	case "auto":
		s.kind = workerAuto
		s.value = 0
		return nil
	case "default":
		s.kind = workerDefault
		s.value = 0
		return nil
	}

	val, err := strconv.Atoi(text)
	if err != nil {
		return fmt.Errorf("warmup workers: invalid value %q", node.Value)
	}
	if val <= 0 {
		return fmt.Errorf("warmup workers: numeric value must be > 0")
	}
	s.kind = workerExplicit
	s.value = val
	return nil
}

// resolve returns the effective worker count derived from the setting.
func (s WorkerSetting) resolve(fallback int) int {
	switch s.kind {
	case workerExplicit:
		return s.value
	case workerAuto:
		if cores := runtime.NumCPU(); cores > 0 {
			return cores
		}
		return fallback
	case workerDefault, workerUnset:
		return fallback
	default:
		return fallback
	}
}

type fileConfig struct {
	Environment string `yaml:"environment"`
	Cache       struct {
		Capacity int `yaml:"capacity"`
	} `yaml:"cache"`
	Pools struct {
		DocumentCapacity int `yaml:"documentCapacity"`
	} `yaml:"pools"`
	Warmup struct {
		Workers       WorkerSetting `yaml:"workers"`
		RatePerSecond float64       `yaml:"ratePerSecond"`
		Burst         int           `yaml:"burst"`
	} `yaml:"warmup"`
	Telemetry struct {
		OTLPEndpoint string `yaml:"otlpEndpoint"`
		ServiceName  string `yaml:"serviceName"`
	} `yaml:"telemetry"`
}

// LoadFile reads a YAML settings file and overlays it onto the defaults.
func LoadFile(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("read config: %w", err)
	}

	var raw fileConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Settings{}, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg := Default()
	if env := strings.ToLower(strings.TrimSpace(raw.Environment)); env != "" {
		cfg.Environment = Environment(env)
	}
	if raw.Cache.Capacity > 0 {
		cfg.Cache.Capacity = raw.Cache.Capacity
	}
	if raw.Pools.DocumentCapacity > 0 {
		cfg.Pools.DocumentCapacity = raw.Pools.DocumentCapacity
	}
	cfg.Warmup.Workers = raw.Warmup.Workers.resolve(cfg.Warmup.Workers)
	if raw.Warmup.RatePerSecond > 0 {
		cfg.Warmup.RatePerSecond = raw.Warmup.RatePerSecond
	}
	if raw.Warmup.Burst > 0 {
		cfg.Warmup.Burst = raw.Warmup.Burst
	}
	cfg.Telemetry.OTLPEndpoint = strings.TrimSpace(raw.Telemetry.OTLPEndpoint)
	if svc := strings.TrimSpace(raw.Telemetry.ServiceName); svc != "" {
		cfg.Telemetry.ServiceName = svc
	}

	if err := cfg.validate(); err != nil {
		return Settings{}, err
	}
	return cfg, nil
}

// LoadOrDefault loads the file when a path is given and falls back to the
// defaults otherwise.
func LoadOrDefault(path string) (Settings, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

func (s Settings) validate() error {
	switch s.Environment {
	case EnvDev, EnvStaging, EnvProd:
	default:
		return fmt.Errorf("unknown environment %q", s.Environment)
	}
	if s.Cache.Capacity <= 0 {
		return fmt.Errorf("cache capacity must be positive")
	}
	if s.Pools.DocumentCapacity <= 0 {
		return fmt.Errorf("document pool capacity must be positive")
	}
	if s.Warmup.Workers <= 0 {
		return fmt.Errorf("warmup workers must be positive")
	}
	return nil
}
