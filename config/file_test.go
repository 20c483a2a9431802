package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "editor.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFileOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
environment: dev
cache:
  capacity: 20
pools:
  documentCapacity: 4
warmup:
  workers: 6
  ratePerSecond: 100
telemetry:
  otlpEndpoint: http://collector:4318
  serviceName: rpgeditor-dev
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Environment != EnvDev {
		t.Errorf("Environment = %q", cfg.Environment)
	}
	if cfg.Cache.Capacity != 20 {
		t.Errorf("Cache.Capacity = %d", cfg.Cache.Capacity)
	}
	if cfg.Pools.DocumentCapacity != 4 {
		t.Errorf("Pools.DocumentCapacity = %d", cfg.Pools.DocumentCapacity)
	}
	if cfg.Warmup.Workers != 6 {
		t.Errorf("Warmup.Workers = %d", cfg.Warmup.Workers)
	}
	if cfg.Telemetry.ServiceName != "rpgeditor-dev" {
		t.Errorf("ServiceName = %q", cfg.Telemetry.ServiceName)
	}
}

func TestLoadFilePartialKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "cache:\n  capacity: 5\n")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Cache.Capacity != 5 {
		t.Errorf("Cache.Capacity = %d", cfg.Cache.Capacity)
	}
	if cfg.Environment != EnvProd {
		t.Errorf("Environment = %q, want default", cfg.Environment)
	}
	if cfg.Warmup.Workers != Default().Warmup.Workers {
		t.Errorf("Warmup.Workers = %d, want default", cfg.Warmup.Workers)
	}
}

func TestLoadFileAutoWorkers(t *testing.T) {
	path := writeConfig(t, "warmup:\n  workers: auto\n")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Warmup.Workers != runtime.NumCPU() {
		t.Errorf("Warmup.Workers = %d, want NumCPU", cfg.Warmup.Workers)
	}
}

func TestLoadFileRejectsInvalidWorkers(t *testing.T) {
	path := writeConfig(t, "warmup:\n  workers: sometimes\n")
	if _, err := LoadFile(path); err == nil {
		t.Error("expected error for invalid workers value")
	}

	path = writeConfig(t, "warmup:\n  workers: -2\n")
	if _, err := LoadFile(path); err == nil {
		t.Error("expected error for negative workers value")
	}
}

func TestLoadFileRejectsUnknownEnvironment(t *testing.T) {
	path := writeConfig(t, "environment: qa\n")
	if _, err := LoadFile(path); err == nil {
		t.Error("expected error for unknown environment")
	}
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault("")
	if err != nil {
		t.Fatalf("LoadOrDefault failed: %v", err)
	}
	if cfg.Cache.Capacity != DefaultCacheCapacity {
		t.Errorf("Cache.Capacity = %d, want default", cfg.Cache.Capacity)
	}

	if _, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
