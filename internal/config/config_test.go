package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestLoadLookoutConfigDefaults(t *testing.T) {
	t.Setenv("BRIGHT_HOST", "bright.local")

	cfg, err := LoadLookoutConfig()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.BrightHost != "bright.local" {
		t.Fatalf("expected host bright.local, got %q", cfg.BrightHost)
	}
	if cfg.BrightPort != 8081 {
		t.Fatalf("expected default port 8081, got %d", cfg.BrightPort)
	}
	if cfg.BrightProtocol != "https" {
		t.Fatalf("expected default protocol https, got %q", cfg.BrightProtocol)
	}
	if !cfg.BrightVerifyTLS {
		t.Fatal("expected TLS verification on by default")
	}
	if cfg.BrightTimeout != 5*time.Second {
		t.Fatalf("expected default timeout 5s, got %v", cfg.BrightTimeout)
	}
	if cfg.BrightVersion != "" {
		t.Fatalf("expected no pinned version, got %q", cfg.BrightVersion)
	}
	if cfg.HTTPPort != "18020" {
		t.Fatalf("expected default port 18020, got %q", cfg.HTTPPort)
	}
}

func TestLoadLookoutConfigFromEnv(t *testing.T) {
	t.Setenv("BRIGHT_HOST", "head01")
	t.Setenv("BRIGHT_PORT", "8082")
	t.Setenv("BRIGHT_PROTOCOL", "http")
	t.Setenv("BRIGHT_USERNAME", "admin")
	t.Setenv("BRIGHT_PASSWORD", "secret")
	t.Setenv("BRIGHT_TLS_VERIFY", "false")
	t.Setenv("BRIGHT_TIMEOUT_SECONDS", "9")
	t.Setenv("BRIGHT_VERSION", "7.2")
	t.Setenv("SUPPORTED_MEASURABLES", "diskspace, failedprejob ,,mounts")
	t.Setenv("LOOKOUT_PORT", "9000")

	cfg, err := LoadLookoutConfig()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.BrightPort != 8082 || cfg.BrightProtocol != "http" {
		t.Fatalf("unexpected connection settings: %+v", cfg)
	}
	if cfg.BrightUsername != "admin" || cfg.BrightPassword != "secret" {
		t.Fatalf("unexpected credentials: %+v", cfg)
	}
	if cfg.BrightVerifyTLS {
		t.Fatal("expected TLS verification off")
	}
	if cfg.BrightTimeout != 9*time.Second {
		t.Fatalf("expected timeout 9s, got %v", cfg.BrightTimeout)
	}
	if cfg.BrightVersion != "7.2" {
		t.Fatalf("expected pinned version 7.2, got %q", cfg.BrightVersion)
	}
	want := []string{"diskspace", "failedprejob", "mounts"}
	if !reflect.DeepEqual(cfg.Measurables, want) {
		t.Fatalf("expected measurables %v, got %v", want, cfg.Measurables)
	}
	if cfg.HTTPPort != "9000" {
		t.Fatalf("expected port 9000, got %q", cfg.HTTPPort)
	}
}

func TestLoadLookoutConfigMeasurablesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "measurables.yaml")
	content := "measurables:\n  - diskspace\n  - mounts\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	t.Setenv("BRIGHT_HOST", "bright.local")
	t.Setenv("SUPPORTED_MEASURABLES", "ignored")
	t.Setenv("MEASURABLES_FILE", path)

	cfg, err := LoadLookoutConfig()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	// The file wins over the env list.
	want := []string{"diskspace", "mounts"}
	if !reflect.DeepEqual(cfg.Measurables, want) {
		t.Fatalf("expected measurables %v, got %v", want, cfg.Measurables)
	}
}

func TestLoadLookoutConfigMeasurablesFileErrors(t *testing.T) {
	t.Setenv("BRIGHT_HOST", "bright.local")

	t.Run("missing file", func(t *testing.T) {
		t.Setenv("MEASURABLES_FILE", filepath.Join(t.TempDir(), "absent.yaml"))
		if _, err := LoadLookoutConfig(); err == nil {
			t.Fatal("expected error for missing file")
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		if err := os.WriteFile(path, []byte("measurables: ["), 0o644); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
		t.Setenv("MEASURABLES_FILE", path)
		if _, err := LoadLookoutConfig(); err == nil {
			t.Fatal("expected error for malformed yaml")
		}
	})
}

func TestServiceConfigMapping(t *testing.T) {
	cfg := &LookoutConfig{
		BrightHost:      "head01",
		BrightPort:      8082,
		BrightProtocol:  "https",
		BrightUsername:  "admin",
		BrightPassword:  "secret",
		BrightVerifyTLS: true,
		BrightTimeout:   9 * time.Second,
		BrightVersion:   "8.2",
		Measurables:     []string{"diskspace"},
	}

	svcCfg := cfg.ServiceConfig()
	if svcCfg.Client.Host != "head01" || svcCfg.Client.Port != 8082 {
		t.Fatalf("unexpected client config: %+v", svcCfg.Client)
	}
	if svcCfg.Client.Username != "admin" || svcCfg.Client.Password != "secret" {
		t.Fatalf("unexpected client credentials: %+v", svcCfg.Client)
	}
	if svcCfg.Client.Timeout != 9*time.Second {
		t.Fatalf("unexpected client timeout: %v", svcCfg.Client.Timeout)
	}
	if svcCfg.Version != "8.2" {
		t.Fatalf("unexpected version: %q", svcCfg.Version)
	}
	if !reflect.DeepEqual(svcCfg.Measurables, []string{"diskspace"}) {
		t.Fatalf("unexpected measurables: %v", svcCfg.Measurables)
	}
}
