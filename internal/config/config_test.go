package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"adflow/internal/config"
)

func TestDefaultsNormalize(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Validate(); err == nil {
		// Defaults still carry unexpanded tilde paths until Load runs, but the
		// logging and bind values must already be valid.
		if cfg.Logging.Format != "console" {
			t.Fatalf("unexpected default log format %q", cfg.Logging.Format)
		}
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be reported missing")
	}
	if resolved != path {
		t.Fatalf("expected resolved path %q, got %q", path, resolved)
	}
	if cfg.Paths.APIBind != "127.0.0.1:8410" {
		t.Fatalf("unexpected default api bind %q", cfg.Paths.APIBind)
	}
	if !filepath.IsAbs(cfg.Paths.DataDir) {
		t.Fatalf("expected data dir expanded to absolute path, got %q", cfg.Paths.DataDir)
	}
}

func TestLoadParsesAndValidates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := strings.Join([]string{
		"[paths]",
		`data_dir = "` + filepath.Join(dir, "data") + `"`,
		`log_dir = "` + filepath.Join(dir, "logs") + `"`,
		`api_bind = "127.0.0.1:9001"`,
		"",
		"[http]",
		`allowed_origins = ["http://localhost:5173/", "http://localhost:5173"]`,
		"",
		"[logging]",
		`format = "json"`,
		`level = "debug"`,
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if cfg.Paths.APIBind != "127.0.0.1:9001" {
		t.Fatalf("unexpected api bind %q", cfg.Paths.APIBind)
	}
	if len(cfg.HTTP.AllowedOrigins) != 1 {
		t.Fatalf("expected duplicate origins collapsed, got %v", cfg.HTTP.AllowedOrigins)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging config %+v", cfg.Logging)
	}
}

func TestLoadRejectsBadBind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := "[paths]\napi_bind = \"not-a-bind\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected validation error for malformed bind address")
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[paths]") {
		t.Fatal("sample config missing [paths] section")
	}
}
