package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewConfigDefaultsWhenMissing(t *testing.T) {
	home := t.TempDir()
	cfg, err := NewConfig(home)
	if err != nil {
		t.Fatalf("NewConfig returned error: %v", err)
	}
	if cfg.File.Version != 1 {
		t.Fatalf("expected default version == 1, got %d", cfg.File.Version)
	}
	if cfg.File.API.BaseURL != DefaultBaseURL {
		t.Fatalf("expected default base url %q, got %q", DefaultBaseURL, cfg.File.API.BaseURL)
	}
	if cfg.File.API.Timeout != DefaultTimeout {
		t.Fatalf("expected default timeout, got %s", cfg.File.API.Timeout)
	}
	if cfg.File.Catalog.Path != "" {
		t.Fatalf("expected bundled catalog, got %q", cfg.File.Catalog.Path)
	}
}

func TestInitHomeDirWritesParsableDefaults(t *testing.T) {
	home := t.TempDir()
	if err := InitHomeDir(home); err != nil {
		t.Fatalf("init home: %v", err)
	}
	for _, dir := range []string{"logs", "state"} {
		if info, err := os.Stat(filepath.Join(home, dir)); err != nil || !info.IsDir() {
			t.Fatalf("expected %s directory", dir)
		}
	}
	cfg, err := NewConfig(home)
	if err != nil {
		t.Fatalf("default config must parse: %v", err)
	}
	if cfg.File.API.Timeout != 20*time.Second {
		t.Fatalf("expected 20s timeout from default file, got %s", cfg.File.API.Timeout)
	}
	if cfg.DevServerAddress() != "127.0.0.1:8780" {
		t.Fatalf("unexpected dev server address %s", cfg.DevServerAddress())
	}

	// A second init must not clobber edits.
	custom := []byte("version: 1\napi:\n  base_url: https://programs.example.com/\n")
	if err := os.WriteFile(filepath.Join(home, "config.yaml"), custom, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := InitHomeDir(home); err != nil {
		t.Fatalf("re-init: %v", err)
	}
	cfg, err = NewConfig(home)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if cfg.File.API.BaseURL != "https://programs.example.com" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.File.API.BaseURL)
	}
}

func TestNewConfigParsesYaml(t *testing.T) {
	home := t.TempDir()
	configYAML := strings.TrimSpace(`
version: 1
api:
  base_url: https://api.example.com/v1
  timeout: 5s
  max_body_bytes: 2048
catalog:
  path: catalogs/gym.yaml
dev_server:
  host: 0.0.0.0
  port: 9100
`)
	if err := os.WriteFile(filepath.Join(home, "config.yaml"), []byte(configYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := NewConfig(home)
	if err != nil {
		t.Fatalf("NewConfig returned error: %v", err)
	}
	if cfg.File.API.BaseURL != "https://api.example.com/v1" {
		t.Fatalf("unexpected base url %q", cfg.File.API.BaseURL)
	}
	if cfg.File.API.Timeout != 5*time.Second {
		t.Fatalf("unexpected timeout %s", cfg.File.API.Timeout)
	}
	if cfg.File.API.MaxBodyBytes != 2048 {
		t.Fatalf("unexpected max body %d", cfg.File.API.MaxBodyBytes)
	}
	if want := filepath.Join(home, "catalogs", "gym.yaml"); cfg.File.Catalog.Path != want {
		t.Fatalf("expected catalog path resolved to %s, got %s", want, cfg.File.Catalog.Path)
	}
	if cfg.DevServerAddress() != "0.0.0.0:9100" {
		t.Fatalf("unexpected dev server address %s", cfg.DevServerAddress())
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("REGIMEN_API_URL", "https://override.example.com")
	t.Setenv("REGIMEN_API_TIMEOUT", "3s")
	t.Setenv("REGIMEN_CATALOG", "/tmp/catalog.yaml")
	t.Setenv("REGIMEN_DEV_PORT", "9999")
	cfg, err := NewConfig(t.TempDir())
	if err != nil {
		t.Fatalf("NewConfig returned error: %v", err)
	}
	if cfg.File.API.BaseURL != "https://override.example.com" {
		t.Fatalf("expected env base url, got %s", cfg.File.API.BaseURL)
	}
	if cfg.File.API.Timeout != 3*time.Second {
		t.Fatalf("expected env timeout, got %s", cfg.File.API.Timeout)
	}
	if cfg.File.Catalog.Path != "/tmp/catalog.yaml" {
		t.Fatalf("expected env catalog, got %s", cfg.File.Catalog.Path)
	}
	if cfg.File.DevServer.Port != 9999 {
		t.Fatalf("expected env port, got %d", cfg.File.DevServer.Port)
	}
}

func TestNewConfigRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"scheme":  "api:\n  base_url: ftp://example.com\n",
		"host":    "api:\n  base_url: http://\n",
		"version": "version: 2\n",
		"port":    "dev_server:\n  port: 70000\n",
		"yaml":    "api: [",
	}
	for name, body := range cases {
		home := t.TempDir()
		if err := os.WriteFile(filepath.Join(home, "config.yaml"), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := NewConfig(home); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestResolveHomeHonorsEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("REGIMEN_HOME", dir)
	home, err := ResolveHome()
	if err != nil {
		t.Fatalf("resolve home: %v", err)
	}
	if home != filepath.Clean(dir) {
		t.Fatalf("expected %s, got %s", dir, home)
	}
}

func TestLastProgramRoundTrip(t *testing.T) {
	cfg := &Config{HomeDir: t.TempDir(), File: defaultFileConfig()}
	if _, ok, err := cfg.LastProgram(); err != nil || ok {
		t.Fatalf("expected no last program, got ok=%v err=%v", ok, err)
	}
	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	if err := cfg.SaveLastProgram(" prog-42 ", at); err != nil {
		t.Fatalf("save: %v", err)
	}
	last, ok, err := cfg.LastProgram()
	if err != nil || !ok {
		t.Fatalf("expected last program, got ok=%v err=%v", ok, err)
	}
	if last.ID != "prog-42" || !last.CreatedAt.Equal(at) {
		t.Fatalf("unexpected last program %+v", last)
	}
	if err := cfg.SaveLastProgram("  ", at); err == nil {
		t.Fatalf("expected error for blank id")
	}
}
