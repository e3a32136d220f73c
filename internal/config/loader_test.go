package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsWhenNoFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("load returned error: %v", err)
	}
	if cfg.ListenAddr != ":8080" {
		t.Fatalf("expected default listen addr, got %q", cfg.ListenAddr)
	}
	if cfg.ExportDir != "exports" {
		t.Fatalf("expected default export dir, got %q", cfg.ExportDir)
	}
	if cfg.DenyListPath != "configs/denylist.yaml" {
		t.Fatalf("expected default denylist path, got %q", cfg.DenyListPath)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	asset := `server:
  listen: ":9090"
export:
  dir: /tmp/cleaned
denylist:
  path: /etc/adscrub/denylist.yaml
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(asset), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("load returned error: %v", err)
	}
	if cfg.ListenAddr != ":9090" {
		t.Fatalf("expected listen from file, got %q", cfg.ListenAddr)
	}
	if cfg.ExportDir != "/tmp/cleaned" {
		t.Fatalf("expected export dir from file, got %q", cfg.ExportDir)
	}
	if cfg.DenyListPath != "/etc/adscrub/denylist.yaml" {
		t.Fatalf("expected denylist path from file, got %q", cfg.DenyListPath)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	asset := "server:\n  listen: \":9090\"\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(asset), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("ADSCRUB_SERVER_LISTEN", ":7070")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("load returned error: %v", err)
	}
	if cfg.ListenAddr != ":7070" {
		t.Fatalf("expected env override, got %q", cfg.ListenAddr)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server: [broken"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(dir); err == nil {
		t.Fatalf("expected error for malformed config")
	}
}
