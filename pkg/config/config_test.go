package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()
	if cfg.SocketPath == "" || cfg.PidPath == "" {
		t.Fatalf("expected default runtime paths, got %+v", cfg)
	}
	if cfg.Band.Width != 120 || cfg.Band.Height != 1 {
		t.Fatalf("unexpected default band geometry: %+v", cfg.Band)
	}
	if cfg.Shell == "" || cfg.LogPath == "" {
		t.Fatalf("expected default shell and log path, got %+v", cfg)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
socket_path: /tmp/custom.sock
band:
  width: 200
  height: 2
shell: /bin/bash
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SocketPath != "/tmp/custom.sock" {
		t.Fatalf("unexpected socket path: %s", cfg.SocketPath)
	}
	if cfg.Band.Width != 200 || cfg.Band.Height != 2 {
		t.Fatalf("unexpected band geometry: %+v", cfg.Band)
	}
	if cfg.Shell != "/bin/bash" {
		t.Fatalf("unexpected shell: %s", cfg.Shell)
	}
	// unspecified fields still get defaults
	if cfg.PidPath == "" || cfg.LogPath == "" {
		t.Fatalf("expected defaults for unset fields, got %+v", cfg)
	}
}

func TestLoadConfigBadYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("band: [not a mapping"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg.Band.Width != 120 {
		t.Fatalf("expected defaults for missing file, got %+v", cfg)
	}

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("band: [broken"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	if _, err := LoadOrDefault(path); err == nil {
		t.Fatalf("unparseable file should still error")
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := Default()
	cfg.Band.Width = 77
	if err := SaveConfig(path, cfg); err != nil {
		t.Fatalf("failed to save: %v", err)
	}
	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if loaded.Band.Width != 77 {
		t.Fatalf("round trip lost band width: %+v", loaded.Band)
	}
}
