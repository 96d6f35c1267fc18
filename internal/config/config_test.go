package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveDefaults(t *testing.T) {
	cfg := Config{DataDir: "/tmp/data"}
	cfg.Resolve(Flags{})

	if cfg.RenderSize != 512 {
		t.Errorf("render size = %d want 512", cfg.RenderSize)
	}
	if cfg.Supersample != 2 {
		t.Errorf("supersample = %d want 2", cfg.Supersample)
	}
	if cfg.WebPQuality != 90 {
		t.Errorf("quality = %d want 90", cfg.WebPQuality)
	}
	if cfg.Workers <= 0 {
		t.Errorf("workers = %d want > 0", cfg.Workers)
	}
	if cfg.OutputDir != filepath.Join("/tmp/data", "renders") {
		t.Errorf("output dir = %q", cfg.OutputDir)
	}
}

func TestResolveFlagOverrides(t *testing.T) {
	cfg := Config{DataDir: "/a", OutputDir: "/b", WebPQuality: 50, Workers: 2}
	cfg.Resolve(Flags{DataDir: "/x", OutputDir: "/y", Quality: 75, Workers: 8})

	if cfg.DataDir != "/x" || cfg.OutputDir != "/y" {
		t.Errorf("paths = %q, %q", cfg.DataDir, cfg.OutputDir)
	}
	if cfg.WebPQuality != 75 || cfg.Workers != 8 {
		t.Errorf("quality/workers = %d/%d", cfg.WebPQuality, cfg.Workers)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"data_dir":"/data","render_size":256}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DataDir != "/data" || cfg.RenderSize != 256 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("want error for invalid JSON")
	}
}
