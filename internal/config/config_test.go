package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() with absent file: %v", err)
	}
	if cfg.Port != "8888" {
		t.Errorf("default port = %s, want 8888", cfg.Port)
	}
	if cfg.ImageStoragePath() != filepath.Join(".", "images", "sessions") {
		t.Errorf("default image path = %s", cfg.ImageStoragePath())
	}
	if cfg.GalleryPath() != filepath.Join(".", "gallery_data.json") {
		t.Errorf("default gallery path = %s", cfg.GalleryPath())
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
port: "9000"
service_root: /srv/visualizer
data_dir: tables
generate_workers: 5
`
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Port != "9000" || cfg.GenerateWorkers != 5 {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.DataPath() != filepath.Join("/srv/visualizer", "tables") {
		t.Errorf("DataPath() = %s", cfg.DataPath())
	}
}

func TestStorageDirOverride(t *testing.T) {
	t.Setenv("IMAGE_STORAGE_DIR", "generated")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	cfg.ServiceRoot = "/srv/visualizer"

	// Relative overrides resolve against the service root, not the CWD
	if got := cfg.ImageStoragePath(); got != filepath.Join("/srv/visualizer", "generated") {
		t.Errorf("ImageStoragePath() = %s", got)
	}

	t.Setenv("IMAGE_STORAGE_DIR", "/var/lib/visualizer/images")
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got := cfg.ImageStoragePath(); got != "/var/lib/visualizer/images" {
		t.Errorf("absolute override mangled: %s", got)
	}
}
