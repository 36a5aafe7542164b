package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/CarpetFit/internal/model"
)

func TestSaveAndLoadAppConfig(t *testing.T) {
	for _, name := range []string{"config.json", "config.yaml"} {
		path := filepath.Join(t.TempDir(), name)

		cfg := model.DefaultAppConfig()
		cfg.Workers = 4
		cfg.GridSize = 25
		cfg.LogFormat = "json"
		cfg.RecentRequests = []string{"/tmp/a.yaml", "/tmp/b.yaml"}

		if err := SaveAppConfig(path, cfg); err != nil {
			t.Fatalf("%s: SaveAppConfig failed: %v", name, err)
		}

		loaded, err := LoadAppConfig(path)
		if err != nil {
			t.Fatalf("%s: LoadAppConfig failed: %v", name, err)
		}

		if loaded.Workers != 4 {
			t.Errorf("%s: expected Workers=4, got %d", name, loaded.Workers)
		}
		if loaded.GridSize != 25 {
			t.Errorf("%s: expected GridSize=25, got %d", name, loaded.GridSize)
		}
		if loaded.LogFormat != "json" {
			t.Errorf("%s: expected LogFormat=json, got %s", name, loaded.LogFormat)
		}
		if len(loaded.RecentRequests) != 2 {
			t.Errorf("%s: expected 2 recent requests, got %d", name, len(loaded.RecentRequests))
		}
	}
}

func TestLoadAppConfigMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent", "config.json")

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}

	defaults := model.DefaultAppConfig()
	if cfg.GridSize != defaults.GridSize {
		t.Errorf("expected default grid size %d, got %d", defaults.GridSize, cfg.GridSize)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected log level=info, got %s", cfg.LogLevel)
	}
}

func TestLoadAppConfigPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("workers: 2\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if cfg.Workers != 2 {
		t.Errorf("expected Workers=2, got %d", cfg.Workers)
	}
	if cfg.IndexCacheSize != model.DefaultAppConfig().IndexCacheSize {
		t.Errorf("expected default cache size, got %d", cfg.IndexCacheSize)
	}
	if cfg.RecentRequests == nil {
		t.Error("RecentRequests should not be nil")
	}
}

func TestLoadAppConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json}"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadAppConfig(path); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestDefaultConfigPath(t *testing.T) {
	if filepath.Base(DefaultConfigPath()) != "config.json" {
		t.Errorf("unexpected config path %s", DefaultConfigPath())
	}
	if filepath.Base(DefaultConfigDir()) != ".carpetfit" {
		t.Errorf("unexpected config dir %s", DefaultConfigDir())
	}
}
