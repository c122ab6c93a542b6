package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tempDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tempDir)

	configDir := filepath.Join(tempDir, "tablero")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}
	configPath := filepath.Join(configDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return configPath
}

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TABLERO_SERVER_URL", "")
	t.Setenv("TABLERO_DB", "")
	t.Setenv("TABLERO_SYNC_RETRIES", "")
}

func TestLoadConfigWithoutFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() without config file failed: %v", err)
	}

	if cfg.Storage.Driver != DriverSQLite {
		t.Errorf("Storage.Driver = %s, want %s", cfg.Storage.Driver, DriverSQLite)
	}
	if cfg.Sync.Retries != 3 {
		t.Errorf("Sync.Retries = %d, want 3", cfg.Sync.Retries)
	}
	if cfg.Sync.Timeout != 10*time.Second {
		t.Errorf("Sync.Timeout = %v, want 10s", cfg.Sync.Timeout)
	}
	if cfg.Filter.MaxDistance != 1 {
		t.Errorf("Filter.MaxDistance = %d, want 1", cfg.Filter.MaxDistance)
	}
	if cfg.Theme.Accent != DefaultTheme().Accent {
		t.Errorf("Theme.Accent = %s, want default", cfg.Theme.Accent)
	}
}

func TestLoadConfigWithFile(t *testing.T) {
	clearEnv(t)
	writeConfig(t, `server:
  addr: ":9000"
storage:
  driver: file
  path: /tmp/board.json
sync:
  timeout: 3s
  retries: 0
filter:
  max_distance: 2
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with config file failed: %v", err)
	}

	if cfg.Server.Addr != ":9000" {
		t.Errorf("Server.Addr = %s, want :9000", cfg.Server.Addr)
	}
	if cfg.Storage.Driver != DriverFile || cfg.Storage.Path != "/tmp/board.json" {
		t.Errorf("Storage = %+v", cfg.Storage)
	}
	if cfg.Sync.Timeout != 3*time.Second {
		t.Errorf("Sync.Timeout = %v, want 3s", cfg.Sync.Timeout)
	}
	// explicit zero survives defaults
	if cfg.Sync.Retries != 0 {
		t.Errorf("Sync.Retries = %d, want 0", cfg.Sync.Retries)
	}
	if cfg.Sync.RetryBackoff != 200*time.Millisecond {
		t.Errorf("Sync.RetryBackoff = %v, want default 200ms", cfg.Sync.RetryBackoff)
	}
	if cfg.Filter.MaxDistance != 2 {
		t.Errorf("Filter.MaxDistance = %d, want 2", cfg.Filter.MaxDistance)
	}
}

func TestEnvOverrides(t *testing.T) {
	writeConfig(t, `server:
  url: http://file:1
`)
	t.Setenv("TABLERO_SERVER_URL", "http://env:2")
	t.Setenv("TABLERO_DB", "/tmp/env.db")
	t.Setenv("TABLERO_SYNC_RETRIES", "7")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.URL != "http://env:2" {
		t.Errorf("Server.URL = %s, want env value", cfg.Server.URL)
	}
	if cfg.Storage.Path != "/tmp/env.db" {
		t.Errorf("Storage.Path = %s, want env value", cfg.Storage.Path)
	}
	if cfg.Sync.Retries != 7 {
		t.Errorf("Sync.Retries = %d, want 7", cfg.Sync.Retries)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "server: [unclosed"},
		{"unknown driver", "storage:\n  driver: postgres\n"},
		{"negative retries", "sync:\n  retries: -1\n"},
		{"negative distance", "filter:\n  max_distance: -2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writeConfig(t, tt.content)
			if _, err := Load(); err == nil {
				t.Error("Load() expected error, got nil")
			}
		})
	}
}

func TestSaveAndReload(t *testing.T) {
	clearEnv(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := Default()
	cfg.Server.URL = "http://127.0.0.1:7420"
	cfg.Sync.RetryBackoff = time.Second
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() after Save() failed: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("reloaded config = %+v, want %+v", loaded, cfg)
	}
}

func TestThemePresets(t *testing.T) {
	theme := Theme{Preset: "monochrome", Accent: "#123456"}
	theme.ApplyDefaults()

	if theme.Accent != "#123456" {
		t.Errorf("custom Accent overwritten: %s", theme.Accent)
	}
	if theme.Title != MonochromeTheme().Title {
		t.Errorf("Title = %s, want monochrome %s", theme.Title, MonochromeTheme().Title)
	}

	unknown := Theme{Preset: "neon"}
	unknown.ApplyDefaults()
	if unknown.Accent != DefaultTheme().Accent {
		t.Errorf("unknown preset should fall back to default, got %s", unknown.Accent)
	}
}

func TestLoadConfigThemePresetFromFile(t *testing.T) {
	clearEnv(t)
	writeConfig(t, "theme:\n  preset: monochrome\n")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Theme != MonochromeTheme() {
		t.Errorf("Theme = %+v, want monochrome preset", cfg.Theme)
	}
}
