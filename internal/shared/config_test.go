package shared

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./bookmind.db" {
			t.Errorf("expected database path ./bookmind.db, got %s", config.Database.Path)
		}

		if config.API.BaseURL != "http://localhost:5000/api" {
			t.Errorf("expected API base URL http://localhost:5000/api, got %s", config.API.BaseURL)
		}

		if config.Session.IdleMinutes != 30 {
			t.Errorf("expected idle limit of 30 minutes, got %d", config.Session.IdleMinutes)
		}

		if config.Session.IdleLimit() != 30*time.Minute {
			t.Errorf("expected IdleLimit of 30m, got %v", config.Session.IdleLimit())
		}

		if config.Session.NotificationTTL() != 3500*time.Millisecond {
			t.Errorf("expected NotificationTTL of 3.5s, got %v", config.Session.NotificationTTL())
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		content := `
[api]
base_url = "https://books.example.com/api"
timeout_seconds = 5
requests_per_sec = 2.0

[database]
path = "/tmp/test.db"
max_open_conns = 3
max_idle_conns = 1

[session]
idle_minutes = 10
notification_seconds = 2.0
`
		if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.API.BaseURL != "https://books.example.com/api" {
			t.Errorf("expected custom base URL, got %s", config.API.BaseURL)
		}
		if config.Session.IdleLimit() != 10*time.Minute {
			t.Errorf("expected 10m idle limit, got %v", config.Session.IdleLimit())
		}
	})

	t.Run("LoadConfig Missing File", func(t *testing.T) {
		if _, err := LoadConfig("/nonexistent/config.toml"); err == nil {
			t.Error("expected error for missing config file")
		}
	})

	t.Run("LoadConfig Invalid TOML", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := os.WriteFile(configPath, []byte("not [valid toml"), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		if _, err := LoadConfig(configPath); err == nil {
			t.Error("expected error for invalid TOML")
		}
	})
}
