package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestLoad_DefaultsAndOverrides(t *testing.T) {
	path := writeConfig(t, `
desktop:
  watch_dir: /home/user/Desktop
organizer:
  debounce_window: 3s
regions:
  - id: top_left
    name: Top Left
    x: 0
    y: 0
    width: 400
    height: 300
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Desktop.WatchDir != "/home/user/Desktop" {
		t.Errorf("watch_dir = %q", cfg.Desktop.WatchDir)
	}
	if got := cfg.Organizer.GetDebounceWindow(); got != 3*time.Second {
		t.Errorf("debounce window = %v, want 3s", got)
	}
	// Defaults fill the rest.
	if cfg.Desktop.ScreenWidth != 1920 {
		t.Errorf("screen_width = %d, want default 1920", cfg.Desktop.ScreenWidth)
	}
	if cfg.Organizer.MaxRetries != 3 {
		t.Errorf("max_retries = %d, want default 3", cfg.Organizer.MaxRetries)
	}
	if cfg.HTTP.BindAddr != "127.0.0.1:8745" {
		t.Errorf("bind_addr = %q, want default", cfg.HTTP.BindAddr)
	}
	if len(cfg.Regions) != 1 || cfg.Regions[0].ID != "top_left" {
		t.Errorf("regions = %+v", cfg.Regions)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "missing watch dir",
			content: "organizer:\n  max_retries: 3\n",
		},
		{
			name: "bad debounce window",
			content: `
desktop:
  watch_dir: /d
organizer:
  debounce_window: soon
`,
		},
		{
			name: "bad log level",
			content: `
desktop:
  watch_dir: /d
logging:
  level: chatty
`,
		},
		{
			name: "region without extent",
			content: `
desktop:
  watch_dir: /d
regions:
  - id: broken
    width: 0
    height: 100
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Error("Load() succeeded, want validation error")
			}
		})
	}
}
