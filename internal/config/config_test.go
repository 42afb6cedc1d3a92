package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Capacity != defaultCapacity {
		t.Fatalf("Capacity = %d, want %d", cfg.Capacity, defaultCapacity)
	}
	if cfg.Source != SourceStdin {
		t.Fatalf("Source = %q, want %q", cfg.Source, SourceStdin)
	}
	if cfg.APIURL != defaultAPIURL {
		t.Fatalf("APIURL = %q, want %q", cfg.APIURL, defaultAPIURL)
	}
	if cfg.Scroll.BottomThreshold != 1 || cfg.Scroll.EdgeZone != 1 {
		t.Fatalf("Scroll = %+v, want line tuning", cfg.Scroll)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := writeConfig(t, `
capacity = 500
source = "  Follow "
path = "  ~/logs/app.log  "
backfill = 0
api_url = " http://10.0.0.5:9999 "
poll_interval = "5s"
frame_interval = "33ms"

[scroll]
lerp_factor = 0.3
rate_threshold = 25
lock_window = "300ms"
bottom_threshold = 2

[overscan]
base = 3
fast = 12
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Capacity != 500 {
		t.Fatalf("Capacity = %d, want 500", cfg.Capacity)
	}
	if cfg.Source != SourceFollow {
		t.Fatalf("Source = %q, want %q", cfg.Source, SourceFollow)
	}
	if want := filepath.Join(home, "logs/app.log"); cfg.Path != want {
		t.Fatalf("Path = %q, want %q", cfg.Path, want)
	}
	if cfg.Backfill != 0 {
		t.Fatalf("Backfill = %d, want 0", cfg.Backfill)
	}
	if cfg.APIURL != "http://10.0.0.5:9999" {
		t.Fatalf("APIURL = %q, want %q", cfg.APIURL, "http://10.0.0.5:9999")
	}
	if cfg.PollInterval != 5*time.Second || cfg.FrameInterval != 33*time.Millisecond {
		t.Fatalf("intervals = %v/%v, want 5s/33ms", cfg.PollInterval, cfg.FrameInterval)
	}
	if cfg.Scroll.LerpFactor != 0.3 || cfg.Scroll.RateThreshold != 25 || cfg.Scroll.LockWindow != 300*time.Millisecond {
		t.Fatalf("Scroll = %+v, want overrides applied", cfg.Scroll)
	}
	if cfg.Scroll.BottomThreshold != 2 || cfg.Scroll.SnapThreshold != 0.5 {
		t.Fatalf("Scroll = %+v, want bottom 2 and default snap", cfg.Scroll)
	}
	if cfg.Overscan.Base != 3 || cfg.Overscan.Fast != 12 || cfg.Overscan.Drag != 30 {
		t.Fatalf("Overscan = %+v, want {3 12 30}", cfg.Overscan)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(writeConfig(t, `
source = "   "
api_url = ""
poll_interval = ""
`))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	want := Default()
	if cfg.Source != want.Source || cfg.APIURL != want.APIURL || cfg.PollInterval != want.PollInterval {
		t.Fatalf("Load = %+v, want defaults", cfg)
	}
}

func TestLoad_InvalidValuesFail(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"invalid toml", `capacity = [`},
		{"unknown source", `source = "carrier-pigeon"`},
		{"bad duration", `poll_interval = "soon"`},
		{"bad scroll duration", "[scroll]\nlock_window = \"x\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatalf("Load returned nil error, want parse error")
			}
			if !strings.Contains(err.Error(), "parse config") {
				t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
			}
		})
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := ExpandPath("~/a/b")
	if err != nil {
		t.Fatalf("ExpandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("ExpandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}
