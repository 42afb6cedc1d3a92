package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/trawl/internal/scroll"
	"github.com/five82/trawl/internal/window"
)

// Source names accepted in the source field.
const (
	SourceStdin  = "stdin"
	SourceFile   = "file"
	SourceFollow = "follow"
	SourceHTTP   = "http"
	SourceDemo   = "demo"
)

// Config is the resolved application configuration.
type Config struct {
	Capacity      int
	Source        string
	Path          string
	Backfill      int
	APIURL        string
	PollInterval  time.Duration
	FrameInterval time.Duration
	Scroll        scroll.Tuning
	Overscan      window.Overscan
}

const (
	defaultConfigPath    = "~/.config/trawl/config.toml"
	defaultCapacity      = 10000
	defaultBackfill      = 1000
	defaultAPIURL        = "http://127.0.0.1:7487"
	defaultPollInterval  = 2 * time.Second
	defaultFrameInterval = 16 * time.Millisecond
)

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Capacity:      defaultCapacity,
		Source:        SourceStdin,
		Backfill:      defaultBackfill,
		APIURL:        defaultAPIURL,
		PollInterval:  defaultPollInterval,
		FrameInterval: defaultFrameInterval,
		Scroll:        LineTuning(),
		Overscan:      window.DefaultOverscan(),
	}
}

// LineTuning returns the follow constants scaled to terminal lines.
func LineTuning() scroll.Tuning {
	t := scroll.DefaultTuning()
	t.BottomThreshold = 1
	t.SnapThreshold = 0.5
	t.EdgeZone = 1
	return t
}

type rawScroll struct {
	LerpFactor      float64 `toml:"lerp_factor"`
	RateThreshold   float64 `toml:"rate_threshold"`
	RateWindow      string  `toml:"rate_window"`
	LockWindow      string  `toml:"lock_window"`
	BottomThreshold float64 `toml:"bottom_threshold"`
	SnapThreshold   float64 `toml:"snap_threshold"`
	EdgeZone        float64 `toml:"edge_zone"`
}

type rawConfig struct {
	Capacity      int              `toml:"capacity"`
	Source        string           `toml:"source"`
	Path          string           `toml:"path"`
	Backfill      *int             `toml:"backfill"`
	APIURL        string           `toml:"api_url"`
	PollInterval  string           `toml:"poll_interval"`
	FrameInterval string           `toml:"frame_interval"`
	Scroll        rawScroll        `toml:"scroll"`
	Overscan      *window.Overscan `toml:"overscan"`
}

// Load reads the config at path (the default path when empty). A missing
// file yields Default.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.apply(raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func (c *Config) apply(raw rawConfig) error {
	if raw.Capacity > 0 {
		c.Capacity = raw.Capacity
	}
	if src := strings.ToLower(strings.TrimSpace(raw.Source)); src != "" {
		if err := ValidateSource(src); err != nil {
			return err
		}
		c.Source = src
	}
	if p := strings.TrimSpace(raw.Path); p != "" {
		c.Path = mustExpand(p)
	}
	if raw.Backfill != nil && *raw.Backfill >= 0 {
		c.Backfill = *raw.Backfill
	}
	if u := strings.TrimSpace(raw.APIURL); u != "" {
		c.APIURL = u
	}

	var err error
	if c.PollInterval, err = duration("poll_interval", raw.PollInterval, c.PollInterval); err != nil {
		return err
	}
	if c.FrameInterval, err = duration("frame_interval", raw.FrameInterval, c.FrameInterval); err != nil {
		return err
	}

	s := raw.Scroll
	if s.LerpFactor > 0 && s.LerpFactor <= 1 {
		c.Scroll.LerpFactor = s.LerpFactor
	}
	if s.RateThreshold > 0 {
		c.Scroll.RateThreshold = s.RateThreshold
	}
	if c.Scroll.RateWindow, err = duration("scroll.rate_window", s.RateWindow, c.Scroll.RateWindow); err != nil {
		return err
	}
	if c.Scroll.LockWindow, err = duration("scroll.lock_window", s.LockWindow, c.Scroll.LockWindow); err != nil {
		return err
	}
	if s.BottomThreshold > 0 {
		c.Scroll.BottomThreshold = s.BottomThreshold
	}
	if s.SnapThreshold > 0 {
		c.Scroll.SnapThreshold = s.SnapThreshold
	}
	if s.EdgeZone > 0 {
		c.Scroll.EdgeZone = s.EdgeZone
	}

	if o := raw.Overscan; o != nil {
		if o.Base >= 0 {
			c.Overscan.Base = o.Base
		}
		if o.Fast > 0 {
			c.Overscan.Fast = o.Fast
		}
		if o.Drag > 0 {
			c.Overscan.Drag = o.Drag
		}
	}
	return nil
}

// ValidateSource reports whether name is a known source.
func ValidateSource(name string) error {
	switch name {
	case SourceStdin, SourceFile, SourceFollow, SourceHTTP, SourceDemo:
		return nil
	}
	return fmt.Errorf("unknown source %q", name)
}

func duration(field, value string, fallback time.Duration) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	if d <= 0 {
		return fallback, nil
	}
	return d, nil
}

// ExpandPath expands a leading ~ and returns an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
