// Package prefs persists the trawl view profile: theme, columns, highlight
// rules, filters and wrap mode. The profile is stored in
// ~/.config/trawl/profile.toml. Selection state is never persisted.
package prefs

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/trawl/internal/column"
	"github.com/five82/trawl/internal/filter"
	"github.com/five82/trawl/internal/highlight"
)

// Prefs is the persisted view profile.
type Prefs struct {
	Theme   string           `toml:"theme"`
	Wrap    bool             `toml:"wrap"`
	Columns []column.Def     `toml:"columns,omitempty"`
	Rules   []highlight.Rule `toml:"rules,omitempty"`
	Filter  filter.Set       `toml:"filter"`
}

const (
	defaultPrefsPath = "~/.config/trawl/profile.toml"
	defaultTheme     = "Nightfox"
)

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Default returns the profile used when none is stored.
func Default() Prefs {
	return Prefs{
		Theme:   defaultTheme,
		Columns: column.Defaults(),
		Rules:   highlight.DefaultRules(),
	}
}

// Load reads preferences from the given path, falling back to defaults if
// missing. Invalid parts are replaced by their defaults and logged. A read
// failure is returned alongside the defaults.
func Load(path string) (Prefs, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Default(), nil
	}

	file, err := os.Open(resolved)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("prefs: open %s: %v", resolved, err)
		}
		return Default(), nil // Graceful degradation
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Default(), fmt.Errorf("read prefs %s: %w", resolved, err)
	}

	var p Prefs
	if err := toml.Unmarshal(bytes, &p); err != nil {
		log.Printf("prefs: parse %s: %v", resolved, err)
		return Default(), nil // Graceful degradation
	}
	return p.sanitize(), nil
}

func (p Prefs) sanitize() Prefs {
	d := Default()
	if strings.TrimSpace(p.Theme) == "" {
		p.Theme = d.Theme
	}
	if len(p.Columns) == 0 {
		p.Columns = d.Columns
	} else if _, err := column.NewSet(p.Columns); err != nil {
		log.Printf("prefs: columns: %v", err)
		p.Columns = d.Columns
	}
	if p.Rules == nil {
		p.Rules = d.Rules
	}
	rules := p.Rules[:0]
	for _, r := range p.Rules {
		if err := r.Validate(); err != nil {
			log.Printf("prefs: %v", err)
			continue
		}
		rules = append(rules, r)
	}
	p.Rules = rules
	if err := p.Filter.Validate(); err != nil {
		log.Printf("prefs: filter: %v", err)
		p.Filter = filter.Set{}
	}
	return p
}

// ColumnSet returns the persisted columns as a set.
func (p Prefs) ColumnSet() column.Set {
	set, err := column.NewSet(p.Columns)
	if err != nil {
		return column.MustSet(column.Defaults())
	}
	return set
}

// Save writes preferences to the given path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	bytes, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(resolved, bytes, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}

	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
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
