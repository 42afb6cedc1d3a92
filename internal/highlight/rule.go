package highlight

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/trawl/internal/filter"
	"github.com/five82/trawl/internal/record"
)

// Style is the persisted form of a highlight style.
type Style struct {
	Foreground string `toml:"fg,omitempty"`
	Background string `toml:"bg,omitempty"`
	Bold       bool   `toml:"bold,omitempty"`
	Italic     bool   `toml:"italic,omitempty"`
	Underline  bool   `toml:"underline,omitempty"`
}

// Lipgloss converts s into a renderable style.
func (s Style) Lipgloss() lipgloss.Style {
	st := lipgloss.NewStyle()
	if s.Foreground != "" {
		st = st.Foreground(lipgloss.Color(s.Foreground))
	}
	if s.Background != "" {
		st = st.Background(lipgloss.Color(s.Background))
	}
	if s.Bold {
		st = st.Bold(true)
	}
	if s.Italic {
		st = st.Italic(true)
	}
	if s.Underline {
		st = st.Underline(true)
	}
	return st
}

// Rule highlights rows matching every configured sub-filter. Nil specs and
// empty sets are unconfigured and match anything.
type Rule struct {
	ID       string `toml:"id"`
	Name     string `toml:"name,omitempty"`
	Priority int    `toml:"priority"`
	Disabled bool   `toml:"disabled,omitempty"`

	Session *filter.Spec `toml:"session,omitempty"`
	App     *filter.Spec `toml:"app,omitempty"`
	Host    *filter.Spec `toml:"host,omitempty"`
	Title   *filter.Spec `toml:"title,omitempty"`
	Levels  []string     `toml:"levels,omitempty"`
	Types   []string     `toml:"types,omitempty"`

	Style Style `toml:"style"`
}

// Filter returns the rule predicate as a composite filter set.
func (r Rule) Filter() filter.Set {
	var s filter.Set
	add := func(f record.Field, spec *filter.Spec) {
		if spec != nil {
			s = s.With(f, *spec)
		}
	}
	add(record.FieldSession, r.Session)
	add(record.FieldApp, r.App)
	add(record.FieldHost, r.Host)
	add(record.FieldTitle, r.Title)
	if len(r.Levels) > 0 {
		s = s.With(record.FieldLevel, filter.List(r.Levels...))
	}
	if len(r.Types) > 0 {
		s = s.With(record.FieldType, filter.List(r.Types...))
	}
	return s
}

// Validate reports authoring errors in the rule.
func (r Rule) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("rule id is empty")
	}
	if err := r.Filter().Validate(); err != nil {
		return fmt.Errorf("rule %s: %w", r.ID, err)
	}
	return nil
}

// DefaultRules are used when no profile defines any.
func DefaultRules() []Rule {
	return []Rule{
		{ID: "error", Name: "Errors", Priority: 100, Levels: []string{"ERROR", "FATAL", "CRITICAL"}, Style: Style{Foreground: "#f7768e", Bold: true}},
		{ID: "warn", Name: "Warnings", Priority: 50, Levels: []string{"WARN", "WARNING"}, Style: Style{Foreground: "#e0af68"}},
		{ID: "debug", Name: "Debug", Priority: 10, Levels: []string{"DEBUG", "TRACE"}, Style: Style{Foreground: "#565f89"}},
	}
}
