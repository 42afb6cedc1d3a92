package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/five82/trawl/internal/filter"
	"github.com/five82/trawl/internal/highlight"
	"github.com/five82/trawl/internal/record"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	p, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", p.Theme, defaultTheme)
	}
	if p.ColumnSet().Len() == 0 {
		t.Fatalf("ColumnSet is empty, want default columns")
	}
	if len(p.Rules) != len(highlight.DefaultRules()) {
		t.Fatalf("Rules = %d, want default rules", len(p.Rules))
	}
}

func TestLoad_ReadsExistingFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	prefsDir := filepath.Join(home, ".config", "trawl")
	if err := os.MkdirAll(prefsDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	prefsFile := filepath.Join(prefsDir, "profile.toml")
	if err := os.WriteFile(prefsFile, []byte("theme = \"Slate\"\nwrap = true\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Theme != "Slate" || !p.Wrap {
		t.Fatalf("Load = theme %q wrap %v, want Slate true", p.Theme, p.Wrap)
	}
}

func TestSave_RoundTripsProfile(t *testing.T) {
	tmp := t.TempDir()
	prefsFile := filepath.Join(tmp, "subdir", "profile.toml")

	p := Default()
	p.Theme = "Slate"
	p.Columns[0].Visible = false
	p.Rules = []highlight.Rule{{
		ID:       "db",
		Priority: 7,
		App:      &filter.Spec{Mode: filter.ModePattern, Operator: filter.OpStartsWith, Pattern: "db"},
		Style:    highlight.Style{Foreground: "#ff0000", Bold: true},
	}}
	p.Filter = filter.Set{Expr: "id > 10"}.With(record.FieldLevel, filter.List("ERROR", "WARN"))

	if err := Save(prefsFile, p); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	loaded, err := Load(prefsFile)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded.Theme != "Slate" {
		t.Fatalf("Theme = %q, want %q", loaded.Theme, "Slate")
	}
	if loaded.Columns[0].Visible {
		t.Fatalf("column %q visible after round trip", loaded.Columns[0].ID)
	}
	if len(loaded.Rules) != 1 || loaded.Rules[0].App == nil || loaded.Rules[0].App.Pattern != "db" {
		t.Fatalf("Rules = %+v, want the db rule", loaded.Rules)
	}
	if loaded.Filter.Expr != "id > 10" {
		t.Fatalf("Filter.Expr = %q, want %q", loaded.Filter.Expr, "id > 10")
	}
	spec, ok := loaded.Filter.Get(record.FieldLevel)
	if !ok || len(spec.Values) != 2 {
		t.Fatalf("level filter = %+v,%v want ERROR,WARN", spec, ok)
	}
}

func TestLoad_EmptyThemeFallsBackToDefault(t *testing.T) {
	tmp := t.TempDir()
	prefsFile := filepath.Join(tmp, "profile.toml")
	if err := os.WriteFile(prefsFile, []byte("theme = \"\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := Load(prefsFile)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", p.Theme, defaultTheme)
	}
}

func TestLoad_InvalidTOMLFallsBackToDefault(t *testing.T) {
	tmp := t.TempDir()
	prefsFile := filepath.Join(tmp, "profile.toml")
	if err := os.WriteFile(prefsFile, []byte("not valid toml {{{\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := Load(prefsFile)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", p.Theme, defaultTheme)
	}
}

func TestLoad_UnreadablePathReturnsDefaultsAndError(t *testing.T) {
	dir := t.TempDir()

	p, err := Load(dir)
	if err == nil {
		t.Fatalf("Load of a directory returned no error")
	}
	if p.Theme != defaultTheme || p.ColumnSet().Len() == 0 {
		t.Fatalf("Load = %+v, want defaults", p)
	}
}

func TestLoad_DropsInvalidParts(t *testing.T) {
	tmp := t.TempDir()
	prefsFile := filepath.Join(tmp, "profile.toml")
	body := `
theme = "Slate"

[[columns]]
id = "time"
field = "nope"

[[rules]]
id = "bad"
priority = 1
[rules.title]
mode = "pattern"
operator = "regex"
pattern = "("

[[rules]]
id = "ok"
priority = 2
levels = ["ERROR"]

[filter]
expr = "level =="
`
	if err := os.WriteFile(prefsFile, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := Load(prefsFile)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Theme != "Slate" {
		t.Fatalf("Theme = %q, want Slate", p.Theme)
	}
	if len(p.Columns) != len(Default().Columns) {
		t.Fatalf("Columns = %d, want defaults", len(p.Columns))
	}
	if len(p.Rules) != 1 || p.Rules[0].ID != "ok" {
		t.Fatalf("Rules = %+v, want only ok", p.Rules)
	}
	if p.Filter.Active() {
		t.Fatalf("invalid filter kept: %+v", p.Filter)
	}
}
