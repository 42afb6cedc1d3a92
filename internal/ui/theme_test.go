package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	if len(names) != 2 {
		t.Fatalf("ThemeNames() returned %d names, want 2", len(names))
	}
	if names[0] != "Nightfox" || names[1] != "Slate" {
		t.Fatalf("ThemeNames() = %v, want [Nightfox Slate]", names)
	}
}

func TestNextTheme(t *testing.T) {
	if got := NextTheme("Nightfox"); got != "Slate" {
		t.Fatalf("NextTheme(Nightfox) = %q, want Slate", got)
	}
	if got := NextTheme("Slate"); got != "Nightfox" {
		t.Fatalf("NextTheme(Slate) = %q, want Nightfox", got)
	}
	if got := NextTheme("unknown"); got != "Nightfox" {
		t.Fatalf("NextTheme(unknown) = %q, want Nightfox", got)
	}
}

func TestGetTheme_FallsBack(t *testing.T) {
	if got := GetTheme("Slate").Name; got != "Slate" {
		t.Fatalf("GetTheme(Slate).Name = %q", got)
	}
	if got := GetTheme("Dracula").Name; got != "Nightfox" {
		t.Fatalf("GetTheme(Dracula).Name = %q, want Nightfox", got)
	}
}

func TestStyles_LevelColor(t *testing.T) {
	th := GetTheme("Nightfox")
	s := th.Styles()
	if got := s.LevelColor(" error "); got != lipgloss.Color(th.LevelColors["ERROR"]) {
		t.Fatalf("LevelColor(error) = %q, want %q", got, th.LevelColors["ERROR"])
	}
	if got := s.LevelColor("chatty"); got != lipgloss.Color(th.Muted) {
		t.Fatalf("LevelColor(chatty) = %q, want muted %q", got, th.Muted)
	}
}
