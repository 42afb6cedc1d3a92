package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// BgStyle renders bar segments on a single background color. Styling each
// segment separately leaves unstyled gaps after ANSI resets, so spaces and
// separators are rendered with the background too.
type BgStyle struct {
	bg    lipgloss.Color
	space string // cached styled space
}

// NewBgStyle creates a new background style helper for the given color.
func NewBgStyle(bgColor string) BgStyle {
	bg := lipgloss.Color(bgColor)
	return BgStyle{
		bg:    bg,
		space: lipgloss.NewStyle().Background(bg).Render(" "),
	}
}

// Render renders text with style on the background.
func (b BgStyle) Render(text string, style lipgloss.Style) string {
	if text == "" {
		return ""
	}
	return style.Background(b.bg).Render(text)
}

// Space returns a single styled space.
func (b BgStyle) Space() string {
	return b.space
}

// Spaces returns n styled spaces.
func (b BgStyle) Spaces(n int) string {
	if n <= 0 {
		return ""
	}
	return lipgloss.NewStyle().Background(b.bg).Render(strings.Repeat(" ", n))
}

// Join joins parts with a styled separator.
func (b BgStyle) Join(parts []string, sep string) string {
	return strings.Join(parts, lipgloss.NewStyle().Background(b.bg).Render(sep))
}

// FillLine pads rendered content to width with the background color.
func (b BgStyle) FillLine(content string, width int) string {
	return lipgloss.NewStyle().Background(b.bg).Width(width).MaxWidth(width).Render(content)
}

// Segments renders key/description pairs as "key:desc" separated by two
// spaces.
func (b BgStyle) Segments(pairs [][2]string, keyStyle, descStyle lipgloss.Style) string {
	colon := lipgloss.NewStyle().Background(b.bg).Render(":")
	out := make([]string, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, b.Render(p[0], keyStyle)+colon+b.Render(p[1], descStyle))
	}
	return strings.Join(out, b.Spaces(2))
}
