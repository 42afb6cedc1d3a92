package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// renderStatusBar renders follow state, counts, rate, source health and the
// active notice.
func (m Model) renderStatusBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	var left []string
	if m.ctrl.Following() {
		left = append(left, styles.BadgeStyle(m.theme.Success).Render("FOLLOW"))
	} else {
		left = append(left, styles.BadgeStyle(m.theme.Warning).Render("PAUSED"))
	}

	total, dropped := m.ringStats()
	counts := fmt.Sprintf("%s/%s", formatCount(uint64(m.ctrl.Len())), formatCount(uint64(m.ringLen())))
	left = append(left, bg.Render(counts, styles.Text))
	if dropped > 0 {
		left = append(left, bg.Render(formatCount(dropped)+" dropped", styles.WarningText))
	}
	left = append(left, bg.Render(fmt.Sprintf("%.1f/s", m.rate), styles.MutedText))
	if total == 0 && m.snapshot.LastError == nil {
		left = append(left, bg.Render("waiting for records", styles.FaintText))
	}

	if m.ctrl.Filter().Active() {
		left = append(left, bg.Render("filtered", styles.AccentText))
	}
	if m.ctrl.Wrap() {
		left = append(left, bg.Render("wrap", styles.InfoText))
	}

	var right []string
	if m.notice != "" {
		right = append(right, bg.Render(m.notice, styles.InfoText))
	}
	right = append(right, m.sourceHealth(styles, bg))

	l := bg.Join(left, "  ")
	r := bg.Join(right, "  ")
	gap := m.width - lipgloss.Width(l) - lipgloss.Width(r) - 2
	line := bg.Space() + l + bg.Spaces(max(gap, 1)) + r + bg.Space()
	return bg.FillLine(line, m.width)
}

// sourceHealth describes the ingestion source.
func (m Model) sourceHealth(styles Styles, bg BgStyle) string {
	name := m.snapshot.Source
	if name == "" {
		name = "no source"
	}
	name = truncate(name, 32)
	switch {
	case m.snapshot.IsOffline():
		msg := "offline"
		if m.snapshot.LastError != nil {
			msg = "offline: " + truncate(m.snapshot.LastError.Error(), 40)
		}
		return bg.Render(name, styles.MutedText) + bg.Space() + bg.Render(msg, styles.DangerText)
	case m.snapshot.LastError != nil:
		return bg.Render(name, styles.MutedText) + bg.Space() + bg.Render("retrying", styles.WarningText)
	default:
		return bg.Render(name, styles.MutedText)
	}
}

// renderCommandBar renders the key hints bar.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	followLabel := "Follow"
	if m.ctrl.Following() {
		followLabel = "Bottom"
	}
	commands := [][2]string{
		{"j/k", "Move"},
		{"J/K", "Extend"},
		{"G", followLabel},
		{"enter", "Detail"},
		{"f", "Filter"},
		{"y", "Copy"},
		{"Y", "Export"},
		{"w", "Wrap"},
		{"1-9", "Columns"},
		{"?", "More"},
	}
	if m.detailOpen {
		commands = [][2]string{
			{"j/k", "Scroll"},
			{"tab", "Focus " + m.otherPane()},
			{"esc", "Close"},
			{"?", "More"},
		}
	}

	bar := bg.Segments(commands, styles.AccentText, styles.MutedText)
	bar += bg.Spaces(2) + bg.Render("T", styles.AccentText) + bg.Render(":", styles.MutedText) +
		bg.Render(m.theme.Name, styles.FaintText)
	if lipgloss.Width(bar) > m.width {
		bar = bg.Segments(commands[:min(4, len(commands))], styles.AccentText, styles.MutedText)
	}
	return styles.Header.Width(m.width).MaxWidth(m.width).Render(bar)
}

func (m Model) otherPane() string {
	if m.detailFocused {
		return "table"
	}
	return "detail"
}
