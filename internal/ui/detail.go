package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/five82/trawl/internal/record"
)

// activation carries the record handed over by the controller's activate
// callback. It is shared by pointer so the value-receiver Model sees writes
// made during a controller call.
type activation struct {
	rec   record.Record
	fired bool
}

func (a *activation) set(rec record.Record) {
	a.rec = rec
	a.fired = true
}

// take reports and clears a pending activation.
func (a *activation) take() (record.Record, bool) {
	if !a.fired {
		return record.Record{}, false
	}
	a.fired = false
	return a.rec, true
}

// detailHeight returns the detail pane height, borders included.
func (m Model) detailHeight() int {
	if !m.detailOpen {
		return 0
	}
	body := m.height - headerRows - footerRows
	return min(max(body*2/5, detailMinHeight), max(body-2, 0))
}

// bodyHeight returns the number of table body lines.
func (m Model) bodyHeight() int {
	return max(m.height-headerRows-footerRows-m.detailHeight(), 0)
}

// openDetail shows rec in the detail pane.
func (m *Model) openDetail(rec record.Record) {
	m.detailOpen = true
	m.detailRec = rec
	m.layoutDetail()
	m.detail.GotoTop()
}

func (m *Model) closeDetail() {
	m.detailOpen = false
	m.detailFocused = false
}

// layoutDetail sizes the detail viewport to the pane minus its border.
func (m *Model) layoutDetail() {
	h := m.detailHeight()
	m.detail.Width = max(m.width-2, 0)
	m.detail.Height = max(h-2, 0)
	if m.detailOpen {
		m.detail.SetContent(m.detailContent(m.detailRec))
	}
}

// detailContent renders every field of rec followed by its decoded payload.
func (m Model) detailContent(rec record.Record) string {
	styles := m.theme.Styles()
	var b strings.Builder

	label := func(name string) string {
		return styles.MutedText.Render(fmt.Sprintf("%-9s", name))
	}
	b.WriteString(label("id"))
	b.WriteString(styles.FaintText.Render(rec.Field(record.FieldID)))
	b.WriteString("\n")
	for _, f := range record.Fields {
		value := rec.Field(f)
		if value == "" {
			continue
		}
		b.WriteString(label(string(f)))
		switch f {
		case record.FieldLevel:
			b.WriteString(lipgloss.NewStyle().Foreground(styles.LevelColor(value)).Bold(true).Render(value))
		case record.FieldTitle:
			b.WriteString(styles.Text.Bold(true).Render(value))
		default:
			b.WriteString(styles.Text.Render(value))
		}
		b.WriteString("\n")
	}

	payload := rec.DecodedPayload()
	if payload != "" {
		b.WriteString("\n")
		b.WriteString(styles.AccentText.Render("payload"))
		b.WriteString("\n")
		st := styles.Text
		if payload == record.PayloadPlaceholder {
			st = styles.FaintText
		}
		width := max(m.detail.Width, 1)
		b.WriteString(st.Render(wordwrap.String(payload, width)))
	}
	return b.String()
}

// renderDetail renders the bordered detail pane.
func (m Model) renderDetail() string {
	border := m.theme.Border
	if m.detailFocused {
		border = m.theme.BorderFocus
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(border)).
		Width(max(m.width-2, 0)).
		Height(max(m.detailHeight()-2, 0))
	return box.Render(m.detail.View())
}
