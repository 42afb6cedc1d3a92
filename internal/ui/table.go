package ui

import (
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/mattn/go-runewidth"

	"github.com/five82/trawl/internal/column"
	"github.com/five82/trawl/internal/record"
)

// timeFormatter formats record timestamps through a bounded cache; bursts
// of records often share the same millisecond.
type timeFormatter struct {
	cache *lru.Cache[int64, string]
}

func newTimeFormatter(size int) *timeFormatter {
	cache, _ := lru.New[int64, string](max(size, 1))
	return &timeFormatter{cache: cache}
}

func (f *timeFormatter) format(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	key := ts.UnixMilli()
	if s, ok := f.cache.Get(key); ok {
		return s
	}
	s := ts.Local().Format(timeLayout)
	f.cache.Add(key, s)
	return s
}

// renderTableHeader renders the column header line.
func (m Model) renderTableHeader() string {
	styles := m.theme.Styles()
	var b strings.Builder
	widths := m.ctrl.Widths()
	for i, d := range m.ctrl.Visible() {
		if i >= len(widths) {
			break
		}
		b.WriteString(fitCell(d.Header, widths[i]))
	}
	return styles.Header.Width(m.width).MaxWidth(m.width).Render(b.String())
}

// renderTableBody renders the visible rows plus the scrollbar column. The
// viewport offset is floored to whole lines.
func (m Model) renderTableBody(now time.Time) string {
	height := int(m.ctrl.ViewportHeight())
	if height <= 0 {
		return ""
	}
	tableWidth := max(m.width-1, 0)
	blank := m.theme.Styles().Background.Render(strings.Repeat(" ", tableWidth))

	lines := make([]string, height)
	base := math.Floor(m.ctrl.ScrollTop())
	for _, row := range m.ctrl.Window(now) {
		y := int(row.Top - base)
		rowLines := m.renderRow(row.Index, max(int(row.Height), 1), tableWidth)
		for k, line := range rowLines {
			if y+k >= 0 && y+k < height {
				lines[y+k] = line
			}
		}
	}

	bar := m.scrollbar(height)
	var b strings.Builder
	for i, line := range lines {
		if line == "" {
			line = blank
		}
		b.WriteString(line)
		b.WriteString(bar[i])
		if i < len(lines)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// renderRow renders record i as height lines of exactly width cells.
func (m Model) renderRow(i, height, width int) []string {
	rec, ok := m.ctrl.Record(i)
	if !ok {
		return nil
	}
	if rec.IsSeparator() {
		return m.renderSeparator(i, rec, height, width)
	}

	styles := m.theme.Styles()
	sel := m.ctrl.Selection()
	hl := m.ctrl.Highlight()
	odd := i%2 == 1
	widths := m.ctrl.Widths()
	visible := m.ctrl.Visible()

	out := make([]strings.Builder, height)
	used := 0
	for col, d := range visible {
		if col >= len(widths) {
			break
		}
		w := widths[col]
		selected := sel.IsSelected(i, col)
		st := hl.RowStyle(rec, odd, selected)
		if d.Type == column.TypeLevel && !selected {
			st = st.Foreground(styles.LevelColor(rec.Level))
		}

		cells := m.cellLines(rec, d, w, height)
		for k := range out {
			cs := st
			if k == height-1 && selected && sel.BorderFlags(i, col).Bottom {
				cs = cs.Underline(true)
			}
			out[k].WriteString(cs.Render(cells[k]))
		}
		used += w
	}

	fill := ""
	if used < width {
		fill = hl.RowStyle(rec, odd, false).Render(strings.Repeat(" ", width-used))
	}
	lines := make([]string, height)
	for k := range out {
		lines[k] = out[k].String() + fill
	}
	return lines
}

// cellLines returns the padded text of one cell across height lines. Only
// the title column wraps.
func (m Model) cellLines(rec record.Record, d column.Def, width, height int) []string {
	var value string
	if d.Field == record.FieldTime {
		value = m.times.format(rec.Timestamp)
	} else {
		value = rec.Field(d.Field)
	}

	lines := make([]string, height)
	if height > 1 && d.Field == record.FieldTitle {
		wrapped := wrapText(sanitize(value), width, height)
		for k := range lines {
			text := ""
			if k < len(wrapped) {
				text = wrapped[k]
			}
			lines[k] = runewidth.FillRight(text, width)
		}
		return lines
	}
	lines[0] = fitCell(value, width)
	for k := 1; k < height; k++ {
		lines[k] = strings.Repeat(" ", width)
	}
	return lines
}

func (m Model) renderSeparator(i int, rec record.Record, height, width int) []string {
	styles := m.theme.Styles()
	label := "── "
	if title := sanitize(rec.Title); title != "" {
		label += title + " "
	}
	label = truncate(label, width)
	rule := label + strings.Repeat("─", max(width-runewidth.StringWidth(label), 0))
	st := styles.FaintText.Background(lipgloss.Color(m.theme.Background))
	if m.ctrl.Selection().RowSelected(i) {
		st = styles.Selected
	}
	lines := make([]string, height)
	lines[0] = st.Render(rule)
	for k := 1; k < height; k++ {
		lines[k] = st.Render(strings.Repeat(" ", width))
	}
	return lines
}

// scrollbar returns one styled cell per body line.
func (m Model) scrollbar(height int) []string {
	styles := m.theme.Styles()
	out := make([]string, height)
	content := m.ctrl.ContentHeight()
	client := m.ctrl.ViewportHeight()
	if content <= client || height == 0 {
		for i := range out {
			out[i] = styles.Scrollbar.Render(" ")
		}
		return out
	}
	thumb := max(int(math.Round(client*client/content)), 1)
	maxTop := content - client
	start := int(math.Round(m.ctrl.ScrollTop() / maxTop * float64(height-thumb)))
	start = min(max(start, 0), height-thumb)
	for i := range out {
		if i >= start && i < start+thumb {
			out[i] = styles.ScrollThumb.Render("┃")
		} else {
			out[i] = styles.Scrollbar.Render("│")
		}
	}
	return out
}
