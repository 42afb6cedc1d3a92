package ui

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

const ellipsis = "…"

var controlReplacer = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ")

// sanitize flattens a value onto one line.
func sanitize(value string) string {
	return controlReplacer.Replace(value)
}

// truncate shortens value to at most width display cells, adding an
// ellipsis when something was cut.
func truncate(value string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	return runewidth.Truncate(value, width, ellipsis)
}

// fitCell sanitizes, truncates and pads value to exactly width cells.
func fitCell(value string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.FillRight(truncate(sanitize(value), width), width)
}

// wrapText splits value into lines of at most width cells. The last
// allowed line is truncated when the text does not fit in maxLines.
func wrapText(value string, width, maxLines int) []string {
	value = sanitize(value)
	if width <= 0 || maxLines <= 0 {
		return nil
	}
	var lines []string
	var cur strings.Builder
	curWidth := 0
	for i, r := range value {
		w := runewidth.RuneWidth(r)
		if curWidth+w > width {
			if len(lines) == maxLines-1 {
				lines = append(lines, truncate(cur.String()+value[i:], width))
				return lines
			}
			lines = append(lines, cur.String())
			cur.Reset()
			curWidth = 0
		}
		cur.WriteRune(r)
		curWidth += w
	}
	return append(lines, cur.String())
}

// formatCount renders n with thousands separators.
func formatCount(n uint64) string {
	s := strconv.FormatUint(n, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
