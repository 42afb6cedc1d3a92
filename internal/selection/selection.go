package selection

import (
	"math"
	"slices"

	"github.com/five82/trawl/internal/column"
)

// Cell addresses a (row, column) position in the filtered table.
type Cell struct {
	Row int
	Col int
}

// Range spans two opposite corners. Start is where the range was anchored,
// End is the corner that moves while dragging or extending.
type Range struct {
	Start Cell
	End   Cell
}

// Bounds returns the normalized corners of r.
func (r Range) Bounds() (top, left, bottom, right int) {
	return min(r.Start.Row, r.End.Row), min(r.Start.Col, r.End.Col),
		max(r.Start.Row, r.End.Row), max(r.Start.Col, r.End.Col)
}

// Normalized returns r with Start at the top-left and End at the
// bottom-right.
func (r Range) Normalized() Range {
	top, left, bottom, right := r.Bounds()
	return Range{Start: Cell{top, left}, End: Cell{bottom, right}}
}

// Contains reports whether (row, col) lies inside r.
func (r Range) Contains(row, col int) bool {
	top, left, bottom, right := r.Bounds()
	return row >= top && row <= bottom && col >= left && col <= right
}

// Borders flags which edges of a selected cell lie on the outline of the
// selection.
type Borders struct {
	Top    bool
	Bottom bool
	Left   bool
	Right  bool
}

// Any reports whether any edge is set.
func (b Borders) Any() bool {
	return b.Top || b.Bottom || b.Left || b.Right
}

// Direction is an auto-scroll request produced while dragging.
type Direction int

const (
	None Direction = iota
	Up
	Down
)

// Geometry describes where the table is drawn, in the same units as pointer
// coordinates.
type Geometry struct {
	Left      float64 // x of the first column
	Top       float64 // y of the first visible row
	Height    float64 // viewport height
	ScrollTop float64 // content offset at the top of the viewport
	RowHeight float64
	// ColumnOffsets are cumulative column edges, see column.Offsets.
	ColumnOffsets []int
	EdgeZone      float64
	// RowAt maps a content offset to a row for variable row heights. When
	// nil, rows are RowHeight tall.
	RowAt func(y float64) int
}

// Model tracks one or more selected ranges. The last range is the active
// one; keyboard movement and drags act on it.
type Model struct {
	ranges   []Range
	anchor   Cell
	anchored bool
	dragging bool
	rows     int
	cols     int
}

// New returns an empty selection over a rows x cols table.
func New(rows, cols int) *Model {
	return &Model{rows: max(rows, 0), cols: max(cols, 0)}
}

// Empty reports whether nothing is selected.
func (m *Model) Empty() bool {
	return len(m.ranges) == 0
}

// Clear drops every range and the anchor.
func (m *Model) Clear() {
	m.ranges = m.ranges[:0]
	m.anchored = false
	m.dragging = false
}

// Ranges returns the normalized ranges.
func (m *Model) Ranges() []Range {
	out := make([]Range, len(m.ranges))
	for i, r := range m.ranges {
		out[i] = r.Normalized()
	}
	return out
}

// Active returns the active range as stored (not normalized).
func (m *Model) Active() (Range, bool) {
	if len(m.ranges) == 0 {
		return Range{}, false
	}
	return m.ranges[len(m.ranges)-1], true
}

// Anchor returns the fixed corner of the active range.
func (m *Model) Anchor() (Cell, bool) {
	return m.anchor, m.anchored
}

// Focus returns the moving corner of the active range, the cell keyboard
// navigation keeps in view.
func (m *Model) Focus() (Cell, bool) {
	r, ok := m.Active()
	return r.End, ok
}

// Dragging reports whether a pointer drag is in progress.
func (m *Model) Dragging() bool {
	return m.dragging
}

// PointerDown starts a new range at c. With additive the existing ranges
// are kept, otherwise they are replaced.
func (m *Model) PointerDown(c Cell, additive bool) {
	c = m.clampCell(c)
	if !additive {
		m.ranges = m.ranges[:0]
	}
	m.ranges = append(m.ranges, Range{Start: c, End: c})
	m.anchor = c
	m.anchored = true
	m.dragging = true
}

// PointerMove extends the active range to the cell under (x, y) while
// dragging. It returns the direction the view should auto-scroll when the
// pointer is inside the edge zone.
func (m *Model) PointerMove(x, y float64, g Geometry) Direction {
	if !m.dragging || len(m.ranges) == 0 {
		return None
	}
	if c, ok := m.CellAt(x, y, g); ok {
		m.ranges[len(m.ranges)-1].End = c
	}
	switch {
	case y < g.Top+g.EdgeZone:
		return Up
	case y > g.Top+g.Height-g.EdgeZone:
		return Down
	default:
		return None
	}
}

// PointerUp ends a drag.
func (m *Model) PointerUp() {
	m.dragging = false
}

// CellAt maps a pointer position to a table cell, clamped to the table.
func (m *Model) CellAt(x, y float64, g Geometry) (Cell, bool) {
	if m.rows == 0 || m.cols == 0 {
		return Cell{}, false
	}
	var row int
	switch {
	case g.RowAt != nil:
		row = g.RowAt(y - g.Top + g.ScrollTop)
	case g.RowHeight > 0:
		row = int(math.Floor((y - g.Top + g.ScrollTop) / g.RowHeight))
	default:
		return Cell{}, false
	}
	col := column.At(g.ColumnOffsets, x-g.Left)
	if col < 0 {
		col = 0
	}
	return m.clampCell(Cell{Row: row, Col: col}), true
}

// Move moves the focus by (dRow, dCol). With extend the active range grows
// while its anchor stays put; otherwise the selection collapses to the new
// cell. With nothing selected the first cell is selected. It returns the new
// focus cell.
func (m *Model) Move(dRow, dCol int, extend bool) Cell {
	if m.rows == 0 || m.cols == 0 {
		return Cell{}
	}
	if len(m.ranges) == 0 {
		c := Cell{}
		m.ranges = append(m.ranges, Range{Start: c, End: c})
		m.anchor, m.anchored = c, true
		return c
	}
	active := &m.ranges[len(m.ranges)-1]
	next := m.clampCell(Cell{Row: active.End.Row + dRow, Col: active.End.Col + dCol})
	if extend {
		active.End = next
		return next
	}
	m.ranges = append(m.ranges[:0], Range{Start: next, End: next})
	m.anchor, m.anchored = next, true
	return next
}

// SelectRows selects whole rows from..to (inclusive) as a single range.
func (m *Model) SelectRows(from, to int) {
	if m.rows == 0 || m.cols == 0 {
		return
	}
	start := m.clampCell(Cell{Row: from, Col: 0})
	end := m.clampCell(Cell{Row: to, Col: m.cols - 1})
	m.ranges = append(m.ranges[:0], Range{Start: start, End: end})
	m.anchor, m.anchored = start, true
}

// IsSelected reports whether (row, col) is inside any range.
func (m *Model) IsSelected(row, col int) bool {
	for _, r := range m.ranges {
		if r.Contains(row, col) {
			return true
		}
	}
	return false
}

// BorderFlags reports which edges of (row, col) are on the outline of the
// union of ranges. Unselected cells have no borders.
func (m *Model) BorderFlags(row, col int) Borders {
	if !m.IsSelected(row, col) {
		return Borders{}
	}
	return Borders{
		Top:    !m.IsSelected(row-1, col),
		Bottom: !m.IsSelected(row+1, col),
		Left:   !m.IsSelected(row, col-1),
		Right:  !m.IsSelected(row, col+1),
	}
}

// RowSelected reports whether any cell of row is selected.
func (m *Model) RowSelected(row int) bool {
	for _, r := range m.ranges {
		top, _, bottom, _ := r.Bounds()
		if row >= top && row <= bottom {
			return true
		}
	}
	return false
}

// SelectedRows returns the selected row indices in ascending order.
func (m *Model) SelectedRows() []int {
	seen := make(map[int]struct{})
	var rows []int
	for _, r := range m.ranges {
		top, _, bottom, _ := r.Bounds()
		for row := top; row <= bottom; row++ {
			if _, ok := seen[row]; ok {
				continue
			}
			seen[row] = struct{}{}
			rows = append(rows, row)
		}
	}
	slices.Sort(rows)
	return rows
}

// SelectedCols returns the selected column indices in ascending order.
func (m *Model) SelectedCols() []int {
	var mask []bool
	for _, r := range m.ranges {
		_, left, _, right := r.Bounds()
		for len(mask) <= right {
			mask = append(mask, false)
		}
		for c := left; c <= right; c++ {
			mask[c] = true
		}
	}
	var cols []int
	for c, on := range mask {
		if on {
			cols = append(cols, c)
		}
	}
	return cols
}

// Clamp sets the table bounds and pulls every range inside them. A table
// with no rows or columns clears the selection.
func (m *Model) Clamp(rows, cols int) {
	m.rows, m.cols = max(rows, 0), max(cols, 0)
	if m.rows == 0 || m.cols == 0 {
		m.Clear()
		return
	}
	for i := range m.ranges {
		m.ranges[i].Start = m.clampCell(m.ranges[i].Start)
		m.ranges[i].End = m.clampCell(m.ranges[i].End)
	}
	m.anchor = m.clampCell(m.anchor)
}

// Shift moves every range by delta rows, used when rows are evicted from
// the front (negative delta). Ranges pushed entirely above row 0 are
// dropped; partially visible ranges are clipped.
func (m *Model) Shift(delta int) {
	if delta == 0 || len(m.ranges) == 0 {
		return
	}
	kept := m.ranges[:0]
	for _, r := range m.ranges {
		r.Start.Row += delta
		r.End.Row += delta
		if max(r.Start.Row, r.End.Row) < 0 {
			continue
		}
		r.Start.Row = max(r.Start.Row, 0)
		r.End.Row = max(r.End.Row, 0)
		kept = append(kept, r)
	}
	m.ranges = kept
	if len(m.ranges) == 0 {
		m.anchored = false
		m.dragging = false
		return
	}
	m.anchor.Row = max(m.anchor.Row+delta, 0)
	m.Clamp(m.rows, m.cols)
}

func (m *Model) clampCell(c Cell) Cell {
	c.Row = min(max(c.Row, 0), max(m.rows-1, 0))
	c.Col = min(max(c.Col, 0), max(m.cols-1, 0))
	return c
}
