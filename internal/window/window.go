package window

import (
	"math"
	"sort"
)

// Heights supplies row geometry. Top(n) for n rows is the total content
// height.
type Heights interface {
	// Top returns the offset of the top edge of row i.
	Top(i int) float64
	// Height returns the height of row i.
	Height(i int) float64
	// Span returns the first and last of n rows intersecting [start, end).
	// last < first when nothing intersects.
	Span(start, end float64, n int) (first, last int)
}

// Row is one entry of a computed window.
type Row struct {
	Index  int
	Top    float64
	Height float64
}

// Input describes the viewport to window.
type Input struct {
	Count          int
	Heights        Heights
	ViewportHeight float64
	ScrollTop      float64
	Overscan       int
}

// Compute returns the rows intersecting the viewport, extended by Overscan
// rows on each side, in index order. The work done is proportional to the
// number of returned rows (plus a binary search for variable heights).
func Compute(in Input) []Row {
	if in.Count <= 0 || in.Heights == nil {
		return nil
	}
	vh := max(in.ViewportHeight, 0)
	first, last := in.Heights.Span(in.ScrollTop, in.ScrollTop+vh, in.Count)
	o := max(in.Overscan, 0)
	first = max(first-o, 0)
	last = min(last+o, in.Count-1)
	if first > last {
		return nil
	}
	rows := make([]Row, 0, last-first+1)
	for i := first; i <= last; i++ {
		rows = append(rows, Row{Index: i, Top: in.Heights.Top(i), Height: in.Heights.Height(i)})
	}
	return rows
}

// Total returns the content height of n rows.
func Total(h Heights, n int) float64 {
	if h == nil || n <= 0 {
		return 0
	}
	return h.Top(n)
}

// IndexAt returns the row containing content offset y, clamped to the n
// rows. It returns -1 when n is zero.
func IndexAt(h Heights, y float64, n int) int {
	if h == nil || n <= 0 {
		return -1
	}
	first, _ := h.Span(y, y, n)
	return min(max(first, 0), n-1)
}

// Reveal returns the scroll offset that brings row i fully into view,
// moving as little as possible.
func Reveal(h Heights, i int, scrollTop, viewportHeight float64) float64 {
	if h == nil || i < 0 {
		return scrollTop
	}
	top := h.Top(i)
	bottom := top + h.Height(i)
	switch {
	case top < scrollTop:
		return top
	case bottom > scrollTop+viewportHeight:
		return max(bottom-viewportHeight, 0)
	default:
		return scrollTop
	}
}

// Uniform is a fixed row height.
type Uniform float64

func (u Uniform) h() float64 {
	if u <= 0 {
		return 1
	}
	return float64(u)
}

// Top implements Heights.
func (u Uniform) Top(i int) float64 {
	return float64(i) * u.h()
}

// Height implements Heights.
func (u Uniform) Height(int) float64 {
	return u.h()
}

// Span implements Heights in constant time.
func (u Uniform) Span(start, end float64, n int) (int, int) {
	h := u.h()
	first := int(math.Max(math.Floor(start/h), 0))
	last := int(math.Min(math.Ceil(end/h)-1, float64(n-1)))
	return first, last
}

// Layout holds variable row heights as lazily grown prefix offsets. Offsets
// are extended only for rows not yet measured, so appending records costs
// time proportional to the new rows. Drop forgets leading rows without
// re-measuring the rest.
type Layout struct {
	height func(i int) float64
	prefix []float64
	off    int // prefix[off] is the top of row 0
}

// NewLayout returns a Layout measuring rows with fn. Negative heights count
// as zero.
func NewLayout(fn func(i int) float64) *Layout {
	return &Layout{height: fn, prefix: []float64{0}}
}

// measured returns the number of rows with known offsets.
func (l *Layout) measured() int {
	return len(l.prefix) - 1 - l.off
}

func (l *Layout) at(i int) float64 {
	return l.prefix[l.off+i] - l.prefix[l.off]
}

func (l *Layout) grow(n int) {
	for l.measured() < n {
		l.measureNext()
	}
}

func (l *Layout) measureNext() {
	last := len(l.prefix) - 1
	l.prefix = append(l.prefix, l.prefix[last]+max(l.height(l.measured()), 0))
}

// Invalidate drops measurements from row i onward, e.g. after a width
// change re-wraps rows.
func (l *Layout) Invalidate(i int) {
	i = max(i, 0)
	if i < l.measured() {
		l.prefix = l.prefix[:l.off+i+1]
	}
}

// Drop forgets the first k rows: row k becomes row 0. Measurements of the
// remaining rows are kept.
func (l *Layout) Drop(k int) {
	if k <= 0 {
		return
	}
	if k >= l.measured() {
		l.prefix = append(l.prefix[:0], 0)
		l.off = 0
		return
	}
	l.off += k
	if l.off > len(l.prefix)/2 {
		base := l.prefix[l.off]
		n := copy(l.prefix, l.prefix[l.off:])
		l.prefix = l.prefix[:n]
		for j := range l.prefix {
			l.prefix[j] -= base
		}
		l.off = 0
	}
}

// Top implements Heights.
func (l *Layout) Top(i int) float64 {
	if i <= 0 {
		return 0
	}
	l.grow(i)
	return l.at(i)
}

// Height implements Heights.
func (l *Layout) Height(i int) float64 {
	return l.Top(i+1) - l.Top(i)
}

// Span implements Heights with two binary searches over the prefix offsets.
// Rows are measured only as far as end reaches.
func (l *Layout) Span(start, end float64, n int) (int, int) {
	if n <= 0 {
		return 0, -1
	}
	limit := max(start, end)
	for l.measured() < n && (l.measured() == 0 || l.at(l.measured()) <= limit) {
		l.measureNext()
	}
	m := min(l.measured(), n)
	first := sort.Search(m, func(i int) bool { return l.at(i+1) > start })
	last := sort.Search(m, func(i int) bool { return l.at(i) >= end }) - 1
	return first, last
}
