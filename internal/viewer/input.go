package viewer

import (
	"time"

	"github.com/five82/trawl/internal/scroll"
	"github.com/five82/trawl/internal/selection"
	"github.com/five82/trawl/internal/window"
)

// Input handlers call the scroll detector before touching the viewport, so
// a scroll-up intent is recorded before any frame can act on stale state.

// Wheel scrolls by lines (negative is up).
func (c *Controller) Wheel(lines float64, now time.Time) {
	c.detector.OnWheel(lines, now)
	c.overscan.OnWheel(now, int(lines), int(c.vp.client))
	c.scrollBy(lines, now)
}

// Navigate handles Up, Down, PageUp, PageDown, Home and End. Up and Down
// move the selection focus (extending it with extend); the rest move the
// viewport.
func (c *Controller) Navigate(k scroll.Key, extend bool, now time.Time) {
	page := max(c.vp.client-1, 1)
	switch k {
	case scroll.KeyUp:
		c.MoveSelection(-1, 0, extend, now)
	case scroll.KeyDown:
		c.MoveSelection(1, 0, extend, now)
	case scroll.KeyPageUp:
		c.detector.OnKey(k, now)
		c.scrollBy(-page, now)
	case scroll.KeyPageDown:
		c.scrollBy(page, now)
	case scroll.KeyHome:
		c.detector.OnKey(k, now)
		c.vp.SetScrollTop(0)
		c.detector.OnScroll(now)
	case scroll.KeyEnd:
		c.JumpToBottom()
	}
}

// MoveSelection moves or extends the selection focus and scrolls it into
// view. With nothing selected it selects the last visible row instead.
func (c *Controller) MoveSelection(dRow, dCol int, extend bool, now time.Time) {
	if dRow < 0 {
		c.detector.OnKey(scroll.KeyUp, now)
	}
	if len(c.records) == 0 || len(c.visible) == 0 {
		return
	}
	if c.sel.Empty() {
		row := window.IndexAt(c.heights, c.vp.top+c.vp.client-1, len(c.records))
		c.sel.PointerDown(selection.Cell{Row: row}, false)
		c.sel.PointerUp()
		return
	}
	focus := c.sel.Move(dRow, dCol, extend)
	c.reveal(focus.Row, now)
}

// SelectAll selects every row and column.
func (c *Controller) SelectAll() {
	c.sel.SelectRows(0, len(c.records)-1)
}

// ClearSelection drops the selection.
func (c *Controller) ClearSelection() {
	c.sel.Clear()
}

// JumpToBottom follows the newest record again.
func (c *Controller) JumpToBottom() {
	c.coord.JumpToBottom()
	c.detector.Reset()
}

// Activate reports the focused row to the activation callback.
func (c *Controller) Activate() bool {
	focus, ok := c.sel.Focus()
	if !ok {
		return false
	}
	return c.activate(focus.Row)
}

// PointerDown handles a press at body coordinates (x, y). Presses on the
// scrollbar start a scrollbar drag; presses on a cell start a selection.
func (c *Controller) PointerDown(x, y float64, additive bool, now time.Time) {
	if c.detector.OnPointerDown(x, y, now) == scroll.ScrolledUp {
		c.scrollbarDrag = true
		c.dragScrollbar(y, now)
		return
	}
	cell, ok := c.sel.CellAt(x, y, c.geometry())
	if !ok {
		return
	}
	c.sel.PointerDown(cell, additive)
	c.pressed = cell
	c.moved = false
	c.pointerX, c.pointerY = x, y
	c.overscan.SetDragging(true)
}

// PointerMove handles motion with the button held.
func (c *Controller) PointerMove(x, y float64, now time.Time) {
	if c.scrollbarDrag {
		c.dragScrollbar(y, now)
		return
	}
	if !c.sel.Dragging() {
		return
	}
	c.pointerX, c.pointerY = x, y
	c.autoScroll = c.sel.PointerMove(x, y, c.geometry())
	if focus, _ := c.sel.Focus(); focus != c.pressed {
		c.moved = true
	}
}

// PointerUp ends a drag. A press released on the cell it started on
// activates that row.
func (c *Controller) PointerUp(now time.Time) (activated bool) {
	if c.scrollbarDrag {
		c.scrollbarDrag = false
		c.detector.OnScroll(now)
		return false
	}
	if !c.sel.Dragging() {
		return false
	}
	c.sel.PointerUp()
	c.autoScroll = selection.None
	c.overscan.SetDragging(false)
	if c.moved {
		return false
	}
	return c.activate(c.pressed.Row)
}

// AutoScrolling reports whether a drag is parked in an edge zone.
func (c *Controller) AutoScrolling() bool {
	return c.autoScroll != selection.None
}

// AutoScrollStep scrolls one line toward the edge the drag is parked at and
// extends the selection to follow. It reports whether to keep stepping.
func (c *Controller) AutoScrollStep(now time.Time) bool {
	switch c.autoScroll {
	case selection.Up:
		c.detector.OnKey(scroll.KeyUp, now)
		c.vp.SetScrollTop(c.vp.top - 1)
	case selection.Down:
		c.scrollBy(1, now)
	default:
		return false
	}
	c.autoScroll = c.sel.PointerMove(c.pointerX, c.pointerY, c.geometry())
	c.moved = true
	return c.autoScroll != selection.None
}

func (c *Controller) scrollBy(lines float64, now time.Time) {
	c.vp.SetScrollTop(c.vp.top + lines)
	c.detector.OnScroll(now)
}

func (c *Controller) reveal(row int, now time.Time) {
	top := window.Reveal(c.heights, row, c.vp.top, c.vp.client)
	if top == c.vp.top {
		return
	}
	c.vp.SetScrollTop(top)
	c.detector.OnScroll(now)
}

func (c *Controller) dragScrollbar(y float64, now time.Time) {
	if c.vp.client <= 0 {
		return
	}
	frac := min(max(y/c.vp.client, 0), 1)
	c.vp.SetScrollTop(frac * c.vp.maxTop())
	c.detector.OnScroll(now)
}

func (c *Controller) activate(row int) bool {
	rec, ok := c.Record(row)
	if !ok || c.onActivate == nil {
		return false
	}
	c.onActivate(rec)
	return true
}

func (c *Controller) geometry() selection.Geometry {
	g := selection.Geometry{
		Height:        c.vp.client,
		ScrollTop:     c.vp.top,
		RowHeight:     1,
		ColumnOffsets: c.offsets,
		EdgeZone:      c.coord.Tuning().EdgeZone,
	}
	if c.wrap {
		heights, n := c.heights, len(c.records)
		g.RowAt = func(y float64) int { return window.IndexAt(heights, y, n) }
	}
	return g
}
