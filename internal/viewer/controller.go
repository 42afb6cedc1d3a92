package viewer

import (
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/five82/trawl/internal/column"
	"github.com/five82/trawl/internal/export"
	"github.com/five82/trawl/internal/filter"
	"github.com/five82/trawl/internal/highlight"
	"github.com/five82/trawl/internal/record"
	"github.com/five82/trawl/internal/scroll"
	"github.com/five82/trawl/internal/selection"
	"github.com/five82/trawl/internal/window"
)

const (
	maxWrapLines   = 4
	scrollbarWidth = 1
)

// Options configure a Controller.
type Options struct {
	Ring       *record.Ring
	Columns    column.Set
	Rules      []highlight.Rule
	Palette    highlight.Palette
	Filter     filter.Set
	Tuning     scroll.Tuning
	Overscan   window.Overscan
	OnActivate func(record.Record)
}

// Controller owns the filtered record sequence, the column set and the
// viewport, and routes input to the scroll, selection and windowing
// engines. It is driven from a single goroutine.
type Controller struct {
	ring    *record.Ring
	columns column.Set
	visible []column.Def
	widths  []int
	offsets []int
	width   int

	filterSet filter.Set
	eval      *filter.Evaluator
	records   []record.Record
	lastID    uint64

	wrap    bool
	heights window.Heights
	vp      *viewport

	coord    *scroll.Coordinator
	detector *scroll.Detector
	overscan *window.OverscanController
	sel      *selection.Model
	hl       *highlight.Engine

	onActivate    func(record.Record)
	autoScroll    selection.Direction
	pointerX      float64
	pointerY      float64
	pressed       selection.Cell
	moved         bool
	scrollbarDrag bool
}

// New builds a controller. Nothing is mounted until the first Resize.
func New(opts Options) *Controller {
	ring := opts.Ring
	if ring == nil {
		ring = record.NewRing(0)
	}
	cols := opts.Columns
	if cols.Len() == 0 {
		cols = column.MustSet(column.Defaults())
	}
	c := &Controller{
		ring:       ring,
		columns:    cols,
		visible:    cols.Visible(),
		filterSet:  opts.Filter,
		eval:       filter.NewEvaluator(opts.Filter),
		heights:    window.Uniform(1),
		coord:      scroll.New(opts.Tuning),
		overscan:   window.NewOverscanController(opts.Overscan, 0),
		hl:         highlight.New(opts.Rules, opts.Palette),
		onActivate: opts.OnActivate,
	}
	c.vp = &viewport{content: func() float64 { return window.Total(c.heights, len(c.records)) }}
	c.detector = scroll.NewDetector(c.coord)
	c.sel = selection.New(0, len(c.visible))
	return c
}

// Resize sets the body size in cells and mounts the viewport on first use.
// The returned generation must be ticked when scheduled is true.
func (c *Controller) Resize(width, height int, now time.Time) (gen uint64, scheduled bool) {
	c.width = max(width, 0)
	c.vp.client = float64(max(height, 0))
	c.relayout()
	c.detector.SetScrollbar(scroll.Rect{
		X: float64(c.width - scrollbarWidth), Y: 0,
		W: scrollbarWidth, H: c.vp.client,
	})
	if !c.coord.Mounted() {
		return c.coord.Mount(c.vp, now)
	}
	c.vp.SetScrollTop(c.vp.top)
	if c.coord.Following() {
		c.coord.InstantJump()
	}
	return 0, false
}

// Unmount detaches the viewport, e.g. while the detail pane covers it.
func (c *Controller) Unmount() {
	c.coord.Unmount()
}

// Mounted reports whether the viewport is attached.
func (c *Controller) Mounted() bool {
	return c.coord.Mounted()
}

// Mount reattaches the viewport after Unmount.
func (c *Controller) Mount(now time.Time) (gen uint64, scheduled bool) {
	return c.coord.Mount(c.vp, now)
}

func (c *Controller) relayout() {
	c.visible = c.columns.Visible()
	c.widths = column.Layout(c.visible, max(c.width-scrollbarWidth, 0))
	c.offsets = column.Offsets(c.widths)
	c.sel.Clamp(len(c.records), len(c.visible))
	c.resetHeights()
}

func (c *Controller) resetHeights() {
	if !c.wrap {
		c.heights = window.Uniform(1)
		return
	}
	c.heights = wrapHeights(
		func() []record.Record { return c.records },
		c.titleWidth,
		runewidth.StringWidth,
	)
}

func (c *Controller) titleWidth() int {
	for i, d := range c.visible {
		if d.Field == record.FieldTitle && i < len(c.widths) {
			return c.widths[i]
		}
	}
	return 0
}

// Sync pulls new records from the ring, drops evicted ones and tells the
// scroll coordinator. The returned generation must be ticked when
// scheduled is true.
func (c *Controller) Sync(now time.Time) (gen uint64, scheduled bool) {
	if c.ring.Len() == 0 && len(c.records) > 0 {
		c.records = c.records[:0]
		c.sel.Clear()
		c.resetHeights()
		c.vp.SetScrollTop(0)
	}

	oldest := c.ring.Oldest()
	drop := 0
	for drop < len(c.records) && c.records[drop].ID < oldest {
		drop++
	}
	if drop > 0 {
		c.records = c.records[drop:]
		c.sel.Shift(-drop)
		if l, ok := c.heights.(*window.Layout); ok {
			l.Drop(drop)
		}
	}

	if fresh := c.ring.Since(c.lastID); len(fresh) > 0 {
		c.lastID = fresh[len(fresh)-1].ID
		c.records = c.eval.AppendMatches(c.records, fresh)
	}
	c.sel.Clamp(len(c.records), len(c.visible))
	if c.vp.top > c.vp.maxTop() {
		c.vp.SetScrollTop(c.vp.top)
	}

	tail, _ := c.ring.Tail()
	return c.coord.OnRecords(len(c.records), tail, now)
}

// Tick advances a smooth catch-up frame.
func (c *Controller) Tick(now time.Time, gen uint64) bool {
	return c.coord.Tick(now, gen)
}

// SampleRate refreshes the ingestion rate estimate.
func (c *Controller) SampleRate(now time.Time) float64 {
	return c.coord.SampleRate(now)
}

// SetFilter re-filters the retained records.
func (c *Controller) SetFilter(set filter.Set) {
	c.filterSet = set
	c.eval = filter.NewEvaluator(set)
	c.records = c.eval.AppendMatches(nil, c.ring.Snapshot())
	if tail, ok := c.ring.Tail(); ok {
		c.lastID = tail
	}
	c.sel.Clamp(len(c.records), len(c.visible))
	c.resetHeights()
	c.vp.SetScrollTop(c.vp.top)
	if c.coord.Following() {
		c.coord.InstantJump()
	}
}

// SetColumns replaces the column set.
func (c *Controller) SetColumns(set column.Set) {
	c.columns = set
	c.relayout()
}

// ToggleColumn flips the visibility of column id.
func (c *Controller) ToggleColumn(id string) {
	d, ok := c.columns.Lookup(id)
	if !ok {
		return
	}
	c.SetColumns(c.columns.WithVisibility(id, !d.Visible))
}

// SetRules replaces the highlight rules.
func (c *Controller) SetRules(rules []highlight.Rule) {
	c.hl.SetRules(rules)
}

// SetWrap switches between one line per row and wrapped titles.
func (c *Controller) SetWrap(on bool) {
	if c.wrap == on {
		return
	}
	c.wrap = on
	c.resetHeights()
	c.vp.SetScrollTop(c.vp.top)
	if c.coord.Following() {
		c.coord.InstantJump()
	}
}

// Window returns the rows to render now, overscan included.
func (c *Controller) Window(now time.Time) []window.Row {
	return window.Compute(window.Input{
		Count:          len(c.records),
		Heights:        c.heights,
		ViewportHeight: c.vp.client,
		ScrollTop:      c.vp.top,
		Overscan:       c.overscan.Current(now),
	})
}

// Len returns the number of filtered records.
func (c *Controller) Len() int { return len(c.records) }

// Record returns filtered record i.
func (c *Controller) Record(i int) (record.Record, bool) {
	if i < 0 || i >= len(c.records) {
		return record.Record{}, false
	}
	return c.records[i], true
}

// Columns returns the full column set.
func (c *Controller) Columns() column.Set { return c.columns }

// Visible returns the visible columns in render order.
func (c *Controller) Visible() []column.Def { return c.visible }

// Widths returns the laid out width of each visible column.
func (c *Controller) Widths() []int { return c.widths }

// Filter returns the active filter set.
func (c *Controller) Filter() filter.Set { return c.filterSet }

// Selection exposes the selection model for rendering queries.
func (c *Controller) Selection() *selection.Model { return c.sel }

// Highlight exposes the highlight engine.
func (c *Controller) Highlight() *highlight.Engine { return c.hl }

// Scroll returns the follow state.
func (c *Controller) Scroll() scroll.State { return c.coord.State() }

// Following reports whether the view tracks the newest record.
func (c *Controller) Following() bool { return c.coord.Following() }

// ScrollTop returns the viewport offset in lines.
func (c *Controller) ScrollTop() float64 { return c.vp.top }

// ContentHeight returns the height of all filtered rows in lines.
func (c *Controller) ContentHeight() float64 { return c.vp.content() }

// ViewportHeight returns the body height in lines.
func (c *Controller) ViewportHeight() float64 { return c.vp.client }

// Wrap reports whether wrap mode is on.
func (c *Controller) Wrap() bool { return c.wrap }

// Heights returns the current row geometry.
func (c *Controller) Heights() window.Heights { return c.heights }

// SetOnActivate sets the row activation callback.
func (c *Controller) SetOnActivate(fn func(record.Record)) {
	c.onActivate = fn
}

// SelectionExport returns the selected records and the selected visible
// columns, both in display order.
func (c *Controller) SelectionExport() export.Selection {
	var out export.Selection
	for _, row := range c.sel.SelectedRows() {
		if row >= 0 && row < len(c.records) {
			out.Records = append(out.Records, c.records[row])
		}
	}
	for _, col := range c.sel.SelectedCols() {
		if col >= 0 && col < len(c.visible) {
			out.Columns = append(out.Columns, c.visible[col])
		}
	}
	return out
}
