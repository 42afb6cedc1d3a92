package scroll

import "time"

// Intent is a semantic scroll event.
type Intent int

const (
	NoIntent Intent = iota
	ScrolledUp
	ReachedBottom
)

func (i Intent) String() string {
	switch i {
	case ScrolledUp:
		return "scrolled-up"
	case ReachedBottom:
		return "reached-bottom"
	default:
		return "none"
	}
}

// Key is a navigation key relevant to scroll intent.
type Key int

const (
	KeyOther Key = iota
	KeyUp
	KeyPageUp
	KeyHome
	KeyDown
	KeyPageDown
	KeyEnd
)

// Rect is a hit region in pointer coordinates.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether (x, y) is inside r.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Detector turns raw input into ScrolledUp and ReachedBottom intents and
// applies them to a Coordinator synchronously, before the event reaches
// any deferred rendering.
type Detector struct {
	c          *Coordinator
	scrollbar  Rect
	sawUp      bool
	lastIntent Intent
}

// NewDetector returns a detector feeding c.
func NewDetector(c *Coordinator) *Detector {
	return &Detector{c: c}
}

// SetScrollbar sets the scrollbar track hit region.
func (d *Detector) SetScrollbar(r Rect) {
	d.scrollbar = r
}

// Last returns the most recent intent produced.
func (d *Detector) Last() Intent {
	return d.lastIntent
}

// OnWheel handles a wheel event. A negative delta scrolls up.
func (d *Detector) OnWheel(delta float64, now time.Time) Intent {
	if delta < 0 {
		return d.scrolledUp(now)
	}
	return NoIntent
}

// OnKey handles a navigation key press.
func (d *Detector) OnKey(k Key, now time.Time) Intent {
	switch k {
	case KeyUp, KeyPageUp, KeyHome:
		return d.scrolledUp(now)
	}
	return NoIntent
}

// OnPointerDown handles a pointer press; presses on the scrollbar track
// count as scrolling up.
func (d *Detector) OnPointerDown(x, y float64, now time.Time) Intent {
	if d.scrollbar.Contains(x, y) {
		return d.scrolledUp(now)
	}
	return NoIntent
}

// OnScroll is called after the viewport offset changed. It produces
// ReachedBottom when a detached user is back within the bottom threshold.
func (d *Detector) OnScroll(now time.Time) Intent {
	if !d.sawUp {
		return NoIntent
	}
	dist, ok := d.c.DistanceFromBottom()
	if !ok || dist >= d.c.tuning.BottomThreshold {
		return NoIntent
	}
	if !d.c.MarkStuckToBottom(now) {
		return NoIntent
	}
	d.sawUp = false
	d.lastIntent = ReachedBottom
	return ReachedBottom
}

// Reset forgets a prior scroll-up, e.g. after an explicit jump to bottom.
func (d *Detector) Reset() {
	d.sawUp = false
	d.lastIntent = NoIntent
}

func (d *Detector) scrolledUp(now time.Time) Intent {
	d.c.MarkUserScroll(now)
	d.sawUp = true
	d.lastIntent = ScrolledUp
	return ScrolledUp
}
