package window

import "time"

// Overscan holds the extra row counts rendered beyond the viewport.
type Overscan struct {
	Base int `toml:"base"`
	Fast int `toml:"fast"`
	Drag int `toml:"drag"`
}

// DefaultOverscan returns the stock tiers.
func DefaultOverscan() Overscan {
	return Overscan{Base: 5, Fast: 20, Drag: 30}
}

const (
	// DefaultRelax is how long the raised tier is kept after the last fast
	// wheel event.
	DefaultRelax = 300 * time.Millisecond
	// burstGap is the largest gap between wheel events that still counts
	// as fast scrolling.
	burstGap = 50 * time.Millisecond
)

// OverscanController picks the overscan tier from recent input.
type OverscanController struct {
	tiers     Overscan
	relax     time.Duration
	lastWheel time.Time
	fastUntil time.Time
	dragging  bool
}

// NewOverscanController returns a controller relaxing after relax (or
// DefaultRelax when non-positive).
func NewOverscanController(tiers Overscan, relax time.Duration) *OverscanController {
	if relax <= 0 {
		relax = DefaultRelax
	}
	return &OverscanController{tiers: tiers, relax: relax}
}

// OnWheel records a wheel event. Events closer together than burstGap, or a
// single event moving more than one page, raise the tier to Fast.
func (c *OverscanController) OnWheel(now time.Time, rowsMoved, pageRows int) {
	fast := !c.lastWheel.IsZero() && now.Sub(c.lastWheel) < burstGap
	if pageRows > 0 && abs(rowsMoved) > pageRows {
		fast = true
	}
	c.lastWheel = now
	if fast {
		c.fastUntil = now.Add(c.relax)
	}
}

// SetDragging switches the Drag tier on or off.
func (c *OverscanController) SetDragging(on bool) {
	c.dragging = on
}

// Current returns the overscan to use at now.
func (c *OverscanController) Current(now time.Time) int {
	switch {
	case c.dragging:
		return c.tiers.Drag
	case now.Before(c.fastUntil):
		return c.tiers.Fast
	default:
		return c.tiers.Base
	}
}

// Raised reports whether a tier above Base is in effect.
func (c *OverscanController) Raised(now time.Time) bool {
	return c.dragging || now.Before(c.fastUntil)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
