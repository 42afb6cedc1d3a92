package scroll

import "time"

// Viewport is the scrollable element the coordinator drives.
type Viewport interface {
	ScrollTop() float64
	ScrollHeight() float64
	ClientHeight() float64
	SetScrollTop(top float64)
}

// Mode is the follow state.
type Mode int

const (
	Following Mode = iota
	Detached
)

func (m Mode) String() string {
	if m == Detached {
		return "detached"
	}
	return "following"
}

// State is a read-only snapshot of the coordinator.
type State struct {
	Mode           Mode
	CatchingUp     bool
	Pending        bool
	LastUserScroll time.Time
	Rate           float64
	Generation     uint64
}

// Coordinator decides when and how the viewport follows the newest record.
//
// Following schedules a catch-up on every change of record count or tail
// identity. Slow ingestion catches up smoothly over frames, fast ingestion
// jumps. A scroll-up intent cancels any catch-up and detaches; only a user
// scroll back to the bottom (outside the lock window) or JumpToBottom
// follows again.
//
// Catch-up frames carry a generation number. Cancelling bumps the
// generation, so frames already in flight are dropped when they arrive.
//
// All methods are no-ops on the viewport while unmounted; state changes are
// kept and a pending catch-up resumes on Mount.
type Coordinator struct {
	tuning Tuning
	vp     Viewport
	rate   *RateEstimator

	mode           Mode
	lastUserScroll time.Time
	catchingUp     bool
	pending        bool
	gen            uint64
	sampledRate    float64

	lastCount int
	lastTail  uint64
}

// New returns a following coordinator with no viewport mounted.
func New(t Tuning) *Coordinator {
	t = t.withDefaults()
	return &Coordinator{tuning: t, rate: NewRateEstimator(t.RateWindow)}
}

// Tuning returns the effective constants.
func (c *Coordinator) Tuning() Tuning {
	return c.tuning
}

// Mode returns the follow state.
func (c *Coordinator) Mode() Mode {
	return c.mode
}

// Following reports whether the coordinator tracks the tail.
func (c *Coordinator) Following() bool {
	return c.mode == Following
}

// State returns a snapshot for display and tests.
func (c *Coordinator) State() State {
	return State{
		Mode:           c.mode,
		CatchingUp:     c.catchingUp,
		Pending:        c.pending,
		LastUserScroll: c.lastUserScroll,
		Rate:           c.sampledRate,
		Generation:     c.gen,
	}
}

// Mount attaches vp. A catch-up requested while unmounted is started; the
// returned generation must be passed to Tick when scheduled is true.
func (c *Coordinator) Mount(vp Viewport, now time.Time) (gen uint64, scheduled bool) {
	c.vp = vp
	if vp == nil || !c.pending {
		return c.gen, false
	}
	c.pending = false
	if c.mode != Following {
		return c.gen, false
	}
	return c.schedule(now)
}

// Unmount detaches the viewport. An in-flight catch-up is parked and
// resumes on the next Mount.
func (c *Coordinator) Unmount() {
	c.vp = nil
	if c.catchingUp {
		c.catchingUp = false
		c.pending = true
		c.gen++
	}
}

// Mounted reports whether a viewport is attached.
func (c *Coordinator) Mounted() bool {
	return c.vp != nil
}

// Locked reports whether now falls inside the lock window of the last
// scroll-up intent.
func (c *Coordinator) Locked(now time.Time) bool {
	if c.lastUserScroll.IsZero() {
		return false
	}
	return now.Sub(c.lastUserScroll) < c.tuning.LockWindow
}

// MarkUserScroll records a scroll-up intent at now. It is called straight
// from the input handler so the next frame sees it before acting: any
// catch-up is cancelled and the coordinator detaches.
func (c *Coordinator) MarkUserScroll(now time.Time) {
	c.lastUserScroll = now
	c.cancel()
	c.pending = false
	c.mode = Detached
}

// MarkStuckToBottom resumes following after the user scrolled back to the
// bottom. It is refused inside the lock window.
func (c *Coordinator) MarkStuckToBottom(now time.Time) bool {
	if c.mode == Following {
		return false
	}
	if c.Locked(now) {
		return false
	}
	c.mode = Following
	return true
}

// OnRecords reports the current record count and the id of the newest
// record. Ids are sequential, so their advance also feeds the ingestion
// rate. While following, a change schedules a catch-up; the returned
// generation must be passed to Tick when scheduled is true.
func (c *Coordinator) OnRecords(count int, tail uint64, now time.Time) (gen uint64, scheduled bool) {
	if count == c.lastCount && tail == c.lastTail {
		return c.gen, false
	}
	if tail > c.lastTail {
		c.rate.Add(now, int(tail-c.lastTail))
	}
	c.lastCount, c.lastTail = count, tail

	if c.mode != Following {
		return c.gen, false
	}
	if c.vp == nil {
		c.pending = true
		return c.gen, false
	}
	if c.Locked(now) {
		return c.gen, false
	}
	return c.schedule(now)
}

func (c *Coordinator) schedule(now time.Time) (uint64, bool) {
	if c.rate.Rate(now) >= c.tuning.RateThreshold {
		c.InstantJump()
		return c.gen, false
	}
	if c.catchingUp {
		// The running frame loop re-reads the target every tick.
		return c.gen, false
	}
	if c.remaining() < c.tuning.SnapThreshold {
		c.snap()
		return c.gen, false
	}
	c.catchingUp = true
	c.gen++
	return c.gen, true
}

// Tick advances a smooth catch-up by one frame. It reports whether another
// frame with the same generation should be scheduled. Stale generations
// are ignored.
func (c *Coordinator) Tick(now time.Time, gen uint64) bool {
	if gen != c.gen || !c.catchingUp {
		return false
	}
	if c.vp == nil || c.mode != Following || c.Locked(now) {
		c.cancel()
		return false
	}
	if c.rate.Rate(now) >= c.tuning.RateThreshold {
		c.InstantJump()
		return false
	}
	remaining := c.remaining()
	if remaining < c.tuning.SnapThreshold {
		c.snap()
		c.catchingUp = false
		return false
	}
	c.vp.SetScrollTop(c.vp.ScrollTop() + remaining*c.tuning.LerpFactor)
	return true
}

// InstantJump moves the viewport to the bottom in one step and cancels any
// smooth catch-up.
func (c *Coordinator) InstantJump() {
	c.cancel()
	if c.vp == nil {
		if c.mode == Following {
			c.pending = true
		}
		return
	}
	c.snap()
}

// JumpToBottom is the explicit user action: it clears the lock window,
// follows again and jumps. Calling it twice leaves the state unchanged.
func (c *Coordinator) JumpToBottom() {
	c.lastUserScroll = time.Time{}
	c.mode = Following
	c.InstantJump()
}

// SampleRate refreshes the ingestion rate shown by State.
func (c *Coordinator) SampleRate(now time.Time) float64 {
	c.sampledRate = c.rate.Rate(now)
	return c.sampledRate
}

// DistanceFromBottom returns how far the viewport is from its bottom.
func (c *Coordinator) DistanceFromBottom() (float64, bool) {
	if c.vp == nil {
		return 0, false
	}
	return c.remaining(), true
}

func (c *Coordinator) cancel() {
	if c.catchingUp {
		c.catchingUp = false
		c.gen++
	}
}

func (c *Coordinator) bottom() float64 {
	return max(c.vp.ScrollHeight()-c.vp.ClientHeight(), 0)
}

func (c *Coordinator) remaining() float64 {
	return max(c.bottom()-c.vp.ScrollTop(), 0)
}

func (c *Coordinator) snap() {
	if b := c.bottom(); c.vp.ScrollTop() != b {
		c.vp.SetScrollTop(b)
	}
}
