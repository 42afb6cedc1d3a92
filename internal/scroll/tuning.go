package scroll

import "time"

// Tuning holds the constants of the follow algorithm. Distances are in
// viewport units (pixels in a browser, lines in a terminal).
type Tuning struct {
	// LerpFactor is the fraction of the remaining distance covered per
	// frame during a smooth catch-up.
	LerpFactor float64
	// RateThreshold is the ingestion rate (records/sec) at or above which
	// catch-up jumps straight to the bottom.
	RateThreshold float64
	// RateWindow is the trailing window the ingestion rate is measured over.
	RateWindow time.Duration
	// LockWindow suppresses catch-up after a scroll-up intent.
	LockWindow time.Duration
	// BottomThreshold is how close to the bottom a detached user has to
	// scroll to resume following.
	BottomThreshold float64
	// SnapThreshold ends a smooth catch-up once the remaining distance is
	// below it.
	SnapThreshold float64
	// EdgeZone is the band at the top and bottom of the viewport that
	// triggers auto-scroll while drag selecting.
	EdgeZone float64
}

// DefaultTuning returns the stock constants, expressed in pixels.
func DefaultTuning() Tuning {
	return Tuning{
		LerpFactor:      0.15,
		RateThreshold:   10,
		RateWindow:      2 * time.Second,
		LockWindow:      150 * time.Millisecond,
		BottomThreshold: 30,
		SnapThreshold:   2,
		EdgeZone:        30,
	}
}

// withDefaults fills zero or out of range fields from DefaultTuning.
func (t Tuning) withDefaults() Tuning {
	d := DefaultTuning()
	if t.LerpFactor <= 0 || t.LerpFactor > 1 {
		t.LerpFactor = d.LerpFactor
	}
	if t.RateThreshold <= 0 {
		t.RateThreshold = d.RateThreshold
	}
	if t.RateWindow <= 0 {
		t.RateWindow = d.RateWindow
	}
	if t.LockWindow < 0 {
		t.LockWindow = d.LockWindow
	}
	if t.BottomThreshold <= 0 {
		t.BottomThreshold = d.BottomThreshold
	}
	if t.SnapThreshold <= 0 {
		t.SnapThreshold = d.SnapThreshold
	}
	if t.EdgeZone < 0 {
		t.EdgeZone = d.EdgeZone
	}
	return t
}
