package scroll

import "time"

type rateSample struct {
	at time.Time
	n  int
}

// RateEstimator measures arrivals per second over a trailing window.
type RateEstimator struct {
	window  time.Duration
	samples []rateSample
	sum     int
}

// NewRateEstimator returns an estimator over window.
func NewRateEstimator(window time.Duration) *RateEstimator {
	if window <= 0 {
		window = 2 * time.Second
	}
	return &RateEstimator{window: window}
}

// Add records n arrivals at now.
func (r *RateEstimator) Add(now time.Time, n int) {
	if n <= 0 {
		return
	}
	r.samples = append(r.samples, rateSample{at: now, n: n})
	r.sum += n
}

// Rate returns the arrivals per second within the window ending at now.
func (r *RateEstimator) Rate(now time.Time) float64 {
	cutoff := now.Add(-r.window)
	drop := 0
	for drop < len(r.samples) && !r.samples[drop].at.After(cutoff) {
		r.sum -= r.samples[drop].n
		drop++
	}
	if drop > 0 {
		r.samples = append(r.samples[:0], r.samples[drop:]...)
	}
	return float64(r.sum) / r.window.Seconds()
}

// Reset forgets every sample.
func (r *RateEstimator) Reset() {
	r.samples = r.samples[:0]
	r.sum = 0
}
