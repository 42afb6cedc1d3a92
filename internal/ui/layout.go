package ui

import "time"

// Screen rows outside the table body: column header, status bar and
// command bar.
const (
	headerRows = 1
	footerRows = 2
)

// Timing constants.
const (
	// syncInterval is how often new records are pulled from the ring.
	syncInterval = 50 * time.Millisecond

	// rateInterval is how often the ingestion rate is resampled.
	rateInterval = 250 * time.Millisecond

	// autoScrollInterval paces drag auto-scroll steps.
	autoScrollInterval = 40 * time.Millisecond

	// noticeDuration is how long status notices stay visible.
	noticeDuration = 3 * time.Second

	// defaultFrameInterval paces smooth catch-up frames.
	defaultFrameInterval = 16 * time.Millisecond
)

// Sizes.
const (
	// wheelLines is how far one wheel notch scrolls.
	wheelLines = 3

	// detailMinHeight is the smallest detail pane, borders included.
	detailMinHeight = 6

	// timeCacheSize bounds the formatted timestamp cache.
	timeCacheSize = 2048
)

const timeLayout = "2006-01-02 15:04:05.000"
