// Package selection implements rectangular multi-range cell selection.
//
// Ranges are stored with the corner they were anchored at and the corner
// that moves, and read back normalized. Queries (IsSelected, BorderFlags)
// walk the handful of ranges directly, so they are cheap enough to run for
// every visible cell on every frame.
package selection
