// Package ui provides the terminal user interface for trawl.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. Model is a value type; the engine state
// it drives lives behind pointers (viewer.Controller, the timestamp cache
// and the activation box) so every copy of the model shares it.
//
// # Event Flow
//
// Input reaches the controller synchronously from Update: wheel, keys and
// pointer events call viewer.Controller methods directly, which record any
// scroll-up intent before the viewport moves. Everything time driven
// arrives as tea.Tick messages:
//
//   - syncMsg (50ms): pull new records from the ring and refresh source health
//   - rateMsg (250ms): resample the ingestion rate
//   - frameMsg: one smooth catch-up frame, tagged with the generation it was
//     scheduled under; stale generations stop on their own
//   - autoScrollMsg: one drag auto-scroll step while the pointer is parked
//     in an edge zone
//
// # Layout
//
//   - Column header (1 line)
//   - Table body with a one-cell scrollbar on the right
//   - Optional detail pane for the activated record
//   - Status bar: follow state, counts, rate, source health, notices
//   - Command bar: key hints and the current theme
//
// Help and the filter editor are full-screen overlays. While one is open
// the table viewport is unmounted, so a catch-up requested meanwhile is
// parked and resumes when the overlay closes.
//
// # Persistence
//
// Theme, wrap mode, column visibility and filters are written back to the
// view profile whenever they change. Selection is never saved.
package ui
