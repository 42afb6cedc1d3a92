// Package app is the composition root of trawl.
//
// Run loads the config and view profile, applies command-line overrides,
// builds the ingestion source, and starts it in a background goroutine
// feeding a record.Ring and a state.Store. The TUI then runs on the main
// goroutine and pulls from the ring on its own ticks.
//
// Sources:
//
//   - stdin: newline separated records from standard input
//   - file: the whole file, or its last Backfill lines
//   - follow: the last Backfill lines, then new lines as they are written
//   - http: a remote log API polled by Poller, with exponential backoff
//   - demo: synthetic records
//
// Ingestion errors never stop the UI. They are logged and counted in the
// store, and the status bar shows the source as offline after repeated
// failures.
package app
