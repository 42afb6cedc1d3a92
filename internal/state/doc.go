// Package state shares ingestion health between the source goroutine and
// the UI.
//
// # Overview
//
// Records themselves travel through record.Ring. This package carries the
// metadata the status bar needs: which source is active, how many records
// it delivered, the remote cursor (for HTTP polling), and the most recent
// error.
//
// # Architecture
//
//	Producer (source):              Consumer (UI):
//	┌──────────────────┐            ┌──────────────────┐
//	│ read / poll      │            │                  │
//	│      ↓           │            │                  │
//	│ store.Update()   │───────────→│ store.Snapshot() │
//	│      ↓           │  (mutex)   │      ↓           │
//	│  repeat...       │            │  render status   │
//	└──────────────────┘            └──────────────────┘
//
// # Update Semantics
//
//	// Success: counters advance, error cleared
//	store.Update(n, cursor, nil)
//
//	// Failure: counters kept, error recorded, failure streak grows
//	store.Update(0, 0, err)
//
// Two or more consecutive failures mark the source offline.
//
// # Concurrency Model
//
// Store uses a sync.RWMutex. Update takes the write lock; Snapshot takes
// the read lock and returns a copy, including a wrapped copy of the error,
// so the UI never shares mutable state with the producer.
//
// The zero Store is ready to use.
package state
