// Package viewer composes the log table engines.
//
// A Controller owns the filtered view of a record.Ring, the column set and
// the viewport. Sync pulls new records incrementally (only records after the
// last seen id are filtered), drops evicted ones and shifts the selection to
// match, then reports the new count and tail id to the scroll coordinator.
//
// Input methods (Wheel, Navigate, PointerDown/Move/Up) are the intent
// channel: they call the scroll detector synchronously before moving the
// viewport. Frames (Tick, AutoScrollStep) are the render channel and only
// act on what the intent channel left behind.
//
// SelectionExport hands the export collaborator exactly the selected records
// and the selected visible columns; OnActivate receives the row a click or
// Enter activated.
package viewer
