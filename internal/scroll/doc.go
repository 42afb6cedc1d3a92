// Package scroll keeps a log viewport glued to its newest record without
// fighting the user.
//
// Coordinator is the follow state machine (following or detached, with a
// catch-up in flight or not). Detector classifies raw wheel, key, pointer and
// scroll events into the two intents the coordinator cares about and calls
// it synchronously from the input handler. Frames for smooth catch-up are
// driven by the caller: every scheduling call returns a generation, and
// Tick ignores generations that have been superseded.
package scroll
