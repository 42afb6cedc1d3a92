// Package filter evaluates field and expression filters against log records.
//
// A Spec constrains one string value and works in one of two mutually
// exclusive modes:
//
//   - list: the value must be one of Values
//   - pattern: the value is compared against Pattern with contains, equals,
//     starts-with, ends-with or regex, optionally case sensitive
//
// Both modes honour Inverse. A Set combines per-field specs (and an optional
// govaluate expression) with AND semantics.
//
// Evaluation never fails. A regex that does not compile simply matches
// nothing; authoring problems are reported by Validate so the filter editor
// can flag them before they are applied.
//
// When a Set has no active dimension, Evaluator.Apply hands back the input
// slice untouched so an unfiltered view costs nothing per record.
package filter
