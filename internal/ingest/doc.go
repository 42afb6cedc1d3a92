// Package ingest feeds log records into a record.Ring.
//
// # Sources
//
// Every input implements Source and runs in its own goroutine, touching only
// the mutex-guarded ring (Sink) and the health store (Health):
//
//   - Reader: newline separated records from any io.Reader, usually stdin
//   - File: a file read once, optionally only its last N lines, optionally
//     followed afterwards with github.com/nxadm/tail (rotation aware)
//   - Demo: synthetic records at a fixed rate, with a separator row at each
//     simulated session change
//
// The remote log API is read through Client, which app.StartPoller drives
// with cursor based polling and exponential backoff.
//
// # Line Format
//
// Parse accepts JSON objects and logfmt style key=value text:
//
//	{"ts":"2024-05-01T10:00:00Z","level":"error","app":"api","msg":"boom"}
//	ts=2024-05-01T10:00:00Z level=warn app=api msg="disk almost full"
//
// Field names are matched with record.ParseField, so aliases such as
// message, hostname or timestamp work. Levels are upper-cased and folded
// (WARNING becomes WARN). A "payload" value is kept as base64; "detail" and
// "data" values are encoded. Lines with no key=value pair become the title
// of a record; a line made only of dashes or equals signs becomes a
// separator.
//
// Parsing never fails. Undecodable payloads surface later as
// record.PayloadPlaceholder.
package ingest
