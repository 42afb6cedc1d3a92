// Package record defines the log Record model and the capped Ring buffer
// that ingestion appends to.
//
// # Ring
//
// Ring is an append-only, fixed capacity buffer. Each appended record gets a
// monotonically increasing sequence id which doubles as its stable identity;
// the newest id is exposed through Tail so that consumers can detect new
// arrivals without copying. When the ring is full the oldest record is
// evicted and counted in Stats.
//
//	ring := record.NewRing(50000)
//	ring.Append(record.Record{Level: "INFO", Title: "started"})
//	fresh := ring.Since(lastSeenID)
//
// Records are never modified after they are appended. Readers receive copies.
package record
