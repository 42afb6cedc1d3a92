package ingest

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/five82/trawl/internal/record"
)

// Sink receives parsed records. *record.Ring implements it.
type Sink interface {
	Append(rec record.Record) record.Record
}

// Health receives ingestion outcomes. *state.Store implements it.
type Health interface {
	Update(received int, cursor uint64, err error)
}

// Source produces records until its input ends or ctx is cancelled.
type Source interface {
	Name() string
	Run(ctx context.Context, sink Sink, health Health) error
}

const (
	maxLineSize   = 1024 * 1024
	healthEvery   = 256
	scanBufferLen = 64 * 1024
)

// Reader reads newline separated records from R, typically stdin.
type Reader struct {
	R     io.Reader
	Label string
	Now   func() time.Time
}

// Name implements Source.
func (r *Reader) Name() string {
	if r.Label != "" {
		return r.Label
	}
	return "stdin"
}

// Run implements Source. It returns nil at end of input.
func (r *Reader) Run(ctx context.Context, sink Sink, health Health) error {
	now := r.Now
	if now == nil {
		now = time.Now
	}
	scanner := bufio.NewScanner(r.R)
	scanner.Buffer(make([]byte, 0, scanBufferLen), maxLineSize)
	pending := 0
	for scanner.Scan() {
		if ctx.Err() != nil {
			break
		}
		line := scanner.Text()
		if line == "" {
			continue
		}
		sink.Append(Parse(line, now()))
		pending++
		if pending >= healthEvery {
			health.Update(pending, 0, nil)
			pending = 0
		}
	}
	if err := scanner.Err(); err != nil {
		health.Update(pending, 0, err)
		return fmt.Errorf("read %s: %w", r.Name(), err)
	}
	health.Update(pending, 0, nil)
	return nil
}
