package app

import (
	"context"
	"log"
	"time"

	"github.com/five82/trawl/internal/ingest"
)

const (
	defaultPollInterval = 2 * time.Second
	maxBackoff          = 30 * time.Second
	pollBatchLimit      = 500
)

// Poller pulls log batches from a remote log API. The first request asks
// for the newest Backfill events; later requests continue from the cursor
// the server returned. Failed polls back off exponentially.
type Poller struct {
	Fetcher  ingest.LogFetcher
	Interval time.Duration
	Backfill int
	// Query carries server side filters (level, app).
	Query ingest.LogQuery
	Now   func() time.Time
}

// Name implements ingest.Source.
func (p *Poller) Name() string {
	if c, ok := p.Fetcher.(*ingest.Client); ok {
		return c.Endpoint()
	}
	return "http"
}

// Run implements ingest.Source. It polls until ctx is cancelled.
func (p *Poller) Run(ctx context.Context, sink ingest.Sink, health ingest.Health) error {
	interval := p.Interval
	if interval <= 0 {
		interval = defaultPollInterval
	}

	var cursor uint64
	first := true
	failures := 0
	for {
		received, next, err := p.refresh(ctx, sink, cursor, first)
		if ctx.Err() != nil {
			return nil
		}
		health.Update(received, next, err)

		wait := interval
		if err != nil {
			failures++
			wait = calculateBackoff(failures, interval)
			log.Printf("poll: %s: %v (retry in %s)", p.Name(), err, wait)
		} else {
			failures = 0
			cursor = next
			first = false
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}

func (p *Poller) refresh(ctx context.Context, sink ingest.Sink, cursor uint64, first bool) (int, uint64, error) {
	now := p.Now
	if now == nil {
		now = time.Now
	}
	query := p.Query
	query.Since = cursor
	query.Limit = pollBatchLimit
	query.Tail = false
	if first && p.Backfill > 0 {
		query.Tail = true
		query.Limit = p.Backfill
	}

	batch, err := p.Fetcher.FetchLogs(ctx, query)
	if err != nil {
		return 0, cursor, err
	}
	next := batch.Next
	for _, evt := range batch.Events {
		sink.Append(evt.Record(now()))
		next = max(next, evt.Sequence)
	}
	return len(batch.Events), max(next, cursor), nil
}

// calculateBackoff returns the wait after failures consecutive failures:
// the base interval doubled per failure, capped at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	if failures > 16 {
		return maxBackoff
	}
	return min(base<<failures, maxBackoff)
}
