package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/five82/trawl/internal/ingest"
	"github.com/five82/trawl/internal/record"
	"github.com/five82/trawl/internal/state"
)

func TestCalculateBackoff(t *testing.T) {
	baseInterval := 2 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 2 * time.Second},
		{"negative failures", -1, 2 * time.Second},
		{"one failure", 1, 4 * time.Second},
		{"two failures", 2, 8 * time.Second},
		{"three failures", 3, 16 * time.Second},
		{"four failures capped", 4, 30 * time.Second}, // Would be 32s, capped to 30s
		{"many failures capped", 10, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, baseInterval)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, baseInterval, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff_MaxCap(t *testing.T) {
	// Verify that backoff never exceeds maxBackoff regardless of input
	baseInterval := 2 * time.Second
	for failures := 0; failures <= 100; failures++ {
		got := calculateBackoff(failures, baseInterval)
		if got > maxBackoff {
			t.Errorf("calculateBackoff(%d, %v) = %v, exceeds maxBackoff %v", failures, baseInterval, got, maxBackoff)
		}
	}
}

type scriptedFetcher struct {
	mu      sync.Mutex
	queries []ingest.LogQuery
	steps   []func() (ingest.LogBatch, error)
}

func (f *scriptedFetcher) FetchLogs(_ context.Context, q ingest.LogQuery) (ingest.LogBatch, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := len(f.queries)
	f.queries = append(f.queries, q)
	if i >= len(f.steps) {
		return ingest.LogBatch{}, nil
	}
	return f.steps[i]()
}

func TestPoller_AdvancesCursorAndRecoversFromErrors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := &state.Store{}
	var failuresAfterError int
	fetcher := &scriptedFetcher{steps: []func() (ingest.LogBatch, error){
		func() (ingest.LogBatch, error) {
			return ingest.LogBatch{
				Events: []ingest.LogEvent{
					{Sequence: 1, Level: "info", Message: "one"},
					{Sequence: 2, Level: "error", Message: "two"},
				},
				Next: 2,
			}, nil
		},
		func() (ingest.LogBatch, error) {
			return ingest.LogBatch{}, errors.New("connection refused")
		},
		func() (ingest.LogBatch, error) {
			failuresAfterError = store.Snapshot().ConsecutiveFailures
			return ingest.LogBatch{Events: []ingest.LogEvent{{Sequence: 3, Message: "three"}}, Next: 3}, nil
		},
		func() (ingest.LogBatch, error) {
			cancel()
			return ingest.LogBatch{}, nil
		},
	}}

	ring := record.NewRing(100)
	p := &Poller{Fetcher: fetcher, Interval: time.Millisecond, Backfill: 50}
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx, ring, store) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not stop after cancel")
	}

	if ring.Len() != 3 {
		t.Fatalf("ring.Len() = %d, want 3", ring.Len())
	}
	q := fetcher.queries
	if len(q) != 4 {
		t.Fatalf("queries = %d, want 4", len(q))
	}
	if !q[0].Tail || q[0].Limit != 50 || q[0].Since != 0 {
		t.Fatalf("first query = %+v, want tail backfill of 50", q[0])
	}
	if q[1].Tail || q[1].Since != 2 {
		t.Fatalf("second query = %+v, want since=2", q[1])
	}
	if q[2].Since != 2 {
		t.Fatalf("query after error = %+v, want cursor kept at 2", q[2])
	}
	if q[3].Since != 3 {
		t.Fatalf("last query = %+v, want since=3", q[3])
	}
	if failuresAfterError != 1 {
		t.Fatalf("ConsecutiveFailures after error = %d, want 1", failuresAfterError)
	}

	snap := store.Snapshot()
	if snap.Received != 3 || snap.Cursor != 3 || snap.ConsecutiveFailures != 0 {
		t.Fatalf("snapshot = %+v, want received 3 cursor 3 healthy", snap)
	}
}
