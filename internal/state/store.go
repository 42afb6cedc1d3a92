package state

import (
	"fmt"
	"sync"
	"time"
)

// Snapshot represents the ingestion health visible to the UI.
type Snapshot struct {
	Source              string
	Received            uint64
	Cursor              uint64
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive failed reads or polls
}

// IsOffline returns true when the source has failed repeatedly.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// SetSource records the name of the active source.
func (s *Store) SetSource(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Source = name
}

// Update records the outcome of a read. When err is non-nil the counters are
// kept but the error is recorded for visibility. A non-zero cursor replaces
// the stored one.
func (s *Store) Update(received int, cursor uint64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.LastUpdated = time.Now()
	if received > 0 {
		s.snapshot.Received += uint64(received)
	}
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}
	if cursor > 0 {
		s.snapshot.Cursor = cursor
	}
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}
