package record

import "sync"

// Ring is a capped, append-only record buffer. When full, appending evicts
// the oldest record. It is safe for one writer and many readers.
type Ring struct {
	mu      sync.RWMutex
	buf     []Record
	start   int
	size    int
	nextID  uint64
	dropped uint64
}

// DefaultCapacity is used when NewRing is given a non-positive capacity.
const DefaultCapacity = 100000

// NewRing allocates a ring holding at most capacity records.
func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Ring{buf: make([]Record, capacity), nextID: 1}
}

// Capacity returns the maximum number of retained records.
func (r *Ring) Capacity() int {
	return len(r.buf)
}

// Append stores rec, assigning it the next sequence id, and returns the
// stored copy.
func (r *Ring) Append(rec Record) Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.appendLocked(rec)
}

// AppendBatch stores all records under a single lock.
func (r *Ring) AppendBatch(recs []Record) {
	if len(recs) == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range recs {
		r.appendLocked(rec)
	}
}

func (r *Ring) appendLocked(rec Record) Record {
	rec.ID = r.nextID
	r.nextID++
	capacity := len(r.buf)
	if r.size < capacity {
		r.buf[(r.start+r.size)%capacity] = rec
		r.size++
		return rec
	}
	r.buf[r.start] = rec
	r.start = (r.start + 1) % capacity
	r.dropped++
	return rec
}

// Len returns the number of retained records.
func (r *Ring) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.size
}

// Tail returns the id of the newest record. ok is false when empty.
func (r *Ring) Tail() (id uint64, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.size == 0 {
		return 0, false
	}
	return r.nextID - 1, true
}

// Oldest returns the id of the oldest retained record, or 0 when empty.
func (r *Ring) Oldest() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.size == 0 {
		return 0
	}
	return r.buf[r.start].ID
}

// Snapshot copies the retained records, oldest first.
func (r *Ring) Snapshot() []Record {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.copyFrom(0)
}

// Since copies the retained records with an id greater than after.
func (r *Ring) Since(after uint64) []Record {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.size == 0 || after >= r.nextID-1 {
		return nil
	}
	oldest := r.buf[r.start].ID
	skip := 0
	if after >= oldest {
		skip = int(after - oldest + 1)
	}
	return r.copyFrom(skip)
}

func (r *Ring) copyFrom(skip int) []Record {
	if skip >= r.size {
		return nil
	}
	capacity := len(r.buf)
	out := make([]Record, r.size-skip)
	for i := range out {
		out[i] = r.buf[(r.start+skip+i)%capacity]
	}
	return out
}

// Stats returns the total number of appended and evicted records.
func (r *Ring) Stats() (total, dropped uint64) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.nextID - 1, r.dropped
}

// Clear drops all retained records. Sequence ids and counters keep counting.
func (r *Ring) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.buf {
		r.buf[i] = Record{}
	}
	r.start = 0
	r.size = 0
}
