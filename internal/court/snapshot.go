package court

import (
	"sync"
	"time"
)

// Snapshot is the most recent full (pre-dedup) fetch result.
type Snapshot struct {
	AvailableTimes []Slot    `json:"availableTimes"`
	Timestamp      time.Time `json:"timestamp"`
	Size           int       `json:"size"`
}

// SnapshotStore holds the latest fetch result for read-only inspection by
// the HTTP layer. It lives for the life of the process.
type SnapshotStore struct {
	mu    sync.RWMutex
	slots []Slot
	ts    time.Time
}

// NewSnapshotStore creates an empty store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

// Update replaces the stored result with the given fetch and timestamp.
func (s *SnapshotStore) Update(slots []Slot, ts time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots = slots
	s.ts = ts
}

// Latest returns the stored result as-is, uncached.
func (s *SnapshotStore) Latest() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	slots := make([]Slot, len(s.slots))
	copy(slots, s.slots)

	return Snapshot{
		AvailableTimes: slots,
		Timestamp:      s.ts,
		Size:           len(slots),
	}
}
