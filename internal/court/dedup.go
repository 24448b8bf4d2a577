package court

import (
	"sync"
	"time"
)

// Dedup suppresses slots that were already reported earlier the same
// calendar day. The seen set grows monotonically within a day and is cleared
// by the first call that observes a new local date.
type Dedup struct {
	mu        sync.Mutex
	seen      map[string]struct{}
	lastReset time.Time
	now       func() time.Time
}

// NewDedup creates an empty deduplication filter.
func NewDedup() *Dedup {
	return &Dedup{
		seen: make(map[string]struct{}),
		now:  time.Now,
	}
}

// FilterNew returns the previously-unseen subsequence of slots, preserving
// input order, and records their IDs as seen. Duplicate IDs within one call
// collapse to the first occurrence.
func (d *Dedup) FilterNew(slots []Slot) []Slot {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	if !sameDate(d.lastReset, now) {
		d.seen = make(map[string]struct{})
		d.lastReset = now
	}

	fresh := make([]Slot, 0, len(slots))
	for _, s := range slots {
		if _, ok := d.seen[s.ID]; ok {
			continue
		}
		d.seen[s.ID] = struct{}{}
		fresh = append(fresh, s)
	}
	return fresh
}

// Size returns the number of slot IDs seen since the last daily reset.
func (d *Dedup) Size() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
