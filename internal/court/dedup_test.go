package court

import (
	"testing"
	"time"
)

func testSlots(ids ...string) []Slot {
	slots := make([]Slot, len(ids))
	for i, id := range ids {
		slots[i] = Slot{ID: id}
	}
	return slots
}

func TestFilterNewIdempotence(t *testing.T) {
	d := NewDedup()
	slots := testSlots("a", "b", "c")

	first := d.FilterNew(slots)
	if len(first) != 3 {
		t.Fatalf("expected 3 new slots on first call, got %d", len(first))
	}

	second := d.FilterNew(slots)
	if len(second) != 0 {
		t.Errorf("expected 0 new slots on second call, got %d", len(second))
	}
}

func TestFilterNewCollapsesDuplicateIDs(t *testing.T) {
	d := NewDedup()

	fresh := d.FilterNew(testSlots("a", "a", "b"))
	if len(fresh) != 2 {
		t.Fatalf("expected duplicate IDs to collapse, got %d slots", len(fresh))
	}
	if fresh[0].ID != "a" || fresh[1].ID != "b" {
		t.Errorf("unexpected surviving IDs: %v", fresh)
	}
}

func TestFilterNewPreservesOrder(t *testing.T) {
	d := NewDedup()
	d.FilterNew(testSlots("b"))

	fresh := d.FilterNew(testSlots("c", "a", "b", "d"))

	want := []string{"c", "a", "d"}
	if len(fresh) != len(want) {
		t.Fatalf("expected %d slots, got %d", len(want), len(fresh))
	}
	for i, id := range want {
		if fresh[i].ID != id {
			t.Errorf("position %d: expected %q, got %q", i, id, fresh[i].ID)
		}
	}
}

func TestFilterNewDailyReset(t *testing.T) {
	d := NewDedup()

	day := time.Date(2025, time.June, 7, 14, 0, 0, 0, time.Local)
	d.now = func() time.Time { return day }

	if got := len(d.FilterNew(testSlots("x"))); got != 1 {
		t.Fatalf("expected slot to be new on day one, got %d", got)
	}
	if got := len(d.FilterNew(testSlots("x"))); got != 0 {
		t.Fatalf("expected slot to be suppressed within the day, got %d", got)
	}

	// First scan after local midnight clears the seen set.
	d.now = func() time.Time { return day.AddDate(0, 0, 1) }

	if got := len(d.FilterNew(testSlots("x"))); got != 1 {
		t.Errorf("expected slot to be new again on day two, got %d", got)
	}
	if d.Size() != 1 {
		t.Errorf("expected seen set to hold 1 ID after reset, got %d", d.Size())
	}
}
