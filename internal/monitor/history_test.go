package monitor

import "testing"

func TestRingPush(t *testing.T) {
	r := newRing[int](5)
	for i := 0; i < 3; i++ {
		r.push(i)
	}
	if r.len() != 3 {
		t.Errorf("expected len 3, got %d", r.len())
	}
}

func TestRingEvictsOldest(t *testing.T) {
	r := newRing[int](3)
	for i := 0; i < 4; i++ {
		r.push(i)
	}
	if r.len() != 3 {
		t.Errorf("expected len 3 after overflow, got %d", r.len())
	}
	values := r.values()
	if values[0] != 1 {
		t.Errorf("oldest value = %d, want 1 (FIFO eviction)", values[0])
	}
	if values[2] != 3 {
		t.Errorf("newest value = %d, want 3", values[2])
	}
}

func TestRingNeverExceedsCapacity(t *testing.T) {
	r := newRing[int](7)
	for i := 0; i < 100; i++ {
		r.push(i)
		if r.len() > 7 {
			t.Fatalf("len %d exceeds capacity after %d pushes", r.len(), i+1)
		}
	}
}

func TestRingClear(t *testing.T) {
	r := newRing[int](3)
	r.push(1)
	r.push(2)
	r.clear()
	if r.len() != 0 {
		t.Errorf("expected empty ring after clear, got len %d", r.len())
	}
	r.push(9)
	values := r.values()
	if len(values) != 1 || values[0] != 9 {
		t.Errorf("unexpected contents after clear+push: %v", values)
	}
}
