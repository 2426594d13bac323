package surface

import (
	"fmt"
	"math/rand"
	"testing"
	"time"
)

// fakeClock hands out strictly increasing times unless pinned.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Unix(1700000000, 0)}
}

func (c *fakeClock) Now() time.Time {
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func TestAdmitEvictsLeastRecentlyVisible(t *testing.T) {
	clock := newFakeClock()
	var evicted []string
	m := NewManager(2, WithClock(clock.Now), WithEvictHook(func(id string) {
		evicted = append(evicted, id)
	}))

	if !m.Admit("A") {
		t.Fatal("expected A to be admitted")
	}
	clock.Advance(time.Second)
	if !m.Admit("B") {
		t.Fatal("expected B to be admitted")
	}
	clock.Advance(time.Second)

	if !m.Admit("C") {
		t.Fatal("expected C to be admitted by evicting A")
	}
	if m.Holds("A") {
		t.Error("A should have been evicted")
	}
	if !m.Holds("B") || !m.Holds("C") {
		t.Errorf("expected table {B,C}, got %v", m.IDs())
	}
	if len(evicted) != 1 || evicted[0] != "A" {
		t.Errorf("expected evict hook for A, got %v", evicted)
	}
}

func TestMarkVisibleProtectsFromEviction(t *testing.T) {
	clock := newFakeClock()
	m := NewManager(2, WithClock(clock.Now))

	m.Admit("A")
	clock.Advance(time.Second)
	m.Admit("B")
	clock.Advance(time.Second)
	m.MarkVisible("A")
	clock.Advance(time.Second)

	m.Admit("C")
	if !m.Holds("A") {
		t.Error("A was marked visible last and should survive")
	}
	if m.Holds("B") {
		t.Error("B should have been evicted")
	}
}

func TestAdmitIsIdempotent(t *testing.T) {
	m := NewManager(2)
	m.Admit("A")
	if !m.Admit("A") {
		t.Fatal("second Admit should return true")
	}
	if m.Len() != 1 {
		t.Errorf("expected 1 instance, got %d", m.Len())
	}
	if !m.Holds("A") {
		t.Error("A should still hold its slot")
	}
}

func TestReleaseTwiceIsNoop(t *testing.T) {
	m := NewManager(2)
	m.Admit("A")
	m.Admit("B")
	m.Release("A")
	m.Release("A")
	if m.Len() != 1 {
		t.Errorf("expected 1 instance, got %d", m.Len())
	}
	if !m.Holds("B") {
		t.Error("B should be untouched")
	}
}

func TestCanAdmitIsPure(t *testing.T) {
	m := NewManager(1)
	if !m.CanAdmit("A") {
		t.Fatal("empty table should have room")
	}
	if m.Len() != 0 {
		t.Fatal("CanAdmit must not admit")
	}
	m.Admit("A")
	if !m.CanAdmit("A") {
		t.Error("holder should always be admissible")
	}
	if m.CanAdmit("B") {
		t.Error("full table should refuse a newcomer")
	}
}

func TestMarkVisibleWithoutSlotIsIgnored(t *testing.T) {
	m := NewManager(2)
	m.MarkVisible("ghost")
	if m.Holds("ghost") || m.Len() != 0 {
		t.Error("MarkVisible must not create a slot")
	}
}

func TestZeroCeilingDeniesAdmission(t *testing.T) {
	m := NewManager(0)
	if m.CanAdmit("A") {
		t.Error("zero ceiling should not have room")
	}
	if m.Admit("A") {
		t.Error("zero ceiling admission should fail")
	}
	if m.Len() != 0 {
		t.Errorf("expected empty table, got %d", m.Len())
	}
}

func TestTieBreakPrefersEarliestAdmitted(t *testing.T) {
	clock := newFakeClock()
	m := NewManager(3, WithClock(clock.Now))
	m.Admit("A")
	m.Admit("B")
	m.Admit("C")

	m.Admit("D")
	if m.Holds("A") {
		t.Error("with equal timestamps the earliest admitted instance goes first")
	}
	m.Admit("E")
	if m.Holds("B") {
		t.Error("B should be next in line")
	}
}

func TestCeilingHoldsUnderRandomOperations(t *testing.T) {
	clock := newFakeClock()
	const max = 4
	m := NewManager(max, WithClock(clock.Now))
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 2000; i++ {
		id := fmt.Sprintf("card-%d", rng.Intn(12))
		switch rng.Intn(4) {
		case 0, 1:
			m.Admit(id)
		case 2:
			m.Release(id)
		case 3:
			m.MarkVisible(id)
		}
		clock.Advance(time.Duration(rng.Intn(3)) * time.Millisecond)
		if m.Len() > max {
			t.Fatalf("step %d: %d instances exceed ceiling %d", i, m.Len(), max)
		}
		if len(m.IDs()) != m.Len() {
			t.Fatalf("step %d: order and table disagree: %v vs %d", i, m.IDs(), m.Len())
		}
	}
}

func TestEvictHookMayReenterManager(t *testing.T) {
	var m *Manager
	m = NewManager(1, WithEvictHook(func(id string) {
		// Hosts release on eviction; this must not deadlock.
		m.Release(id)
	}))
	m.Admit("A")
	if !m.Admit("B") {
		t.Fatal("expected B to be admitted")
	}
	if !m.Holds("B") || m.Len() != 1 {
		t.Errorf("expected table {B}, got %v", m.IDs())
	}
}
