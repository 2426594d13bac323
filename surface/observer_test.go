package surface

import (
	"testing"
	"time"
)

type mountCounter struct {
	mounts, unmounts int
}

func (c *mountCounter) handlers() Handlers {
	return Handlers{
		OnMount:   func() { c.mounts++ },
		OnUnmount: func() { c.unmounts++ },
	}
}

func TestObserverMountsWhenVisible(t *testing.T) {
	m := NewManager(2)
	var c mountCounter
	o := NewObserver("A", m, c.handlers())

	o.SetVisible(true)
	if o.State() != Mounted {
		t.Fatalf("expected mounted, got %s", o.State())
	}
	if c.mounts != 1 {
		t.Errorf("expected 1 mount, got %d", c.mounts)
	}
	if !m.Holds("A") {
		t.Error("manager should hold A")
	}

	o.SetVisible(false)
	if o.State() != Unmounted {
		t.Fatalf("expected unmounted, got %s", o.State())
	}
	if c.unmounts != 1 {
		t.Errorf("expected 1 unmount, got %d", c.unmounts)
	}
	if m.Holds("A") {
		t.Error("slot should be released when scrolled away")
	}
}

func TestObserverDeniedWhenFull(t *testing.T) {
	m := NewManager(1)
	a := NewObserver("A", m, Handlers{})
	a.SetVisible(true)

	var c mountCounter
	b := NewObserver("B", m, c.handlers())
	b.SetVisible(true)
	if b.State() != Denied {
		t.Fatalf("expected denied, got %s", b.State())
	}
	if c.mounts != 0 {
		t.Error("denied observer must not mount")
	}
	if !m.Holds("A") {
		t.Error("scrolling B into view must not evict A")
	}
}

func TestObserverManualLoadEvicts(t *testing.T) {
	clock := newFakeClock()
	m := NewManager(1, WithClock(clock.Now))
	var ca, cb mountCounter
	a := NewObserver("A", m, ca.handlers())
	b := NewObserver("B", m, cb.handlers())

	a.SetVisible(true)
	clock.Advance(time.Second)
	b.SetVisible(true)
	if b.State() != Denied {
		t.Fatalf("expected B denied, got %s", b.State())
	}

	if !b.RequestLoad() {
		t.Fatal("manual load should succeed")
	}
	if b.State() != Mounted || cb.mounts != 1 {
		t.Fatalf("expected B mounted once, got %s / %d", b.State(), cb.mounts)
	}

	a.Refresh()
	if a.State() != Denied {
		t.Errorf("evicted but visible A should fall back to the placeholder, got %s", a.State())
	}
	if ca.unmounts != 1 {
		t.Errorf("expected A to unmount once, got %d", ca.unmounts)
	}
}

func TestObserverManualLoadStaysDeniedWithZeroCeiling(t *testing.T) {
	m := NewManager(0)
	o := NewObserver("A", m, Handlers{})
	o.SetVisible(true)
	if o.RequestLoad() {
		t.Fatal("manual load cannot succeed with a zero ceiling")
	}
	if o.State() != Denied {
		t.Errorf("expected denied, got %s", o.State())
	}
}

func TestObserverRefreshKeepsRecency(t *testing.T) {
	clock := newFakeClock()
	m := NewManager(2, WithClock(clock.Now))
	o := NewObserver("A", m, Handlers{})
	o.SetVisible(true)
	before, _ := m.Instance("A")

	clock.Advance(5 * time.Second)
	o.Refresh()
	after, _ := m.Instance("A")
	if !after.LastVisible.After(before.LastVisible) {
		t.Errorf("expected recency refresh, got %v then %v", before.LastVisible, after.LastVisible)
	}
}

func TestObserverDeniedRetriesWhenRoomOpens(t *testing.T) {
	m := NewManager(1)
	a := NewObserver("A", m, Handlers{})
	b := NewObserver("B", m, Handlers{})
	a.SetVisible(true)
	b.SetVisible(true)
	if b.State() != Denied {
		t.Fatalf("expected denied, got %s", b.State())
	}

	a.SetVisible(false)
	b.Refresh()
	if b.State() != Mounted {
		t.Errorf("expected B to mount once A left, got %s", b.State())
	}
}

func TestObserverDeniedGoesUnmountedWhenHidden(t *testing.T) {
	m := NewManager(0)
	o := NewObserver("A", m, Handlers{})
	o.SetVisible(true)
	o.SetVisible(false)
	if o.State() != Unmounted {
		t.Errorf("expected unmounted, got %s", o.State())
	}
}

func TestObserverCloseIsIdempotent(t *testing.T) {
	m := NewManager(2)
	var c mountCounter
	o := NewObserver("A", m, c.handlers())
	o.SetVisible(true)

	o.Close()
	o.Close()
	if m.Holds("A") {
		t.Error("close must release the slot")
	}
	if c.unmounts != 1 {
		t.Errorf("expected a single unmount, got %d", c.unmounts)
	}
	if o.State() != Unmounted {
		t.Errorf("expected unmounted, got %s", o.State())
	}
}

func TestStateString(t *testing.T) {
	if Denied.String() != "denied" || AwaitingAdmission.String() != "awaiting-admission" {
		t.Errorf("unexpected names: %s %s", Denied, AwaitingAdmission)
	}
}
