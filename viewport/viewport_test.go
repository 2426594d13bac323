package viewport

import (
	"math"
	"testing"
)

func TestIntersectionRatio(t *testing.T) {
	view := Rect{X: 0, Y: 0, W: 100, H: 100}

	if got := IntersectionRatio(Rect{X: 10, Y: 10, W: 20, H: 20}, view); got != 1 {
		t.Errorf("fully inside: expected 1, got %v", got)
	}
	if got := IntersectionRatio(Rect{X: 90, Y: 0, W: 20, H: 100}, view); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("half inside: expected 0.5, got %v", got)
	}
	if got := IntersectionRatio(Rect{X: 200, Y: 0, W: 20, H: 20}, view); got != 0 {
		t.Errorf("outside: expected 0, got %v", got)
	}
	if got := IntersectionRatio(Rect{}, view); got != 0 {
		t.Errorf("empty target: expected 0, got %v", got)
	}
}

func TestTrackerEmitsTransitionsOnly(t *testing.T) {
	tr := NewTracker(0.1, 0)
	tr.Track("a", Rect{X: 0, Y: 0, W: 100, H: 100})
	tr.Track("b", Rect{X: 0, Y: 500, W: 100, H: 100})

	view := Rect{X: 0, Y: 0, W: 200, H: 200}
	changes := tr.Update(view)
	if len(changes) != 1 || changes[0] != (Change{ID: "a", Visible: true}) {
		t.Fatalf("unexpected first changes: %v", changes)
	}
	if again := tr.Update(view); len(again) != 0 {
		t.Errorf("no transition expected on a repeat update, got %v", again)
	}

	changes = tr.Update(Rect{X: 0, Y: 450, W: 200, H: 200})
	if len(changes) != 2 {
		t.Fatalf("expected two transitions, got %v", changes)
	}
	if changes[0] != (Change{ID: "a", Visible: false}) || changes[1] != (Change{ID: "b", Visible: true}) {
		t.Errorf("unexpected order or values: %v", changes)
	}
}

func TestTrackerThreshold(t *testing.T) {
	tr := NewTracker(0.1, 0)
	tr.Track("a", Rect{X: 0, Y: 0, W: 100, H: 100})

	// 5% in view: below threshold.
	if changes := tr.Update(Rect{X: 95, Y: 0, W: 100, H: 100}); len(changes) != 0 {
		t.Errorf("expected no change at 5%%, got %v", changes)
	}
	// 20% in view.
	if changes := tr.Update(Rect{X: 80, Y: 0, W: 100, H: 100}); len(changes) != 1 {
		t.Errorf("expected a change at 20%%, got %v", changes)
	}
}

func TestTrackerMarginPreRolls(t *testing.T) {
	tr := NewTracker(0.1, 50)
	// Region starts 20px below the bottom edge of the view.
	tr.Track("a", Rect{X: 0, Y: 220, W: 100, H: 100})
	changes := tr.Update(Rect{X: 0, Y: 0, W: 100, H: 200})
	if len(changes) != 1 || !changes[0].Visible {
		t.Fatalf("margin should pre-roll the region into view, got %v", changes)
	}
	if !tr.Visible("a") {
		t.Error("Visible should reflect the last update")
	}
}

func TestTrackerUntrack(t *testing.T) {
	tr := NewTracker(0, -1)
	if tr.Threshold != DefaultThreshold || tr.Margin != DefaultMargin {
		t.Fatalf("expected defaults, got %v / %v", tr.Threshold, tr.Margin)
	}
	tr.Track("a", Rect{X: 0, Y: 0, W: 10, H: 10})
	tr.Untrack("a")
	tr.Untrack("a")
	if changes := tr.Update(Rect{X: 0, Y: 0, W: 100, H: 100}); len(changes) != 0 {
		t.Errorf("untracked region must not report, got %v", changes)
	}
}
