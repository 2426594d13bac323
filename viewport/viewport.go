// Package viewport computes which regions of a scrolling surface are in view
// and reports visibility transitions, the way an intersection observer would.
package viewport

import "math"

const (
	// DefaultThreshold is the visible fraction at which a region counts as in view.
	DefaultThreshold = 0.10
	// DefaultMargin pre-rolls the view so mounting starts just before a
	// region scrolls in.
	DefaultMargin = 50.0
)

// Rect is an axis-aligned rectangle in screen pixels.
type Rect struct {
	X, Y, W, H float64
}

func (r Rect) Area() float64 {
	if r.W <= 0 || r.H <= 0 {
		return 0
	}
	return r.W * r.H
}

// Expand grows r by m on every side.
func (r Rect) Expand(m float64) Rect {
	return Rect{X: r.X - m, Y: r.Y - m, W: r.W + 2*m, H: r.H + 2*m}
}

// Intersect returns the overlap of r and o (zero-sized when disjoint).
func (r Rect) Intersect(o Rect) Rect {
	x0 := math.Max(r.X, o.X)
	y0 := math.Max(r.Y, o.Y)
	x1 := math.Min(r.X+r.W, o.X+o.W)
	y1 := math.Min(r.Y+r.H, o.Y+o.H)
	if x1 <= x0 || y1 <= y0 {
		return Rect{X: x0, Y: y0}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// IntersectionRatio is the fraction of target covered by view.
func IntersectionRatio(target, view Rect) float64 {
	area := target.Area()
	if area == 0 {
		return 0
	}
	return target.Intersect(view).Area() / area
}

// Change is one visibility transition.
type Change struct {
	ID      string
	Visible bool
}

type tracked struct {
	id      string
	bounds  Rect
	visible bool
}

// Tracker remembers regions and emits a Change whenever one crosses the
// threshold.
type Tracker struct {
	Threshold float64
	Margin    float64

	regions []*tracked
	index   map[string]*tracked
}

// NewTracker creates a tracker. Non-positive threshold means DefaultThreshold;
// a negative margin means DefaultMargin.
func NewTracker(threshold, margin float64) *Tracker {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if margin < 0 {
		margin = DefaultMargin
	}
	return &Tracker{
		Threshold: threshold,
		Margin:    margin,
		index:     make(map[string]*tracked),
	}
}

// Track adds id or moves its bounds. New regions start invisible.
func (t *Tracker) Track(id string, bounds Rect) {
	if r, ok := t.index[id]; ok {
		r.bounds = bounds
		return
	}
	r := &tracked{id: id, bounds: bounds}
	t.regions = append(t.regions, r)
	t.index[id] = r
}

// Untrack forgets id. No Change is emitted for it.
func (t *Tracker) Untrack(id string) {
	if _, ok := t.index[id]; !ok {
		return
	}
	delete(t.index, id)
	for i, r := range t.regions {
		if r.id == id {
			t.regions = append(t.regions[:i], t.regions[i+1:]...)
			break
		}
	}
}

// Visible reports the last computed visibility of id.
func (t *Tracker) Visible(id string) bool {
	r, ok := t.index[id]
	return ok && r.visible
}

// Update recomputes visibility against view and returns the transitions in
// tracking order.
func (t *Tracker) Update(view Rect) []Change {
	expanded := view.Expand(t.Margin)
	var changes []Change
	for _, r := range t.regions {
		visible := r.bounds.Area() > 0 && IntersectionRatio(r.bounds, expanded) >= t.Threshold
		if visible != r.visible {
			r.visible = visible
			changes = append(changes, Change{ID: r.id, Visible: visible})
		}
	}
	return changes
}
