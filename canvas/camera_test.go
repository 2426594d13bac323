package canvas

import (
	"math"
	"testing"
)

func TestWorldScreenRoundTrip(t *testing.T) {
	cam := &Camera{X: 400, Y: 200, Zoom: 1.5}
	sx, sy := cam.WorldToScreen(120, 80, 512, 384)
	wx, wy := cam.ScreenToWorld(sx, sy, 512, 384)
	if math.Abs(wx-120) > 1e-9 || math.Abs(wy-80) > 1e-9 {
		t.Errorf("round trip = (%v, %v), want (120, 80)", wx, wy)
	}
}

func TestScreenRectScalesWithZoom(t *testing.T) {
	cam := &Camera{X: 0, Y: 0, Zoom: 2}
	r := cam.ScreenRect(10, 20, 100, 50, 0, 0)
	if r.X != 20 || r.Y != 40 || r.W != 200 || r.H != 100 {
		t.Errorf("rect = %+v", r)
	}
}

func TestPanRespectsLimit(t *testing.T) {
	cam := &Camera{X: 0, Y: 0, Zoom: 1}
	cam.Pan(500, -30, -200)
	if cam.X != -200 {
		t.Errorf("X = %v, want clamp at -200", cam.X)
	}
	if cam.Y != 30 {
		t.Errorf("Y = %v, want 30", cam.Y)
	}
}

func TestZoomAtKeepsCursorAnchored(t *testing.T) {
	cam := &Camera{X: 300, Y: 300, Zoom: 1}
	beforeX, beforeY := cam.ScreenToWorld(100, 150, 400, 300)

	cam.ZoomAt(2, 100, 150, 400, 300, 0.1, 10)
	if cam.Zoom != 2 {
		t.Fatalf("zoom = %v", cam.Zoom)
	}
	afterX, afterY := cam.ScreenToWorld(100, 150, 400, 300)
	if math.Abs(afterX-beforeX) > 1e-9 || math.Abs(afterY-beforeY) > 1e-9 {
		t.Errorf("anchor moved from (%v,%v) to (%v,%v)", beforeX, beforeY, afterX, afterY)
	}

	cam.ZoomAt(100, 0, 0, 400, 300, 0.1, 10)
	if cam.Zoom != 10 {
		t.Errorf("zoom = %v, want clamp at 10", cam.Zoom)
	}
}
