package main

import (
	"testing"

	"filmscout/canvas"
	"filmscout/mapview"
	"filmscout/store"
	"filmscout/surface"
)

func newTestCard(id string, m *surface.Manager) *MapCard {
	return NewMapCard(store.MapCard{ID: id, LocationID: "loc", UserID: "ana"}, mapview.DefaultState, MapCardOptions{Manager: m})
}

func TestSaveLoadLayout(t *testing.T) {
	m := surface.NewManager(2)
	c1 := newTestCard("c1", m)
	c2 := newTestCard("c2", m)
	c1.X, c1.Y = 100, 60
	c2.X, c2.Y, c2.Width, c2.Height = 500, 60, 300, 200

	cam := canvas.Camera{X: 250, Y: 120, Zoom: 1.5}
	data, err := EncodeLayout(CaptureLayout(cam, []*MapCard{c1, c2}))
	if err != nil {
		t.Fatalf("Failed to save layout: %v", err)
	}

	state, err := DecodeLayout(data)
	if err != nil {
		t.Fatalf("Failed to load layout: %v", err)
	}

	// Fresh cards for the same records, in another order, plus a new one.
	r1 := newTestCard("c1", m)
	r2 := newTestCard("c2", m)
	r3 := newTestCard("c3", m)
	cam2 := canvas.Camera{X: DefaultCameraX, Y: DefaultCameraY, Zoom: DefaultCameraZoom}
	ApplyLayout(state, &cam2, []*MapCard{r3, r2, r1})

	if cam2 != cam {
		t.Errorf("camera = %+v, want %+v", cam2, cam)
	}
	if r1.X != 100 || r1.Y != 60 {
		t.Errorf("c1 at (%v, %v)", r1.X, r1.Y)
	}
	if r2.Width != 300 || r2.Height != 200 {
		t.Errorf("c2 size = %vx%v", r2.Width, r2.Height)
	}
	for _, placed := range []*MapCard{r1, r2} {
		if overlapsAny(r3.X, r3.Y, r3.Width, r3.Height, []*MapCard{placed}) {
			t.Errorf("new card at (%v, %v) overlaps %s", r3.X, r3.Y, placed.ID)
		}
	}
}

func TestPlaceOnGridFillsSlotsInOrder(t *testing.T) {
	m := surface.NewManager(4)
	var placed []*MapCard
	for i, id := range []string{"a", "b", "c", "d"} {
		c := newTestCard(id, m)
		PlaceOnGrid(c, placed)
		placed = append(placed, c)

		wantX, wantY := GridSlot(i)
		if c.X != wantX || c.Y != wantY {
			t.Errorf("%s at (%v, %v), want slot %d (%v, %v)", id, c.X, c.Y, i, wantX, wantY)
		}
	}
	// The fourth card wraps to the second row.
	if placed[3].Y <= placed[0].Y {
		t.Errorf("expected row wrap after %d columns", LayoutColumns)
	}
}

func TestDecodeLayoutRejectsGarbage(t *testing.T) {
	if _, err := DecodeLayout([]byte("cards: [")); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestSnap(t *testing.T) {
	if got := Snap(104.9); got != 100 {
		t.Errorf("Snap(104.9) = %v", got)
	}
	if got := Snap(105); got != 110 {
		t.Errorf("Snap(105) = %v", got)
	}
}
