package engine

import (
	"errors"
	"testing"

	"filmscout/mapview"
)

var start = mapview.CameraState{Longitude: -74.0060, Latitude: 40.7128, Zoom: 15, Pitch: 0, Bearing: 0}

func TestExecuteStarlarkConvertsValues(t *testing.T) {
	out, err := ExecuteStarlark("convert", `
n = 2 + 3
f = x * 2.0
s = "hi " + name
l = [1, "a", True]
d = {"k": 1.5}
`, map[string]interface{}{"x": 1.25, "name": "bob"})
	if err != nil {
		t.Fatalf("ExecuteStarlark: %v", err)
	}
	if out["n"] != 5 || out["f"] != 2.5 || out["s"] != "hi bob" {
		t.Errorf("scalars = %v %v %v", out["n"], out["f"], out["s"])
	}
	l, ok := out["l"].([]interface{})
	if !ok || len(l) != 3 || l[0] != 1 || l[1] != "a" || l[2] != true {
		t.Errorf("list = %#v", out["l"])
	}
	d, ok := out["d"].(map[string]interface{})
	if !ok || d["k"] != 1.5 {
		t.Errorf("dict = %#v", out["d"])
	}
}

func TestRunTourInheritsFields(t *testing.T) {
	stops, err := RunTour("tour", `
stops = [
    {"zoom": 17},
    {"bearing": 90, "pitch": 60},
    {"longitude": start["longitude"] + 0.5},
]
`, start)
	if err != nil {
		t.Fatalf("RunTour: %v", err)
	}
	if len(stops) != 3 {
		t.Fatalf("expected 3 stops, got %d", len(stops))
	}

	want0 := start
	want0.Zoom = 17
	if stops[0] != want0 {
		t.Errorf("stop 0 = %v, want %v", stops[0], want0)
	}
	want1 := want0
	want1.Bearing = 90
	want1.Pitch = 60
	if stops[1] != want1 {
		t.Errorf("stop 1 = %v, want %v", stops[1], want1)
	}
	want2 := want1
	want2.Longitude = start.Longitude + 0.5
	if stops[2] != want2 {
		t.Errorf("stop 2 = %v, want %v", stops[2], want2)
	}
}

func TestRunTourLoopsAndClamps(t *testing.T) {
	stops, err := RunTour("orbit", `
stops = []
for b in range(0, 360, 90):
    stops.append({"bearing": b, "pitch": 120})
`, start)
	if err != nil {
		t.Fatalf("RunTour: %v", err)
	}
	if len(stops) != 4 {
		t.Fatalf("expected 4 stops, got %d", len(stops))
	}
	if stops[3].Bearing != -90 {
		t.Errorf("bearing 270 should wrap to -90, got %v", stops[3].Bearing)
	}
	if stops[0].Pitch != mapview.MaxPitch {
		t.Errorf("pitch = %v, want clamp to %v", stops[0].Pitch, mapview.MaxPitch)
	}
}

func TestRunTourErrors(t *testing.T) {
	cases := []struct {
		name   string
		script string
		want   error
	}{
		{"missing", `x = 1`, ErrNoStops},
		{"not list", `stops = 3`, ErrBadStop},
		{"not dict", `stops = [1]`, ErrBadStop},
		{"unknown field", `stops = [{"altitude": 3}]`, ErrBadStop},
		{"string value", `stops = [{"zoom": "far"}]`, ErrBadStop},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := RunTour(tc.name, tc.script, start); !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}

	if _, err := RunTour("syntax", `stops = [`, start); err == nil {
		t.Error("expected syntax error")
	}
	if _, err := RunTour("spin", "while True:\n    pass\n", start); err == nil {
		t.Error("expected step limit error")
	}
}

func TestScriptHashIsStable(t *testing.T) {
	a := ScriptHash("card", "stops = []", start)
	if a != ScriptHash("card", "stops = []", start) {
		t.Error("hash changed between calls")
	}
	moved := start
	moved.Zoom++
	if a == ScriptHash("card", "stops = []", moved) {
		t.Error("hash ignores start view")
	}
	if a == ScriptHash("other", "stops = []", start) {
		t.Error("hash ignores card id")
	}
}

func TestTourCacheSkipsUnchangedScripts(t *testing.T) {
	cache := NewTourCache()
	script := `stops = [{"zoom": 12}]`

	first, err := cache.Tour("card", script, start)
	if err != nil {
		t.Fatalf("Tour: %v", err)
	}
	first[0].Zoom = 1 // callers get a copy

	second, err := cache.Tour("card", script, start)
	if err != nil {
		t.Fatalf("Tour: %v", err)
	}
	if cache.Runs() != 1 {
		t.Errorf("runs = %d, want 1", cache.Runs())
	}
	if second[0].Zoom != 12 {
		t.Errorf("cached stop mutated: %v", second[0])
	}

	if _, err := cache.Tour("card", `stops = [{"zoom": 13}]`, start); err != nil {
		t.Fatalf("Tour: %v", err)
	}
	cache.Forget("card")
	if _, err := cache.Tour("card", script, start); err != nil {
		t.Fatalf("Tour: %v", err)
	}
	if cache.Runs() != 3 {
		t.Errorf("runs = %d, want 3", cache.Runs())
	}
}
