package input

import "testing"

func TestResizeFromCorner(t *testing.T) {
	cases := []struct {
		name       string
		corner     int
		wx, wy     float64
		x, y, w, h float64
	}{
		{"bottom right grows", 3, 400, 300, 100, 100, 300, 200},
		{"top left moves origin", 0, 50, 60, 50, 60, 250, 240},
		{"top right", 1, 350, 80, 100, 80, 250, 220},
		{"too small is refused", 3, 150, 150, 100, 100, 200, 200},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			x, y, w, h := ResizeFromCorner(tc.corner, 100, 100, 200, 200, tc.wx, tc.wy, 120)
			if x != tc.x || y != tc.y || w != tc.w || h != tc.h {
				t.Errorf("got (%v, %v, %v, %v), want (%v, %v, %v, %v)", x, y, w, h, tc.x, tc.y, tc.w, tc.h)
			}
		})
	}
}
