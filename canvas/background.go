package canvas

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// GridStyle configures the board background.
type GridStyle struct {
	Small       float64
	Large       float64
	Line        color.Color
	LineMajor   color.Color
	Blocked     color.Color
	OriginCross color.Color
}

// DrawBackgroundGrid renders the board grid using the provided camera. The
// board only extends right and down from the origin; the rest is shaded.
func DrawBackgroundGrid(cam *Camera, screen *ebiten.Image, cw, ch float64, screenWidth, screenHeight int, style GridStyle) {
	left, top := cam.ScreenToWorld(0, 0, cw, ch)
	right, bottom := cam.ScreenToWorld(float64(screenWidth), float64(screenHeight), cw, ch)

	startWx := math.Max(0, math.Floor(left/style.Large)*style.Large)
	startWy := math.Max(0, math.Floor(top/style.Large)*style.Large)

	lineColor := func(w float64) color.Color {
		if math.Mod(w, style.Large) == 0 {
			return style.LineMajor
		}
		return style.Line
	}

	for wx := startWx; wx < right; wx += style.Small {
		sx, _ := cam.WorldToScreen(wx, 0, cw, ch)
		vector.StrokeLine(screen, float32(sx), 0, float32(sx), float32(screenHeight), 1, lineColor(wx), false)
	}
	for wy := startWy; wy < bottom; wy += style.Small {
		_, sy := cam.WorldToScreen(0, wy, cw, ch)
		vector.StrokeLine(screen, 0, float32(sy), float32(screenWidth), float32(sy), 1, lineColor(wy), false)
	}

	originX, originY := cam.WorldToScreen(0, 0, cw, ch)

	if originX > 0 {
		vector.DrawFilledRect(screen, 0, 0, float32(originX), float32(screenHeight), style.Blocked, false)
	}
	if originY > 0 {
		vector.DrawFilledRect(screen, float32(math.Max(0, originX)), 0, float32(screenWidth), float32(originY), style.Blocked, false)
	}

	vector.StrokeLine(screen, float32(originX-15), float32(originY), float32(originX+15), float32(originY), 2, style.OriginCross, false)
	vector.StrokeLine(screen, float32(originX), float32(originY-15), float32(originX), float32(originY+15), 2, style.OriginCross, false)
}
