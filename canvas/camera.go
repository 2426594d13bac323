package canvas

import (
	"math"

	"filmscout/viewport"
)

// Camera controls the viewport of the board
type Camera struct {
	X, Y float64 // World position of the center of the screen
	Zoom float64
}

func (c *Camera) WorldToScreen(wx, wy, cw, ch float64) (float64, float64) {
	sx := (wx-c.X)*c.Zoom + cw
	sy := (wy-c.Y)*c.Zoom + ch
	return sx, sy
}

func (c *Camera) ScreenToWorld(sx, sy, cw, ch float64) (float64, float64) {
	wx := (sx-cw)/c.Zoom + c.X
	wy := (sy-ch)/c.Zoom + c.Y
	return wx, wy
}

// ScreenRect converts a world rectangle to screen pixels.
func (c *Camera) ScreenRect(x, y, w, h, cw, ch float64) viewport.Rect {
	sx, sy := c.WorldToScreen(x, y, cw, ch)
	return viewport.Rect{X: sx, Y: sy, W: w * c.Zoom, H: h * c.Zoom}
}

// Pan moves the camera by a screen-space drag, keeping it at or right of
// limit in world units.
func (c *Camera) Pan(dx, dy, limit float64) {
	c.X -= dx / c.Zoom
	c.Y -= dy / c.Zoom
	if c.X < limit {
		c.X = limit
	}
	if c.Y < limit {
		c.Y = limit
	}
}

// ZoomAt scales the camera by factor around the screen point sx, sy so the
// world point under the cursor stays put. Zoom is kept within min and max.
func (c *Camera) ZoomAt(factor, sx, sy, cw, ch, min, max float64) {
	next := math.Max(min, math.Min(max, c.Zoom*factor))
	if next == c.Zoom {
		return
	}
	wx, wy := c.ScreenToWorld(sx, sy, cw, ch)
	c.Zoom = next
	c.X = wx - (sx-cw)/c.Zoom
	c.Y = wy - (sy-ch)/c.Zoom
}
