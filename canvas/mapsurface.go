package canvas

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"filmscout/mapview"
)

var (
	colorLand        = color.RGBA{222, 226, 214, 255}
	colorGraticule   = color.RGBA{150, 160, 150, 120}
	colorMeridian0   = color.RGBA{90, 120, 170, 160}
	colorMarker      = color.RGBA{220, 60, 60, 255}
	colorMarkerRing  = color.RGBA{255, 255, 255, 230}
	colorCompass     = color.RGBA{40, 40, 40, 220}
	colorNorth       = color.RGBA{200, 40, 40, 255}
	colorInteractive = color.RGBA{0, 120, 255, 255}
)

// Marker is a labelled point drawn on a map surface.
type Marker struct {
	Longitude float64
	Latitude  float64
	Label     string
}

// MapSurface renders a camera view into an offscreen image. It repaints
// only when the camera, size or interactive flag changes.
type MapSurface struct {
	img         *ebiten.Image
	w, h        int
	markers     []Marker
	state       mapview.CameraState
	interactive bool
	dirty       bool
}

// NewMapSurface allocates a w x h surface.
func NewMapSurface(w, h int, markers []Marker) *MapSurface {
	w, h = max(w, 1), max(h, 1)
	return &MapSurface{
		img:     ebiten.NewImage(w, h),
		w:       w,
		h:       h,
		markers: markers,
		dirty:   true,
	}
}

// Render sets the camera shown on the next Draw.
func (m *MapSurface) Render(state mapview.CameraState, interactive bool) {
	if state == m.state && interactive == m.interactive {
		return
	}
	m.state = state
	m.interactive = interactive
	m.dirty = true
}

// Resize reallocates the backing image when the card changes size.
func (m *MapSurface) Resize(w, h int) {
	w, h = max(w, 1), max(h, 1)
	if w == m.w && h == m.h || m.img == nil {
		return
	}
	m.img.Deallocate()
	m.img = ebiten.NewImage(w, h)
	m.w, m.h = w, h
	m.dirty = true
}

// Dispose frees the backing image. The surface must not be drawn afterwards.
func (m *MapSurface) Dispose() {
	if m.img == nil {
		return
	}
	m.img.Deallocate()
	m.img = nil
}

// Draw blits the surface to dst at x, y scaled by scale.
func (m *MapSurface) Draw(dst *ebiten.Image, x, y, scale float64) {
	if m.img == nil {
		return
	}
	if m.dirty {
		m.paint()
		m.dirty = false
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(x, y)
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(m.img, op)
}

func (m *MapSurface) paint() {
	m.img.Fill(colorLand)
	w, h := float64(m.w), float64(m.h)
	s := m.state

	step := mapview.GridSpacing(s.Zoom)
	// Half the diagonal in degrees, widened by pitch foreshortening.
	degPerPx := 360 / (mapview.TileSize * math.Exp2(s.Zoom))
	cosPitch := math.Max(0.1, math.Cos(s.Pitch*math.Pi/180))
	reach := math.Hypot(w, h) / 2 * degPerPx / cosPitch
	latReach := reach * math.Max(0.05, math.Cos(s.Latitude*math.Pi/180))

	lngMin := math.Floor((s.Longitude-reach)/step) * step
	lngMax := s.Longitude + reach
	latMin := math.Max(-mapview.MaxLat, math.Floor((s.Latitude-latReach)/step)*step)
	latMax := math.Min(mapview.MaxLat, s.Latitude+latReach)

	const segments = 12
	for lng := lngMin; lng <= lngMax; lng += step {
		clr := color.Color(colorGraticule)
		if math.Abs(lng) < step/2 {
			clr = colorMeridian0
		}
		m.polyline(segments, clr, func(t float64) (float64, float64) {
			return lng, latMin + (latMax-latMin)*t
		})
	}
	for lat := latMin; lat <= latMax; lat += step {
		m.polyline(segments, colorGraticule, func(t float64) (float64, float64) {
			return lngMin + (lngMax-lngMin)*t, lat
		})
	}

	for _, mk := range m.markers {
		px, py := mapview.Project(s, mk.Longitude, mk.Latitude, w, h)
		if px < -20 || py < -20 || px > w+20 || py > h+20 {
			continue
		}
		vector.DrawFilledCircle(m.img, float32(px), float32(py), 6, colorMarkerRing, true)
		vector.DrawFilledCircle(m.img, float32(px), float32(py), 4, colorMarker, true)
		if mk.Label != "" {
			ebitenutil.DebugPrintAt(m.img, mk.Label, int(px)+8, int(py)-8)
		}
	}

	m.drawCompass(w)
	ebitenutil.DebugPrintAt(m.img, fmt.Sprintf("%.4f, %.4f  z%.1f", s.Latitude, s.Longitude, s.Zoom), 6, int(h)-18)

	if m.interactive {
		vector.StrokeRect(m.img, 1, 1, float32(w)-2, float32(h)-2, 2, colorInteractive, false)
	}
}

func (m *MapSurface) polyline(segments int, clr color.Color, at func(t float64) (float64, float64)) {
	w, h := float64(m.w), float64(m.h)
	lng, lat := at(0)
	x0, y0 := mapview.Project(m.state, lng, lat, w, h)
	for i := 1; i <= segments; i++ {
		lng, lat = at(float64(i) / float64(segments))
		x1, y1 := mapview.Project(m.state, lng, lat, w, h)
		vector.StrokeLine(m.img, float32(x0), float32(y0), float32(x1), float32(y1), 1, clr, true)
		x0, y0 = x1, y1
	}
}

func (m *MapSurface) drawCompass(w float64) {
	cx, cy, r := w-22, 22.0, 14.0
	vector.DrawFilledCircle(m.img, float32(cx), float32(cy), float32(r), colorCompass, true)
	rad := -m.state.Bearing * math.Pi / 180
	nx := cx + math.Sin(rad)*r*0.8
	ny := cy - math.Cos(rad)*r*0.8
	vector.StrokeLine(m.img, float32(cx), float32(cy), float32(nx), float32(ny), 2, colorNorth, true)
}
