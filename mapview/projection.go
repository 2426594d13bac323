package mapview

import "math"

// TileSize is the width of the world in pixels at zoom 0.
const TileSize = 256.0

// worldXY maps lng/lat to web-mercator pixels at zoom 0.
func worldXY(lng, lat float64) (float64, float64) {
	lat = math.Max(-MaxLat, math.Min(MaxLat, lat))
	x := (lng + 180) / 360 * TileSize
	s := math.Sin(lat * math.Pi / 180)
	y := (0.5 - math.Log((1+s)/(1-s))/(4*math.Pi)) * TileSize
	return x, y
}

func lngLat(x, y float64) (float64, float64) {
	lng := x/TileSize*360 - 180
	n := math.Pi - 2*math.Pi*y/TileSize
	lat := 180 / math.Pi * math.Atan(math.Sinh(n))
	return lng, lat
}

// Project places lng/lat on a w x h surface viewed with s. Pitch squashes
// the vertical axis; bearing rotates around the centre.
func Project(s CameraState, lng, lat, w, h float64) (float64, float64) {
	scale := math.Exp2(s.Zoom)
	cx, cy := worldXY(s.Longitude, s.Latitude)
	px, py := worldXY(lng, lat)
	dx := (px - cx) * scale
	dy := (py - cy) * scale

	rad := -s.Bearing * math.Pi / 180
	rx := dx*math.Cos(rad) - dy*math.Sin(rad)
	ry := dx*math.Sin(rad) + dy*math.Cos(rad)
	ry *= math.Cos(s.Pitch * math.Pi / 180)
	return w/2 + rx, h/2 + ry
}

// PanBy moves the camera as if the map was dragged by dx, dy screen pixels.
func PanBy(s CameraState, dx, dy float64) CameraState {
	scale := math.Exp2(s.Zoom)
	cosPitch := math.Cos(s.Pitch * math.Pi / 180)
	if cosPitch < 0.1 {
		cosPitch = 0.1
	}
	dy /= cosPitch

	rad := s.Bearing * math.Pi / 180
	wx := dx*math.Cos(rad) - dy*math.Sin(rad)
	wy := dx*math.Sin(rad) + dy*math.Cos(rad)

	cx, cy := worldXY(s.Longitude, s.Latitude)
	s.Longitude, s.Latitude = lngLat(cx-wx/scale, cy-wy/scale)
	return s.Clamp()
}

// ZoomBy changes zoom by delta levels.
func ZoomBy(s CameraState, delta float64) CameraState {
	s.Zoom += delta
	return s.Clamp()
}

// RotateBy changes bearing by deg degrees.
func RotateBy(s CameraState, deg float64) CameraState {
	s.Bearing += deg
	return s.Clamp()
}

// TiltBy changes pitch by deg degrees.
func TiltBy(s CameraState, deg float64) CameraState {
	s.Pitch += deg
	return s.Clamp()
}

// GridSpacing picks a graticule step in degrees that keeps lines roughly
// 64 to 128 pixels apart at the given zoom.
func GridSpacing(zoom float64) float64 {
	degPerPixel := 360 / (TileSize * math.Exp2(zoom))
	step := 1e-6
	for step/degPerPixel < 64 && step < 90 {
		step *= 2
	}
	return step
}
