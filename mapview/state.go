// Package mapview holds the camera model of a map surface and the
// controller that animates it between saved views.
package mapview

import (
	"encoding/json"
	"fmt"
	"math"
)

// Camera limits for a map surface.
const (
	MinZoom  = 0.0
	MaxZoom  = 22.0
	MaxPitch = 85.0
	MaxLat   = 85.05112878
)

// CameraState is the five-field position of a map viewport. It is a value
// type: copy it, never share a pointer to a live one.
type CameraState struct {
	Longitude float64 `json:"longitude" yaml:"longitude"`
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Zoom      float64 `json:"zoom" yaml:"zoom"`
	Pitch     float64 `json:"pitch" yaml:"pitch"`
	Bearing   float64 `json:"bearing" yaml:"bearing"`
}

// DefaultState is the view a new card opens on (lower Manhattan).
var DefaultState = CameraState{
	Longitude: -74.0060,
	Latitude:  40.7128,
	Zoom:      15,
	Pitch:     0,
	Bearing:   0,
}

func (s CameraState) String() string {
	return fmt.Sprintf("lng=%.5f lat=%.5f z=%.2f pitch=%.1f bearing=%.1f",
		s.Longitude, s.Latitude, s.Zoom, s.Pitch, s.Bearing)
}

// Clamp keeps zoom, pitch and latitude in range and wraps longitude and
// bearing into [-180, 180).
func (s CameraState) Clamp() CameraState {
	s.Longitude = wrap180(s.Longitude)
	s.Latitude = math.Max(-MaxLat, math.Min(MaxLat, s.Latitude))
	s.Zoom = math.Max(MinZoom, math.Min(MaxZoom, s.Zoom))
	s.Pitch = math.Max(0, math.Min(MaxPitch, s.Pitch))
	s.Bearing = wrap180(s.Bearing)
	return s
}

// Valid reports whether every field is a finite number.
func (s CameraState) Valid() bool {
	for _, v := range []float64{s.Longitude, s.Latitude, s.Zoom, s.Pitch, s.Bearing} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return s.Zoom >= 0
}

// Lerp interpolates every field of a toward b by t.
func Lerp(a, b CameraState, t float64) CameraState {
	return CameraState{
		Longitude: a.Longitude + (b.Longitude-a.Longitude)*t,
		Latitude:  a.Latitude + (b.Latitude-a.Latitude)*t,
		Zoom:      a.Zoom + (b.Zoom-a.Zoom)*t,
		Pitch:     a.Pitch + (b.Pitch-a.Pitch)*t,
		Bearing:   a.Bearing + (b.Bearing-a.Bearing)*t,
	}
}

// ParseJSON decodes a stored viewstate. All five fields must be present.
func ParseJSON(data []byte) (CameraState, error) {
	var raw map[string]*float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return CameraState{}, fmt.Errorf("decode viewstate: %w", err)
	}
	fields := []string{"longitude", "latitude", "zoom", "pitch", "bearing"}
	vals := make([]float64, len(fields))
	for i, name := range fields {
		v, ok := raw[name]
		if !ok || v == nil {
			return CameraState{}, fmt.Errorf("decode viewstate: missing %q", name)
		}
		vals[i] = *v
	}
	s := CameraState{Longitude: vals[0], Latitude: vals[1], Zoom: vals[2], Pitch: vals[3], Bearing: vals[4]}
	if !s.Valid() {
		return CameraState{}, fmt.Errorf("decode viewstate: invalid values %s", s)
	}
	return s, nil
}

// MarshalJSONString encodes s the way it is stored.
func (s CameraState) MarshalJSONString() string {
	data, _ := json.Marshal(s)
	return string(data)
}

func wrap180(v float64) float64 {
	if v >= -180 && v < 180 {
		return v
	}
	v = math.Mod(v+180, 360)
	if v < 0 {
		v += 360
	}
	return v - 180
}
