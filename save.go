package main

import (
	"bytes"
	"fmt"
	"math"

	"gopkg.in/yaml.v3"

	"filmscout/canvas"
)

type CameraLayout struct {
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
	Zoom float64 `yaml:"zoom"`
}

type CardLayout struct {
	ID     string  `yaml:"id"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// BoardState is where the board camera sits and where each card was put.
// Card cameras are not part of it; they live in the database.
type BoardState struct {
	Camera CameraLayout `yaml:"camera"`
	Cards  []CardLayout `yaml:"cards"`
}

// CaptureLayout records the board camera and card placement.
func CaptureLayout(cam canvas.Camera, cards []*MapCard) BoardState {
	state := BoardState{
		Camera: CameraLayout{X: cam.X, Y: cam.Y, Zoom: cam.Zoom},
	}
	for _, c := range cards {
		state.Cards = append(state.Cards, CardLayout{
			ID:     c.ID,
			X:      c.X,
			Y:      c.Y,
			Width:  c.Width,
			Height: c.Height,
		})
	}
	return state
}

// EncodeLayout writes state as YAML.
func EncodeLayout(state BoardState) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&state); err != nil {
		return nil, fmt.Errorf("encode layout: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode layout: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeLayout parses a saved layout.
func DecodeLayout(data []byte) (BoardState, error) {
	var state BoardState
	if err := yaml.Unmarshal(data, &state); err != nil {
		return BoardState{}, fmt.Errorf("decode layout: %w", err)
	}
	return state, nil
}

// ApplyLayout moves the camera and the cards named in state. Cards the
// layout does not know are placed in the first free grid slot. Entries for
// cards that no longer exist are dropped.
func ApplyLayout(state BoardState, cam *canvas.Camera, cards []*MapCard) {
	if state.Camera.Zoom > 0 {
		cam.X = state.Camera.X
		cam.Y = state.Camera.Y
		cam.Zoom = math.Max(ZoomLimitMin, math.Min(ZoomLimitMax, state.Camera.Zoom))
	}

	saved := make(map[string]CardLayout, len(state.Cards))
	for _, cl := range state.Cards {
		saved[cl.ID] = cl
	}

	var placed []*MapCard
	var pending []*MapCard
	for _, c := range cards {
		cl, ok := saved[c.ID]
		if !ok {
			pending = append(pending, c)
			continue
		}
		c.X, c.Y = math.Max(0, cl.X), math.Max(0, cl.Y)
		if cl.Width > 0 && cl.Height > 0 {
			c.Width, c.Height = cl.Width, cl.Height
		}
		placed = append(placed, c)
	}
	for _, c := range pending {
		PlaceOnGrid(c, placed)
		placed = append(placed, c)
	}
}

// GridSlot returns the top-left corner of layout slot i.
func GridSlot(i int) (float64, float64) {
	col := i % LayoutColumns
	row := i / LayoutColumns
	x := LayoutOriginX + float64(col)*(DefaultCardWidth+LayoutGap)
	y := LayoutOriginY + float64(row)*(DefaultCardHeight+LayoutGap)
	return x, y
}

// PlaceOnGrid puts c in the first grid slot that overlaps none of others.
func PlaceOnGrid(c *MapCard, others []*MapCard) {
	for i := 0; ; i++ {
		x, y := GridSlot(i)
		if !overlapsAny(x, y, c.Width, c.Height, others) {
			c.X, c.Y = x, y
			return
		}
	}
}

func overlapsAny(x, y, w, h float64, others []*MapCard) bool {
	for _, o := range others {
		if x < o.X+o.Width && o.X < x+w && y < o.Y+o.Height && o.Y < y+h {
			return true
		}
	}
	return false
}

// Snap rounds v to the board grid.
func Snap(v float64) float64 {
	return math.Round(v/SnapGrid) * SnapGrid
}
