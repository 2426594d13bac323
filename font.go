package main

import (
	"image/color"
	"log/slog"
	"os"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
)

// LoadUIFont loads the TrueType font at path. Any failure falls back to
// basicfont.Face7x13.
func LoadUIFont(path string, logger *slog.Logger) font.Face {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Info("ui font not found, using basic font", slog.String("path", path))
		return basicfont.Face7x13
	}
	f, err := opentype.Parse(data)
	if err != nil {
		logger.Warn("ui font parse failed, using basic font", slog.String("path", path), slog.String("error", err.Error()))
		return basicfont.Face7x13
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: 14, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		logger.Warn("ui font face failed, using basic font", slog.String("error", err.Error()))
		return basicfont.Face7x13
	}
	return face
}

// DrawTextLines draws multiline text with the provided font.Face and color starting at (x,y).
func DrawTextLines(screen *ebiten.Image, face font.Face, s string, x, y int, clr color.Color) {
	if face == nil {
		face = basicfont.Face7x13
	}
	ascent, lineHeight := lineMetrics(face)
	// y is the top of the first line; text.Draw wants the baseline.
	baseY := y + ascent
	for i, line := range strings.Split(s, "\n") {
		text.Draw(screen, line, face, x, baseY+(i*lineHeight), clr)
	}
}

func lineMetrics(face font.Face) (ascent, lineHeight int) {
	metrics := face.Metrics()
	ascent = metrics.Ascent.Ceil()
	lineHeight = ascent + metrics.Descent.Ceil()
	if lineHeight <= 0 {
		return 12, 16
	}
	return ascent, lineHeight
}

// TextWidth is the advance of s in pixels.
func TextWidth(face font.Face, s string) int {
	if face == nil {
		face = basicfont.Face7x13
	}
	return font.MeasureString(face, s).Ceil()
}

// Truncate shortens s with an ellipsis so it fits in width pixels.
func Truncate(s string, width int, measure func(string) int) string {
	if measure(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 {
		r = r[:len(r)-1]
		if cut := string(r) + "…"; measure(cut) <= width {
			return cut
		}
	}
	return ""
}
