package main

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"filmscout/canvas"
	"filmscout/surface"
	"filmscout/ui"
)

// cardScreen returns the card's rectangle in screen pixels.
func (g *Game) cardScreen(c *MapCard, cw, ch float64) (x, y, w, h float64) {
	x, y = g.camera.WorldToScreen(c.X, c.Y, cw, ch)
	return x, y, c.Width * g.camera.Zoom, c.Height * g.camera.Zoom
}

func (g *Game) onScreen(x, y, w, h float64) bool {
	return x+w >= 0 && y+h >= 0 && x <= float64(g.screenWidth) && y <= float64(g.screenHeight)
}

func (g *Game) drawCard(screen *ebiten.Image, c *MapCard, cw, ch float64, hovered bool) {
	x, y, w, h := g.cardScreen(c, cw, ch)
	if !g.onScreen(x, y, w, h) {
		return
	}
	zoom := g.camera.Zoom
	header := HeaderHeight * zoom

	shadow := ShadowOffset * zoom
	vector.DrawFilledRect(screen, float32(x+shadow), float32(y+shadow), float32(w), float32(h), ColorShadow, false)
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), ColorCardDefault, false)
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(header), ColorCardHeader, false)

	face := g.fontFace()
	titleWidth := int(w - CardPaddingX*zoom - 3*(CardActionButtonWidth+4))
	title := Truncate(c.Title, titleWidth, func(s string) int { return TextWidth(face, s) })
	DrawTextLines(screen, face, title, int(x+CardPaddingX*zoom), int(y+(header-14)/2), color.White)

	mapX, mapY := x, y+header
	mapW, mapH := c.Width, c.Height-HeaderHeight
	switch c.SurfaceState() {
	case surface.Mounted:
		if ms, ok := c.Surface().(*canvas.MapSurface); ok {
			ms.Resize(int(mapW), int(mapH))
			ms.Draw(screen, mapX, mapY, zoom)
		}
	default:
		g.drawPlaceholder(screen, c, mapX, mapY, mapW*zoom, mapH*zoom)
	}

	status := ""
	switch {
	case c.Touring():
		status = "tour"
	case c.Transitioning():
		status = "moving"
	case c.Dirty():
		status = "unsaved view"
	}
	if status != "" {
		ebitenutil.DebugPrintAt(screen, status, int(mapX+6), int(y+h-20))
	}

	var border color.Color
	switch {
	case c.ID == g.active:
		border = ColorCardActive
	case c.ID == g.selected:
		border = ColorCardSelected
	case hovered:
		border = ColorCardHover
	}
	if border != nil {
		off := BorderOffset * zoom
		vector.StrokeRect(screen, float32(x-off), float32(y-off), float32(w+2*off), float32(h+2*off), float32(BorderThickness), border, false)
	}

	if c.ID == g.selected {
		g.drawCornerHandles(screen, x, y, w, h)
	}
}

func (g *Game) drawPlaceholder(screen *ebiten.Image, c *MapCard, x, y, w, h float64) {
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), ColorPlaceholder, false)

	lines := "Map Not Loaded\nScroll this card into view"
	if c.SurfaceState() == surface.AwaitingAdmission {
		lines = "Loading map..."
	}
	DrawTextLines(screen, g.fontFace(), lines, int(x+CardPaddingX), int(y+CardPaddingX), ColorPanelMuted)
}

func (g *Game) drawCornerHandles(screen *ebiten.Image, x, y, w, h float64) {
	const size = 8
	for _, p := range [4][2]float64{{x, y}, {x + w, y}, {x, y + h}, {x + w, y + h}} {
		vector.DrawFilledRect(screen, float32(p[0]-size/2), float32(p[1]-size/2), size, size, ColorCornerHandle, false)
	}
}

// layoutOverlay rebuilds the per-card buttons at the cards' current screen
// positions: save view, pin view and delete in the header, and "Load Map
// Now" on denied placeholders.
func (g *Game) layoutOverlay() {
	cw, ch := g.center()
	var buttons []*ui.Button
	for _, c := range g.cards {
		x, y, w, h := g.cardScreen(c, cw, ch)
		if !g.onScreen(x, y, w, h) {
			continue
		}
		header := HeaderHeight * g.camera.Zoom
		by := float32(y + (header-CardActionButtonHeight)/2)
		bx := float32(x+w) - 4

		add := func(label string, clr color.Color, onClick func()) {
			bx -= CardActionButtonWidth
			buttons = append(buttons, &ui.Button{
				Label:   label,
				X:       bx,
				Y:       by,
				W:       CardActionButtonWidth,
				H:       CardActionButtonHeight,
				Color:   clr,
				OnClick: onClick,
			})
			bx -= 4
		}

		card := c
		if card.UserID == g.settings.User {
			add("Del", ColorDeleteButton, func() { g.deleteCard(card) })
		}
		add("Pin", nil, func() { g.pinView(card) })
		add("Save", ColorSaveButton, func() { g.saveView(card) })

		if card.SurfaceState() == surface.Denied {
			const bw, bh = 120, ButtonHeight
			buttons = append(buttons, &ui.Button{
				Label:   "Load Map Now",
				X:       float32(x + w/2 - bw/2),
				Y:       float32(y + header + (h-header)/2),
				W:       bw,
				H:       bh,
				Color:   ColorLoadButton,
				OnClick: func() { g.loadNow(card) },
			})
		}
	}
	g.ui.SetOverlay(buttons)
}

func (g *Game) loadNow(c *MapCard) {
	if !c.RequestLoad() {
		g.toasts.Error("No map slot could be freed")
	}
}
