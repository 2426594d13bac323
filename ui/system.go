package ui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.org/x/image/font"
)

// Action is a toolbar button anchored to the top-right corner.
type Action struct {
	Label   string
	Width   float32
	OnClick func()
}

type UISystem struct {
	buttons       []*Button
	extra         []*Button
	getFontFace   func() font.Face
	getScreenSize func() (int, int)
	drawText      TextDrawer
	Toasts        *Toasts
}

// NewUISystem creates the toolbar. Actions are laid out right to left in
// the order given.
func NewUISystem(getFontFace func() font.Face, getScreenSize func() (int, int), drawText TextDrawer, toasts *Toasts, actions ...Action) *UISystem {
	ui := &UISystem{
		getFontFace:   getFontFace,
		getScreenSize: getScreenSize,
		drawText:      drawText,
		Toasts:        toasts,
	}
	for _, a := range actions {
		w := a.Width
		if w <= 0 {
			w = 30
		}
		ui.buttons = append(ui.buttons, &Button{Label: a.Label, W: w, H: 30, OnClick: a.OnClick})
	}
	ui.updateButtonPositions()
	return ui
}

// SetOverlay replaces the buttons drawn on top of the board, such as the
// per-card header buttons. They are positioned by the caller.
func (ui *UISystem) SetOverlay(buttons []*Button) {
	ui.extra = buttons
}

func (ui *UISystem) updateButtonPositions() {
	w, _ := ui.getScreenSize()
	x := float32(w) - 10
	for _, b := range ui.buttons {
		x -= b.W
		b.X = x
		b.Y = 10
		x -= 10
	}
}

func (ui *UISystem) all() []*Button {
	out := make([]*Button, 0, len(ui.buttons)+len(ui.extra))
	out = append(out, ui.extra...)
	return append(out, ui.buttons...)
}

func (ui *UISystem) IsMouseOver(mx, my int) bool {
	ui.updateButtonPositions()
	for _, b := range ui.all() {
		if b.IsMouseOver(mx, my) {
			return true
		}
	}
	return false
}

// Update fires the clicked button. It reports whether a click was consumed.
func (ui *UISystem) Update() bool {
	ui.updateButtonPositions()
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return false
	}
	mx, my := ebiten.CursorPosition()
	for _, b := range ui.all() {
		if b.IsMouseOver(mx, my) {
			if b.OnClick != nil {
				b.OnClick()
			}
			return true
		}
	}
	return false
}

func (ui *UISystem) Draw(screen *ebiten.Image) {
	ui.updateButtonPositions()
	mx, my := ebiten.CursorPosition()
	for _, b := range ui.all() {
		b.Draw(screen, b.IsMouseOver(mx, my), ui.getFontFace, ui.drawText)
	}
	if ui.Toasts != nil {
		ui.Toasts.Draw(screen, ui.getScreenSize, ui.getFontFace, ui.drawText)
	}
}
