package input

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Tuning for keyboard camera controls, per frame.
const (
	RotateStep = 2.0
	TiltStep   = 1.5
	ZoomStep   = 0.1

	doubleClickMillis   = 350
	doubleClickDistance = 1000 // px squared
	minCardSize         = 120.0
)

// Host defines the callbacks the input system needs from the board.
type Host interface {
	ScreenToWorld(sx, sy float64) (float64, float64)
	IsMouseOver(mx, my int) bool
	RequestScreenshot()
	SaveLayout() error

	CardAt(wx, wy float64) string
	CardBounds(id string) (x, y, w, h float64)
	SetCardBounds(id string, x, y, w, h float64)
	CornerAt(id string, wx, wy float64) int
	SnapCard(id string)
	Select(id string)
	Selected() string

	ApplyPan(dx, dy float64)
	ZoomAt(factor, sx, sy float64)

	// Map interaction. ActivateMap returns false when the card has no
	// mounted map.
	ActivateMap(id string) bool
	Deactivate()
	ActiveMap() string
	BeginMapDrag(id string)
	EndMapDrag(id string)
	PanMap(id string, dx, dy float64)
	ZoomMap(id string, delta float64)
	RotateMap(id string, deg float64)
	TiltMap(id string, deg float64)

	NewCard()
	PlayTour(id string)
	AttachView(id string) string
	PostComment(id, body string)
}

type InputSystem struct {
	host Host

	// Exposed state for other packages (main) to read
	ActiveCard     string
	IsHot          bool
	ResizingCard   string
	ResizingCorner int
	DragOffsetX    float64
	DragOffsetY    float64
	MapDragging    bool

	// Composing is true while a comment is being typed; Draft holds it.
	Composing bool
	Draft     string

	// Internal state
	isPanning  bool
	lastMouseX int
	lastMouseY int

	lastClickTime int64
	lastClickPos  [2]int
	runes         []rune
}

func NewInputSystem(h Host) *InputSystem {
	return &InputSystem{host: h}
}

func (is *InputSystem) Update() {
	mx, my := ebiten.CursorPosition()
	wx, wy := is.host.ScreenToWorld(float64(mx), float64(my))
	overUI := is.host.IsMouseOver(mx, my)

	if is.Composing {
		is.handleComposing()
		return
	}

	is.handleControlKeys()

	if active := is.host.ActiveMap(); active != "" {
		is.handleMapControls(active, mx, my, wx, wy, overUI)
		return
	}
	is.MapDragging = false

	if !overUI {
		is.handleZoom(mx, my)
	}
	is.handleMouseInteraction(mx, my, wx, wy, overUI)
	is.handlePanning(mx, my, overUI)
}

func (is *InputSystem) handleControlKeys() {
	// --- Screenshot ---
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		is.host.RequestScreenshot()
	}

	// --- Save Layout ---
	if ebiten.IsKeyPressed(ebiten.KeyControl) && inpututil.IsKeyJustPressed(ebiten.KeyS) {
		// SaveLayout logs and toasts its own failure.
		_ = is.host.SaveLayout()
		return
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		is.host.Deactivate()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		is.host.NewCard()
	}
	sel := is.host.Selected()
	if sel == "" {
		return
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		is.host.PlayTour(sel)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		is.Composing = true
		is.Draft = ""
	}
}

// handleComposing edits the comment draft. Enter posts, Tab attaches the
// current view as a bookmark, Escape discards.
func (is *InputSystem) handleComposing() {
	is.runes = ebiten.AppendInputChars(is.runes[:0])
	is.Draft += string(is.runes)

	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) && len(is.Draft) > 0 {
		r := []rune(is.Draft)
		is.Draft = string(r[:len(r)-1])
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		if sel := is.host.Selected(); sel != "" {
			is.Draft += is.host.AttachView(sel)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		is.Composing = false
		is.Draft = ""
		return
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadEnter) {
		if sel := is.host.Selected(); sel != "" && is.Draft != "" {
			is.host.PostComment(sel, is.Draft)
		}
		is.Composing = false
		is.Draft = ""
	}
}

func (is *InputSystem) handleZoom(mx, my int) {
	_, dy := ebiten.Wheel()

	if ebiten.IsKeyPressed(ebiten.KeyEqual) || ebiten.IsKeyPressed(ebiten.KeyKPAdd) {
		dy += 0.1
	}
	if ebiten.IsKeyPressed(ebiten.KeyMinus) || ebiten.IsKeyPressed(ebiten.KeyKPSubtract) {
		dy -= 0.1
	}

	if dy != 0 {
		factor := 1 + ZoomStep
		if dy < 0 {
			factor = 1 / factor
		}
		is.host.ZoomAt(factor, float64(mx), float64(my))
	}
}

// handleMapControls routes input to the activated map. Drags inside the
// card pan the map camera; a click outside the card deactivates it.
func (is *InputSystem) handleMapControls(id string, mx, my int, wx, wy float64, overUI bool) {
	if _, dy := ebiten.Wheel(); dy != 0 {
		is.host.ZoomMap(id, dy*0.25)
	}
	if ebiten.IsKeyPressed(ebiten.KeyQ) {
		is.host.RotateMap(id, -RotateStep)
	}
	if ebiten.IsKeyPressed(ebiten.KeyE) {
		is.host.RotateMap(id, RotateStep)
	}
	if ebiten.IsKeyPressed(ebiten.KeyR) {
		is.host.TiltMap(id, TiltStep)
	}
	if ebiten.IsKeyPressed(ebiten.KeyF) {
		is.host.TiltMap(id, -TiltStep)
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && !overUI {
		if is.host.CardAt(wx, wy) != id {
			is.host.Deactivate()
			return
		}
		is.MapDragging = true
		is.lastMouseX, is.lastMouseY = mx, my
		is.host.BeginMapDrag(id)
		return
	}

	if is.MapDragging {
		if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
			dx := float64(mx - is.lastMouseX)
			dy := float64(my - is.lastMouseY)
			if dx != 0 || dy != 0 {
				is.host.PanMap(id, dx, dy)
			}
			is.lastMouseX, is.lastMouseY = mx, my
		} else {
			is.MapDragging = false
			is.host.EndMapDrag(id)
		}
	}
}

func (is *InputSystem) handleMouseInteraction(mx, my int, wx, wy float64, overUI bool) {
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && !ebiten.IsKeyPressed(ebiten.KeySpace) && !overUI {
		now := time.Now().UnixMilli()
		isDoubleClick := false
		if now-is.lastClickTime < doubleClickMillis {
			dx := mx - is.lastClickPos[0]
			dy := my - is.lastClickPos[1]
			if dx*dx+dy*dy < doubleClickDistance {
				isDoubleClick = true
			}
		}
		is.lastClickTime = now
		is.lastClickPos = [2]int{mx, my}

		card := is.host.CardAt(wx, wy)
		if isDoubleClick && card != "" {
			is.ActiveCard = ""
			is.IsHot = false
			is.host.Select(card)
			is.host.ActivateMap(card)
			return
		}

		if card != "" {
			is.host.Select(card)

			// Check if clicking on a resize corner
			corner := is.host.CornerAt(card, wx, wy)
			if corner != -1 {
				is.ResizingCard = card
				is.ResizingCorner = corner
				return
			}

			// set active for dragging
			is.ActiveCard = card
			is.IsHot = true
			x, y, _, _ := is.host.CardBounds(card)
			is.DragOffsetX = wx - x
			is.DragOffsetY = wy - y
		} else {
			// Clicked on empty space - clear active card so panning can start
			is.ActiveCard = ""
			is.IsHot = false
		}
	} else if is.ResizingCard != "" {
		is.handleResizing(wx, wy)
	} else if is.ActiveCard != "" {
		is.handleDragging(wx, wy)
	}
}

func (is *InputSystem) handleResizing(wx, wy float64) {
	if !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		// commit
		is.host.SnapCard(is.ResizingCard)
		is.ResizingCard = ""
		return
	}
	ax, ay, aw, ah := is.host.CardBounds(is.ResizingCard)
	ax, ay, aw, ah = ResizeFromCorner(is.ResizingCorner, ax, ay, aw, ah, wx, wy, minCardSize)
	is.host.SetCardBounds(is.ResizingCard, ax, ay, aw, ah)
}

// ResizeFromCorner moves corner (0 TL, 1 TR, 2 BL, 3 BR) of the rectangle
// to wx, wy, refusing changes that would shrink it below minSize.
func ResizeFromCorner(corner int, ax, ay, aw, ah, wx, wy, minSize float64) (float64, float64, float64, float64) {
	left := corner == 0 || corner == 2
	top := corner == 0 || corner == 1

	if left {
		if newW := (ax + aw) - wx; newW > minSize {
			ax, aw = wx, newW
		}
	} else if newW := wx - ax; newW > minSize {
		aw = newW
	}
	if top {
		if newH := (ay + ah) - wy; newH > minSize {
			ay, ah = wy, newH
		}
	} else if newH := wy - ay; newH > minSize {
		ah = newH
	}
	return ax, ay, aw, ah
}

func (is *InputSystem) handleDragging(wx, wy float64) {
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		_, _, w, h := is.host.CardBounds(is.ActiveCard)
		is.host.SetCardBounds(is.ActiveCard, wx-is.DragOffsetX, wy-is.DragOffsetY, w, h)
	} else {
		// release
		is.host.SnapCard(is.ActiveCard)
		is.ActiveCard = ""
		is.IsHot = false
	}
}

func (is *InputSystem) handlePanning(mx, my int, overUI bool) {
	isPanButtonHeld := ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle) ||
		(ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) && is.ActiveCard == "" && is.ResizingCard == "" && !overUI)

	if !is.isPanning {
		if isPanButtonHeld {
			is.isPanning = true
			is.lastMouseX, is.lastMouseY = mx, my
		}
	} else {
		if isPanButtonHeld {
			dx := float64(mx - is.lastMouseX)
			dy := float64(my - is.lastMouseY)
			is.host.ApplyPan(dx, dy)
			is.lastMouseX, is.lastMouseY = mx, my
		} else {
			is.isPanning = false
		}
	}
}
