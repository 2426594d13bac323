package ui

import (
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
)

// ToastDuration is how long a notification stays up.
const ToastDuration = 3 * time.Second

const maxToasts = 4

// Level picks the colour of a toast.
type Level int

const (
	LevelInfo Level = iota
	LevelError
)

type toast struct {
	msg     string
	level   Level
	expires time.Time
}

// Toasts is a stack of transient notifications drawn bottom-right.
type Toasts struct {
	now   func() time.Time
	items []toast
}

// NewToasts creates an empty stack. A nil clock means time.Now.
func NewToasts(now func() time.Time) *Toasts {
	if now == nil {
		now = time.Now
	}
	return &Toasts{now: now}
}

// Push shows msg for ToastDuration. The oldest toast is dropped when too
// many are up.
func (t *Toasts) Push(level Level, msg string) {
	t.items = append(t.items, toast{msg: msg, level: level, expires: t.now().Add(ToastDuration)})
	if len(t.items) > maxToasts {
		t.items = t.items[len(t.items)-maxToasts:]
	}
}

func (t *Toasts) Info(msg string) {
	t.Push(LevelInfo, msg)
}

func (t *Toasts) Error(msg string) {
	t.Push(LevelError, msg)
}

// Active returns the messages still showing, oldest first.
func (t *Toasts) Active() []string {
	t.prune()
	out := make([]string, len(t.items))
	for i, it := range t.items {
		out[i] = it.msg
	}
	return out
}

func (t *Toasts) prune() {
	now := t.now()
	kept := t.items[:0]
	for _, it := range t.items {
		if now.Before(it.expires) {
			kept = append(kept, it)
		}
	}
	t.items = kept
}

func (t *Toasts) Draw(screen *ebiten.Image, getScreenSize func() (int, int), getFace func() font.Face, drawText TextDrawer) {
	if t == nil {
		return
	}
	t.prune()
	if len(t.items) == 0 {
		return
	}
	w, h := getScreenSize()
	pw, ph := 340, 36
	x := w - pw - 10
	y := h - 10
	for i := len(t.items) - 1; i >= 0; i-- {
		it := t.items[i]
		y -= ph + 6
		bg := color.RGBA{40, 40, 40, 220}
		fg := color.Color(color.White)
		if it.level == LevelError {
			bg = color.RGBA{90, 25, 25, 230}
			fg = color.RGBA{255, 200, 50, 255}
		}
		vector.DrawFilledRect(screen, float32(x), float32(y), float32(pw), float32(ph), bg, false)
		if getFace != nil && drawText != nil {
			if face := getFace(); face != nil {
				drawText(screen, face, it.msg, x+10, y+10, fg)
			}
		}
	}
}
