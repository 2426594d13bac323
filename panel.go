package main

import (
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"

	"filmscout/comments"
	"filmscout/mapview"
	"filmscout/ui"
	"filmscout/viewport"
)

const (
	panelIndent  = 16
	panelHintTop = "C comment  T tour  dbl-click map to steer"
)

// panelRun is one piece of laid-out comment text, relative to the panel's
// text origin.
type panelRun struct {
	Text  string
	X     int
	Line  int
	Width int
	View  *mapview.CameraState
}

// layoutSegments flows segments into lines no wider than width. Words wrap
// at spaces; a bookmark is never split. It returns the runs and the number
// of lines used.
func layoutSegments(segs []comments.Segment, indent, width int, measure func(string) int) ([]panelRun, int) {
	var runs []panelRun
	x, line := indent, 0
	space := measure(" ")

	place := func(text string, view *mapview.CameraState) {
		w := measure(text)
		if x > indent && x+w > width {
			x, line = indent, line+1
		}
		runs = append(runs, panelRun{Text: text, X: x, Line: line, Width: w, View: view})
		x += w + space
	}

	for _, seg := range segs {
		if seg.IsBookmark() {
			place("["+seg.Text+"]", seg.View)
			continue
		}
		paragraphs := strings.Split(seg.Text, "\n")
		for i, p := range paragraphs {
			if i > 0 {
				x, line = indent, line+1
			}
			for _, word := range strings.Fields(p) {
				place(word, nil)
			}
		}
	}
	if len(runs) == 0 {
		return nil, 0
	}
	return runs, runs[len(runs)-1].Line + 1
}

type panelHit struct {
	rect viewport.Rect
	view mapview.CameraState
}

// Panel shows the comment thread of the selected card. Clicking a bookmark
// jumps that card's map to the saved view.
type Panel struct {
	cardID  string
	title   string
	entries []comments.Entry
	scroll  int

	hits   []panelHit
	onJump func(cardID string, view mapview.CameraState)
}

func NewPanel(onJump func(cardID string, view mapview.CameraState)) *Panel {
	return &Panel{onJump: onJump}
}

// Show replaces the panel content.
func (p *Panel) Show(cardID, title string, entries []comments.Entry) {
	if cardID != p.cardID {
		p.scroll = 0
	}
	p.cardID = cardID
	p.title = title
	p.entries = entries
	p.hits = nil
}

func (p *Panel) Hide() {
	p.cardID = ""
	p.entries = nil
	p.hits = nil
}

func (p *Panel) CardID() string {
	return p.cardID
}

// Bounds is the panel rectangle for a screen of sw x sh.
func (p *Panel) Bounds(sw, sh int) viewport.Rect {
	top := ButtonHeight + 2*ButtonMargin
	return viewport.Rect{
		X: float64(sw - PanelWidth - ButtonMargin),
		Y: top,
		W: PanelWidth,
		H: float64(sh) - top - ButtonMargin,
	}
}

func (p *Panel) Contains(mx, my, sw, sh int) bool {
	return p.cardID != "" && p.Bounds(sw, sh).Contains(float64(mx), float64(my))
}

// Update scrolls the panel and fires bookmark clicks. It reports whether the
// mouse was consumed.
func (p *Panel) Update(sw, sh int) bool {
	mx, my := ebiten.CursorPosition()
	if !p.Contains(mx, my, sw, sh) {
		return false
	}
	if _, dy := ebiten.Wheel(); dy != 0 {
		p.scroll = max(0, p.scroll-int(dy*PanelLineHeight))
	}
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return true
	}
	for _, h := range p.hits {
		if h.rect.Contains(float64(mx), float64(my)) {
			if p.onJump != nil {
				p.onJump(p.cardID, h.view)
			}
			break
		}
	}
	return true
}

// Draw renders the thread. draft is shown at the bottom while composing.
func (p *Panel) Draw(screen *ebiten.Image, face font.Face, drawText ui.TextDrawer, sw, sh int, composing bool, draft string) {
	if p.cardID == "" {
		return
	}
	b := p.Bounds(sw, sh)
	vector.DrawFilledRect(screen, float32(b.X), float32(b.Y), float32(b.W), float32(b.H), ColorPanel, false)

	x0 := int(b.X) + PanelPadding
	y := int(b.Y) + PanelPadding
	inner := int(b.W) - 2*PanelPadding
	measure := func(s string) int { return TextWidth(face, s) }

	drawText(screen, face, Truncate(p.title, inner, measure), x0, y, ColorPanelText)
	y += PanelLineHeight
	drawText(screen, face, panelHintTop, x0, y, ColorPanelMuted)
	y += PanelLineHeight + PanelPadding/2

	footer := 0
	if composing {
		footer = 3 * PanelLineHeight
	}
	bottom := int(b.Y+b.H) - PanelPadding - footer
	top := y
	y -= p.scroll

	p.hits = p.hits[:0]
	if len(p.entries) == 0 {
		drawText(screen, face, "No comments yet.", x0, y, ColorPanelMuted)
	}
	for _, e := range p.entries {
		indent := e.Depth * panelIndent
		meta := e.Comment.UserID + "  " + e.Comment.CreatedAt.Local().Format("Jan 2 15:04")
		if y >= top && y+PanelLineHeight <= bottom {
			drawText(screen, face, meta, x0+indent, y, ColorPanelMuted)
		}
		y += PanelLineHeight

		runs, lines := layoutSegments(comments.Parse(e.Comment.Content), indent, inner, measure)
		for _, r := range runs {
			ry := y + r.Line*PanelLineHeight
			if ry < top || ry+PanelLineHeight > bottom {
				continue
			}
			clr := color.Color(ColorPanelText)
			if r.View != nil {
				clr = ColorBookmark
				p.hits = append(p.hits, panelHit{
					rect: viewport.Rect{X: float64(x0 + r.X), Y: float64(ry), W: float64(r.Width), H: PanelLineHeight},
					view: *r.View,
				})
			}
			drawText(screen, face, r.Text, x0+r.X, ry, clr)
		}
		y += lines*PanelLineHeight + PanelPadding/2
	}

	if composing {
		fy := int(b.Y+b.H) - PanelPadding - footer
		vector.StrokeLine(screen, float32(b.X), float32(fy), float32(b.X+b.W), float32(fy), 1, ColorPanelMuted, false)
		drawText(screen, face, "Enter post  Tab attach view  Esc cancel", x0, fy+PanelPadding/2, ColorPanelMuted)
		text := comments.PlainText(draft) + "_"
		drawText(screen, face, Truncate(text, inner, measure), x0, fy+PanelPadding/2+PanelLineHeight, ColorDraft)
	}
}
