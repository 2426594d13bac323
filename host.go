package main

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"filmscout/comments"
	"filmscout/engine"
	"filmscout/mapview"
	"filmscout/store"
)

// The board implements input.Host.

func (g *Game) ScreenToWorld(sx, sy float64) (float64, float64) {
	cw, ch := g.center()
	return g.camera.ScreenToWorld(sx, sy, cw, ch)
}

func (g *Game) IsMouseOver(mx, my int) bool {
	return g.ui.IsMouseOver(mx, my) || g.panel.Contains(mx, my, g.screenWidth, g.screenHeight)
}

func (g *Game) RequestScreenshot() {
	g.screenshotRequested = true
}

// CardAt returns the topmost card under the world point, or "".
func (g *Game) CardAt(wx, wy float64) string {
	for i := len(g.cards) - 1; i >= 0; i-- {
		c := g.cards[i]
		if wx >= c.X && wx < c.X+c.Width &&
			wy >= c.Y && wy < c.Y+c.Height {
			return c.ID
		}
	}
	return ""
}

func (g *Game) CardBounds(id string) (x, y, w, h float64) {
	c, ok := g.byID[id]
	if !ok {
		return 0, 0, 0, 0
	}
	return c.X, c.Y, c.Width, c.Height
}

func (g *Game) SetCardBounds(id string, x, y, w, h float64) {
	c, ok := g.byID[id]
	if !ok {
		return
	}
	c.X, c.Y = math.Max(0, x), math.Max(0, y)
	c.Width, c.Height = w, h
}

// CornerAt returns the resize corner under the point (0 TL, 1 TR, 2 BL,
// 3 BR) or -1.
func (g *Game) CornerAt(id string, wx, wy float64) int {
	c, ok := g.byID[id]
	if !ok {
		return -1
	}
	threshold := CornerThreshold / g.camera.Zoom
	corners := [4][2]float64{
		{c.X, c.Y},
		{c.X + c.Width, c.Y},
		{c.X, c.Y + c.Height},
		{c.X + c.Width, c.Y + c.Height},
	}
	for i, p := range corners {
		if math.Abs(wx-p[0]) <= threshold && math.Abs(wy-p[1]) <= threshold {
			return i
		}
	}
	return -1
}

func (g *Game) SnapCard(id string) {
	c, ok := g.byID[id]
	if !ok {
		return
	}
	c.X, c.Y = math.Max(0, Snap(c.X)), math.Max(0, Snap(c.Y))
	c.Width, c.Height = Snap(c.Width), Snap(c.Height)
}

// Select makes id the selected card and loads its comment thread.
func (g *Game) Select(id string) {
	if id == g.selected && g.panel.CardID() == id {
		return
	}
	g.selected = id
	g.loadThread(id)
}

func (g *Game) Selected() string {
	return g.selected
}

func (g *Game) loadThread(id string) {
	c, ok := g.byID[id]
	if !ok {
		g.panel.Hide()
		return
	}
	ctx, cancel := g.opContext()
	defer cancel()
	list, err := g.store.ListComments(ctx, id)
	if err != nil {
		g.logger.Error("failed to load comments", slog.String("card", id), slog.String("error", err.Error()))
		g.toasts.Error("Could not load comments")
		list = nil
	}
	g.panel.Show(id, c.Title, comments.Thread(list))
}

func (g *Game) ApplyPan(dx, dy float64) {
	g.camera.Pan(dx, dy, CameraLimitMin)
}

func (g *Game) ZoomAt(factor, sx, sy float64) {
	cw, ch := g.center()
	g.camera.ZoomAt(factor, sx, sy, cw, ch, ZoomLimitMin, ZoomLimitMax)
}

// ActivateMap hands the pointer to the card's map. Only one map is active
// at a time.
func (g *Game) ActivateMap(id string) bool {
	c, ok := g.byID[id]
	if !ok {
		return false
	}
	if !c.Activate() {
		g.toasts.Info("Map is not loaded")
		return false
	}
	if g.active != "" && g.active != id {
		if prev, ok := g.byID[g.active]; ok {
			prev.Deactivate()
		}
	}
	g.active = id
	return true
}

func (g *Game) Deactivate() {
	if c, ok := g.byID[g.active]; ok {
		c.Deactivate()
	}
	g.active = ""
}

func (g *Game) ActiveMap() string {
	return g.active
}

func (g *Game) BeginMapDrag(id string) {
	if c, ok := g.byID[id]; ok {
		c.BeginDrag()
	}
}

func (g *Game) EndMapDrag(id string) {
	if c, ok := g.byID[id]; ok {
		c.EndDrag()
	}
}

// PanMap drags the map by screen pixels. The surface is drawn at board
// zoom, so the delta is converted to surface pixels first.
func (g *Game) PanMap(id string, dx, dy float64) {
	g.changeCamera(id, func(s mapview.CameraState) mapview.CameraState {
		return mapview.PanBy(s, dx/g.camera.Zoom, dy/g.camera.Zoom)
	})
}

func (g *Game) ZoomMap(id string, delta float64) {
	g.changeCamera(id, func(s mapview.CameraState) mapview.CameraState {
		return mapview.ZoomBy(s, delta)
	})
}

func (g *Game) RotateMap(id string, deg float64) {
	g.changeCamera(id, func(s mapview.CameraState) mapview.CameraState {
		return mapview.RotateBy(s, deg)
	})
}

func (g *Game) TiltMap(id string, deg float64) {
	g.changeCamera(id, func(s mapview.CameraState) mapview.CameraState {
		return mapview.TiltBy(s, deg)
	})
}

func (g *Game) changeCamera(id string, fn func(mapview.CameraState) mapview.CameraState) {
	c, ok := g.byID[id]
	if !ok {
		return
	}
	c.OnUserCameraChange(fn(c.CurrentState()))
}

// NewCard creates a map card at the location's saved camera and places it
// in the first free grid slot.
func (g *Game) NewCard() {
	ctx, cancel := g.opContext()
	defer cancel()
	view := g.fallback
	rec, err := g.store.CreateMapCard(ctx, store.MapCard{
		LocationID: g.location.ID,
		UserID:     g.settings.User,
		Title:      fmt.Sprintf("%s view %d", g.location.Name, len(g.cards)+1),
		ViewState:  &view,
	})
	if err != nil {
		g.logger.Error("failed to create map card", slog.String("error", err.Error()))
		g.toasts.Error("Could not create card")
		return
	}
	others := append([]*MapCard(nil), g.cards...)
	c := g.addCard(*rec)
	PlaceOnGrid(c, others)
	g.Select(c.ID)
	g.logger.Info("map card created", slog.String("card", c.ID))
}

// PlayTour runs the card's tour script and starts playback.
func (g *Game) PlayTour(id string) {
	c, ok := g.byID[id]
	if !ok {
		return
	}
	stops, err := g.tours.Tour(c.ID, c.Content, c.CurrentState())
	switch {
	case errors.Is(err, engine.ErrNoStops):
		g.toasts.Info("This card has no tour")
		return
	case err != nil:
		g.logger.Warn("tour script failed", slog.String("card", id), slog.String("error", err.Error()))
		g.toasts.Error("Tour failed: " + err.Error())
		return
	}
	if c.PlayTour(stops) {
		g.toasts.Info(fmt.Sprintf("Playing tour, %d stops", len(stops)))
	}
}

// AttachView returns bookmark markup for the card's current camera.
func (g *Game) AttachView(id string) string {
	c, ok := g.byID[id]
	if !ok {
		return ""
	}
	n := len(comments.Bookmarks(g.input.Draft)) + 1
	return " " + comments.Bookmark(fmt.Sprintf("view %d", n), c.CurrentState()) + " "
}

func (g *Game) PostComment(id, body string) {
	ctx, cancel := g.opContext()
	defer cancel()
	_, err := g.store.AddComment(ctx, store.Comment{
		MapCardID: id,
		UserID:    g.settings.User,
		Content:   body,
	})
	if err != nil {
		g.logger.Error("failed to post comment", slog.String("card", id), slog.String("error", err.Error()))
		g.toasts.Error("Could not post comment")
		return
	}
	g.loadThread(id)
}

func (g *Game) jumpFromBookmark(cardID string, view mapview.CameraState) {
	c, ok := g.byID[cardID]
	if !ok {
		return
	}
	if !c.JumpToState(view) {
		g.logger.Debug("bookmark jump skipped", slog.String("card", cardID), slog.Bool("dragging", c.Dragging()))
	}
}

// saveView persists the card's camera. Failures leave the live view alone
// and are reported as a toast.
func (g *Game) saveView(c *MapCard) {
	ctx, cancel := g.opContext()
	defer cancel()
	if err := c.PersistState(ctx); err != nil {
		g.toasts.Error("Could not save view")
		return
	}
	g.toasts.Info("View saved")
}

// pinView makes the card's camera the location's starting view for new
// cards.
func (g *Game) pinView(c *MapCard) {
	ctx, cancel := g.opContext()
	defer cancel()
	state := c.CurrentState()
	if err := g.store.UpsertLocationCamera(ctx, g.location.ID, state); err != nil {
		g.logger.Error("failed to pin location view", slog.String("error", err.Error()))
		g.toasts.Error("Could not pin view")
		return
	}
	g.fallback = state
	g.toasts.Info("Pinned as the location view")
}

func (g *Game) deleteCard(c *MapCard) {
	ctx, cancel := g.opContext()
	defer cancel()
	err := g.store.DeleteMapCard(ctx, c.ID, g.settings.User)
	switch {
	case errors.Is(err, store.ErrForbidden):
		g.toasts.Error("Only the owner can delete this card")
		return
	case err != nil:
		g.logger.Error("failed to delete map card", slog.String("card", c.ID), slog.String("error", err.Error()))
		g.toasts.Error("Could not delete card")
		return
	}
	g.removeCard(c.ID)
	g.logger.Info("map card deleted", slog.String("card", c.ID))
}
