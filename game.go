package main

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"golang.org/x/image/font"

	"filmscout/canvas"
	"filmscout/engine"
	"filmscout/input"
	"filmscout/logging"
	"filmscout/mapview"
	"filmscout/prefs"
	"filmscout/store"
	"filmscout/surface"
	"filmscout/ui"
	"filmscout/viewport"
)

// persistTimeout bounds a single camera or comment write from the board.
const persistTimeout = 2 * time.Second

// GameOptions wires the board to its storage and settings.
type GameOptions struct {
	Settings   Settings
	Store      *store.Store
	Prefs      *prefs.Prefs
	Logger     *slog.Logger
	LocationID string
	Face       font.Face
}

// Game is the board of map cards for one location.
type Game struct {
	ctx      context.Context
	settings Settings
	store    *store.Store
	prefs    *prefs.Prefs
	logger   *slog.Logger
	now      func() time.Time

	location *store.Location
	fallback mapview.CameraState
	markers  []canvas.Marker

	camera  canvas.Camera
	cards   []*MapCard
	byID    map[string]*MapCard
	manager *surface.Manager
	tracker *viewport.Tracker
	tours   *engine.TourCache

	selected string
	active   string

	screenWidth  int
	screenHeight int

	// Sub-systems
	input  *input.InputSystem
	ui     *ui.UISystem
	toasts *ui.Toasts
	panel  *Panel
	face   font.Face

	screenshotRequested bool
}

// NewGame loads the location's cards and restores the saved board layout.
func NewGame(ctx context.Context, opts GameOptions) (*Game, error) {
	logger := logging.OrDiscard(opts.Logger)
	if opts.Store == nil {
		return nil, errors.New("board needs a store")
	}
	if opts.Prefs == nil {
		opts.Prefs = prefs.New(nil, logger)
	}

	loc, err := opts.Store.GetLocation(ctx, opts.LocationID)
	if err != nil {
		return nil, fmt.Errorf("open location %q: %w", opts.LocationID, err)
	}

	g := &Game{
		ctx:      ctx,
		settings: opts.Settings,
		store:    opts.Store,
		prefs:    opts.Prefs,
		logger:   logger.With(slog.String("location", loc.ID)),
		now:      time.Now,
		location: loc,
		fallback: loc.Center(),
		camera:   canvas.Camera{X: DefaultCameraX, Y: DefaultCameraY, Zoom: DefaultCameraZoom},
		byID:     make(map[string]*MapCard),
		tracker:  viewport.NewTracker(opts.Settings.VisibilityThreshold, opts.Settings.PrerollMargin),
		tours:    engine.NewTourCache(),
		face:     opts.Face,
	}
	g.manager = surface.NewManager(opts.Settings.MaxInstances,
		surface.WithLogger(g.logger),
		surface.WithEvictHook(g.onEvict),
	)

	if saved, ok, err := g.store.LocationCamera(ctx, loc.ID); err != nil {
		g.logger.Warn("failed to load location camera", slog.String("error", err.Error()))
	} else if ok {
		g.fallback = saved
	}
	if loc.Latitude != nil && loc.Longitude != nil {
		g.markers = []canvas.Marker{{Longitude: *loc.Longitude, Latitude: *loc.Latitude, Label: loc.Name}}
	}

	recs, err := g.store.ListMapCards(ctx, loc.ID)
	if err != nil {
		return nil, err
	}
	for _, rec := range recs {
		g.addCard(rec)
	}
	g.restoreLayout()

	if err := g.prefs.SetLastLocation(loc.ID); err != nil {
		g.logger.Warn("failed to remember location", slog.String("error", err.Error()))
	}

	g.toasts = ui.NewToasts(g.now)
	g.panel = NewPanel(g.jumpFromBookmark)
	g.input = input.NewInputSystem(g)
	g.ui = ui.NewUISystem(g.fontFace, g.screenSize, DrawTextLines, g.toasts,
		ui.Action{Label: "+", OnClick: func() { g.zoomBoard(1.1) }},
		ui.Action{Label: "-", OnClick: func() { g.zoomBoard(1 / 1.1) }},
		ui.Action{Label: "New card", Width: 90, OnClick: g.NewCard},
		// SaveLayout reports its own failure.
		ui.Action{Label: "Save layout", Width: 110, OnClick: func() { _ = g.SaveLayout() }},
	)

	g.logger.Info("board opened",
		slog.String("name", loc.Name),
		slog.Int("cards", len(g.cards)),
		slog.Int("max_instances", opts.Settings.MaxInstances),
	)
	return g, nil
}

func (g *Game) addCard(rec store.MapCard) *MapCard {
	c := NewMapCard(rec, g.fallback, MapCardOptions{
		Manager:   g.manager,
		Factory:   g.newSurface,
		Persister: g.store,
		Duration:  time.Duration(g.settings.TransitionMS) * time.Millisecond,
		Logger:    g.logger,
		Now:       g.now,
	})
	g.cards = append(g.cards, c)
	g.byID[c.ID] = c
	return c
}

func (g *Game) removeCard(id string) {
	c, ok := g.byID[id]
	if !ok {
		return
	}
	c.Close()
	g.tracker.Untrack(id)
	g.tours.Forget(id)
	delete(g.byID, id)
	for i, other := range g.cards {
		if other == c {
			g.cards = append(g.cards[:i], g.cards[i+1:]...)
			break
		}
	}
	if g.active == id {
		g.active = ""
	}
	if g.selected == id {
		g.selected = ""
		g.panel.Hide()
	}
}

func (g *Game) newSurface(cardID string) Surface {
	w, h := DefaultCardWidth, DefaultCardHeight-HeaderHeight
	if c, ok := g.byID[cardID]; ok {
		w, h = c.Width, c.Height-HeaderHeight
	}
	return canvas.NewMapSurface(int(w), int(h), g.markers)
}

// onEvict tears down a card whose slot was taken by a manual load.
func (g *Game) onEvict(id string) {
	c, ok := g.byID[id]
	if !ok {
		return
	}
	c.RefreshSurface()
	if g.active == id {
		g.active = ""
	}
}

func (g *Game) restoreLayout() {
	var state BoardState
	raw, ok, err := g.prefs.Layout(g.location.ID)
	switch {
	case err != nil:
		g.logger.Warn("failed to read board layout", slog.String("error", err.Error()))
	case ok:
		if state, err = DecodeLayout(raw); err != nil {
			g.logger.Warn("ignoring saved board layout", slog.String("error", err.Error()))
			state = BoardState{}
		}
	}
	ApplyLayout(state, &g.camera, g.cards)
}

// SaveLayout stores the board camera and card placement for this location.
func (g *Game) SaveLayout() error {
	data, err := EncodeLayout(CaptureLayout(g.camera, g.cards))
	if err == nil {
		err = g.prefs.SaveLayout(g.location.ID, data)
	}
	if err != nil {
		g.logger.Error("failed to save board layout", slog.String("error", err.Error()))
		if g.toasts != nil {
			g.toasts.Error("Could not save layout")
		}
		return err
	}
	g.logger.Info("board layout saved", slog.Int("cards", len(g.cards)))
	if g.toasts != nil {
		g.toasts.Info("Layout saved")
	}
	return nil
}

// Shutdown saves the layout and releases every map surface.
func (g *Game) Shutdown() {
	_ = g.SaveLayout() // already logged
	unsaved := 0
	for _, c := range g.cards {
		if c.Dirty() {
			unsaved++
		}
		c.Close()
	}
	if unsaved > 0 {
		g.logger.Warn("board closed with unsaved map views", slog.Int("cards", unsaved))
	}
}

func (g *Game) Update() error {
	now := g.now()

	g.ui.Update()
	if !g.input.Composing {
		g.panel.Update(g.screenWidth, g.screenHeight)
	}
	g.input.Update()

	g.updateVisibility()
	for _, c := range g.cards {
		c.Tick(now)
	}
	if g.active != "" {
		if c, ok := g.byID[g.active]; !ok || !c.Activated() {
			g.active = ""
		}
	}
	g.layoutOverlay()
	return nil
}

// updateVisibility feeds each card's on-screen rectangle to the tracker and
// forwards the transitions.
func (g *Game) updateVisibility() {
	cw, ch := g.center()
	for _, c := range g.cards {
		g.tracker.Track(c.ID, g.camera.ScreenRect(c.X, c.Y, c.Width, c.Height, cw, ch))
	}
	view := viewport.Rect{W: float64(g.screenWidth), H: float64(g.screenHeight)}
	for _, change := range g.tracker.Update(view) {
		if c, ok := g.byID[change.ID]; ok {
			c.SetVisible(change.Visible)
		}
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(ColorBackground)

	cw, ch := g.center()
	canvas.DrawBackgroundGrid(&g.camera, screen, cw, ch, g.screenWidth, g.screenHeight, canvas.GridStyle{
		Small:       GridSizeSmall,
		Large:       GridSizeLarge,
		Line:        ColorGrid,
		LineMajor:   ColorGridMajor,
		Blocked:     ColorGridBlocked,
		OriginCross: ColorOriginCross,
	})

	mx, my := ebiten.CursorPosition()
	wx, wy := g.ScreenToWorld(float64(mx), float64(my))
	hovered := ""
	if !g.IsMouseOver(mx, my) {
		hovered = g.CardAt(wx, wy)
	}
	for _, c := range g.cards {
		g.drawCard(screen, c, cw, ch, c.ID == hovered)
	}

	ebitenutil.DebugPrintAt(screen, fmt.Sprintf(
		"%s\n"+
			"Maps: %d/%d live  Zoom: %.2f\n"+
			"Double click a map to steer it, Esc to release",
		g.location.Name,
		g.manager.Len(), g.manager.Max(), g.camera.Zoom,
	), 10, 10)

	g.panel.Draw(screen, g.fontFace(), DrawTextLines, g.screenWidth, g.screenHeight, g.input.Composing, g.input.Draft)
	g.ui.Draw(screen)

	// --- Save Screenshot ---
	if g.screenshotRequested {
		g.screenshotRequested = false
		g.saveScreenshot(screen)
	}
}

func (g *Game) saveScreenshot(screen *ebiten.Image) {
	f, err := os.Create("screenshot.png")
	if err != nil {
		g.logger.Error("screenshot failed", slog.String("error", err.Error()))
		return
	}
	defer f.Close()
	if err := png.Encode(f, screen); err != nil {
		g.logger.Error("screenshot failed", slog.String("error", err.Error()))
		return
	}
	g.logger.Info("screenshot saved", slog.String("path", "screenshot.png"))
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.screenWidth = outsideWidth
	g.screenHeight = outsideHeight
	return outsideWidth, outsideHeight
}

func (g *Game) center() (float64, float64) {
	return float64(g.screenWidth) / 2, float64(g.screenHeight) / 2
}

func (g *Game) screenSize() (int, int) {
	return g.screenWidth, g.screenHeight
}

func (g *Game) fontFace() font.Face {
	return g.face
}

func (g *Game) zoomBoard(factor float64) {
	cw, ch := g.center()
	g.camera.ZoomAt(factor, cw, ch, cw, ch, ZoomLimitMin, ZoomLimitMax)
}

func (g *Game) opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(g.ctx, persistTimeout)
}
