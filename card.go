package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"filmscout/logging"
	"filmscout/mapview"
	"filmscout/store"
	"filmscout/surface"
)

// TourDwell is how long a tour rests on each stop before moving on.
const TourDwell = 1500 * time.Millisecond

// ErrNoPersister is returned by PersistState when the card has no storage.
var ErrNoPersister = errors.New("map card has no persister")

// Surface is a mounted map renderer. It shows a camera state and whether
// the user may manipulate it directly.
type Surface interface {
	Render(state mapview.CameraState, interactive bool)
	Dispose()
}

// SurfaceFactory creates the renderer for a card when it is mounted.
type SurfaceFactory func(cardID string) Surface

// CameraPersister stores a card's camera.
type CameraPersister interface {
	UpsertCameraState(ctx context.Context, cardID string, state mapview.CameraState) error
}

// MapCardOptions wires a card to the board.
type MapCardOptions struct {
	Manager   surface.Admitter
	Factory   SurfaceFactory
	Persister CameraPersister
	Duration  time.Duration
	Logger    *slog.Logger
	Now       func() time.Time
}

// MapCard hosts one map surface on the board. It owns the camera state:
// user drags write it directly, while jumps from bookmarks and tours are
// animated through the transition controller.
type MapCard struct {
	ID         string
	LocationID string
	UserID     string
	Title      string
	Content    string

	X, Y          float64
	Width, Height float64

	state      mapview.CameraState
	observer   *surface.Observer
	controller *mapview.Controller
	surface    Surface
	factory    SurfaceFactory
	persister  CameraPersister
	logger     *slog.Logger
	now        func() time.Time

	activated bool
	dragging  bool
	dirty     bool

	tour      []mapview.CameraState
	tourNext  int
	tourRests time.Time
}

// NewMapCard builds the host for rec. Cards without a saved view open on
// fallback.
func NewMapCard(rec store.MapCard, fallback mapview.CameraState, opts MapCardOptions) *MapCard {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	initial := fallback
	if rec.ViewState != nil {
		initial = *rec.ViewState
	}
	c := &MapCard{
		ID:         rec.ID,
		LocationID: rec.LocationID,
		UserID:     rec.UserID,
		Title:      rec.DisplayTitle(),
		Content:    rec.Content,
		Width:      DefaultCardWidth,
		Height:     DefaultCardHeight,
		state:      initial.Clamp(),
		controller: mapview.NewController(mapview.WithDuration(opts.Duration)),
		factory:    opts.Factory,
		persister:  opts.Persister,
		logger:     logging.OrDiscard(opts.Logger).With(slog.String("card", rec.ID)),
		now:        now,
	}
	c.observer = surface.NewObserver(rec.ID, opts.Manager, surface.Handlers{
		OnMount:   c.mount,
		OnUnmount: c.unmount,
	})
	return c
}

func (c *MapCard) mount() {
	if c.factory != nil {
		c.surface = c.factory(c.ID)
	}
	if c.surface != nil {
		c.surface.Render(c.state, false)
	}
	c.logger.Debug("map surface mounted")
}

func (c *MapCard) unmount() {
	if c.surface != nil {
		c.surface.Dispose()
		c.surface = nil
	}
	c.activated = false
	c.dragging = false
	c.logger.Debug("map surface unmounted")
}

// CurrentState returns the live camera.
func (c *MapCard) CurrentState() mapview.CameraState {
	return c.state
}

// SurfaceState reports the mount state of the card's map.
func (c *MapCard) SurfaceState() surface.State {
	return c.observer.State()
}

func (c *MapCard) Mounted() bool {
	return c.observer.Mounted()
}

// Surface returns the mounted renderer, or nil.
func (c *MapCard) Surface() Surface {
	return c.surface
}

// Dirty reports whether the camera moved since it was last persisted.
func (c *MapCard) Dirty() bool {
	return c.dirty
}

// Interactive reports whether user camera changes are accepted: the map is
// activated, mounted, and not animating.
func (c *MapCard) Interactive() bool {
	return c.activated && c.observer.Mounted() && !c.controller.Active()
}

// Activate turns on direct manipulation. It fails when no map is mounted.
func (c *MapCard) Activate() bool {
	if !c.observer.Mounted() {
		return false
	}
	c.activated = true
	return true
}

func (c *MapCard) Deactivate() {
	c.activated = false
	c.dragging = false
}

func (c *MapCard) Activated() bool {
	return c.activated
}

// Transitioning reports whether an animated jump is running.
func (c *MapCard) Transitioning() bool {
	return c.controller.Active()
}

// OnUserCameraChange applies a camera change made directly on the surface.
// It is ignored unless the card is interactive. Any running tour stops.
func (c *MapCard) OnUserCameraChange(state mapview.CameraState) bool {
	if !c.Interactive() {
		return false
	}
	c.StopTour()
	c.state = state.Clamp()
	c.dirty = true
	return true
}

// BeginDrag marks the start of a user drag on the surface. Jumps requested
// while dragging are ignored.
func (c *MapCard) BeginDrag() {
	if !c.Interactive() {
		return
	}
	c.StopTour()
	c.dragging = true
}

func (c *MapCard) EndDrag() {
	c.dragging = false
}

func (c *MapCard) Dragging() bool {
	return c.dragging
}

// JumpToState animates the camera to target, replacing any transition in
// flight and stopping a running tour. It returns false when the jump was
// too small to animate or the user is dragging the map.
func (c *MapCard) JumpToState(target mapview.CameraState) bool {
	c.StopTour()
	return c.jump(target)
}

func (c *MapCard) jump(target mapview.CameraState) bool {
	if c.dragging {
		c.logger.Debug("camera jump ignored during drag")
		return false
	}
	superseded := c.controller.Active()
	if !c.controller.Request(c.state, target.Clamp(), c.now()) {
		return false
	}
	c.logger.Debug("camera transition started",
		slog.String("target", target.String()),
		slog.Bool("superseded", superseded),
	)
	return true
}

// Tick advances the card by one frame: the transition moves on, visibility
// is re-checked, the tour advances and the surface is redrawn.
func (c *MapCard) Tick(now time.Time) {
	if state, ok := c.controller.Advance(now); ok {
		c.state = state
		if !c.controller.Active() {
			c.dirty = true
			c.tourRests = now
		}
	}

	c.observer.Refresh()
	c.advanceTour(now)

	if c.surface != nil {
		c.surface.Render(c.state, c.Interactive())
	}
}

// PlayTour starts visiting stops in order. The first stop is requested on
// the next tick.
func (c *MapCard) PlayTour(stops []mapview.CameraState) bool {
	if len(stops) == 0 {
		return false
	}
	c.tour = append([]mapview.CameraState(nil), stops...)
	c.tourNext = 0
	c.tourRests = c.now().Add(-TourDwell)
	c.logger.Info("tour started", slog.Int("stops", len(stops)))
	return true
}

// StopTour abandons a running tour. The camera stays where it is.
func (c *MapCard) StopTour() {
	if c.tour == nil {
		return
	}
	c.tour = nil
	c.tourNext = 0
	c.logger.Debug("tour stopped")
}

// Touring reports whether a tour is running.
func (c *MapCard) Touring() bool {
	return c.tour != nil
}

func (c *MapCard) advanceTour(now time.Time) {
	if c.tour == nil || c.controller.Active() || c.dragging {
		return
	}
	if now.Sub(c.tourRests) < TourDwell {
		return
	}
	if c.tourNext >= len(c.tour) {
		c.tour = nil
		c.logger.Info("tour finished")
		return
	}
	target := c.tour[c.tourNext]
	c.tourNext++
	if !c.jump(target) {
		// Pitch and bearing alone do not pass the transition gate; a tour
		// still has to show them, so the stop is applied at once.
		c.state = target
		c.dirty = true
		c.tourRests = now
	}
}

// PersistState stores the live camera. A failure leaves the live state
// untouched; the caller decides how to tell the user.
func (c *MapCard) PersistState(ctx context.Context) error {
	if c.persister == nil {
		return ErrNoPersister
	}
	state := c.state
	if err := c.persister.UpsertCameraState(ctx, c.ID, state); err != nil {
		c.logger.Error("persist camera failed", slog.String("error", err.Error()))
		return fmt.Errorf("persist camera for %s: %w", c.ID, err)
	}
	if c.state == state {
		c.dirty = false
	}
	c.logger.Info("camera persisted", slog.String("state", state.String()))
	return nil
}

// SetVisible feeds a visibility change from the board.
func (c *MapCard) SetVisible(visible bool) {
	c.observer.SetVisible(visible)
}

// Visible reports the last visibility fed to the card.
func (c *MapCard) Visible() bool {
	return c.observer.Visible()
}

// RequestLoad is the "Load Map Now" override. It may evict another map.
func (c *MapCard) RequestLoad() bool {
	ok := c.observer.RequestLoad()
	if !ok {
		c.logger.Warn("manual map load denied")
	}
	return ok
}

// RefreshSurface re-checks the card's slot without advancing time. The
// board calls it when another card evicted this one.
func (c *MapCard) RefreshSurface() {
	c.observer.Refresh()
}

// Close tears the card down and frees its slot.
func (c *MapCard) Close() {
	c.StopTour()
	c.controller.Cancel()
	c.observer.Close()
}
