package mapview

import (
	"math"
	"time"
)

// Transition defaults.
const (
	DefaultDuration = 1000 * time.Millisecond
	EpsilonLngLat   = 0.001
	EpsilonZoom     = 0.1
)

// EaseOutCubic starts fast and settles slowly.
func EaseOutCubic(p float64) float64 {
	q := 1 - p
	return 1 - q*q*q
}

// TransitionJob is one animated move between two camera states.
type TransitionJob struct {
	Start    CameraState
	Target   CameraState
	Started  time.Time
	Duration time.Duration
}

// Progress returns the clamped linear progress at now.
func (j TransitionJob) Progress(now time.Time) float64 {
	if j.Duration <= 0 {
		return 1
	}
	p := float64(now.Sub(j.Started)) / float64(j.Duration)
	return math.Max(0, math.Min(1, p))
}

// At returns the eased frame at now.
func (j TransitionJob) At(now time.Time) CameraState {
	p := j.Progress(now)
	if p >= 1 {
		return j.Target
	}
	return Lerp(j.Start, j.Target, EaseOutCubic(p))
}

// Controller animates externally requested camera jumps. It holds at most
// one job; a new request replaces the one in flight. User-driven camera
// changes never go through it.
type Controller struct {
	duration  time.Duration
	epsLngLat float64
	epsZoom   float64

	job    TransitionJob
	active bool
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithDuration overrides the transition length.
func WithDuration(d time.Duration) ControllerOption {
	return func(c *Controller) {
		if d > 0 {
			c.duration = d
		}
	}
}

// WithEpsilon overrides the significance gate.
func WithEpsilon(lngLat, zoom float64) ControllerOption {
	return func(c *Controller) {
		c.epsLngLat = lngLat
		c.epsZoom = zoom
	}
}

func NewController(opts ...ControllerOption) *Controller {
	c := &Controller{
		duration:  DefaultDuration,
		epsLngLat: EpsilonLngLat,
		epsZoom:   EpsilonZoom,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Significant reports whether moving from current to target is worth animating.
// Only position and zoom are compared.
func (c *Controller) Significant(current, target CameraState) bool {
	return math.Abs(target.Longitude-current.Longitude) > c.epsLngLat ||
		math.Abs(target.Latitude-current.Latitude) > c.epsLngLat ||
		math.Abs(target.Zoom-current.Zoom) > c.epsZoom
}

// Request starts a transition from current to target at now, cancelling any
// job in flight. It returns false when the move is below the significance
// gate, in which case nothing changes.
func (c *Controller) Request(current, target CameraState, now time.Time) bool {
	if !c.Significant(current, target) {
		return false
	}
	c.job = TransitionJob{
		Start:    current,
		Target:   target,
		Started:  now,
		Duration: c.duration,
	}
	c.active = true
	return true
}

// Advance computes the frame for now. The second result is false when no
// job is running. The final frame equals the target exactly and leaves the
// controller idle.
func (c *Controller) Advance(now time.Time) (CameraState, bool) {
	if !c.active {
		return CameraState{}, false
	}
	if c.job.Progress(now) >= 1 {
		c.active = false
		return c.job.Target, true
	}
	return c.job.At(now), true
}

// Cancel drops the job in flight.
func (c *Controller) Cancel() {
	c.active = false
	c.job = TransitionJob{}
}

func (c *Controller) Active() bool {
	return c.active
}

// Job returns the job in flight.
func (c *Controller) Job() (TransitionJob, bool) {
	return c.job, c.active
}

// Duration returns the length given to new transitions.
func (c *Controller) Duration() time.Duration {
	return c.duration
}
