package surface

// State is the mount state of one card's surface.
type State int

const (
	Unmounted State = iota
	AwaitingAdmission
	Mounted
	Denied
)

func (s State) String() string {
	switch s {
	case Unmounted:
		return "unmounted"
	case AwaitingAdmission:
		return "awaiting-admission"
	case Mounted:
		return "mounted"
	case Denied:
		return "denied"
	}
	return "unknown"
}

// Admitter is the part of Manager an Observer needs.
type Admitter interface {
	CanAdmit(id string) bool
	Admit(id string) bool
	Release(id string)
	MarkVisible(id string)
	Holds(id string) bool
}

// Handlers are called when the observer decides the surface should appear
// or go away. Either may be nil.
type Handlers struct {
	OnMount   func()
	OnUnmount func()
}

// Observer turns visibility signals for one card into admission requests.
//
// Scrolling into view only mounts when the table has room; it never evicts
// another card. RequestLoad is the user override and may evict the least
// recently visible surface.
type Observer struct {
	id       string
	admitter Admitter
	handlers Handlers

	state   State
	visible bool
}

// NewObserver creates an observer for the instance id.
func NewObserver(id string, a Admitter, h Handlers) *Observer {
	return &Observer{id: id, admitter: a, handlers: h}
}

// ID returns the instance id.
func (o *Observer) ID() string {
	return o.id
}

func (o *Observer) State() State {
	return o.state
}

func (o *Observer) Visible() bool {
	return o.visible
}

func (o *Observer) Mounted() bool {
	return o.state == Mounted
}

// SetVisible feeds a visibility transition from the signal provider.
func (o *Observer) SetVisible(visible bool) {
	if visible == o.visible {
		return
	}
	o.visible = visible

	if !visible {
		switch o.state {
		case Mounted:
			o.admitter.Release(o.id)
			o.unmount()
		case Denied, AwaitingAdmission:
			o.state = Unmounted
		}
		return
	}

	if o.state == Unmounted || o.state == Denied {
		o.state = AwaitingAdmission
		if o.admitter.CanAdmit(o.id) && o.admitter.Admit(o.id) {
			o.mount()
			return
		}
		o.state = Denied
	}
}

// Refresh is the per-frame re-check. A mounted, visible surface keeps its
// recency fresh; a surface whose slot was evicted is torn down; a denied
// placeholder still in view retries once room opens up.
func (o *Observer) Refresh() {
	switch o.state {
	case Mounted:
		if !o.admitter.Holds(o.id) {
			o.unmount()
			if o.visible {
				o.state = Denied
			}
			return
		}
		if o.visible {
			o.admitter.MarkVisible(o.id)
		}
	case Denied:
		if o.visible && o.admitter.CanAdmit(o.id) && o.admitter.Admit(o.id) {
			o.mount()
		}
	}
}

// RequestLoad is the manual "load map now" override. Unlike the automatic
// path it skips CanAdmit and goes straight to Admit, so a full table evicts
// the least recently visible surface instead of leaving the card Denied.
func (o *Observer) RequestLoad() bool {
	if o.state == Mounted {
		return true
	}
	o.state = AwaitingAdmission
	if o.admitter.Admit(o.id) {
		o.mount()
		return true
	}
	o.state = Denied
	return false
}

// Close releases the slot unconditionally. Safe to call more than once.
func (o *Observer) Close() {
	o.admitter.Release(o.id)
	if o.state == Mounted {
		o.unmount()
	}
	o.state = Unmounted
	o.visible = false
}

func (o *Observer) mount() {
	o.state = Mounted
	if o.handlers.OnMount != nil {
		o.handlers.OnMount()
	}
}

func (o *Observer) unmount() {
	o.state = Unmounted
	if o.handlers.OnUnmount != nil {
		o.handlers.OnUnmount()
	}
}
