package surface

import (
	"log/slog"
	"sync"
	"time"

	"filmscout/logging"
)

// DefaultMaxInstances is the number of map surfaces allowed to be live at once.
const DefaultMaxInstances = 4

// Instance is one admitted slot in the table.
type Instance struct {
	ID          string
	LastVisible time.Time
}

// Manager enforces a ceiling on concurrently mounted surfaces and evicts the
// least recently visible instance to admit a new one.
type Manager struct {
	mu      sync.Mutex
	max     int
	now     func() time.Time
	onEvict func(id string)
	logger  *slog.Logger

	slots map[string]*Instance
	order []string // admission order, used for tie-breaks
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithEvictHook registers a callback run after an instance is evicted.
// The hook runs without the table lock held, so it may call back into the manager.
func WithEvictHook(fn func(id string)) Option {
	return func(m *Manager) {
		m.onEvict = fn
	}
}

// WithLogger sets the logger used for admission decisions.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager creates a manager admitting at most max instances.
func NewManager(max int, opts ...Option) *Manager {
	m := &Manager{
		max:    max,
		now:    time.Now,
		logger: logging.Discard(),
		slots:  make(map[string]*Instance),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// CanAdmit reports whether id holds a slot or the table has room.
func (m *Manager) CanAdmit(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.slots[id]; ok {
		return true
	}
	return len(m.slots) < m.max
}

// Admit grants id a slot, evicting the least recently visible instance when
// the table is full. Admitting an id that already holds a slot is a no-op
// that returns true.
func (m *Manager) Admit(id string) bool {
	m.mu.Lock()
	if _, ok := m.slots[id]; ok {
		m.mu.Unlock()
		return true
	}

	evicted := ""
	if len(m.slots) >= m.max {
		evicted = m.oldestLocked()
		if evicted == "" {
			m.mu.Unlock()
			m.logger.Warn("surface admission denied: no instance to evict",
				slog.String("instance", id),
				slog.Int("max", m.max),
				slog.Int("live", len(m.slots)),
			)
			return false
		}
		m.removeLocked(evicted)
	}

	m.slots[id] = &Instance{ID: id, LastVisible: m.now()}
	m.order = append(m.order, id)
	live := len(m.slots)
	hook := m.onEvict
	m.mu.Unlock()

	if evicted != "" {
		m.logger.Info("surface evicted",
			slog.String("instance", evicted),
			slog.String("admitted", id),
		)
		if hook != nil {
			hook(evicted)
		}
	}
	m.logger.Debug("surface admitted", slog.String("instance", id), slog.Int("live", live))
	return true
}

// Release frees id's slot. Releasing an id without a slot does nothing.
func (m *Manager) Release(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.slots[id]; !ok {
		return
	}
	m.removeLocked(id)
	m.logger.Debug("surface released", slog.String("instance", id), slog.Int("live", len(m.slots)))
}

// MarkVisible refreshes id's recency. Ids without a slot are ignored: a
// visibility signal can race with the eviction that just removed it.
func (m *Manager) MarkVisible(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if inst, ok := m.slots[id]; ok {
		inst.LastVisible = m.now()
	}
}

// Holds reports whether id currently has a slot.
func (m *Manager) Holds(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.slots[id]
	return ok
}

// Len returns the number of live instances.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.slots)
}

// Max returns the ceiling.
func (m *Manager) Max() int {
	return m.max
}

// IDs returns the live instance ids in admission order. It is meant for
// diagnostics.
func (m *Manager) IDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Instance returns a copy of id's slot, for diagnostics.
func (m *Manager) Instance(id string) (Instance, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inst, ok := m.slots[id]
	if !ok {
		return Instance{}, false
	}
	return *inst, true
}

// oldestLocked picks the minimum LastVisible; ties go to the earliest admitted.
func (m *Manager) oldestLocked() string {
	oldest := ""
	var oldestTime time.Time
	for _, id := range m.order {
		inst, ok := m.slots[id]
		if !ok {
			continue
		}
		if oldest == "" || inst.LastVisible.Before(oldestTime) {
			oldest = id
			oldestTime = inst.LastVisible
		}
	}
	return oldest
}

func (m *Manager) removeLocked(id string) {
	delete(m.slots, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}
