// Package prefs keeps per-user board preferences in the platform data
// directory: the last opened location and the board layout of each location.
//
// A nil gdata manager keeps everything in memory, so the board still works
// where no data directory is available.
package prefs

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"

	"filmscout/logging"
)

const (
	userObject   = "prefs"
	userProperty = "user"
	layoutObject = "layout"
)

// User holds the per-user preferences.
type User struct {
	LastLocation string `yaml:"lastLocation"`
}

// Prefs reads and writes preferences.
type Prefs struct {
	mu      sync.Mutex
	data    *gdata.Manager
	user    User
	layouts map[string][]byte
	logger  *slog.Logger
}

// Open opens the data directory for appName.
func Open(appName string) (*gdata.Manager, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("open data dir: %w", err)
	}
	return m, nil
}

// New creates preferences backed by data, which may be nil. A failed load
// is logged and leaves defaults in place.
func New(data *gdata.Manager, logger *slog.Logger) *Prefs {
	p := &Prefs{
		data:    data,
		layouts: make(map[string][]byte),
		logger:  logging.OrDiscard(logger),
	}
	if err := p.load(); err != nil {
		p.logger.Warn("failed to load preferences; using defaults", slog.String("error", err.Error()))
	}
	return p
}

// Persistent reports whether preferences survive a restart.
func (p *Prefs) Persistent() bool {
	return p.data != nil
}

func (p *Prefs) load() error {
	if p.data == nil || !p.data.ObjectPropExists(userObject, userProperty) {
		return nil
	}
	raw, err := p.data.LoadObjectProp(userObject, userProperty)
	if err != nil {
		return fmt.Errorf("load preferences: %w", err)
	}
	var u User
	if err := yaml.Unmarshal(raw, &u); err != nil {
		return fmt.Errorf("unmarshal preferences: %w", err)
	}
	p.user = u
	return nil
}

// LastLocation returns the location opened most recently, or "".
func (p *Prefs) LastLocation() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.user.LastLocation
}

// SetLastLocation records id as the last opened location and saves.
func (p *Prefs) SetLastLocation(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.user.LastLocation = id
	if p.data == nil {
		return nil
	}
	raw, err := yaml.Marshal(p.user)
	if err != nil {
		return fmt.Errorf("marshal preferences: %w", err)
	}
	if err := p.data.SaveObjectProp(userObject, userProperty, raw); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}

// Layout returns the saved board layout of a location.
func (p *Prefs) Layout(locationID string) ([]byte, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if raw, ok := p.layouts[locationID]; ok {
		return raw, true, nil
	}
	if p.data == nil || !p.data.ObjectPropExists(layoutObject, locationID) {
		return nil, false, nil
	}
	raw, err := p.data.LoadObjectProp(layoutObject, locationID)
	if err != nil {
		return nil, false, fmt.Errorf("load layout %s: %w", locationID, err)
	}
	p.layouts[locationID] = raw
	return raw, true, nil
}

// SaveLayout stores the board layout of a location.
func (p *Prefs) SaveLayout(locationID string, raw []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.layouts[locationID] = append([]byte(nil), raw...)
	if p.data == nil {
		return nil
	}
	if err := p.data.SaveObjectProp(layoutObject, locationID, raw); err != nil {
		return fmt.Errorf("save layout %s: %w", locationID, err)
	}
	return nil
}
