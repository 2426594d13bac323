package engine

import (
	"sync"

	"filmscout/mapview"
)

// TourCache remembers the last tour computed for each card so an unchanged
// script is not executed again.
type TourCache struct {
	mu      sync.Mutex
	entries map[string]tourEntry
	runs    int
}

type tourEntry struct {
	hash  string
	stops []mapview.CameraState
}

// NewTourCache creates an empty cache.
func NewTourCache() *TourCache {
	return &TourCache{entries: make(map[string]tourEntry)}
}

// Tour returns the stops for cardID, running script only when the script or
// start view changed since the last call. Errors are not cached.
func (c *TourCache) Tour(cardID, script string, start mapview.CameraState) ([]mapview.CameraState, error) {
	hash := ScriptHash(cardID, script, start)

	c.mu.Lock()
	if e, ok := c.entries[cardID]; ok && e.hash == hash {
		c.mu.Unlock()
		return append([]mapview.CameraState(nil), e.stops...), nil
	}
	c.mu.Unlock()

	stops, err := RunTour(cardID, script, start)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[cardID] = tourEntry{hash: hash, stops: stops}
	c.runs++
	c.mu.Unlock()
	return append([]mapview.CameraState(nil), stops...), nil
}

// Forget drops the cached tour of a card.
func (c *TourCache) Forget(cardID string) {
	c.mu.Lock()
	delete(c.entries, cardID)
	c.mu.Unlock()
}

// Runs reports how many scripts were actually executed.
func (c *TourCache) Runs() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.runs
}
