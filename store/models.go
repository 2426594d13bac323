package store

import (
	"time"

	"filmscout/mapview"
)

// Production is a film or series being scouted.
type Production struct {
	ID          string
	Title       string
	Type        string
	Year        int
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Location is a filming location belonging to a production.
type Location struct {
	ID           string
	ProductionID string
	Name         string
	Address      string
	Description  string
	Latitude     *float64
	Longitude    *float64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Center returns a camera state centred on the location, or the default
// view when it has no coordinates.
func (l Location) Center() mapview.CameraState {
	if l.Latitude == nil || l.Longitude == nil {
		return mapview.DefaultState
	}
	s := mapview.DefaultState
	s.Latitude = *l.Latitude
	s.Longitude = *l.Longitude
	return s
}

// MapCard is one annotated map view of a location. Content optionally holds
// a tour script.
type MapCard struct {
	ID         string
	LocationID string
	UserID     string
	Title      string
	CardType   string
	Content    string
	ViewState  *mapview.CameraState
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// DisplayTitle falls back to a placeholder for untitled cards.
func (c MapCard) DisplayTitle() string {
	if c.Title == "" {
		return "Untitled Map Card"
	}
	return c.Title
}

// Comment is a note on a map card. ParentID links replies.
type Comment struct {
	ID         string
	LocationID string
	MapCardID  string
	ParentID   string
	UserID     string
	Content    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
