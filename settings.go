package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"filmscout/surface"
	"filmscout/viewport"
)

// Settings is the user-editable configuration file.
type Settings struct {
	MaxInstances        int     `yaml:"max_instances"`
	TransitionMS        int     `yaml:"transition_ms"`
	VisibilityThreshold float64 `yaml:"visibility_threshold"`
	PrerollMargin       float64 `yaml:"preroll_margin"`
	Database            string  `yaml:"database"`
	User                string  `yaml:"user"`
	LogLevel            string  `yaml:"log_level"`
	LogFormat           string  `yaml:"log_format"`
	FontPath            string  `yaml:"font_path"`
}

// DefaultSettings returns the settings used when no file exists.
func DefaultSettings() Settings {
	return Settings{
		MaxInstances:        surface.DefaultMaxInstances,
		TransitionMS:        1000,
		VisibilityThreshold: viewport.DefaultThreshold,
		PrerollMargin:       viewport.DefaultMargin,
		Database:            "filmscout.db",
		User:                "local",
		LogLevel:            "info",
		LogFormat:           "auto",
		FontPath:            "fonts/Roboto-Regular.ttf",
	}
}

// LoadSettings reads path over the defaults. A missing file is not an
// error; fields left out of the file keep their defaults.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	path = strings.TrimSpace(path)
	if path == "" {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("read settings: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parse settings %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("settings %s: %w", path, err)
	}
	return s, nil
}

// Validate rejects settings the board cannot run with.
func (s Settings) Validate() error {
	switch {
	case s.MaxInstances <= 0:
		return fmt.Errorf("max_instances must be positive, got %d", s.MaxInstances)
	case s.TransitionMS <= 0:
		return fmt.Errorf("transition_ms must be positive, got %d", s.TransitionMS)
	case s.VisibilityThreshold <= 0 || s.VisibilityThreshold > 1:
		return fmt.Errorf("visibility_threshold must be in (0, 1], got %v", s.VisibilityThreshold)
	case s.PrerollMargin < 0:
		return fmt.Errorf("preroll_margin must not be negative, got %v", s.PrerollMargin)
	case strings.TrimSpace(s.Database) == "":
		return errors.New("database must be set")
	case strings.TrimSpace(s.User) == "":
		return errors.New("user must be set")
	}
	return nil
}
