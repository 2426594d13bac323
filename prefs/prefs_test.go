package prefs

import (
	"testing"

	"github.com/quasilyte/gdata/v2"
)

func openTestData(t *testing.T, name string) *gdata.Manager {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	m, err := gdata.Open(gdata.Config{AppName: name})
	if err != nil {
		t.Fatalf("Failed to create gdata manager: %v", err)
	}
	return m
}

func TestNilDataKeepsPrefsInMemory(t *testing.T) {
	p := New(nil, nil)
	if p.Persistent() {
		t.Error("expected in-memory preferences")
	}
	if err := p.SetLastLocation("loc-1"); err != nil {
		t.Fatalf("SetLastLocation: %v", err)
	}
	if p.LastLocation() != "loc-1" {
		t.Errorf("LastLocation = %q", p.LastLocation())
	}
	if err := p.SaveLayout("loc-1", []byte("cards: []")); err != nil {
		t.Fatalf("SaveLayout: %v", err)
	}
	raw, ok, err := p.Layout("loc-1")
	if err != nil || !ok || string(raw) != "cards: []" {
		t.Errorf("Layout = %q ok=%v err=%v", raw, ok, err)
	}
}

func TestPrefsSurviveReopen(t *testing.T) {
	data := openTestData(t, "filmscout_prefs_test")

	p := New(data, nil)
	if p.LastLocation() != "" {
		t.Errorf("fresh LastLocation = %q", p.LastLocation())
	}
	if err := p.SetLastLocation("loc-2"); err != nil {
		t.Fatalf("SetLastLocation: %v", err)
	}
	if err := p.SaveLayout("loc-2", []byte("camera: {}")); err != nil {
		t.Fatalf("SaveLayout: %v", err)
	}

	reopened := New(data, nil)
	if reopened.LastLocation() != "loc-2" {
		t.Errorf("LastLocation after reopen = %q", reopened.LastLocation())
	}
	raw, ok, err := reopened.Layout("loc-2")
	if err != nil || !ok || string(raw) != "camera: {}" {
		t.Errorf("Layout after reopen = %q ok=%v err=%v", raw, ok, err)
	}
	if _, ok, _ := reopened.Layout("other"); ok {
		t.Error("expected no layout for an unknown location")
	}
}
