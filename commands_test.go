package main

import (
	"context"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"filmscout/comments"
	"filmscout/engine"
	"filmscout/store"
)

func openSeededStore(t *testing.T) (*store.Store, SeedSummary) {
	t.Helper()
	ctx := context.Background()
	st, err := store.Open(ctx, filepath.Join(t.TempDir(), "filmscout.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	sum, err := seedDemo(ctx, st, "ana")
	if err != nil {
		t.Fatalf("seedDemo: %v", err)
	}
	return st, sum
}

func findLocation(t *testing.T, st *store.Store, name string) store.Location {
	t.Helper()
	locs, err := st.ListLocations(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	for _, l := range locs {
		if l.Name == name {
			return l
		}
	}
	t.Fatalf("location %q not seeded", name)
	return store.Location{}
}

func TestSeedDemo(t *testing.T) {
	st, sum := openSeededStore(t)
	want := SeedSummary{Productions: 1, Locations: 3, Cards: 6, Comments: 4}
	if sum != want {
		t.Fatalf("summary = %+v, want %+v", sum, want)
	}

	ctx := context.Background()
	pier := findLocation(t, st, "Pier 17 Rooftop")
	cards, err := st.ListMapCards(ctx, pier.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(cards) != 2 || cards[0].Title != "Rooftop establishing shot" {
		t.Fatalf("pier cards = %+v", cards)
	}

	list, err := st.ListComments(ctx, cards[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	thread := comments.Thread(list)
	if len(thread) != 3 {
		t.Fatalf("thread has %d entries", len(thread))
	}
	replies := 0
	for _, e := range thread {
		if e.Depth == 1 {
			replies++
		}
	}
	if replies != 1 {
		t.Errorf("expected one reply, got %d", replies)
	}

	marks := 0
	for _, c := range list {
		marks += len(comments.Bookmarks(c.Content))
	}
	if marks != 2 {
		t.Errorf("bookmarks = %d, want 2", marks)
	}
}

func TestSeededTourRuns(t *testing.T) {
	st, _ := openSeededStore(t)
	pier := findLocation(t, st, "Pier 17 Rooftop")
	cards, err := st.ListMapCards(context.Background(), pier.ID)
	if err != nil {
		t.Fatal(err)
	}
	card := cards[0]

	stops, err := engine.RunTour(card.ID, card.Content, *card.ViewState)
	if err != nil {
		t.Fatalf("RunTour: %v", err)
	}
	if len(stops) != 6 {
		t.Fatalf("stops = %d, want 6", len(stops))
	}
	last := stops[len(stops)-1]
	if math.Abs(last.Longitude-card.ViewState.Longitude) > 1e-9 || last.Zoom != 18 || last.Bearing != -60 {
		t.Errorf("last stop = %v", last)
	}
}

func TestLocationAndCardTables(t *testing.T) {
	st, _ := openSeededStore(t)
	ctx := context.Background()

	out, err := locationsTable(ctx, st)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Pier 17 Rooftop", "Old Customs House", "Harbor Lights", "40.7063, -74.0017"} {
		if !strings.Contains(out, want) {
			t.Errorf("locations table missing %q:\n%s", want, out)
		}
	}

	customs := findLocation(t, st, "Old Customs House")
	out, err = cardsTable(ctx, st, customs.ID)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Facade", "Park side", "Wide", "ana"} {
		if !strings.Contains(out, want) {
			t.Errorf("cards table missing %q:\n%s", want, out)
		}
	}

	if _, err := cardsTable(ctx, st, "missing"); err == nil {
		t.Error("expected an error for an unknown location")
	}
}

func TestPickLocation(t *testing.T) {
	st, _ := openSeededStore(t)
	ctx := context.Background()
	customs := findLocation(t, st, "Old Customs House")

	if id, _ := pickLocation(ctx, st, "flagged", customs.ID); id != "flagged" {
		t.Errorf("flag not preferred: %q", id)
	}
	if id, _ := pickLocation(ctx, st, "", customs.ID); id != customs.ID {
		t.Errorf("last location not used: %q", id)
	}
	// A stale last location falls back to the first by name.
	id, err := pickLocation(ctx, st, "", "gone")
	if err != nil {
		t.Fatal(err)
	}
	if first := findLocation(t, st, "Brooklyn Bridge Approach"); id != first.ID {
		t.Errorf("fallback = %q, want %q", id, first.ID)
	}
}

func TestPickLocationEmptyStore(t *testing.T) {
	st, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "empty.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()
	if _, err := pickLocation(context.Background(), st, "", ""); err == nil {
		t.Fatal("expected an error with no locations")
	}
}
