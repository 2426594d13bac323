package main

import (
	"context"
	"fmt"

	"filmscout/comments"
	"filmscout/mapview"
	"filmscout/store"
)

// harborTour flies around the pier before settling on the rooftop.
const harborTour = `stops = [
    {"zoom": 16, "pitch": 0, "bearing": 0},
    {"zoom": 17.5, "pitch": 55},
]
for b in [45, 135, 225]:
    stops.append({"bearing": b})
stops.append({"longitude": start["longitude"], "latitude": start["latitude"], "zoom": 18, "pitch": 60, "bearing": 300})
`

type seedCard struct {
	title   string
	view    mapview.CameraState
	content string
	notes   []seedComment
}

type seedComment struct {
	user    string
	body    string
	replies []seedComment
}

type seedLocation struct {
	name    string
	address string
	lat     float64
	lng     float64
	cards   []seedCard
}

// SeedSummary counts what seedDemo inserted.
type SeedSummary struct {
	Productions int
	Locations   int
	Cards       int
	Comments    int
}

func seedView(lng, lat, zoom, pitch, bearing float64) mapview.CameraState {
	return mapview.CameraState{Longitude: lng, Latitude: lat, Zoom: zoom, Pitch: pitch, Bearing: bearing}
}

func demoLocations() []seedLocation {
	return []seedLocation{
		{
			name:    "Pier 17 Rooftop",
			address: "89 South St, New York, NY",
			lat:     40.7063,
			lng:     -74.0017,
			cards: []seedCard{
				{
					title:   "Rooftop establishing shot",
					view:    seedView(-74.0017, 40.7063, 17, 45, 300),
					content: harborTour,
					notes: []seedComment{
						{user: "dp", body: "Sunset from here is unreal. Compare with " + comments.Bookmark("the bridge angle", seedView(-73.9969, 40.7061, 16.5, 60, 20)), replies: []seedComment{
							{user: "producer", body: "Permit covers the roof until 9pm."},
						}},
						{user: "locations", body: "Loading dock is " + comments.Bookmark("round the back", seedView(-74.0021, 40.7058, 18.5, 0, 0)) + ", trucks fit."},
					},
				},
				{
					title: "Street level",
					view:  seedView(-74.0030, 40.7068, 18, 0, 0),
				},
			},
		},
		{
			name:    "Old Customs House",
			address: "1 Bowling Green, New York, NY",
			lat:     40.7043,
			lng:     -74.0134,
			cards: []seedCard{
				{
					title: "Facade",
					view:  seedView(-74.0134, 40.7043, 18, 30, 180),
					notes: []seedComment{
						{user: "director", body: "Open on the steps, push in to " + comments.Bookmark("the doors", seedView(-74.0134, 40.7041, 19.5, 20, 180)) + "."},
					},
				},
				{
					title: "Park side",
					view:  seedView(-74.0139, 40.7050, 17, 0, 90),
				},
				{
					title: "Wide",
				},
			},
		},
		{
			name:    "Brooklyn Bridge Approach",
			address: "Brooklyn Bridge, New York, NY",
			lat:     40.7061,
			lng:     -73.9969,
			cards: []seedCard{
				{
					title: "Walkway",
					view:  seedView(-73.9969, 40.7061, 16.5, 60, 20),
				},
			},
		},
	}
}

// seedDemo inserts a demo production with locations, map cards and
// comment threads owned by user.
func seedDemo(ctx context.Context, st *store.Store, user string) (SeedSummary, error) {
	var sum SeedSummary

	prod, err := st.CreateProduction(ctx, store.Production{
		Title:       "Harbor Lights",
		Type:        "film",
		Year:        2026,
		Description: "Night shoot along the lower Manhattan waterfront.",
	})
	if err != nil {
		return sum, err
	}
	sum.Productions++

	for _, sl := range demoLocations() {
		lat, lng := sl.lat, sl.lng
		loc, err := st.CreateLocation(ctx, store.Location{
			ProductionID: prod.ID,
			Name:         sl.name,
			Address:      sl.address,
			Latitude:     &lat,
			Longitude:    &lng,
		})
		if err != nil {
			return sum, fmt.Errorf("seed location %s: %w", sl.name, err)
		}
		sum.Locations++

		for _, sc := range sl.cards {
			rec := store.MapCard{
				LocationID: loc.ID,
				UserID:     user,
				Title:      sc.title,
				Content:    sc.content,
			}
			if sc.view != (mapview.CameraState{}) {
				v := sc.view
				rec.ViewState = &v
			}
			card, err := st.CreateMapCard(ctx, rec)
			if err != nil {
				return sum, fmt.Errorf("seed card %s: %w", sc.title, err)
			}
			sum.Cards++

			n, err := seedComments(ctx, st, card, "", sc.notes)
			sum.Comments += n
			if err != nil {
				return sum, err
			}
		}
	}
	return sum, nil
}

func seedComments(ctx context.Context, st *store.Store, card *store.MapCard, parentID string, notes []seedComment) (int, error) {
	count := 0
	for _, note := range notes {
		c, err := st.AddComment(ctx, store.Comment{
			LocationID: card.LocationID,
			MapCardID:  card.ID,
			ParentID:   parentID,
			UserID:     note.user,
			Content:    note.body,
		})
		if err != nil {
			return count, fmt.Errorf("seed comment on %s: %w", card.Title, err)
		}
		count++
		n, err := seedComments(ctx, st, card, c.ID, note.replies)
		count += n
		if err != nil {
			return count, err
		}
	}
	return count, nil
}
