package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"filmscout/prefs"
	"filmscout/store"
)

const appName = "filmscout"

func newBoardCommand(ctx *commandContext) *cobra.Command {
	var locationID string
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Open the map card board for a location",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBoard(cmd.Context(), ctx, locationID)
		},
	}
	cmd.Flags().StringVarP(&locationID, "location", "l", "", "Location id (defaults to the last opened location)")
	return cmd
}

func runBoard(ctx context.Context, cc *commandContext, locationID string) error {
	s, err := cc.ensureSettings()
	if err != nil {
		return err
	}
	logger := cc.loggerValue()

	lock, err := acquireBoardLock(s.Database)
	if err != nil {
		return err
	}
	defer lock.Release(logger)

	data, err := prefs.Open(appName)
	if err != nil {
		logger.Warn("preferences will not be saved", slog.String("error", err.Error()))
		data = nil
	}
	p := prefs.New(data, logger)

	return cc.withStore(ctx, func(st *store.Store) error {
		id, err := pickLocation(ctx, st, strings.TrimSpace(locationID), p.LastLocation())
		if err != nil {
			return err
		}

		g, err := NewGame(ctx, GameOptions{
			Settings:   s,
			Store:      st,
			Prefs:      p,
			Logger:     logger,
			LocationID: id,
			Face:       LoadUIFont(s.FontPath, logger),
		})
		if err != nil {
			return err
		}

		ebiten.SetWindowSize(1280, 800)
		ebiten.SetWindowTitle("FilmScout - " + g.location.Name)
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

		runErr := ebiten.RunGame(g)
		g.Shutdown()
		return runErr
	})
}

// pickLocation resolves the location to open: the flag, then the last one
// opened if it still exists, then the first location.
func pickLocation(ctx context.Context, st *store.Store, flag, last string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if last != "" {
		_, err := st.GetLocation(ctx, last)
		if err == nil {
			return last, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return "", err
		}
	}
	locs, err := st.ListLocations(ctx, "")
	if err != nil {
		return "", err
	}
	if len(locs) == 0 {
		return "", errors.New("no locations yet; run `filmscout seed` to add demo data")
	}
	return locs[0].ID, nil
}

func newSeedCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert a demo production with locations, map cards and comments",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.ensureSettings()
			if err != nil {
				return err
			}
			return ctx.withStore(cmd.Context(), func(st *store.Store) error {
				sum, err := seedDemo(cmd.Context(), st, s.User)
				if err != nil {
					return err
				}
				ctx.loggerValue().Info("demo data seeded",
					slog.Int("locations", sum.Locations),
					slog.Int("cards", sum.Cards),
					slog.Int("comments", sum.Comments),
				)
				fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d production, %d locations, %d map cards, %d comments into %s\n",
					sum.Productions, sum.Locations, sum.Cards, sum.Comments, s.Database)
				return nil
			})
		},
	}
}

func newLocationsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "locations",
		Short: "List locations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd.Context(), func(st *store.Store) error {
				out, err := locationsTable(cmd.Context(), st)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}
}

func locationsTable(ctx context.Context, st *store.Store) (string, error) {
	prods, err := st.ListProductions(ctx)
	if err != nil {
		return "", err
	}
	titles := make(map[string]string, len(prods))
	for _, p := range prods {
		titles[p.ID] = p.Title
	}

	locs, err := st.ListLocations(ctx, "")
	if err != nil {
		return "", err
	}
	if len(locs) == 0 {
		return "No locations.", nil
	}

	rows := make([][]string, 0, len(locs))
	for _, l := range locs {
		coords := "-"
		if l.Latitude != nil && l.Longitude != nil {
			coords = fmt.Sprintf("%.4f, %.4f", *l.Latitude, *l.Longitude)
		}
		rows = append(rows, []string{l.ID, l.Name, titles[l.ProductionID], coords})
	}
	return renderTable(
		[]string{"ID", "Name", "Production", "Lat, Lng"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
	), nil
}

func newCardsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "cards <location-id>",
		Short: "List the map cards of a location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd.Context(), func(st *store.Store) error {
				out, err := cardsTable(cmd.Context(), st, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}
}

func cardsTable(ctx context.Context, st *store.Store, locationID string) (string, error) {
	if _, err := st.GetLocation(ctx, locationID); err != nil {
		return "", fmt.Errorf("location %s: %w", locationID, err)
	}
	cards, err := st.ListMapCards(ctx, locationID)
	if err != nil {
		return "", err
	}
	if len(cards) == 0 {
		return "No map cards.", nil
	}

	rows := make([][]string, 0, len(cards))
	for _, c := range cards {
		view := "-"
		if c.ViewState != nil {
			view = c.ViewState.String()
		}
		list, err := st.ListComments(ctx, c.ID)
		if err != nil {
			return "", err
		}
		rows = append(rows, []string{c.ID, c.DisplayTitle(), c.UserID, yesNo(strings.TrimSpace(c.Content) != ""), fmt.Sprint(len(list)), view})
	}
	return renderTable(
		[]string{"ID", "Title", "Owner", "Tour", "Comments", "View"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	), nil
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
