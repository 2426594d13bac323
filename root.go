package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"filmscout/logging"
	"filmscout/store"
)

func newRootCommand() *cobra.Command {
	var flags rootFlags

	ctx := newCommandContext(&flags)

	rootCmd := &cobra.Command{
		Use:           "filmscout",
		Short:         "Location scouting board with live map cards",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := ctx.ensureSettings()
			return err
		},
	}

	rootCmd.PersistentFlags().StringVarP(&flags.config, "config", "c", "filmscout.yaml", "Settings file path")
	rootCmd.PersistentFlags().StringVar(&flags.database, "db", "", "SQLite database path (overrides settings)")
	rootCmd.PersistentFlags().StringVar(&flags.user, "user", "", "User id for new cards and comments (overrides settings)")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	board := newBoardCommand(ctx)
	rootCmd.RunE = board.RunE
	rootCmd.Flags().AddFlagSet(board.Flags())

	rootCmd.AddCommand(board)
	rootCmd.AddCommand(newSeedCommand(ctx))
	rootCmd.AddCommand(newLocationsCommand(ctx))
	rootCmd.AddCommand(newCardsCommand(ctx))

	return rootCmd
}

type rootFlags struct {
	config   string
	database string
	user     string
	logLevel string
}

type commandContext struct {
	flags *rootFlags

	settingsOnce sync.Once
	settings     Settings
	settingsErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(flags *rootFlags) *commandContext {
	return &commandContext{flags: flags}
}

// ensureSettings loads the settings file once and applies flag overrides.
func (c *commandContext) ensureSettings() (Settings, error) {
	c.settingsOnce.Do(func() {
		s, err := LoadSettings(c.flags.config)
		if err != nil {
			c.settingsErr = err
			return
		}
		if v := strings.TrimSpace(c.flags.database); v != "" {
			s.Database = v
		}
		if v := strings.TrimSpace(c.flags.user); v != "" {
			s.User = v
		}
		if v := strings.TrimSpace(c.flags.logLevel); v != "" {
			s.LogLevel = v
		}
		if err := s.Validate(); err != nil {
			c.settingsErr = fmt.Errorf("settings: %w", err)
			return
		}
		c.settings = s
	})
	return c.settings, c.settingsErr
}

func (c *commandContext) loggerValue() *slog.Logger {
	c.loggerOnce.Do(func() {
		s, _ := c.ensureSettings()
		logger, err := logging.New(logging.Options{Level: s.LogLevel, Format: s.LogFormat, Output: os.Stderr})
		if err != nil {
			fmt.Fprintln(os.Stderr, "logging:", err)
			logger, _ = logging.New(logging.Options{Level: s.LogLevel, Format: "console", Output: os.Stderr})
		}
		c.logger = logger
	})
	return c.logger
}

// withStore opens the database for the duration of fn.
func (c *commandContext) withStore(ctx context.Context, fn func(*store.Store) error) error {
	s, err := c.ensureSettings()
	if err != nil {
		return err
	}
	st, err := store.Open(ctx, s.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			c.loggerValue().Warn("failed to close database", slog.String("error", err.Error()))
		}
	}()
	return fn(st)
}
