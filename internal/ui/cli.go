package ui

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/javiermolinar/slotwise/internal/config"
	"github.com/javiermolinar/slotwise/internal/db"
	"github.com/javiermolinar/slotwise/internal/planner"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	config  *config.Config
	log     *zap.Logger
	level   zap.AtomicLevel
	repo    *db.SQLite
	planner *planner.Planner
	root    *cobra.Command
	debug   bool   // Enable debug logging
	profile string // Overrides the configured profile
	noColor bool
}

// NewApp creates a new CLI application with the given config and logger.
// The database is opened lazily by the commands that need it.
func NewApp(cfg *config.Config, log *zap.Logger, level zap.AtomicLevel) *App {
	a := &App{config: cfg, log: log, level: level}

	a.root = &cobra.Command{
		Use:   "slotwise",
		Short: "Availability and conflict resolution for your calendar",
		Long: `Slotwise keeps your weekly availability compact and checks new events
against everything already on your calendar.

When a new event collides with an existing commitment it proposes nearby
alternatives and, where possible, a new time for the event in the way.`,
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if a.debug {
				a.level.SetLevel(zapcore.DebugLevel)
			}
			if a.noColor {
				DisableColor()
			}
		},
	}

	// Add global flags
	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging")
	a.root.PersistentFlags().StringVar(&a.profile, "profile", "", "Profile to operate on (default from config)")
	a.root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable color output")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.checkCmd())
	a.root.AddCommand(a.addCmd())
	a.root.AddCommand(a.rescheduleCmd())
	a.root.AddCommand(a.availCmd())
	a.root.AddCommand(a.holidayCmd())
	a.root.AddCommand(a.clearCmd())
	a.root.AddCommand(a.weekCmd())
	a.root.AddCommand(a.combosCmd())
	a.root.AddCommand(a.importCmd())
	a.root.AddCommand(a.exportCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("slotwise %s (commit: %s)\n", Version, Commit)
		},
	}
}

// ensurePlanner opens the database and builds the planner on first use.
func (a *App) ensurePlanner() error {
	if a.planner != nil {
		return nil
	}
	repo, err := db.New(a.config.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	p, err := planner.New(repo, a.config, a.log)
	if err != nil {
		_ = repo.Close()
		return err
	}
	a.repo = repo
	a.planner = p
	a.log.Debug("opened database", zap.String("path", a.config.Storage.DBPath))
	return nil
}

// currentProfile returns the profile selected by flag or config.
func (a *App) currentProfile() string {
	if a.profile != "" {
		return a.profile
	}
	return a.config.Storage.Profile
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// Close releases the database if it was opened.
func (a *App) Close() error {
	if a.repo == nil {
		return nil
	}
	return a.repo.Close()
}
