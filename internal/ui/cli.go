package ui

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/turno/internal/cache"
	"github.com/javiermolinar/turno/internal/config"
	"github.com/javiermolinar/turno/internal/slot"
	"github.com/javiermolinar/turno/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	store     slot.Store
	snapshots *cache.SQLite // nil when the snapshot DB could not be opened
	config    *config.Config
	root      *cobra.Command
	debug     bool // Enable debug logging
}

// NewApp creates a new CLI application with the given slot store and config.
func NewApp(store slot.Store, snapshots *cache.SQLite, cfg *config.Config) *App {
	a := &App{store: store, snapshots: snapshots, config: cfg}

	a.root = &cobra.Command{
		Use:   "turno",
		Short: "A terminal client for managing your booking availability",
		Long: `Turno is a terminal client for service providers to manage their
weekly booking availability.

Running it without a subcommand opens the interactive week grid.
Subcommands cover quick one-shot edits: open or block single slots,
batch updates, working patterns, and booking lookups.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return tui.RunWithDebug(a.store, a.snapshots, a.config, a.debug)
		},
	}

	// Add global flags
	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging (logs to temp file)")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.weekCmd())
	a.root.AddCommand(a.initCmd())
	a.root.AddCommand(a.openCmd())
	a.root.AddCommand(a.blockCmd())
	a.root.AddCommand(a.batchCmd())
	a.root.AddCommand(a.patternCmd())
	a.root.AddCommand(a.bookingCmd())
	a.root.AddCommand(a.nextCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("turno %s (commit: %s)\n", Version, Commit)
		},
	}
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}
