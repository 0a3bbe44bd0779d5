package main

import (
	"fmt"
	"os"

	"github.com/javiermolinar/turno/internal/api"
	"github.com/javiermolinar/turno/internal/cache"
	"github.com/javiermolinar/turno/internal/config"
	"github.com/javiermolinar/turno/internal/ui"
)

func main() {
	if err := run(); err != nil {
		// UserMessage maps API failures to actionable text and passes
		// everything else through unchanged.
		fmt.Fprintf(os.Stderr, "error: %s\n", api.UserMessage(err))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store := api.New(cfg.API.BaseURL, cfg.API.Token)

	// The snapshot database is an offline fallback only. When it cannot be
	// opened the client still works against the API.
	snapshots, err := cache.New(cfg.Cache.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: snapshot cache unavailable: %v\n", err)
		snapshots = nil
	} else {
		defer func() { _ = snapshots.Close() }()
	}

	return ui.NewApp(store, snapshots, cfg).Execute()
}
