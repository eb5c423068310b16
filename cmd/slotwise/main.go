package main

import (
	"fmt"
	"os"

	"github.com/javiermolinar/slotwise/internal/config"
	"github.com/javiermolinar/slotwise/internal/logging"
	"github.com/javiermolinar/slotwise/internal/ui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, level, err := logging.New(cfg.Log.Env, cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	app := ui.NewApp(cfg, log, level)
	defer func() { _ = app.Close() }()
	return app.Execute()
}
