package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/agenda/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	runner := NewRunner(RunnerOpts{Logger: logger})

	app := &cli.Command{
		Name:     "agenda",
		Usage:    "Keep a local contact book in a SQLite file",
		Version:  "0.1.0",
		Flags:    globalFlags(),
		Before:   runner.Configure,
		After:    runner.Close,
		Action:   runner.TUI,
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if startupFailure(err) {
			logger.Fatalf("failed to start: %v", err)
		}
		logger.Error(err)
		os.Exit(1)
	}
}

// startupFailure reports whether err means the config or the store could not be opened.
func startupFailure(err error) bool {
	return errors.Is(err, shared.ErrStorage) ||
		errors.Is(err, shared.ErrMissingConfig) ||
		errors.Is(err, shared.ErrInvalidConfig)
}
