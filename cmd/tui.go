package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/agenda/internal/shared"
	"github.com/desertthunder/agenda/internal/ui"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive contact book.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if !interactive(os.Stdin) || !interactive(os.Stdout) {
		return fmt.Errorf("%w: the interactive UI needs a terminal (try 'agenda list')", shared.ErrInvalidArgument)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.Log.File)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	if err := shared.SetLogLevel(fileLogger, r.config.Log.Level); err != nil {
		return err
	}
	r.SetLogger(fileLogger)

	svc, err := r.service()
	if err != nil {
		return err
	}

	model := ui.NewModel(svc, r.config.Export.Directory)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// interactive reports whether f is attached to a terminal.
func interactive(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
