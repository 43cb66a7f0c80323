package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/agenda/internal/repositories"
	"github.com/desertthunder/agenda/internal/services"
	"github.com/desertthunder/agenda/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config   *shared.Config
	logger   *log.Logger
	output   io.Writer
	db       *sql.DB
	contacts *services.ContactService
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config   *shared.Config
	Logger   *log.Logger
	Output   io.Writer
	Contacts *services.ContactService
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:   opts.Config,
		logger:   opts.Logger,
		output:   opts.Output,
		contacts: opts.Contacts,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, listCommand, showCommand, addCommand, editCommand, deleteCommand,
		importCommand, exportCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Configure resolves the effective configuration from the global --config and --env-file flags.
// It runs before every command.
func (r *Runner) Configure(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	config, err := shared.ResolveConfig(cmd.String("config"), cmd.String("env-file"))
	if err != nil {
		return ctx, err
	}
	r.config = config

	if err := shared.SetLogLevel(r.logger, config.Log.Level); err != nil {
		return ctx, err
	}

	r.logger.Debug("configuration resolved", "database", config.Database.Path)
	return ctx, nil
}

// Close releases the database handle if a command opened one.
func (r *Runner) Close(ctx context.Context, cmd *cli.Command) error {
	if r.db == nil {
		return nil
	}

	err := r.db.Close()
	r.db = nil
	if err != nil {
		return fmt.Errorf("%w: failed to close database: %w", shared.ErrStorage, err)
	}
	return nil
}

// SetLogger replaces the logger used by the runner and any service it creates afterwards.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// service returns the contact service, opening and migrating the store on first use.
func (r *Runner) service() (*services.ContactService, error) {
	if r.contacts != nil {
		return r.contacts, nil
	}

	db, err := shared.OpenStore(r.config.Database)
	if err != nil {
		return nil, err
	}
	r.db = db

	r.logger.Debug("opened contact store", "path", r.config.Database.Path)

	r.contacts = services.NewContactService(
		repositories.NewContactRepository(db),
		shared.WithLogger(r.logger, "component", "contacts"),
	)
	return r.contacts, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
