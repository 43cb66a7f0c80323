package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/agenda/internal/models"
	"github.com/desertthunder/agenda/internal/repositories"
	"github.com/desertthunder/agenda/internal/services"
	"github.com/desertthunder/agenda/internal/shared"
	tu "github.com/desertthunder/agenda/internal/testing"
	"github.com/urfave/cli/v3"
)

func newTestContacts(t *testing.T) *services.ContactService {
	t.Helper()

	db, err := shared.OpenStore(shared.DatabaseConfig{Path: ":memory:", MaxOpenConns: 1, MaxIdleConns: 1})
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return services.NewContactService(repositories.NewContactRepository(db), nil)
}

func newTestRunner(t *testing.T) (*Runner, *services.ContactService, *bytes.Buffer) {
	t.Helper()

	contacts := newTestContacts(t)
	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Logger:   shared.NewLogger(&bytes.Buffer{}),
		Output:   output,
		Contacts: contacts,
	})
	return runner, contacts, output
}

// run executes the command tree without the configuration hook, so tests never read config files.
func run(r *Runner, args ...string) error {
	app := &cli.Command{
		Name:     "agenda",
		Flags:    globalFlags(),
		Commands: r.register(),
	}
	return app.Run(context.Background(), append([]string{"agenda"}, args...))
}

func seedContacts(t *testing.T, svc *services.ContactService) {
	t.Helper()
	for _, in := range []models.ContactInput{
		{Name: "Ana Lopez", Phone: "555-1234", Email: "ana@example.com"},
		{Name: "Bo Chen", Phone: "555-0100", Email: "bo@example.org", Notes: "tennis"},
	} {
		if _, err := svc.Save(0, in); err != nil {
			t.Fatalf("failed to seed contact: %v", err)
		}
	}
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			contacts := newTestContacts(t)

			runner := NewRunner(RunnerOpts{
				Config:   config,
				Logger:   logger,
				Output:   output,
				Contacts: contacts,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.contacts != contacts {
				t.Error("expected contacts to be set")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writeJSON(map[string]string{"key": "value"}, true)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if result := output.String(); result != expected {
				t.Errorf("expected %q, got %q", expected, result)
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)
			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if result := output.String(); result != "hello world" {
				t.Errorf("expected 'hello world', got %q", result)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		if len(commands) == 0 {
			t.Error("expected at least one command to be registered")
		}

		names := map[string]bool{}
		for i, cmd := range commands {
			if cmd == nil {
				t.Errorf("command at index %d is nil", i)
				continue
			}
			names[cmd.Name] = true
		}
		for _, want := range []string{"setup", "list", "import", "export", "tui"} {
			if !names[want] {
				t.Errorf("expected %q command to be registered", want)
			}
		}
	})

	t.Run("interactive", func(t *testing.T) {
		f, err := os.Create(filepath.Join(t.TempDir(), "not-a-terminal"))
		if err != nil {
			t.Fatal(err)
		}
		defer f.Close()

		if interactive(f) {
			t.Error("expected a regular file not to be a terminal")
		}
	})

	t.Run("parseID", func(t *testing.T) {
		if id, err := parseID("42"); err != nil || id != 42 {
			t.Errorf("expected 42, got %d (%v)", id, err)
		}
		if _, err := parseID(""); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
		for _, arg := range []string{"abc", "0", "-3"} {
			if _, err := parseID(arg); !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument for %q, got %v", arg, err)
			}
		}
	})
}

func TestContactCommands(t *testing.T) {
	t.Run("list prints text", func(t *testing.T) {
		runner, svc, output := newTestRunner(t)
		seedContacts(t, svc)

		if err := run(runner, "list"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		result := output.String()
		if !strings.Contains(result, "1. Ana Lopez <ana@example.com> 555-1234") {
			t.Errorf("expected Ana in output, got %s", result)
		}
		if !strings.Contains(result, "2. Bo Chen") {
			t.Errorf("expected Bo in output, got %s", result)
		}
	})

	t.Run("list with search and json", func(t *testing.T) {
		runner, svc, output := newTestRunner(t)
		seedContacts(t, svc)

		if err := run(runner, "list", "--json", "--search", "TENNIS"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		result := output.String()
		if !strings.Contains(result, `"name": "Bo Chen"`) {
			t.Errorf("expected Bo in JSON, got %s", result)
		}
		if strings.Contains(result, "Ana Lopez") {
			t.Errorf("expected Ana to be filtered out, got %s", result)
		}
	})

	t.Run("list json with no contacts", func(t *testing.T) {
		runner, _, output := newTestRunner(t)

		if err := run(runner, "list", "--json"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result := strings.TrimSpace(output.String()); result != "[]" {
			t.Errorf("expected empty array, got %q", result)
		}
	})

	t.Run("show", func(t *testing.T) {
		runner, svc, output := newTestRunner(t)
		seedContacts(t, svc)

		if err := run(runner, "show", "2"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		result := output.String()
		if !strings.Contains(result, "#2 Bo Chen") || !strings.Contains(result, "Notes:   tennis") {
			t.Errorf("unexpected show output: %s", result)
		}
	})

	t.Run("show missing contact", func(t *testing.T) {
		runner, _, _ := newTestRunner(t)

		err := run(runner, "show", "9")
		if !errors.Is(err, shared.ErrContactNotFound) {
			t.Errorf("expected ErrContactNotFound, got %v", err)
		}
	})

	t.Run("add", func(t *testing.T) {
		runner, svc, output := newTestRunner(t)

		err := run(runner, "add", "--name", "Ana Lopez", "--phone", "555-1234", "--email", "ana@example.com")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "Created contact #1") {
			t.Errorf("unexpected output: %s", output.String())
		}

		contact, err := svc.Get(1)
		if err != nil {
			t.Fatalf("expected contact to be stored: %v", err)
		}
		if contact.Name != "Ana Lopez" {
			t.Errorf("expected name 'Ana Lopez', got %q", contact.Name)
		}
	})

	t.Run("add invalid lists every bad field", func(t *testing.T) {
		runner, svc, output := newTestRunner(t)

		err := run(runner, "add", "--phone", "1", "--email", "x")
		if !errors.Is(err, shared.ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}

		result := output.String()
		for _, field := range []string{"name", "email"} {
			if !strings.Contains(result, field) {
				t.Errorf("expected %s error in output, got %s", field, result)
			}
		}

		if n, _ := svc.Count(); n != 0 {
			t.Errorf("expected empty store, got %d contacts", n)
		}
	})

	t.Run("edit keeps fields that are not given", func(t *testing.T) {
		runner, svc, _ := newTestRunner(t)
		seedContacts(t, svc)

		if err := run(runner, "edit", "--phone", "555-9999", "1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		contact, err := svc.Get(1)
		if err != nil {
			t.Fatal(err)
		}
		if contact.Phone != "555-9999" {
			t.Errorf("expected phone to change, got %q", contact.Phone)
		}
		if contact.Email != "ana@example.com" {
			t.Errorf("expected email to be kept, got %q", contact.Email)
		}
	})

	t.Run("delete", func(t *testing.T) {
		runner, svc, _ := newTestRunner(t)
		seedContacts(t, svc)

		if err := run(runner, "delete", "1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, err := svc.Get(1); !errors.Is(err, shared.ErrContactNotFound) {
			t.Errorf("expected contact to be gone, got %v", err)
		}
		if err := run(runner, "delete", "1"); !errors.Is(err, shared.ErrContactNotFound) {
			t.Errorf("expected ErrContactNotFound on second delete, got %v", err)
		}
	})

	t.Run("import", func(t *testing.T) {
		runner, svc, output := newTestRunner(t)
		path := tu.MustWriteFile(t, "contacts.csv", "name,phone,email\nAna Lopez,555-1234,ana@example.com\n")

		if err := run(runner, "import", path); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "Imported 1 contact(s)") {
			t.Errorf("unexpected output: %s", output.String())
		}
		if n, _ := svc.Count(); n != 1 {
			t.Errorf("expected 1 contact, got %d", n)
		}
	})

	t.Run("import rejects file with a bad row", func(t *testing.T) {
		runner, svc, output := newTestRunner(t)
		path := tu.MustWriteFile(t, "contacts.csv", "name,phone,email\nAna,555,ana@example.com\nBo,abc,bo@example.org\n")

		if err := run(runner, "import", path); !errors.Is(err, shared.ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
		if !strings.Contains(output.String(), "row 3") {
			t.Errorf("expected rejected row in output, got %s", output.String())
		}
		if n, _ := svc.Count(); n != 0 {
			t.Errorf("expected nothing imported, got %d", n)
		}
	})

	t.Run("import without path", func(t *testing.T) {
		runner, _, _ := newTestRunner(t)

		if err := run(runner, "import"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("export by extension and by flag", func(t *testing.T) {
		runner, svc, _ := newTestRunner(t)
		seedContacts(t, svc)
		dir := t.TempDir()

		vcf := filepath.Join(dir, "contacts.vcf")
		if err := run(runner, "export", vcf); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(tu.MustReadFile(t, vcf), "BEGIN:VCARD") {
			t.Error("expected vCard output")
		}

		out := filepath.Join(dir, "contacts.out")
		if err := run(runner, "export", "--format", "json", out); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(tu.MustReadFile(t, out), `"name": "Ana Lopez"`) {
			t.Error("expected JSON output")
		}

		if err := run(runner, "export", "--format", "pdf", out); !errors.Is(err, shared.ErrUnknownFormat) {
			t.Errorf("expected ErrUnknownFormat, got %v", err)
		}
	})
}

func TestSetupCommands(t *testing.T) {
	t.Run("database creates config and schema", func(t *testing.T) {
		dir := t.TempDir()
		config := shared.DefaultConfig()
		config.Database.Path = filepath.Join(dir, "agenda.db")
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Config: config, Output: output, Logger: shared.NewLogger(&bytes.Buffer{})})

		configPath := filepath.Join(dir, "config.toml")
		if err := run(runner, "--config", configPath, "setup", "database"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		tu.AssertFileExists(t, configPath)
		tu.AssertFileExists(t, config.Database.Path)
		if !strings.Contains(output.String(), "schema version 1") {
			t.Errorf("unexpected output: %s", output.String())
		}

		output.Reset()
		if err := run(runner, "--config", configPath, "setup", "rollback"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "schema version 0") {
			t.Errorf("unexpected output: %s", output.String())
		}
	})

	t.Run("config refuses to overwrite", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}, Logger: shared.NewLogger(&bytes.Buffer{})})

		if err := run(runner, "--config", configPath, "setup", "config"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if err := run(runner, "--config", configPath, "setup", "config"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
		if err := run(runner, "--config", configPath, "setup", "config", "--force"); err != nil {
			t.Errorf("expected --force to overwrite, got %v", err)
		}
	})
}

func TestConfigure(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(configPath, []byte("[database]\npath = \"from-file.db\"\n\n[log]\nlevel = \"debug\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}, Logger: shared.NewLogger(&bytes.Buffer{})})
	app := &cli.Command{
		Name:   "agenda",
		Flags:  globalFlags(),
		Before: runner.Configure,
		Action: func(ctx context.Context, cmd *cli.Command) error { return nil },
	}

	args := []string{"agenda", "--config", configPath, "--env-file", filepath.Join(dir, "missing.env")}
	if err := app.Run(context.Background(), args); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if runner.config.Database.Path != "from-file.db" {
		t.Errorf("expected database path from file, got %q", runner.config.Database.Path)
	}
	if runner.logger.GetLevel().String() != "debug" {
		t.Errorf("expected debug level, got %s", runner.logger.GetLevel())
	}
}

func TestStartupFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"storage", fmt.Errorf("open: %w", shared.ErrStorage), true},
		{"missing config", shared.ErrMissingConfig, true},
		{"invalid config", fmt.Errorf("parse: %w", shared.ErrInvalidConfig), true},
		{"not found", fmt.Errorf("%w: 3", shared.ErrContactNotFound), false},
		{"validation", shared.ErrValidation, false},
		{"other", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := startupFailure(tt.err); got != tt.want {
				t.Errorf("startupFailure(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
