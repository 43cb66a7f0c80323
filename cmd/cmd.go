// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// globalFlags are accepted by every command.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
			Value:   "config.toml",
		},
		&cli.StringFlag{
			Name:  "env-file",
			Usage: "Path to a .env file with AGENDA_* overrides",
			Value: ".env",
		},
	}
}

func contactFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Full name"},
		&cli.StringFlag{Name: "phone", Aliases: []string{"p"}, Usage: "Phone number"},
		&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Email address"},
		&cli.StringFlag{Name: "address", Aliases: []string{"a"}, Usage: "Postal address"},
		&cli.StringFlag{Name: "notes", Usage: "Free-form notes"},
	}
}

// setupCommand handles setup operations for configuration and the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Action: r.SetupDatabase,
			},
			{
				Name:   "rollback",
				Usage:  "Roll back the most recent database migration",
				Action: r.RollbackDatabase,
			},
			{
				Name:  "config",
				Usage: "Write the default configuration file",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing file",
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}

// listCommand prints stored contacts
func listCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List contacts, optionally filtered by a search query",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "search",
				Aliases: []string{"s"},
				Usage:   "Only show contacts with a field containing this text",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
		},
		Action: r.ListContacts,
	}
}

// showCommand prints one contact
func showCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: "Show a single contact",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "id"},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.ShowContact,
	}
}

// addCommand creates a contact from flags
func addCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "add",
		Usage:  "Create a contact",
		Flags:  contactFlags(),
		Action: r.AddContact,
	}
}

// editCommand updates the given fields of a contact
func editCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "edit",
		Usage: "Update a contact; fields not given keep their current value",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "id"},
		},
		Flags:  contactFlags(),
		Action: r.EditContact,
	}
}

// deleteCommand permanently removes a contact
func deleteCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "delete",
		Aliases: []string{"rm"},
		Usage:   "Permanently delete a contact",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "id"},
		},
		Action: r.DeleteContact,
	}
}

// importCommand loads contacts from a CSV file
func importCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Import contacts from a CSV file with a header row (all rows or none)",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "path"},
		},
		Action: r.ImportContacts,
	}
}

// exportCommand writes all contacts to a file
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export all contacts to a file",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "path"},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "csv, vcard, json or text (default: from the file extension)",
			},
		},
		Action: r.ExportContacts,
	}
}

// tuiCommand returns the top-level TUI command for interactive contact management.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive contact book (default)",
		Action:  r.TUI,
	}
}
