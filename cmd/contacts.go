package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/desertthunder/agenda/internal/formatter"
	"github.com/desertthunder/agenda/internal/models"
	"github.com/desertthunder/agenda/internal/shared"
	"github.com/urfave/cli/v3"
)

// ListContacts prints every contact, or those matching --search.
func (r *Runner) ListContacts(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.service()
	if err != nil {
		return err
	}

	query := cmd.String("search")
	contacts, err := svc.Search(query)
	if err != nil {
		return fmt.Errorf("failed to list contacts: %w", err)
	}

	if cmd.Bool("json") {
		if contacts == nil {
			contacts = []*models.Contact{}
		}
		return r.writeJSON(contacts, cmd.Bool("pretty"))
	}

	if query != "" {
		r.writePlain("Matches for %q\n\n", query)
	}
	return formatter.ExportToText(r.output, contacts)
}

// ShowContact prints one contact by ID.
func (r *Runner) ShowContact(ctx context.Context, cmd *cli.Command) error {
	id, err := parseID(cmd.StringArg("id"))
	if err != nil {
		return err
	}

	svc, err := r.service()
	if err != nil {
		return err
	}

	contact, err := svc.Get(id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(contact, true)
	}

	r.writePlainHeader(fmt.Sprintf("#%d %s", contact.ID, contact.Name))
	r.writePlain("Phone:   %s\n", contact.Phone)
	r.writePlain("Email:   %s\n", contact.Email)
	r.writePlain("Address: %s\n", contact.Address)
	r.writePlain("Notes:   %s\n", contact.Notes)
	r.writePlain("UID:     %s\n", contact.UID)
	return r.writePlain("Updated: %s\n", contact.UpdatedAt.Local().Format("2006-01-02 15:04"))
}

// AddContact creates a contact from the field flags.
func (r *Runner) AddContact(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.service()
	if err != nil {
		return err
	}

	var in models.ContactInput
	for _, field := range models.Fields {
		in.Set(field, cmd.String(field))
	}

	id, err := svc.Save(0, in)
	if err != nil {
		return r.explain(err)
	}

	return r.writePlain("✓ Created contact #%d\n", id)
}

// EditContact overwrites the fields given as flags, keeping the others.
func (r *Runner) EditContact(ctx context.Context, cmd *cli.Command) error {
	id, err := parseID(cmd.StringArg("id"))
	if err != nil {
		return err
	}

	svc, err := r.service()
	if err != nil {
		return err
	}

	existing, err := svc.Get(id)
	if err != nil {
		return err
	}

	in := existing.Input()
	for _, field := range models.Fields {
		if cmd.IsSet(field) {
			in.Set(field, cmd.String(field))
		}
	}

	if _, err := svc.Save(id, in); err != nil {
		return r.explain(err)
	}

	return r.writePlain("✓ Updated contact #%d\n", id)
}

// DeleteContact permanently removes a contact by ID.
func (r *Runner) DeleteContact(ctx context.Context, cmd *cli.Command) error {
	id, err := parseID(cmd.StringArg("id"))
	if err != nil {
		return err
	}

	svc, err := r.service()
	if err != nil {
		return err
	}

	if err := svc.Delete(id); err != nil {
		return err
	}

	return r.writePlain("✓ Deleted contact #%d\n", id)
}

// ImportContacts imports a CSV file. A single invalid row rejects the whole file.
func (r *Runner) ImportContacts(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: path to a CSV file", shared.ErrMissingArgument)
	}

	svc, err := r.service()
	if err != nil {
		return err
	}

	n, err := svc.ImportFile(path)
	if err != nil {
		var importErr *formatter.ImportError
		if errors.As(err, &importErr) {
			r.writePlain("✗ %d row(s) rejected, nothing imported:\n", len(importErr.Rows))
			for _, row := range importErr.Rows {
				r.writePlain("  %v\n", row)
			}
		}
		return fmt.Errorf("failed to import %s: %w", path, err)
	}

	return r.writePlain("✓ Imported %d contact(s) from %s\n", n, path)
}

// ExportContacts writes every contact to a file.
func (r *Runner) ExportContacts(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: output path", shared.ErrMissingArgument)
	}

	format := formatter.FormatForPath(path)
	if name := cmd.String("format"); name != "" {
		f, err := formatter.ParseFormat(name)
		if err != nil {
			return err
		}
		format = f
	}

	svc, err := r.service()
	if err != nil {
		return err
	}

	n, err := svc.ExportFile(path, format)
	if err != nil {
		return fmt.Errorf("failed to export: %w", err)
	}

	return r.writePlain("✓ Exported %d contact(s) to %s (%s)\n", n, path, format)
}

// explain prints field-level validation failures before returning err.
func (r *Runner) explain(err error) error {
	var verrs models.ValidationErrors
	if errors.As(err, &verrs) {
		r.writePlain("✗ Contact not saved:\n")
		for _, fe := range verrs {
			r.writePlain("  %-8s %s\n", fe.Field, fe.Message)
		}
	}
	return err
}

func parseID(arg string) (int64, error) {
	if arg == "" {
		return 0, fmt.Errorf("%w: contact id", shared.ErrMissingArgument)
	}

	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: contact id %q", shared.ErrInvalidArgument, arg)
	}
	return id, nil
}
