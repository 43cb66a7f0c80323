// package formatter converts contacts to and from interchange formats (CSV, vCard, JSON, plain text)
package formatter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/agenda/internal/models"
	"github.com/desertthunder/agenda/internal/shared"
)

// Format names an export encoding.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatVCard Format = "vcard"
	FormatJSON  Format = "json"
	FormatText  Format = "text"
)

// Formats lists every supported export format.
var Formats = []Format{FormatCSV, FormatVCard, FormatJSON, FormatText}

// ParseFormat maps a user-supplied name (case-insensitive, "vcf" and "txt" accepted) to a [Format].
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "csv":
		return FormatCSV, nil
	case "vcard", "vcf":
		return FormatVCard, nil
	case "json":
		return FormatJSON, nil
	case "text", "txt":
		return FormatText, nil
	}
	return "", fmt.Errorf("%w: %q", shared.ErrUnknownFormat, name)
}

// FormatForPath guesses the export format from a file extension, defaulting to CSV.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".vcf", ".vcard":
		return FormatVCard
	case ".json":
		return FormatJSON
	case ".txt":
		return FormatText
	}
	return FormatCSV
}

// Export writes contacts to w in the given format.
func Export(w io.Writer, format Format, contacts []*models.Contact) error {
	switch format {
	case FormatCSV:
		return ExportToCSV(w, contacts)
	case FormatVCard:
		return ExportToVCard(w, contacts)
	case FormatJSON:
		return ExportToJSON(w, contacts)
	case FormatText:
		return ExportToText(w, contacts)
	}
	return fmt.Errorf("%w: %q", shared.ErrUnknownFormat, format)
}

// ExportToJSON writes contacts as an indented JSON array.
func ExportToJSON(w io.Writer, contacts []*models.Contact) error {
	if contacts == nil {
		contacts = []*models.Contact{}
	}

	data, err := json.MarshalIndent(contacts, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}

// ExportToText writes one numbered line per contact.
func ExportToText(w io.Writer, contacts []*models.Contact) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Contacts: %d\n\n", len(contacts))
	for _, c := range contacts {
		fmt.Fprintf(&b, "%d. %s <%s> %s\n", c.ID, c.Name, c.Email, c.Phone)
		if c.Address != "" {
			fmt.Fprintf(&b, "   %s\n", c.Address)
		}
		if c.Notes != "" {
			fmt.Fprintf(&b, "   %s\n", c.Notes)
		}
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("failed to write text: %w", err)
	}
	return nil
}

// WriteExport writes contacts to the file at path, creating parent directories as needed.
func WriteExport(path string, format Format, contacts []*models.Contact) error {
	if path == "" {
		return fmt.Errorf("%w: export path", shared.ErrMissingArgument)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}

	if err := Export(f, format, contacts); err != nil {
		f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close export file: %w", err)
	}
	return nil
}
