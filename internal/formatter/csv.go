package formatter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/desertthunder/agenda/internal/models"
	"github.com/desertthunder/agenda/internal/shared"
)

// CSVHeader is the header row written by [ExportToCSV].
var CSVHeader = []string{"id", models.FieldName, models.FieldPhone, models.FieldEmail, models.FieldAddress, models.FieldNotes}

// headerAliases maps accepted header spellings to contact fields.
// Includes the Spanish headers written by the earlier version of the app.
var headerAliases = map[string]string{
	"name":      models.FieldName,
	"nombre":    models.FieldName,
	"full name": models.FieldName,
	"phone":     models.FieldPhone,
	"telephone": models.FieldPhone,
	"telefono":  models.FieldPhone,
	"teléfono":  models.FieldPhone,
	"email":     models.FieldEmail,
	"e-mail":    models.FieldEmail,
	"address":   models.FieldAddress,
	"direccion": models.FieldAddress,
	"dirección": models.FieldAddress,
	"notes":     models.FieldNotes,
	"notas":     models.FieldNotes,
}

// surnameHeaders are appended to the name, for files that split first and last names.
var surnameHeaders = map[string]bool{
	"surname":   true,
	"last name": true,
	"apellido":  true,
}

// RowError is a failure on one line of an imported file. Row is the 1-based line number, header included.
type RowError struct {
	Row int
	Err error
}

func (e RowError) Error() string { return fmt.Sprintf("row %d: %v", e.Row, e.Err) }

func (e RowError) Unwrap() error { return e.Err }

// ImportError lists every rejected row of an import.
type ImportError struct {
	Rows []RowError
}

func (e *ImportError) Error() string {
	msgs := make([]string, len(e.Rows))
	for i, r := range e.Rows {
		msgs[i] = r.Error()
	}
	return fmt.Sprintf("%d invalid row(s): %s", len(e.Rows), strings.Join(msgs, "; "))
}

func (e *ImportError) Unwrap() []error {
	errs := make([]error, len(e.Rows))
	for i, r := range e.Rows {
		errs[i] = r
	}
	return errs
}

// ExportToCSV writes contacts with the columns of [CSVHeader].
func ExportToCSV(w io.Writer, contacts []*models.Contact) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(CSVHeader); err != nil {
		return fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, c := range contacts {
		record := []string{
			strconv.FormatInt(c.ID, 10),
			c.Name,
			c.Phone,
			c.Email,
			c.Address,
			c.Notes,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("CSV writer error: %w", err)
	}

	return nil
}

// ImportFromCSV reads a CSV file with a header row and validates every data row.
//
// Columns are matched by header name, case-insensitively and in any order. An id column is
// ignored because imports always create new contacts. Blank lines are skipped. A row with
// values past the last header column is rejected. When any row fails the returned error is an
// [*ImportError] naming every bad row, and no contacts are returned.
func ImportFromCSV(r io.Reader) ([]*models.Contact, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: CSV has no header row", shared.ErrInvalidInput)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read CSV header: %w", shared.ErrInvalidInput, err)
	}

	columns, surnames := mapColumns(header)
	if !containsField(columns, models.FieldName) {
		return nil, fmt.Errorf("%w: CSV header has no name column", shared.ErrInvalidInput)
	}

	var (
		contacts []*models.Contact
		failures []RowError
	)

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", shared.ErrInvalidInput, err)
		}
		if isBlank(record) {
			continue
		}
		row, _ := reader.FieldPos(0)

		var (
			in    models.ContactInput
			extra int
		)
		for i, value := range record {
			if i >= len(columns) {
				if strings.TrimSpace(value) != "" {
					extra++
				}
				continue
			}
			switch {
			case columns[i] != "":
				in.Set(columns[i], value)
			case surnames[i]:
				in.Name = strings.TrimSpace(in.Name + " " + strings.TrimSpace(value))
			}
		}
		if extra > 0 {
			failures = append(failures, RowError{
				Row: row,
				Err: fmt.Errorf("%w: %d value(s) beyond the %d header column(s)", shared.ErrInvalidInput, extra, len(columns)),
			})
			continue
		}

		contact, err := models.Validate(in)
		if err != nil {
			failures = append(failures, RowError{Row: row, Err: err})
			continue
		}
		contacts = append(contacts, contact)
	}

	if len(failures) > 0 {
		return nil, &ImportError{Rows: failures}
	}

	return contacts, nil
}

// mapColumns resolves each header cell to a contact field ("" when ignored) and flags surname columns.
func mapColumns(header []string) ([]string, map[int]bool) {
	columns := make([]string, len(header))
	surnames := map[int]bool{}

	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if field, ok := headerAliases[key]; ok {
			columns[i] = field
		} else if surnameHeaders[key] {
			surnames[i] = true
		}
	}

	return columns, surnames
}

func containsField(columns []string, field string) bool {
	for _, c := range columns {
		if c == field {
			return true
		}
	}
	return false
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
