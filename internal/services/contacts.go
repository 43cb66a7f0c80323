package services

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/agenda/internal/formatter"
	"github.com/desertthunder/agenda/internal/models"
	"github.com/desertthunder/agenda/internal/shared"
)

// ContactService validates and persists contacts and moves them in and out of files.
type ContactService struct {
	store  ContactStore
	logger *log.Logger
}

// NewContactService creates a [ContactService]. A nil logger discards output.
func NewContactService(store ContactStore, logger *log.Logger) *ContactService {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &ContactService{store: store, logger: logger}
}

// Save validates in and then creates a contact when selected is 0, or overwrites the contact
// with ID selected otherwise. It returns the ID of the saved contact.
//
// On validation failure the error is a [models.ValidationErrors] and the store is untouched.
func (s *ContactService) Save(selected int64, in models.ContactInput) (int64, error) {
	contact, err := models.Validate(in)
	if err != nil {
		s.logger.Debug("rejected contact", "selected", selected, "error", err)
		return 0, err
	}

	if selected == 0 {
		id, err := s.store.Create(contact)
		if err != nil {
			s.logger.Error("failed to create contact", "error", err)
			return 0, err
		}
		s.logger.Info("created contact", "id", id, "name", contact.Name)
		return id, nil
	}

	if err := s.store.Update(selected, contact); err != nil {
		s.logger.Error("failed to update contact", "id", selected, "error", err)
		return 0, err
	}
	s.logger.Info("updated contact", "id", selected, "name", contact.Name)
	return selected, nil
}

// Get returns the contact with the given ID.
func (s *ContactService) Get(id int64) (*models.Contact, error) {
	contact, err := s.store.Get(id)
	if err != nil {
		s.logger.Warn("failed to get contact", "id", id, "error", err)
		return nil, err
	}
	return contact, nil
}

// Delete permanently removes the contact with the given ID.
func (s *ContactService) Delete(id int64) error {
	if id == 0 {
		return fmt.Errorf("%w: no contact selected", shared.ErrMissingArgument)
	}

	if err := s.store.Delete(id); err != nil {
		s.logger.Error("failed to delete contact", "id", id, "error", err)
		return err
	}
	s.logger.Info("deleted contact", "id", id)
	return nil
}

// List returns every contact in ID order.
func (s *ContactService) List() ([]*models.Contact, error) {
	contacts, err := s.store.List()
	if err != nil {
		s.logger.Error("failed to list contacts", "error", err)
		return nil, err
	}
	return contacts, nil
}

// Search returns contacts with any field containing query, ignoring case. A blank query lists everything.
func (s *ContactService) Search(query string) ([]*models.Contact, error) {
	contacts, err := s.store.Search(query)
	if err != nil {
		s.logger.Error("failed to search contacts", "query", query, "error", err)
		return nil, err
	}
	s.logger.Debug("searched contacts", "query", query, "matches", len(contacts))
	return contacts, nil
}

// Count returns the number of stored contacts.
func (s *ContactService) Count() (int, error) {
	return s.store.Count()
}

// ImportCSV creates one contact per data row of r and returns how many were stored.
// Nothing is stored unless every row is valid.
func (s *ContactService) ImportCSV(r io.Reader) (int, error) {
	contacts, err := formatter.ImportFromCSV(r)
	if err != nil {
		s.logger.Warn("rejected CSV import", "error", err)
		return 0, err
	}

	if len(contacts) == 0 {
		return 0, nil
	}

	ids, err := s.store.CreateBatch(contacts)
	if err != nil {
		s.logger.Error("failed to store imported contacts", "error", err)
		return 0, err
	}

	s.logger.Info("imported contacts", "count", len(ids))
	return len(ids), nil
}

// ImportFile imports the CSV file at path.
func (s *ContactService) ImportFile(path string) (int, error) {
	if path == "" {
		return 0, fmt.Errorf("%w: import path", shared.ErrMissingArgument)
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()

	return s.ImportCSV(f)
}

// Export writes every contact to w in format and returns how many were written.
func (s *ContactService) Export(w io.Writer, format formatter.Format) (int, error) {
	contacts, err := s.List()
	if err != nil {
		return 0, err
	}

	if err := formatter.Export(w, format, contacts); err != nil {
		return 0, err
	}

	s.logger.Debug("exported contacts", "format", format, "count", len(contacts))
	return len(contacts), nil
}

// ExportCSV writes every contact to w as CSV.
func (s *ContactService) ExportCSV(w io.Writer) (int, error) {
	return s.Export(w, formatter.FormatCSV)
}

// ExportVCard writes every contact to w as vCard 3.0.
func (s *ContactService) ExportVCard(w io.Writer) (int, error) {
	return s.Export(w, formatter.FormatVCard)
}

// ExportFile writes every contact to the file at path.
func (s *ContactService) ExportFile(path string, format formatter.Format) (int, error) {
	contacts, err := s.List()
	if err != nil {
		return 0, err
	}

	if err := formatter.WriteExport(path, format, contacts); err != nil {
		s.logger.Error("failed to export contacts", "path", path, "error", err)
		return 0, err
	}

	s.logger.Info("exported contacts", "path", path, "format", format, "count", len(contacts))
	return len(contacts), nil
}
