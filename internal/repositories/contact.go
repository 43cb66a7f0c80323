package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/agenda/internal/models"
	"github.com/desertthunder/agenda/internal/shared"
	"golang.org/x/text/cases"
)

var _ models.Repository[*models.Contact] = (*ContactRepository)(nil)

const contactColumns = "id, uid, name, phone, email, address, notes, created_at, updated_at"

// ContactRepository implements [models.Repository] for [models.Contact] persistence.
type ContactRepository struct {
	db *sql.DB
}

// NewContactRepository creates a new [ContactRepository] with the given database connection
func NewContactRepository(db *sql.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// Create inserts a new contact, assigning its ID, UID and timestamps.
func (r *ContactRepository) Create(contact *models.Contact) (int64, error) {
	return r.insert(r.db, contact)
}

// CreateBatch inserts all contacts in a single transaction. Either every contact
// is stored and the assigned IDs are returned in order, or none is.
func (r *ContactRepository) CreateBatch(contacts []*models.Contact) ([]int64, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, storageErr("begin transaction", err)
	}
	defer tx.Rollback()

	ids := make([]int64, 0, len(contacts))
	for i, contact := range contacts {
		id, err := r.insert(tx, contact)
		if err != nil {
			for _, c := range contacts[:i] {
				c.ID = 0
			}
			return nil, fmt.Errorf("contact %d of %d: %w", i+1, len(contacts), err)
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		for _, c := range contacts {
			c.ID = 0
		}
		return nil, storageErr("commit transaction", err)
	}

	return ids, nil
}

func (r *ContactRepository) insert(ex execer, contact *models.Contact) (int64, error) {
	if err := normalize(contact); err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	uid := contact.UID
	if uid == "" {
		uid = shared.GenerateID()
	}

	query := `
		INSERT INTO contacts (uid, name, phone, email, address, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := ex.Exec(query,
		uid,
		contact.Name,
		contact.Phone,
		contact.Email,
		contact.Address,
		contact.Notes,
		now,
		now,
	)
	if err != nil {
		return 0, storageErr("insert contact", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, storageErr("read inserted id", err)
	}

	contact.ID = id
	contact.UID = uid
	contact.CreatedAt = now
	contact.UpdatedAt = now

	return id, nil
}

// Get retrieves a contact by ID
func (r *ContactRepository) Get(id int64) (*models.Contact, error) {
	query := "SELECT " + contactColumns + " FROM contacts WHERE id = ?"

	contact, err := scanContact(r.db.QueryRow(query, id))
	if isNoRows(err) {
		return nil, fmt.Errorf("%w: %d", shared.ErrContactNotFound, id)
	}
	if err != nil {
		return nil, storageErr("query contact", err)
	}

	return contact, nil
}

// Update overwrites the editable fields of the contact with the given ID.
// The ID, UID and creation time never change.
func (r *ContactRepository) Update(id int64, contact *models.Contact) error {
	if err := normalize(contact); err != nil {
		return err
	}

	now := time.Now().UTC()

	query := `
		UPDATE contacts
		SET name = ?, phone = ?, email = ?, address = ?, notes = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query,
		contact.Name,
		contact.Phone,
		contact.Email,
		contact.Address,
		contact.Notes,
		now,
		id,
	)
	if err != nil {
		return storageErr("update contact", err)
	}

	if err := notFound(result, id); err != nil {
		return err
	}

	contact.ID = id
	contact.UpdatedAt = now

	return nil
}

// Delete permanently removes a contact by ID
func (r *ContactRepository) Delete(id int64) error {
	result, err := r.db.Exec("DELETE FROM contacts WHERE id = ?", id)
	if err != nil {
		return storageErr("delete contact", err)
	}

	return notFound(result, id)
}

// List retrieves every contact in ID (insertion) order
func (r *ContactRepository) List() ([]*models.Contact, error) {
	rows, err := r.db.Query("SELECT " + contactColumns + " FROM contacts ORDER BY id ASC")
	if err != nil {
		return nil, storageErr("query contacts", err)
	}
	defer rows.Close()

	contacts := []*models.Contact{}
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, storageErr("scan contact", err)
		}
		contacts = append(contacts, contact)
	}

	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate contacts", err)
	}

	return contacts, nil
}

// Search returns contacts where any text field contains text, ignoring case.
//
// Matching uses Unicode case folding in Go rather than SQL LIKE, which only folds ASCII.
// Blank text matches everything.
func (r *ContactRepository) Search(text string) ([]*models.Contact, error) {
	all, err := r.List()
	if err != nil {
		return nil, err
	}

	needle := cases.Fold().String(strings.TrimSpace(text))
	if needle == "" {
		return all, nil
	}

	matches := []*models.Contact{}
	for _, c := range all {
		if foldContains(needle, c.Name, c.Phone, c.Email, c.Address, c.Notes) {
			matches = append(matches, c)
		}
	}

	return matches, nil
}

// Count returns the number of stored contacts
func (r *ContactRepository) Count() (int, error) {
	var n int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM contacts").Scan(&n); err != nil {
		return 0, storageErr("count contacts", err)
	}
	return n, nil
}

// normalize validates the contact and replaces its text fields with their trimmed values.
func normalize(contact *models.Contact) error {
	valid, err := models.Validate(contact.Input())
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	contact.Name = valid.Name
	contact.Phone = valid.Phone
	contact.Email = valid.Email
	contact.Address = valid.Address
	contact.Notes = valid.Notes

	return nil
}

// scanContact scans a single row into a [models.Contact]
func scanContact(row rowScanner) (*models.Contact, error) {
	var c models.Contact

	err := row.Scan(
		&c.ID, &c.UID, &c.Name, &c.Phone, &c.Email,
		&c.Address, &c.Notes, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &c, nil
}
