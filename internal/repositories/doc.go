// Package repositories implements SQLite persistence for the contact book.
//
// Key Implementations:
//   - [ContactRepository] : CRUD, listing and search over the contacts table
//
// Identifiers come from SQLite's AUTOINCREMENT, so an ID is never reused after a delete.
// Deletes are permanent. Failures from the driver wrap [shared.ErrStorage] and missing
// rows wrap [shared.ErrContactNotFound].
package repositories
