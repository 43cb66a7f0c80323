// Package services implements the contact book's use cases on top of a [ContactStore].
//
// # Contact Service
//
// [ContactService] is the single seam shared by the terminal UI and the CLI commands.
// Every write is validated with [models.Validate] before the store is touched, so a
// rejected input never mutates persisted state.
//
// Save decides between create and update from the current selection: a zero ID
// creates a new contact, any other ID overwrites that contact.
//
// # Import & Export
//
// CSV imports are all-or-nothing. Every row is parsed and validated first; a single bad
// row aborts the import with a [formatter.ImportError] naming each rejected line. Valid
// files are stored through [ContactStore.CreateBatch] inside one transaction.
//
// Exports always cover the whole store in ID order, in any [formatter.Format].
//
// # Error Handling
//
// Services pass through typed errors from the shared package:
//   - [shared.ErrValidation] : one or more fields failed validation
//   - [shared.ErrContactNotFound] : no contact with the given ID
//   - [shared.ErrStorage] : the database failed
//   - [shared.ErrInvalidInput] : an import file could not be parsed
package services
