// package repositories provides persistence layer implementations for all model types.
package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/agenda/internal/shared"
	"golang.org/x/text/cases"
)

// rowScanner is satisfied by both [sql.Row] and [sql.Rows].
type rowScanner interface {
	Scan(dest ...any) error
}

// execer is satisfied by both [sql.DB] and [sql.Tx].
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// storageErr wraps a driver failure so callers can test it with errors.Is(err, shared.ErrStorage).
func storageErr(action string, err error) error {
	return fmt.Errorf("%w: failed to %s: %w", shared.ErrStorage, action, err)
}

// notFound reports whether a result touched no rows and returns the matching error.
func notFound(result sql.Result, id int64) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return storageErr("get affected rows", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %d", shared.ErrContactNotFound, id)
	}
	return nil
}

// isNoRows reports whether err is [sql.ErrNoRows].
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// foldContains reports whether any of fields contains the already folded needle,
// comparing with Unicode case folding.
func foldContains(needle string, fields ...string) bool {
	folder := cases.Fold()
	for _, f := range fields {
		if strings.Contains(folder.String(f), needle) {
			return true
		}
	}
	return false
}
