// package services defines the contact use cases shared by the UI and the CLI
package services

import (
	"github.com/desertthunder/agenda/internal/models"
)

// ContactStore is the persistence the [ContactService] needs.
// [repositories.ContactRepository] implements it.
type ContactStore interface {
	models.Repository[*models.Contact]

	// CreateBatch stores every contact or none of them.
	CreateBatch(contacts []*models.Contact) ([]int64, error)

	// Count returns the number of stored contacts.
	Count() (int, error)
}
