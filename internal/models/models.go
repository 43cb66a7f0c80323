// package models defines the data model for the contact book
package models

// Model defines the base interface for persistent models.
type Model interface {
	Identifier() int64 // Identifier returns the store-assigned ID, zero before creation
	Validate() error   // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(model T) (int64, error)   // Create inserts a new model and returns its assigned ID
	Get(id int64) (T, error)         // Get retrieves a model by its ID
	Update(id int64, model T) error  // Update replaces the stored fields of the model with the given ID
	Delete(id int64) error           // Delete permanently removes a model by its ID
	List() ([]T, error)              // List retrieves all models in ID order
	Search(text string) ([]T, error) // Search retrieves models with any field containing text
}
