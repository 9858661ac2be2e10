package callerRepo

import "mentorline/models"

// CallerRepository defines methods for caller data access.
type CallerRepository interface {
	// GetByIdentity retrieves a caller by its normalized identity, or nil if absent.
	GetByIdentity(identity string) (*models.Caller, error)
	// GetOrCreate returns the existing caller or creates one with the given name.
	GetOrCreate(identity, name string) (*models.Caller, error)
	// Update modifies an existing caller record.
	Update(caller *models.Caller) error
	// List retrieves callers with pagination.
	List(skip, limit int) ([]models.Caller, error)
	// Delete removes a caller record by identity.
	Delete(identity string) (bool, error)
	// Count returns the total number of callers.
	Count() (int, error)
}
