package mentorRepo

import "mentorline/models"

// MentorRepository defines methods for mentor data access.
type MentorRepository interface {
	// GetByID retrieves a mentor by its unique ID, or nil if absent.
	GetByID(id string) (*models.Mentor, error)
	// GetByEmail retrieves a mentor by email (includes password hash, for auth).
	GetByEmail(email string) (*models.Mentor, error)
	// List retrieves mentors, optionally restricted to active ones.
	List(activeOnly bool) ([]models.Mentor, error)
	// Create inserts a new mentor record.
	Create(mentor *models.Mentor) error
	// Update modifies an existing mentor record.
	Update(mentor *models.Mentor) error
	// Delete removes a mentor record by ID.
	Delete(id string) (bool, error)
	// CountActive returns the number of active mentors.
	CountActive() (int, error)
}
