package adminRepo

import "mentorline/models"

// AdminRepository defines admin account data access.
type AdminRepository interface {
	// Create inserts a new admin account.
	Create(admin *models.Admin) error
	// GetByID retrieves an admin by ID, or nil if absent.
	GetByID(id string) (*models.Admin, error)
	// GetByEmail retrieves an admin by email, or nil if absent.
	GetByEmail(email string) (*models.Admin, error)
	// UpdateLastLogin stamps the admin's last successful login.
	UpdateLastLogin(id string) error
}
