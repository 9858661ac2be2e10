package adminRepo

import (
	"fmt"
	"sync"
	"time"

	"mentorline/models"
)

// MemoryAdminRepo implements AdminRepository with an in-process map.
type MemoryAdminRepo struct {
	mu     sync.RWMutex
	admins map[string]models.Admin
}

// NewMemoryAdminRepo creates an empty in-memory admin repository.
func NewMemoryAdminRepo() *MemoryAdminRepo {
	return &MemoryAdminRepo{admins: make(map[string]models.Admin)}
}

func (r *MemoryAdminRepo) Create(admin *models.Admin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.admins {
		if a.Email == admin.Email {
			return fmt.Errorf("admin with email %s already exists", admin.Email)
		}
	}
	r.admins[admin.ID] = *admin
	return nil
}

func (r *MemoryAdminRepo) GetByID(id string) (*models.Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if a, ok := r.admins[id]; ok {
		return &a, nil
	}
	return nil, nil
}

func (r *MemoryAdminRepo) GetByEmail(email string) (*models.Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.admins {
		if a.Email == email {
			found := a
			return &found, nil
		}
	}
	return nil, nil
}

func (r *MemoryAdminRepo) UpdateLastLogin(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.admins[id]
	if !ok {
		return fmt.Errorf("admin %s not found", id)
	}
	now := time.Now()
	a.LastLogin = &now
	r.admins[id] = a
	return nil
}
