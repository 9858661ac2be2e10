package callerRepo

import (
	"sort"
	"sync"
	"time"

	"mentorline/models"
)

// MemoryCallerRepo implements CallerRepository with an in-process map.
// Used by tests and when no database is configured.
type MemoryCallerRepo struct {
	mu      sync.RWMutex
	callers map[string]models.Caller
}

// NewMemoryCallerRepo creates an empty in-memory caller repository.
func NewMemoryCallerRepo() *MemoryCallerRepo {
	return &MemoryCallerRepo{callers: make(map[string]models.Caller)}
}

func (r *MemoryCallerRepo) GetByIdentity(identity string) (*models.Caller, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if c, ok := r.callers[identity]; ok {
		return &c, nil
	}
	return nil, nil
}

func (r *MemoryCallerRepo) GetOrCreate(identity, name string) (*models.Caller, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.callers[identity]; ok {
		return &c, nil
	}
	now := time.Now()
	c := models.Caller{
		Identity:  identity,
		Name:      name,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.callers[identity] = c
	return &c, nil
}

func (r *MemoryCallerRepo) Update(caller *models.Caller) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	caller.UpdatedAt = time.Now()
	r.callers[caller.Identity] = *caller
	return nil
}

func (r *MemoryCallerRepo) List(skip, limit int) ([]models.Caller, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]models.Caller, 0, len(r.callers))
	for _, c := range r.callers {
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })

	if skip >= len(all) {
		return nil, nil
	}
	end := skip + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[skip:end], nil
}

func (r *MemoryCallerRepo) Delete(identity string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.callers[identity]; !ok {
		return false, nil
	}
	delete(r.callers, identity)
	return true, nil
}

func (r *MemoryCallerRepo) Count() (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.callers), nil
}
