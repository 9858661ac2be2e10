package mentorRepo

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"mentorline/models"
)

// MemoryMentorRepo implements MentorRepository with an in-process map.
type MemoryMentorRepo struct {
	mu      sync.RWMutex
	mentors map[string]models.Mentor
}

// NewMemoryMentorRepo creates an empty in-memory mentor repository.
func NewMemoryMentorRepo() *MemoryMentorRepo {
	return &MemoryMentorRepo{mentors: make(map[string]models.Mentor)}
}

func (r *MemoryMentorRepo) GetByID(id string) (*models.Mentor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if m, ok := r.mentors[id]; ok {
		return &m, nil
	}
	return nil, nil
}

func (r *MemoryMentorRepo) GetByEmail(email string) (*models.Mentor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, m := range r.mentors {
		if m.Email == email {
			return &m, nil
		}
	}
	return nil, nil
}

func (r *MemoryMentorRepo) List(activeOnly bool) ([]models.Mentor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var mentors []models.Mentor
	for _, m := range r.mentors {
		if activeOnly && !m.Active {
			continue
		}
		mentors = append(mentors, m)
	}
	sort.Slice(mentors, func(i, j int) bool { return mentors[i].Name < mentors[j].Name })
	return mentors, nil
}

func (r *MemoryMentorRepo) Create(mentor *models.Mentor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range r.mentors {
		if m.Email == mentor.Email {
			return fmt.Errorf("mentor email %s already exists", mentor.Email)
		}
	}
	now := time.Now()
	mentor.CreatedAt = now
	mentor.UpdatedAt = now
	r.mentors[mentor.ID] = *mentor
	return nil
}

func (r *MemoryMentorRepo) Update(mentor *models.Mentor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.mentors[mentor.ID]; !ok {
		return fmt.Errorf("mentor %s not found", mentor.ID)
	}
	mentor.UpdatedAt = time.Now()
	r.mentors[mentor.ID] = *mentor
	return nil
}

func (r *MemoryMentorRepo) Delete(id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.mentors[id]; !ok {
		return false, nil
	}
	delete(r.mentors, id)
	return true, nil
}

func (r *MemoryMentorRepo) CountActive() (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, m := range r.mentors {
		if m.Active {
			n++
		}
	}
	return n, nil
}
