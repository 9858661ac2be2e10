package availabilityRepo

import (
	"sort"
	"sync"
	"time"

	"mentorline/models"
)

// MemoryAvailabilityRepo implements AvailabilityRepository with an in-process slice.
type MemoryAvailabilityRepo struct {
	mu      sync.RWMutex
	windows []models.AvailabilityWindow
}

// NewMemoryAvailabilityRepo creates an empty in-memory availability repository.
func NewMemoryAvailabilityRepo() *MemoryAvailabilityRepo {
	return &MemoryAvailabilityRepo{}
}

func (r *MemoryAvailabilityRepo) Add(window *models.AvailabilityWindow) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	window.CreatedAt = time.Now()
	r.windows = append(r.windows, *window)
	return nil
}

func (r *MemoryAvailabilityRepo) Remove(windowID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, w := range r.windows {
		if w.ID == windowID {
			r.windows = append(r.windows[:i], r.windows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryAvailabilityRepo) ListForMentor(mentorID, startDate, endDate string) ([]models.AvailabilityWindow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var windows []models.AvailabilityWindow
	for _, w := range r.windows {
		if w.MentorID != mentorID {
			continue
		}
		if startDate != "" && w.Date < startDate {
			continue
		}
		if endDate != "" && w.Date > endDate {
			continue
		}
		windows = append(windows, w)
	}
	sort.Slice(windows, func(i, j int) bool {
		if windows[i].Date != windows[j].Date {
			return windows[i].Date < windows[j].Date
		}
		return windows[i].StartTime < windows[j].StartTime
	})
	return windows, nil
}
