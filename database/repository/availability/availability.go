package availabilityRepo

import "mentorline/models"

// AvailabilityRepository defines methods for availability-window data access.
// Windows are immutable: there is no update, only add and remove.
type AvailabilityRepository interface {
	// Add inserts a new availability window.
	Add(window *models.AvailabilityWindow) error
	// Remove deletes a window by ID. Returns false if it did not exist.
	Remove(windowID string) (bool, error)
	// ListForMentor retrieves a mentor's windows in [startDate, endDate]
	// (inclusive, "2006-01-02" strings; empty string means unbounded),
	// ordered by date ascending.
	ListForMentor(mentorID, startDate, endDate string) ([]models.AvailabilityWindow, error)
}
