package appointmentRepo

import (
	"context"
	"errors"

	"mentorline/models"
)

// ErrSlotTaken is returned by the atomic write operations when another
// active appointment already holds the (mentor, date, time) key.
var ErrSlotTaken = errors.New("slot already held by an active appointment")

// ErrNotFound is returned when the source appointment cannot be located in
// an active state.
var ErrNotFound = errors.New("appointment not found in an active state")

// Filter narrows ListAll results.
type Filter struct {
	Statuses  []models.AppointmentStatus
	MentorID  string
	StartDate string
	EndDate   string
}

// AppointmentRepository defines appointment data access. Implementations
// MUST make InsertIfSlotFree and RescheduleIfSlotFree atomic with respect to
// concurrent writers on the same (mentor, date, time) key: the slot check
// and the write are one unit, losers observe ErrSlotTaken.
type AppointmentRepository interface {
	// GetByID retrieves an appointment by ID, or nil if absent.
	GetByID(id string) (*models.Appointment, error)
	// IsSlotTaken reports whether an active appointment holds the key.
	IsSlotTaken(mentorID, date, timeStr string) (bool, error)
	// InsertIfSlotFree inserts the appointment unless its slot is held.
	InsertIfSlotFree(ctx context.Context, appt *models.Appointment) error
	// RescheduleIfSlotFree moves an active appointment to a new date/time,
	// preserving its mentor. Returns the updated appointment; on failure the
	// stored appointment is untouched.
	RescheduleIfSlotFree(ctx context.Context, apptID, newDate, newTime string) (*models.Appointment, error)
	// Update persists mutations made through the model's transition methods.
	Update(appt *models.Appointment) error
	// FindActiveBySlot locates a caller's own active appointment at date/time.
	FindActiveBySlot(callerIdentity, date, timeStr string) (*models.Appointment, error)
	// ListForCaller returns a caller's appointments ordered by (date, time).
	ListForCaller(identity string, statuses []models.AppointmentStatus) ([]models.Appointment, error)
	// ListForMentor returns a mentor's appointments ordered by (date, time).
	ListForMentor(mentorID string, statuses []models.AppointmentStatus, startDate, endDate string) ([]models.Appointment, error)
	// ListAll returns appointments matching the filter, ordered by (date, time).
	ListAll(filter Filter) ([]models.Appointment, error)
	// CountByStatus returns appointment counts grouped by status.
	CountByStatus() (map[models.AppointmentStatus]int, error)
}

func statusMatches(status models.AppointmentStatus, statuses []models.AppointmentStatus) bool {
	if len(statuses) == 0 {
		return true
	}
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}
