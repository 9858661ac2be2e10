package appointmentRepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"mentorline/models"
)

// MemoryAppointmentRepo implements AppointmentRepository with an in-process
// slice. A single mutex around check-then-write gives the same atomicity the
// Mongo implementation gets from its partial unique index.
type MemoryAppointmentRepo struct {
	mu    sync.Mutex
	appts []models.Appointment
}

// NewMemoryAppointmentRepo creates an empty in-memory appointment repository.
func NewMemoryAppointmentRepo() *MemoryAppointmentRepo {
	return &MemoryAppointmentRepo{}
}

// slotHeldLocked reports whether an active appointment other than excludeID
// holds (mentor, date, time). Caller must hold the mutex.
func (r *MemoryAppointmentRepo) slotHeldLocked(mentorID, date, timeStr, excludeID string) bool {
	for _, a := range r.appts {
		if a.ID == excludeID {
			continue
		}
		if a.MentorID == mentorID && a.Date == date && a.Time == timeStr && a.Status.IsActive() {
			return true
		}
	}
	return false
}

func (r *MemoryAppointmentRepo) GetByID(id string) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.appts {
		if a.ID == id {
			found := a
			return &found, nil
		}
	}
	return nil, nil
}

func (r *MemoryAppointmentRepo) IsSlotTaken(mentorID, date, timeStr string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.slotHeldLocked(mentorID, date, timeStr, ""), nil
}

func (r *MemoryAppointmentRepo) InsertIfSlotFree(_ context.Context, appt *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.slotHeldLocked(appt.MentorID, appt.Date, appt.Time, "") {
		return ErrSlotTaken
	}
	now := time.Now()
	appt.CreatedAt = now
	appt.UpdatedAt = now
	r.appts = append(r.appts, *appt)
	return nil
}

func (r *MemoryAppointmentRepo) RescheduleIfSlotFree(_ context.Context, apptID, newDate, newTime string) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.appts {
		if r.appts[i].ID != apptID {
			continue
		}
		if !r.appts[i].Status.IsActive() {
			return nil, ErrNotFound
		}
		if r.slotHeldLocked(r.appts[i].MentorID, newDate, newTime, apptID) {
			return nil, ErrSlotTaken
		}
		r.appts[i].Reschedule(newDate, newTime)
		moved := r.appts[i]
		return &moved, nil
	}
	return nil, ErrNotFound
}

func (r *MemoryAppointmentRepo) Update(appt *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.appts {
		if r.appts[i].ID == appt.ID {
			appt.UpdatedAt = time.Now()
			r.appts[i] = *appt
			return nil
		}
	}
	return ErrNotFound
}

func (r *MemoryAppointmentRepo) FindActiveBySlot(callerIdentity, date, timeStr string) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.appts {
		if a.CallerIdentity == callerIdentity && a.Date == date && a.Time == timeStr && a.Status.IsActive() {
			found := a
			return &found, nil
		}
	}
	return nil, nil
}

func sortByDateTime(appts []models.Appointment) {
	sort.Slice(appts, func(i, j int) bool {
		if appts[i].Date != appts[j].Date {
			return appts[i].Date < appts[j].Date
		}
		return appts[i].Time < appts[j].Time
	})
}

func (r *MemoryAppointmentRepo) ListForCaller(identity string, statuses []models.AppointmentStatus) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Appointment
	for _, a := range r.appts {
		if a.CallerIdentity == identity && statusMatches(a.Status, statuses) {
			out = append(out, a)
		}
	}
	sortByDateTime(out)
	return out, nil
}

func (r *MemoryAppointmentRepo) ListForMentor(mentorID string, statuses []models.AppointmentStatus, startDate, endDate string) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Appointment
	for _, a := range r.appts {
		if a.MentorID != mentorID || !statusMatches(a.Status, statuses) {
			continue
		}
		if startDate != "" && a.Date < startDate {
			continue
		}
		if endDate != "" && a.Date > endDate {
			continue
		}
		out = append(out, a)
	}
	sortByDateTime(out)
	return out, nil
}

func (r *MemoryAppointmentRepo) ListAll(f Filter) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Appointment
	for _, a := range r.appts {
		if !statusMatches(a.Status, f.Statuses) {
			continue
		}
		if f.MentorID != "" && a.MentorID != f.MentorID {
			continue
		}
		if f.StartDate != "" && a.Date < f.StartDate {
			continue
		}
		if f.EndDate != "" && a.Date > f.EndDate {
			continue
		}
		out = append(out, a)
	}
	sortByDateTime(out)
	return out, nil
}

func (r *MemoryAppointmentRepo) CountByStatus() (map[models.AppointmentStatus]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	counts := make(map[models.AppointmentStatus]int)
	for _, a := range r.appts {
		counts[a.Status]++
	}
	return counts, nil
}
