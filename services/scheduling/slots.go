package scheduling

import (
	"sort"
	"time"

	appointmentRepo "mentorline/database/repository/appointment"
	availabilityRepo "mentorline/database/repository/availability"
	"mentorline/models"
)

// SlotService enumerates discrete bookable slots from availability windows.
type SlotService interface {
	// AvailableSlots returns the mentor's slot candidates for one date,
	// ordered by time. Candidates whose slot is held by an active appointment
	// are marked unavailable. Overlapping windows are de-duplicated by time,
	// first window wins.
	AvailableSlots(mentorID, date string) ([]models.SlotCandidate, error)
}

// DefaultSlotService is the standard implementation of SlotService.
type DefaultSlotService struct {
	Windows      availabilityRepo.AvailabilityRepository
	Appointments appointmentRepo.AppointmentRepository
}

// NewDefaultSlotService creates a SlotService over the given repositories.
func NewDefaultSlotService(windows availabilityRepo.AvailabilityRepository, appts appointmentRepo.AppointmentRepository) *DefaultSlotService {
	return &DefaultSlotService{Windows: windows, Appointments: appts}
}

// windowTimes walks a window from start to end in slot-duration steps. A
// trailing step that would run past the end is dropped.
func windowTimes(w models.AvailabilityWindow) []string {
	start, err := time.Parse("15:04", w.StartTime)
	if err != nil {
		return nil
	}
	end, err := time.Parse("15:04", w.EndTime)
	if err != nil {
		return nil
	}
	step := time.Duration(w.SlotDurationMinutes) * time.Minute
	if step <= 0 {
		return nil
	}

	var times []string
	for t := start; !t.Add(step).After(end); t = t.Add(step) {
		times = append(times, t.Format("15:04"))
	}
	return times
}

// slotInWindows reports whether timeStr is a valid slot start in any of the
// windows, and the slot duration of the first window containing it.
func slotInWindows(windows []models.AvailabilityWindow, timeStr string) (bool, int) {
	for _, w := range windows {
		for _, t := range windowTimes(w) {
			if t == timeStr {
				return true, w.SlotDurationMinutes
			}
		}
	}
	return false, 0
}

func (s *DefaultSlotService) AvailableSlots(mentorID, date string) ([]models.SlotCandidate, error) {
	windows, err := s.Windows.ListForMentor(mentorID, date, date)
	if err != nil {
		return nil, infra("list availability windows", err)
	}
	if len(windows) == 0 {
		return nil, nil
	}

	active, err := s.Appointments.ListForMentor(mentorID, models.ActiveStatuses, date, date)
	if err != nil {
		return nil, infra("list active appointments", err)
	}
	taken := make(map[string]bool, len(active))
	for _, a := range active {
		taken[a.Time] = true
	}

	seen := make(map[string]bool)
	var slots []models.SlotCandidate
	for _, w := range windows {
		for _, t := range windowTimes(w) {
			if seen[t] {
				continue
			}
			seen[t] = true
			slots = append(slots, models.SlotCandidate{Time: t, Available: !taken[t]})
		}
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].Time < slots[j].Time })
	return slots, nil
}
