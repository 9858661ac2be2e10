package scheduling

import (
	"context"
	"errors"

	appointmentRepo "mentorline/database/repository/appointment"
	availabilityRepo "mentorline/database/repository/availability"
	"mentorline/models"
	"mentorline/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LedgerService is the authoritative appointment record keeper. Book and
// Modify delegate their check-then-write to the repository's atomic
// operations, so a losing concurrent writer observes ConflictError rather
// than overwriting the winner.
type LedgerService interface {
	// IsSlotTaken reports whether an active appointment holds the slot.
	IsSlotTaken(mentorID, date, timeStr string) (bool, error)
	// Book creates an appointment in status booked. Fails with
	// MentorUnavailableError if no window of the mentor covers the slot, or
	// ConflictError if the slot is held at the instant of commit.
	Book(ctx context.Context, callerIdentity, mentorID, date, timeStr string, durationMinutes int, notes string) (*models.Appointment, error)
	// Cancel transitions the appointment to cancelled. Returns false, not an
	// error, if it does not exist or is already terminal.
	Cancel(appointmentID string) (bool, error)
	// CancelBySlot cancels the caller's own active appointment at date/time.
	CancelBySlot(callerIdentity, date, timeStr string) (bool, error)
	// Modify moves an active appointment to a new date/time, preserving its
	// mentor, as one atomic unit. A failed modify leaves the source untouched.
	Modify(ctx context.Context, appointmentID, newDate, newTime string) (*models.Appointment, error)
	// ModifyBySlot resolves the source by caller identity and old date/time.
	ModifyBySlot(ctx context.Context, callerIdentity, oldDate, oldTime, newDate, newTime string) (*models.Appointment, error)
	// GetByID retrieves an appointment, or nil if absent.
	GetByID(appointmentID string) (*models.Appointment, error)
	// ListForCaller returns the caller's appointments ordered by (date, time).
	ListForCaller(callerIdentity string, statuses []models.AppointmentStatus) ([]models.Appointment, error)
	// ListForMentor returns the mentor's appointments ordered by (date, time).
	ListForMentor(mentorID string, statuses []models.AppointmentStatus, startDate, endDate string) ([]models.Appointment, error)
}

// DefaultLedgerService is the standard implementation of LedgerService.
type DefaultLedgerService struct {
	Appointments appointmentRepo.AppointmentRepository
	Windows      availabilityRepo.AvailabilityRepository
}

// NewDefaultLedgerService creates a LedgerService over the given repositories.
func NewDefaultLedgerService(appts appointmentRepo.AppointmentRepository, windows availabilityRepo.AvailabilityRepository) *DefaultLedgerService {
	return &DefaultLedgerService{Appointments: appts, Windows: windows}
}

func (s *DefaultLedgerService) IsSlotTaken(mentorID, date, timeStr string) (bool, error) {
	taken, err := s.Appointments.IsSlotTaken(mentorID, date, timeStr)
	if err != nil {
		return false, infra("check slot", err)
	}
	return taken, nil
}

// coverage reports whether the mentor has a window slot at (date, time) and
// the slot's duration.
func (s *DefaultLedgerService) coverage(mentorID, date, timeStr string) (bool, int, error) {
	windows, err := s.Windows.ListForMentor(mentorID, date, date)
	if err != nil {
		return false, 0, infra("list availability windows", err)
	}
	covered, duration := slotInWindows(windows, timeStr)
	return covered, duration, nil
}

func (s *DefaultLedgerService) Book(ctx context.Context, callerIdentity, mentorID, date, timeStr string, durationMinutes int, notes string) (*models.Appointment, error) {
	covered, slotDuration, err := s.coverage(mentorID, date, timeStr)
	if err != nil {
		return nil, err
	}
	if !covered {
		return nil, &MentorUnavailableError{MentorID: mentorID, Date: date, Time: timeStr}
	}
	if durationMinutes <= 0 {
		durationMinutes = slotDuration
	}

	appt := &models.Appointment{
		ID:              uuid.New().String(),
		CallerIdentity:  callerIdentity,
		MentorID:        mentorID,
		Date:            date,
		Time:            timeStr,
		DurationMinutes: durationMinutes,
		Status:          models.AppointmentBooked,
		Notes:           notes,
	}
	if err := s.Appointments.InsertIfSlotFree(ctx, appt); err != nil {
		if errors.Is(err, appointmentRepo.ErrSlotTaken) {
			return nil, &ConflictError{MentorID: mentorID, Date: date, Time: timeStr}
		}
		return nil, infra("insert appointment", err)
	}

	utils.GetLogger().Info("appointment booked",
		zap.String("appointmentId", appt.ID),
		zap.String("mentorId", mentorID),
		zap.String("date", date),
		zap.String("time", timeStr))
	return appt, nil
}

func (s *DefaultLedgerService) Cancel(appointmentID string) (bool, error) {
	appt, err := s.Appointments.GetByID(appointmentID)
	if err != nil {
		return false, infra("fetch appointment", err)
	}
	if appt == nil || !appt.Cancel() {
		return false, nil
	}
	if err := s.Appointments.Update(appt); err != nil {
		return false, infra("update appointment", err)
	}

	utils.GetLogger().Info("appointment cancelled", zap.String("appointmentId", appointmentID))
	return true, nil
}

func (s *DefaultLedgerService) CancelBySlot(callerIdentity, date, timeStr string) (bool, error) {
	appt, err := s.Appointments.FindActiveBySlot(callerIdentity, date, timeStr)
	if err != nil {
		return false, infra("find appointment by slot", err)
	}
	if appt == nil {
		return false, nil
	}
	return s.Cancel(appt.ID)
}

func (s *DefaultLedgerService) Modify(ctx context.Context, appointmentID, newDate, newTime string) (*models.Appointment, error) {
	appt, err := s.Appointments.GetByID(appointmentID)
	if err != nil {
		return nil, infra("fetch appointment", err)
	}
	if appt == nil || !appt.Status.IsActive() {
		return nil, &NotFoundError{Resource: "appointment", Key: appointmentID}
	}

	covered, _, err := s.coverage(appt.MentorID, newDate, newTime)
	if err != nil {
		return nil, err
	}
	if !covered {
		return nil, &MentorUnavailableError{MentorID: appt.MentorID, Date: newDate, Time: newTime}
	}

	moved, err := s.Appointments.RescheduleIfSlotFree(ctx, appointmentID, newDate, newTime)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrSlotTaken) {
			return nil, &ConflictError{MentorID: appt.MentorID, Date: newDate, Time: newTime}
		}
		if errors.Is(err, appointmentRepo.ErrNotFound) {
			return nil, &NotFoundError{Resource: "appointment", Key: appointmentID}
		}
		return nil, infra("reschedule appointment", err)
	}

	utils.GetLogger().Info("appointment rescheduled",
		zap.String("appointmentId", appointmentID),
		zap.String("newDate", newDate),
		zap.String("newTime", newTime))
	return moved, nil
}

func (s *DefaultLedgerService) ModifyBySlot(ctx context.Context, callerIdentity, oldDate, oldTime, newDate, newTime string) (*models.Appointment, error) {
	appt, err := s.Appointments.FindActiveBySlot(callerIdentity, oldDate, oldTime)
	if err != nil {
		return nil, infra("find appointment by slot", err)
	}
	if appt == nil {
		return nil, &NotFoundError{Resource: "appointment", Key: oldDate + " " + oldTime}
	}
	return s.Modify(ctx, appt.ID, newDate, newTime)
}

func (s *DefaultLedgerService) GetByID(appointmentID string) (*models.Appointment, error) {
	appt, err := s.Appointments.GetByID(appointmentID)
	if err != nil {
		return nil, infra("fetch appointment", err)
	}
	return appt, nil
}

func (s *DefaultLedgerService) ListForCaller(callerIdentity string, statuses []models.AppointmentStatus) ([]models.Appointment, error) {
	appts, err := s.Appointments.ListForCaller(callerIdentity, statuses)
	if err != nil {
		return nil, infra("list appointments", err)
	}
	return appts, nil
}

func (s *DefaultLedgerService) ListForMentor(mentorID string, statuses []models.AppointmentStatus, startDate, endDate string) ([]models.Appointment, error) {
	appts, err := s.Appointments.ListForMentor(mentorID, statuses, startDate, endDate)
	if err != nil {
		return nil, infra("list appointments", err)
	}
	return appts, nil
}
