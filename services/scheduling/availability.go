package scheduling

import (
	"time"

	availabilityRepo "mentorline/database/repository/availability"
	mentorRepo "mentorline/database/repository/mentor"
	"mentorline/models"
	"mentorline/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AvailabilityService manages mentors' open calendar windows.
type AvailabilityService interface {
	// AddWindow creates a new window for the mentor. The window is validated
	// but not checked for overlap with existing windows.
	AddWindow(mentorID, date, startTime, endTime string, slotDurationMinutes int) (*models.AvailabilityWindow, error)
	// RemoveWindow deletes a window by ID. Returns false if it did not exist.
	RemoveWindow(windowID string) (bool, error)
	// WindowsFor lists a mentor's windows in the inclusive date range, ordered
	// by date. Empty bounds are unbounded.
	WindowsFor(mentorID, startDate, endDate string) ([]models.AvailabilityWindow, error)
}

// DefaultAvailabilityService is the standard implementation of AvailabilityService.
type DefaultAvailabilityService struct {
	Windows availabilityRepo.AvailabilityRepository
	Mentors mentorRepo.MentorRepository
}

// NewDefaultAvailabilityService creates an AvailabilityService over the given repositories.
func NewDefaultAvailabilityService(windows availabilityRepo.AvailabilityRepository, mentors mentorRepo.MentorRepository) *DefaultAvailabilityService {
	return &DefaultAvailabilityService{Windows: windows, Mentors: mentors}
}

func (s *DefaultAvailabilityService) AddWindow(mentorID, date, startTime, endTime string, slotDurationMinutes int) (*models.AvailabilityWindow, error) {
	mentor, err := s.Mentors.GetByID(mentorID)
	if err != nil {
		return nil, infra("fetch mentor", err)
	}
	if mentor == nil || !mentor.Active {
		return nil, &MentorNotFoundError{NameOrID: mentorID}
	}

	window := &models.AvailabilityWindow{
		ID:                  uuid.New().String(),
		MentorID:            mentorID,
		Date:                date,
		StartTime:           startTime,
		EndTime:             endTime,
		SlotDurationMinutes: slotDurationMinutes,
		CreatedAt:           time.Now(),
	}
	if err := window.Validate(); err != nil {
		return nil, err
	}
	if err := s.Windows.Add(window); err != nil {
		return nil, infra("add availability window", err)
	}

	utils.GetLogger().Info("availability window added",
		zap.String("mentorId", mentorID),
		zap.String("date", date),
		zap.String("window", startTime+"-"+endTime))
	return window, nil
}

func (s *DefaultAvailabilityService) RemoveWindow(windowID string) (bool, error) {
	removed, err := s.Windows.Remove(windowID)
	if err != nil {
		return false, infra("remove availability window", err)
	}
	return removed, nil
}

func (s *DefaultAvailabilityService) WindowsFor(mentorID, startDate, endDate string) ([]models.AvailabilityWindow, error) {
	windows, err := s.Windows.ListForMentor(mentorID, startDate, endDate)
	if err != nil {
		return nil, infra("list availability windows", err)
	}
	return windows, nil
}
