package models

import (
	"fmt"
	"time"
)

// AvailabilityWindow is a continuous open block on a mentor's calendar.
// Dates are "2006-01-02" strings, times "15:04" strings, matching the wire
// format used by the conversation tools. Windows are immutable: replace by
// delete + recreate.
type AvailabilityWindow struct {
	ID                  string    `bson:"id" json:"id"`
	MentorID            string    `bson:"mentorId" json:"mentorId"`
	Date                string    `bson:"date" json:"date"`
	StartTime           string    `bson:"startTime" json:"startTime"`
	EndTime             string    `bson:"endTime" json:"endTime"`
	SlotDurationMinutes int       `bson:"slotDurationMinutes" json:"slotDurationMinutes"`
	CreatedAt           time.Time `bson:"createdAt" json:"createdAt"`
}

// Validate enforces the window invariants: start before end, positive slot
// duration. A trailing partial slot is permitted and dropped at enumeration.
func (w AvailabilityWindow) Validate() error {
	start, err := time.Parse("15:04", w.StartTime)
	if err != nil {
		return fmt.Errorf("invalid start time %q: %w", w.StartTime, err)
	}
	end, err := time.Parse("15:04", w.EndTime)
	if err != nil {
		return fmt.Errorf("invalid end time %q: %w", w.EndTime, err)
	}
	if !start.Before(end) {
		return fmt.Errorf("start time %s must be before end time %s", w.StartTime, w.EndTime)
	}
	if w.SlotDurationMinutes <= 0 {
		return fmt.Errorf("slot duration must be positive, got %d", w.SlotDurationMinutes)
	}
	if _, err := time.Parse("2006-01-02", w.Date); err != nil {
		return fmt.Errorf("invalid date %q: %w", w.Date, err)
	}
	return nil
}

// SlotCandidate is one discrete bookable time unit derived from a window.
type SlotCandidate struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}
