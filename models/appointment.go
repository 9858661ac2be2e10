package models

import "time"

// AppointmentStatus is the lifecycle state of an appointment.
type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "pending"
	AppointmentBooked    AppointmentStatus = "booked"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// ActiveStatuses are the statuses that hold a slot. At most one appointment
// in an active status may exist per (mentor, date, time).
var ActiveStatuses = []AppointmentStatus{AppointmentPending, AppointmentBooked}

// IsActive reports whether the status holds a slot.
func (s AppointmentStatus) IsActive() bool {
	return s == AppointmentPending || s == AppointmentBooked
}

// IsTerminal reports whether no further transitions are allowed.
func (s AppointmentStatus) IsTerminal() bool {
	return s == AppointmentCompleted || s == AppointmentCancelled
}

// Appointment is a confirmed booking of one slot. Status moves only through
// the methods below; direct field assignment skips the transition rules.
type Appointment struct {
	ID              string            `bson:"id" json:"id"`
	CallerIdentity  string            `bson:"callerIdentity" json:"callerIdentity"`
	MentorID        string            `bson:"mentorId,omitempty" json:"mentorId,omitempty"`
	Date            string            `bson:"date" json:"date"`
	Time            string            `bson:"time" json:"time"`
	DurationMinutes int               `bson:"durationMinutes" json:"durationMinutes"`
	Status          AppointmentStatus `bson:"status" json:"status"`
	Notes           string            `bson:"notes,omitempty" json:"notes,omitempty"`
	MentorNotes     string            `bson:"mentorNotes,omitempty" json:"mentorNotes,omitempty"`
	CreatedAt       time.Time         `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time         `bson:"updatedAt" json:"updatedAt"`
}

// Cancel transitions the appointment to cancelled. Returns false without
// mutating if the appointment is already in a terminal state.
func (a *Appointment) Cancel() bool {
	if !a.Status.IsActive() {
		return false
	}
	a.Status = AppointmentCancelled
	a.UpdatedAt = time.Now()
	return true
}

// Reschedule moves an active appointment to a new date and time, keeping the
// mentor assignment. Returns false if the appointment is in a terminal state.
func (a *Appointment) Reschedule(newDate, newTime string) bool {
	if !a.Status.IsActive() {
		return false
	}
	a.Date = newDate
	a.Time = newTime
	a.UpdatedAt = time.Now()
	return true
}

// Complete marks the appointment as held. Set by the admin surface, never by
// the conversation tools.
func (a *Appointment) Complete() bool {
	if a.Status != AppointmentBooked {
		return false
	}
	a.Status = AppointmentCompleted
	a.UpdatedAt = time.Now()
	return true
}

// AppointmentView is an appointment with the mentor's conversation-facing
// profile attached, as returned to the caller.
type AppointmentView struct {
	Appointment
	MentorName      string `json:"mentorName,omitempty"`
	MentorSpecialty string `json:"mentorSpecialty,omitempty"`
}
