package scheduling

import (
	"errors"
	"fmt"
)

// ConflictError reports a lost slot race: another active appointment already
// holds the (mentor, date, time) key at the instant of commit.
type ConflictError struct {
	MentorID string
	Date     string
	Time     string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("slot %s %s is already booked for mentor %s", e.Date, e.Time, e.MentorID)
}

// MentorUnavailableError reports that no availability window of the mentor
// covers the requested date and time.
type MentorUnavailableError struct {
	MentorID string
	Date     string
	Time     string
}

func (e *MentorUnavailableError) Error() string {
	return fmt.Sprintf("mentor %s has no availability at %s %s", e.MentorID, e.Date, e.Time)
}

// MentorNotFoundError reports that a mentor name or ID resolved to nothing.
type MentorNotFoundError struct {
	NameOrID string
}

func (e *MentorNotFoundError) Error() string {
	return fmt.Sprintf("no active mentor matches %q", e.NameOrID)
}

// NotFoundError reports an absent record or one in the wrong state for the
// requested operation.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found in an eligible state", e.Resource, e.Key)
}

// PastDateError reports a proposed date/time that has already elapsed.
type PastDateError struct {
	Date string
	Time string
}

func (e *PastDateError) Error() string {
	return fmt.Sprintf("%s %s is in the past", e.Date, e.Time)
}

// InfrastructureError wraps a storage or transport failure. Callers may
// retry; the wrapped operations are safe to replay.
type InfrastructureError struct {
	Op  string
	Err error
}

func (e *InfrastructureError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *InfrastructureError) Unwrap() error { return e.Err }

func infra(op string, err error) error {
	return &InfrastructureError{Op: op, Err: err}
}

// IsDomainError reports whether err belongs to the domain taxonomy, as
// opposed to an infrastructure failure. Domain errors are conversation-safe:
// the dispatcher turns them into guidance strings and the conversation
// continues.
func IsDomainError(err error) bool {
	var conflict *ConflictError
	var unavailable *MentorUnavailableError
	var noMentor *MentorNotFoundError
	var notFound *NotFoundError
	var pastDate *PastDateError
	return errors.As(err, &conflict) ||
		errors.As(err, &unavailable) ||
		errors.As(err, &noMentor) ||
		errors.As(err, &notFound) ||
		errors.As(err, &pastDate)
}
