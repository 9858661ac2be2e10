package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mentorline/models"
	"mentorline/services/conversation"
	"mentorline/services/scheduling"
)

// NotIdentifiedError reports a tool requiring a bound caller invoked before
// a successful identify.
type NotIdentifiedError struct{}

func (e *NotIdentifiedError) Error() string {
	return "caller has not been identified yet"
}

// Dispatcher routes named tool calls from the external decision-maker to
// their handlers, records every call on the session's action log and mirrors
// it to observers. Domain failures come back as caller-facing guidance
// strings so the conversation can continue; only infrastructure and
// programming errors are returned as errors to the host.
type Dispatcher struct {
	Registry  *Registry
	Sessions  conversation.SessionService
	Observers []Observer

	// Now is the clock used for past-date validation and the default slot
	// window. Overridable in tests.
	Now func() time.Time
}

// NewDispatcher creates a dispatcher over the given registry and session service.
func NewDispatcher(registry *Registry, sessions conversation.SessionService, observers ...Observer) *Dispatcher {
	return &Dispatcher{
		Registry:  registry,
		Sessions:  sessions,
		Observers: observers,
		Now:       time.Now,
	}
}

// ErrUnknownTool is returned when the decision-maker names a tool that was
// never registered.
var ErrUnknownTool = errors.New("unknown tool")

// ErrSessionClosed is returned when a tool call arrives for a session
// already in a terminal state.
var ErrSessionClosed = errors.New("session is no longer active")

// Invoke executes one tool call within a session. The returned string is the
// natural-language result for the decision-maker.
func (d *Dispatcher) Invoke(ctx context.Context, sessionID, toolName string, args map[string]any) (string, error) {
	tool, ok := d.Registry.Get(toolName)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownTool, toolName)
	}

	session, err := d.Sessions.Get(sessionID)
	if err != nil {
		return "", err
	}
	if session == nil {
		return "", &scheduling.NotFoundError{Resource: "session", Key: sessionID}
	}
	if session.Status.IsTerminal() {
		return "", ErrSessionClosed
	}

	if args == nil {
		args = make(map[string]any)
	}
	result, err := tool.Handler(ctx, session, args)
	if err != nil {
		guidance, ok := guidanceFor(err)
		if !ok {
			return "", err
		}
		result = guidance
	}

	entry := models.ActionEntry{
		Tool:      toolName,
		Args:      args,
		Result:    result,
		Timestamp: d.Now(),
	}
	if recErr := d.Sessions.RecordAction(sessionID, entry); recErr != nil {
		return "", recErr
	}
	d.emit(Event{
		SessionID: sessionID,
		Tool:      toolName,
		Args:      args,
		Result:    result,
		Timestamp: entry.Timestamp,
	})
	return result, nil
}

func (d *Dispatcher) emit(event Event) {
	for _, o := range d.Observers {
		o.ToolInvoked(event)
	}
}

// guidanceFor converts a domain error into the caller-facing string the
// conversation continues with. Infrastructure and programming errors are not
// converted.
func guidanceFor(err error) (string, bool) {
	var conflict *scheduling.ConflictError
	if errors.As(err, &conflict) {
		return fmt.Sprintf("I'm sorry, the %s slot on %s was just taken. Would another time work?", conflict.Time, conflict.Date), true
	}
	var unavailable *scheduling.MentorUnavailableError
	if errors.As(err, &unavailable) {
		return fmt.Sprintf("That mentor isn't available at %s on %s. Would you like to hear their open slots?", unavailable.Time, unavailable.Date), true
	}
	var noMentor *scheduling.MentorNotFoundError
	if errors.As(err, &noMentor) {
		return fmt.Sprintf("I couldn't find a mentor named %s. Would you like me to list the available mentors?", noMentor.NameOrID), true
	}
	var notFound *scheduling.NotFoundError
	if errors.As(err, &notFound) {
		return "I couldn't find that appointment. Could you double-check the date and time?", true
	}
	var pastDate *scheduling.PastDateError
	if errors.As(err, &pastDate) {
		return fmt.Sprintf("%s at %s is already in the past. Could you pick a future time?", pastDate.Date, pastDate.Time), true
	}
	var notIdentified *NotIdentifiedError
	if errors.As(err, &notIdentified) {
		return "I don't have your details yet. Could you share your phone number first?", true
	}
	var badInput *InvalidInputError
	if errors.As(err, &badInput) {
		return badInput.Guidance, true
	}
	return "", false
}

// InvalidInputError reports unparseable caller input (dates, times, phone
// numbers) with ready-made guidance.
type InvalidInputError struct {
	Guidance string
}

func (e *InvalidInputError) Error() string { return e.Guidance }
