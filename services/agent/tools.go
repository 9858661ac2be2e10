package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	callerRepo "mentorline/database/repository/caller"
	mentorRepo "mentorline/database/repository/mentor"
	"mentorline/models"
	"mentorline/services/conversation"
	"mentorline/services/scheduling"
)

// defaultSlotLookaheadDays is how many business days get_available_slots
// covers when the caller names no date.
const defaultSlotLookaheadDays = 3

// Toolset binds the scheduling and conversation services to the eight
// conversation tools.
type Toolset struct {
	Ledger   scheduling.LedgerService
	Slots    scheduling.SlotService
	Mentors  mentorRepo.MentorRepository
	Callers  callerRepo.CallerRepository
	Sessions conversation.SessionService
	Context  conversation.ContextService

	// DefaultCountryCode prefixes bare ten-digit phone numbers.
	DefaultCountryCode string

	// Now is the clock used for past-date checks and the default slot window.
	Now func() time.Time
}

// NewToolset creates a Toolset over the given services.
func NewToolset(ledger scheduling.LedgerService, slots scheduling.SlotService, mentors mentorRepo.MentorRepository, callers callerRepo.CallerRepository, sessions conversation.SessionService, contextSvc conversation.ContextService, defaultCountryCode string) *Toolset {
	return &Toolset{
		Ledger:             ledger,
		Slots:              slots,
		Mentors:            mentors,
		Callers:            callers,
		Sessions:           sessions,
		Context:            contextSvc,
		DefaultCountryCode: defaultCountryCode,
		Now:                time.Now,
	}
}

// RegisterAll registers the eight conversation tools on the registry.
func (t *Toolset) RegisterAll(r *Registry) {
	r.Register(Tool{
		Name:        "identify",
		Description: "Identify the caller by phone number and optionally their name. Must be called before any booking tool.",
		Params: []Param{
			{Name: "phone", Type: "string", Description: "The caller's phone number in any format", Required: true},
			{Name: "name", Type: "string", Description: "The caller's name, if they gave one"},
		},
		Handler: t.identify,
	})
	r.Register(Tool{
		Name:        "list_mentors",
		Description: "List the mentors currently taking appointments, with their specialties.",
		Handler:     t.listMentors,
	})
	r.Register(Tool{
		Name:        "get_available_slots",
		Description: "Get a mentor's open appointment slots. Defaults to the next few business days when no date is given.",
		Params: []Param{
			{Name: "mentor", Type: "string", Description: "The mentor's name", Required: true},
			{Name: "date", Type: "string", Description: "A date in YYYY-MM-DD form"},
		},
		Handler: t.getAvailableSlots,
	})
	r.Register(Tool{
		Name:        "book_appointment",
		Description: "Book an appointment with a mentor at a date and time. The caller must be identified first.",
		Params: []Param{
			{Name: "date", Type: "string", Description: "The appointment date in YYYY-MM-DD form", Required: true},
			{Name: "time", Type: "string", Description: "The appointment time, e.g. '9 AM' or '14:30'", Required: true},
			{Name: "mentor", Type: "string", Description: "The mentor's name", Required: true},
			{Name: "notes", Type: "string", Description: "Anything the mentor should know in advance"},
		},
		Handler: t.bookAppointment,
	})
	r.Register(Tool{
		Name:        "get_my_appointments",
		Description: "List the caller's upcoming appointments.",
		Handler:     t.getMyAppointments,
	})
	r.Register(Tool{
		Name:        "cancel_appointment",
		Description: "Cancel one of the caller's appointments by date and time, or by appointment ID when known.",
		Params: []Param{
			{Name: "date", Type: "string", Description: "The appointment date in YYYY-MM-DD form", Required: true},
			{Name: "time", Type: "string", Description: "The appointment time", Required: true},
			{Name: "appointmentId", Type: "string", Description: "The appointment ID, if known"},
		},
		Handler: t.cancelAppointment,
	})
	r.Register(Tool{
		Name:        "modify_appointment",
		Description: "Move one of the caller's appointments to a new date and time, keeping the same mentor.",
		Params: []Param{
			{Name: "oldDate", Type: "string", Description: "The current appointment date", Required: true},
			{Name: "oldTime", Type: "string", Description: "The current appointment time", Required: true},
			{Name: "newDate", Type: "string", Description: "The new date in YYYY-MM-DD form", Required: true},
			{Name: "newTime", Type: "string", Description: "The new time", Required: true},
			{Name: "appointmentId", Type: "string", Description: "The appointment ID, if known"},
		},
		Handler: t.modifyAppointment,
	})
	r.Register(Tool{
		Name:        "end_conversation",
		Description: "End the conversation, summarizing what was done during the call.",
		Handler:     t.endConversation,
	})
}

func strArg(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return strings.TrimSpace(v)
}

func (t *Toolset) requireIdentity(session *models.ConversationSession) (string, error) {
	if session.CallerIdentity == "" {
		return "", &NotIdentifiedError{}
	}
	return session.CallerIdentity, nil
}

// resolveMentor matches a mentor by ID, then by case-insensitive exact name
// among active mentors.
func (t *Toolset) resolveMentor(nameOrID string) (*models.Mentor, error) {
	if nameOrID == "" {
		return nil, &scheduling.MentorNotFoundError{NameOrID: nameOrID}
	}
	if mentor, err := t.Mentors.GetByID(nameOrID); err != nil {
		return nil, err
	} else if mentor != nil && mentor.Active {
		return mentor, nil
	}
	mentors, err := t.Mentors.List(true)
	if err != nil {
		return nil, err
	}
	for i := range mentors {
		if strings.EqualFold(mentors[i].Name, nameOrID) {
			return &mentors[i], nil
		}
	}
	return nil, &scheduling.MentorNotFoundError{NameOrID: nameOrID}
}

func (t *Toolset) identify(_ context.Context, session *models.ConversationSession, args map[string]any) (string, error) {
	identity := NormalizePhone(strArg(args, "phone"), t.DefaultCountryCode)
	if identity == "" {
		return "", &InvalidInputError{Guidance: "I didn't catch a valid phone number. Could you repeat it?"}
	}
	name := strArg(args, "name")

	caller, err := t.Callers.GetOrCreate(identity, name)
	if err != nil {
		return "", err
	}
	if name != "" && caller.Name != name {
		caller.Name = name
		if err := t.Callers.Update(caller); err != nil {
			return "", err
		}
		t.Context.Invalidate(identity)
	}
	// Context is read before the session binds so the caller's own
	// in-progress session never counts toward their history.
	cc, err := t.Context.Load(identity)
	if err != nil {
		return "", err
	}
	if err := t.Sessions.BindCaller(session.ID, identity); err != nil {
		return "", err
	}
	session.CallerIdentity = identity

	return greetingFor(caller, cc), nil
}

func greetingFor(caller *models.Caller, cc *models.CallerContext) string {
	salutation := ""
	if caller.Name != "" {
		salutation = ", " + caller.Name
	}
	if cc == nil || !cc.IsReturning {
		return fmt.Sprintf("Nice to meet you%s! How can I help you schedule an appointment today?", salutation)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Welcome back%s!", salutation)
	upcoming := len(cc.Appointments.Booked) + len(cc.Appointments.Pending)
	if upcoming == 1 {
		b.WriteString(" You have 1 upcoming appointment.")
	} else if upcoming > 1 {
		fmt.Fprintf(&b, " You have %d upcoming appointments.", upcoming)
	}
	if cc.LastSession.Summary != "" {
		fmt.Fprintf(&b, " Last time: %s", cc.LastSession.Summary)
	}
	b.WriteString(" How can I help you today?")
	return b.String()
}

func (t *Toolset) listMentors(_ context.Context, _ *models.ConversationSession, _ map[string]any) (string, error) {
	mentors, err := t.Mentors.List(true)
	if err != nil {
		return "", err
	}
	if len(mentors) == 0 {
		return "No mentors are taking appointments right now.", nil
	}
	parts := make([]string, 0, len(mentors))
	for _, m := range mentors {
		p := m.Profile()
		if p.Specialty != "" {
			parts = append(parts, fmt.Sprintf("%s (%s)", p.Name, p.Specialty))
		} else {
			parts = append(parts, p.Name)
		}
	}
	return "Our available mentors are: " + strings.Join(parts, ", ") + ".", nil
}

func (t *Toolset) getAvailableSlots(_ context.Context, _ *models.ConversationSession, args map[string]any) (string, error) {
	mentor, err := t.resolveMentor(strArg(args, "mentor"))
	if err != nil {
		return "", err
	}
	args["mentorName"] = mentor.Name

	var dates []string
	if raw := strArg(args, "date"); raw != "" {
		date, err := NormalizeDate(raw)
		if err != nil {
			return "", &InvalidInputError{Guidance: "I didn't understand that date. Could you give it as year-month-day?"}
		}
		dates = []string{date}
	} else {
		dates = NextBusinessDays(t.Now(), defaultSlotLookaheadDays)
	}

	var lines []string
	for _, date := range dates {
		slots, err := t.Slots.AvailableSlots(mentor.ID, date)
		if err != nil {
			return "", err
		}
		var open []string
		for _, s := range slots {
			if s.Available {
				open = append(open, s.Time)
			}
		}
		if len(open) > 0 {
			lines = append(lines, fmt.Sprintf("%s: %s", date, strings.Join(open, ", ")))
		}
	}
	if len(lines) == 0 {
		return fmt.Sprintf("%s has no open slots in that period. Would you like to try different dates?", mentor.Name), nil
	}
	return fmt.Sprintf("%s is available on %s.", mentor.Name, strings.Join(lines, "; ")), nil
}

func (t *Toolset) bookAppointment(ctx context.Context, session *models.ConversationSession, args map[string]any) (string, error) {
	identity, err := t.requireIdentity(session)
	if err != nil {
		return "", err
	}
	date, err := NormalizeDate(strArg(args, "date"))
	if err != nil {
		return "", &InvalidInputError{Guidance: "I didn't understand that date. Could you give it as year-month-day?"}
	}
	timeStr, err := NormalizeTime(strArg(args, "time"))
	if err != nil {
		return "", &InvalidInputError{Guidance: "I didn't understand that time. Could you say it like '9 AM' or '14:30'?"}
	}
	if IsPast(date, timeStr, t.Now()) {
		return "", &scheduling.PastDateError{Date: date, Time: timeStr}
	}
	mentor, err := t.resolveMentor(strArg(args, "mentor"))
	if err != nil {
		return "", err
	}

	appt, err := t.Ledger.Book(ctx, identity, mentor.ID, date, timeStr, 0, strArg(args, "notes"))
	if err != nil {
		return "", err
	}
	args["date"] = date
	args["time"] = timeStr
	args["mentorName"] = mentor.Name
	args["appointmentId"] = appt.ID
	args["succeeded"] = true
	t.Context.Invalidate(identity)
	return fmt.Sprintf("You're booked with %s on %s at %s. Anything else I can help with?", mentor.Name, date, timeStr), nil
}

func (t *Toolset) getMyAppointments(_ context.Context, session *models.ConversationSession, _ map[string]any) (string, error) {
	identity, err := t.requireIdentity(session)
	if err != nil {
		return "", err
	}
	appts, err := t.Ledger.ListForCaller(identity, models.ActiveStatuses)
	if err != nil {
		return "", err
	}
	if len(appts) == 0 {
		return "You have no upcoming appointments.", nil
	}

	parts := make([]string, 0, len(appts))
	for _, a := range appts {
		line := fmt.Sprintf("%s at %s", a.Date, a.Time)
		if a.MentorID != "" {
			if mentor, err := t.Mentors.GetByID(a.MentorID); err == nil && mentor != nil {
				line += " with " + mentor.Name
			}
		}
		parts = append(parts, line)
	}
	return "You have " + pluralAppointments(len(parts)) + ": " + strings.Join(parts, "; ") + ".", nil
}

func pluralAppointments(n int) string {
	if n == 1 {
		return "1 upcoming appointment"
	}
	return fmt.Sprintf("%d upcoming appointments", n)
}

func (t *Toolset) cancelAppointment(_ context.Context, session *models.ConversationSession, args map[string]any) (string, error) {
	identity, err := t.requireIdentity(session)
	if err != nil {
		return "", err
	}

	if id := strArg(args, "appointmentId"); id != "" {
		appt, err := t.Ledger.GetByID(id)
		if err != nil {
			return "", err
		}
		if appt == nil || appt.CallerIdentity != identity {
			return "", &scheduling.NotFoundError{Resource: "appointment", Key: id}
		}
		ok, err := t.Ledger.Cancel(id)
		if err != nil {
			return "", err
		}
		if !ok {
			return fmt.Sprintf("That appointment on %s at %s was already cancelled.", appt.Date, appt.Time), nil
		}
		args["date"] = appt.Date
		args["time"] = appt.Time
		args["succeeded"] = true
		t.Context.Invalidate(identity)
		return fmt.Sprintf("Your appointment on %s at %s has been cancelled.", appt.Date, appt.Time), nil
	}

	date, err := NormalizeDate(strArg(args, "date"))
	if err != nil {
		return "", &InvalidInputError{Guidance: "I didn't understand that date. Could you give it as year-month-day?"}
	}
	timeStr, err := NormalizeTime(strArg(args, "time"))
	if err != nil {
		return "", &InvalidInputError{Guidance: "I didn't understand that time. Could you say it like '9 AM' or '14:30'?"}
	}

	ok, err := t.Ledger.CancelBySlot(identity, date, timeStr)
	if err != nil {
		return "", err
	}
	if !ok {
		return fmt.Sprintf("I couldn't find an active appointment on %s at %s to cancel.", date, timeStr), nil
	}
	args["date"] = date
	args["time"] = timeStr
	args["succeeded"] = true
	t.Context.Invalidate(identity)
	return fmt.Sprintf("Your appointment on %s at %s has been cancelled.", date, timeStr), nil
}

func (t *Toolset) modifyAppointment(ctx context.Context, session *models.ConversationSession, args map[string]any) (string, error) {
	identity, err := t.requireIdentity(session)
	if err != nil {
		return "", err
	}
	newDate, err := NormalizeDate(strArg(args, "newDate"))
	if err != nil {
		return "", &InvalidInputError{Guidance: "I didn't understand the new date. Could you give it as year-month-day?"}
	}
	newTime, err := NormalizeTime(strArg(args, "newTime"))
	if err != nil {
		return "", &InvalidInputError{Guidance: "I didn't understand the new time. Could you say it like '9 AM' or '14:30'?"}
	}
	if IsPast(newDate, newTime, t.Now()) {
		return "", &scheduling.PastDateError{Date: newDate, Time: newTime}
	}

	var moved *models.Appointment
	var oldDate, oldTime string
	if id := strArg(args, "appointmentId"); id != "" {
		appt, err := t.Ledger.GetByID(id)
		if err != nil {
			return "", err
		}
		if appt == nil || appt.CallerIdentity != identity {
			return "", &scheduling.NotFoundError{Resource: "appointment", Key: id}
		}
		oldDate, oldTime = appt.Date, appt.Time
		moved, err = t.Ledger.Modify(ctx, id, newDate, newTime)
		if err != nil {
			return "", err
		}
	} else {
		oldDate, err = NormalizeDate(strArg(args, "oldDate"))
		if err != nil {
			return "", &InvalidInputError{Guidance: "I didn't understand the current appointment's date. Could you give it as year-month-day?"}
		}
		oldTime, err = NormalizeTime(strArg(args, "oldTime"))
		if err != nil {
			return "", &InvalidInputError{Guidance: "I didn't understand the current appointment's time. Could you say it like '9 AM' or '14:30'?"}
		}
		moved, err = t.Ledger.ModifyBySlot(ctx, identity, oldDate, oldTime, newDate, newTime)
		if err != nil {
			return "", err
		}
	}

	args["oldDate"] = oldDate
	args["oldTime"] = oldTime
	args["newDate"] = newDate
	args["newTime"] = newTime
	args["succeeded"] = true
	t.Context.Invalidate(identity)

	mentorName := ""
	if mentor, err := t.Mentors.GetByID(moved.MentorID); err == nil && mentor != nil {
		mentorName = " with " + mentor.Name
	}
	return fmt.Sprintf("Your appointment%s has been moved to %s at %s.", mentorName, newDate, newTime), nil
}

func (t *Toolset) endConversation(_ context.Context, session *models.ConversationSession, _ map[string]any) (string, error) {
	ended, err := t.Sessions.End(session.ID)
	if err != nil {
		return "", err
	}
	return ended.Summary + " Thanks for calling, goodbye!", nil
}
