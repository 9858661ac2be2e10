package agent

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	appointmentRepo "mentorline/database/repository/appointment"
	availabilityRepo "mentorline/database/repository/availability"
	callerRepo "mentorline/database/repository/caller"
	mentorRepo "mentorline/database/repository/mentor"
	sessionRepo "mentorline/database/repository/session"
	"mentorline/models"
	"mentorline/services/conversation"
	"mentorline/services/scheduling"
)

// testClock is a Saturday, so the default slot window starts the following
// Monday 2025-03-10.
var testClock = time.Date(2025, 3, 8, 12, 0, 0, 0, time.UTC)

type fixture struct {
	dispatcher *Dispatcher
	sessions   conversation.SessionService
	ledger     scheduling.LedgerService
	mentors    *mentorRepo.MemoryMentorRepo
	windows    *availabilityRepo.MemoryAvailabilityRepo
	appts      *appointmentRepo.MemoryAppointmentRepo
	events     []Event
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mentors := mentorRepo.NewMemoryMentorRepo()
	callers := callerRepo.NewMemoryCallerRepo()
	windows := availabilityRepo.NewMemoryAvailabilityRepo()
	appts := appointmentRepo.NewMemoryAppointmentRepo()
	sessions := sessionRepo.NewMemorySessionRepo()

	now := time.Now()
	for _, m := range []models.Mentor{
		{ID: "m-sarah", Name: "Dr. Sarah Smith", Email: "sarah@example.com", Specialty: "General Consultation", Active: true, CreatedAt: now},
		{ID: "m-john", Name: "Dr. John Doe", Email: "john@example.com", Specialty: "Technical Review", Active: true, CreatedAt: now},
	} {
		if err := mentors.Create(&m); err != nil {
			t.Fatalf("failed to seed mentor: %v", err)
		}
	}
	for _, date := range []string{"2025-03-10", "2025-03-11", "2025-03-12"} {
		w := models.AvailabilityWindow{
			ID: "w-" + date, MentorID: "m-sarah", Date: date,
			StartTime: "09:00", EndTime: "12:00", SlotDurationMinutes: 30,
		}
		if err := windows.Add(&w); err != nil {
			t.Fatalf("failed to seed window: %v", err)
		}
	}

	pricing := conversation.PricingTable{STTPerSecond: 0.01, TTSPerChar: 0.0001, LLMInputPer1K: 0.1, LLMOutputPer1K: 0.2}
	sessionSvc := conversation.NewDefaultSessionService(sessions, pricing)
	contextSvc := conversation.NewDefaultContextService(callers, appts, sessions, nil)
	ledger := scheduling.NewDefaultLedgerService(appts, windows)
	slots := scheduling.NewDefaultSlotService(windows, appts)

	toolset := NewToolset(ledger, slots, mentors, callers, sessionSvc, contextSvc, "+1")
	toolset.Now = func() time.Time { return testClock }

	registry := NewRegistry()
	toolset.RegisterAll(registry)

	f := &fixture{sessions: sessionSvc, ledger: ledger, mentors: mentors, windows: windows, appts: appts}
	f.dispatcher = NewDispatcher(registry, sessionSvc, ObserverFunc(func(e Event) {
		f.events = append(f.events, e)
	}))
	f.dispatcher.Now = func() time.Time { return testClock }
	return f
}

func (f *fixture) startSession(t *testing.T) string {
	t.Helper()
	session, err := f.sessions.Start()
	if err != nil {
		t.Fatalf("failed to start session: %v", err)
	}
	return session.ID
}

func (f *fixture) invoke(t *testing.T, sessionID, tool string, args map[string]any) string {
	t.Helper()
	result, err := f.dispatcher.Invoke(context.Background(), sessionID, tool, args)
	if err != nil {
		t.Fatalf("invoke %s failed: %v", tool, err)
	}
	return result
}

func TestInvokeUnknownTool(t *testing.T) {
	f := newFixture(t)
	id := f.startSession(t)
	_, err := f.dispatcher.Invoke(context.Background(), id, "reboot_universe", nil)
	if !errors.Is(err, ErrUnknownTool) {
		t.Errorf("error = %v, want ErrUnknownTool", err)
	}
}

func TestInvokeOnClosedSession(t *testing.T) {
	f := newFixture(t)
	id := f.startSession(t)
	f.invoke(t, id, "end_conversation", nil)
	_, err := f.dispatcher.Invoke(context.Background(), id, "list_mentors", nil)
	if !errors.Is(err, ErrSessionClosed) {
		t.Errorf("error = %v, want ErrSessionClosed", err)
	}
}

func TestBookingBeforeIdentifyIsGuidedNotFatal(t *testing.T) {
	f := newFixture(t)
	id := f.startSession(t)
	result := f.invoke(t, id, "book_appointment", map[string]any{
		"date": "2025-03-10", "time": "09:00", "mentor": "Dr. Sarah Smith",
	})
	if !strings.Contains(result, "phone number") {
		t.Errorf("result = %q, want identification guidance", result)
	}
	appts, _ := f.ledger.ListForCaller("", models.ActiveStatuses)
	if len(appts) != 0 {
		t.Errorf("ledger written despite missing identity: %v", appts)
	}
}

func TestPastDateRejectedWithoutLedgerWrite(t *testing.T) {
	f := newFixture(t)
	id := f.startSession(t)
	f.invoke(t, id, "identify", map[string]any{"phone": "5551230000", "name": "Ana"})

	result := f.invoke(t, id, "book_appointment", map[string]any{
		"date": "2025-03-07", "time": "09:00", "mentor": "Dr. Sarah Smith",
	})
	if !strings.Contains(result, "past") {
		t.Errorf("result = %q, want a past-date rejection", result)
	}
	appts, err := f.ledger.ListForCaller("+15551230000", nil)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(appts) != 0 {
		t.Errorf("ledger written for past date: %v", appts)
	}
}

func TestIdentifyIsIdempotent(t *testing.T) {
	f := newFixture(t)
	id := f.startSession(t)
	first := f.invoke(t, id, "identify", map[string]any{"phone": "(555) 123-0000", "name": "Ana"})
	if !strings.Contains(first, "Ana") {
		t.Errorf("greeting %q does not address the caller", first)
	}
	// Same identity, new display name: refreshes the name, nothing else.
	second := f.invoke(t, id, "identify", map[string]any{"phone": "5551230000", "name": "Ana Lima"})
	if !strings.Contains(second, "Ana Lima") {
		t.Errorf("greeting after re-identify = %q, want refreshed name", second)
	}

	session, err := f.sessions.Get(id)
	if err != nil {
		t.Fatalf("get session failed: %v", err)
	}
	if session.CallerIdentity != "+15551230000" {
		t.Errorf("session identity = %q, want +15551230000", session.CallerIdentity)
	}
}

func TestConflictingBookIsGuided(t *testing.T) {
	f := newFixture(t)
	id := f.startSession(t)
	f.invoke(t, id, "identify", map[string]any{"phone": "5551230000"})
	f.invoke(t, id, "book_appointment", map[string]any{
		"date": "2025-03-10", "time": "09:00", "mentor": "Dr. Sarah Smith",
	})

	other := f.startSession(t)
	f.invoke(t, other, "identify", map[string]any{"phone": "5559998888"})
	result := f.invoke(t, other, "book_appointment", map[string]any{
		"date": "2025-03-10", "time": "09:00", "mentor": "Dr. Sarah Smith",
	})
	if !strings.Contains(result, "taken") {
		t.Errorf("result = %q, want conflict guidance", result)
	}
}

func TestEveryInvocationIsLoggedAndObserved(t *testing.T) {
	f := newFixture(t)
	id := f.startSession(t)
	f.invoke(t, id, "identify", map[string]any{"phone": "5551230000"})
	f.invoke(t, id, "list_mentors", nil)

	session, err := f.sessions.Get(id)
	if err != nil {
		t.Fatalf("get session failed: %v", err)
	}
	if len(session.ActionLog) != 2 {
		t.Fatalf("action log has %d entries, want 2", len(session.ActionLog))
	}
	if session.ActionLog[0].Tool != "identify" || session.ActionLog[1].Tool != "list_mentors" {
		t.Errorf("action log order wrong: %s, %s", session.ActionLog[0].Tool, session.ActionLog[1].Tool)
	}
	if len(f.events) != 2 {
		t.Fatalf("observed %d events, want 2", len(f.events))
	}
	if f.events[1].Result == "" {
		t.Error("observed event carries no result")
	}
}

func TestFullConversationScenario(t *testing.T) {
	f := newFixture(t)
	id := f.startSession(t)

	greeting := f.invoke(t, id, "identify", map[string]any{"phone": "+15551230000", "name": "Jordan"})
	if !strings.Contains(greeting, "Jordan") {
		t.Errorf("greeting = %q, want the caller's name", greeting)
	}

	mentorList := f.invoke(t, id, "list_mentors", nil)
	for _, name := range []string{"Dr. Sarah Smith", "Dr. John Doe"} {
		if !strings.Contains(mentorList, name) {
			t.Errorf("mentor list %q missing %s", mentorList, name)
		}
	}
	if strings.Contains(mentorList, "m-sarah") {
		t.Errorf("mentor list %q leaks an internal ID", mentorList)
	}

	slots := f.invoke(t, id, "get_available_slots", map[string]any{
		"mentor": "Dr. Sarah Smith", "date": "2025-03-10",
	})
	if !strings.Contains(slots, "09:00") {
		t.Errorf("slots = %q, want 09:00 offered", slots)
	}

	confirmation := f.invoke(t, id, "book_appointment", map[string]any{
		"date": "2025-03-10", "time": "9 AM", "mentor": "Dr. Sarah Smith",
	})
	for _, want := range []string{"2025-03-10", "09:00"} {
		if !strings.Contains(confirmation, want) {
			t.Errorf("confirmation = %q, missing %q", confirmation, want)
		}
	}

	// The booked slot no longer shows as available.
	slots = f.invoke(t, id, "get_available_slots", map[string]any{
		"mentor": "Dr. Sarah Smith", "date": "2025-03-10",
	})
	if strings.Contains(slots, "09:00") {
		t.Errorf("slots after booking = %q, 09:00 still offered", slots)
	}

	mine := f.invoke(t, id, "get_my_appointments", nil)
	if !strings.Contains(mine, "2025-03-10") || !strings.Contains(mine, "Dr. Sarah Smith") {
		t.Errorf("appointments = %q, want the new booking listed", mine)
	}

	movedMsg := f.invoke(t, id, "modify_appointment", map[string]any{
		"oldDate": "2025-03-10", "oldTime": "09:00", "newDate": "2025-03-11", "newTime": "10:00",
	})
	if !strings.Contains(movedMsg, "2025-03-11") || !strings.Contains(movedMsg, "10:00") {
		t.Errorf("modify result = %q, want new slot confirmed", movedMsg)
	}
	moved, err := f.ledger.ListForCaller("+15551230000", models.ActiveStatuses)
	if err != nil || len(moved) != 1 {
		t.Fatalf("after modify: appts = %v, err = %v", moved, err)
	}
	if moved[0].MentorID != "m-sarah" {
		t.Errorf("modify changed mentor to %s", moved[0].MentorID)
	}

	cancelMsg := f.invoke(t, id, "cancel_appointment", map[string]any{
		"date": "2025-03-11", "time": "10:00",
	})
	if !strings.Contains(cancelMsg, "cancelled") {
		t.Errorf("cancel result = %q, want confirmation", cancelMsg)
	}
	mine = f.invoke(t, id, "get_my_appointments", nil)
	if !strings.Contains(mine, "no upcoming appointments") {
		t.Errorf("appointments after cancel = %q, want none", mine)
	}

	goodbye := f.invoke(t, id, "end_conversation", nil)
	if !strings.Contains(goodbye, "cancelled") {
		t.Errorf("summary = %q, want the cancellation mentioned", goodbye)
	}
	if strings.Contains(goodbye, "$") {
		t.Errorf("summary = %q, leaks a dollar figure", goodbye)
	}

	session, err := f.sessions.Get(id)
	if err != nil {
		t.Fatalf("get session failed: %v", err)
	}
	if session.Status != models.SessionCompleted {
		t.Errorf("session status = %s, want completed", session.Status)
	}
	if session.Cost == nil {
		t.Error("session cost not persisted for the administrative view")
	}
}

func TestDefaultSlotWindowSkipsWeekend(t *testing.T) {
	f := newFixture(t)
	id := f.startSession(t)
	// No date given: the window is the next three business days after the
	// Saturday test clock, which are 03-10 through 03-12.
	result := f.invoke(t, id, "get_available_slots", map[string]any{"mentor": "Dr. Sarah Smith"})
	for _, date := range []string{"2025-03-10", "2025-03-11", "2025-03-12"} {
		if !strings.Contains(result, date) {
			t.Errorf("default window result %q missing %s", result, date)
		}
	}
	if strings.Contains(result, "2025-03-09") {
		t.Errorf("default window result %q includes a Sunday", result)
	}
}

func TestCancelByIDScopedToCaller(t *testing.T) {
	f := newFixture(t)
	owner := f.startSession(t)
	f.invoke(t, owner, "identify", map[string]any{"phone": "5551230000"})
	f.invoke(t, owner, "book_appointment", map[string]any{
		"date": "2025-03-10", "time": "09:00", "mentor": "Dr. Sarah Smith",
	})
	appts, _ := f.ledger.ListForCaller("+15551230000", models.ActiveStatuses)
	if len(appts) != 1 {
		t.Fatalf("setup: %d appointments, want 1", len(appts))
	}

	thief := f.startSession(t)
	f.invoke(t, thief, "identify", map[string]any{"phone": "5559998888"})
	result := f.invoke(t, thief, "cancel_appointment", map[string]any{"appointmentId": appts[0].ID})
	if !strings.Contains(result, "couldn't find") {
		t.Errorf("cross-caller cancel result = %q, want not-found guidance", result)
	}
	still, _ := f.ledger.ListForCaller("+15551230000", models.ActiveStatuses)
	if len(still) != 1 {
		t.Errorf("appointment cancelled by another caller")
	}
}
