package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	appointmentRepo "mentorline/database/repository/appointment"
	availabilityRepo "mentorline/database/repository/availability"
	callerRepo "mentorline/database/repository/caller"
	mentorRepo "mentorline/database/repository/mentor"
	sessionRepo "mentorline/database/repository/session"
	"mentorline/models"
	"mentorline/services/agent"
	"mentorline/services/conversation"
	"mentorline/services/scheduling"

	"github.com/gin-gonic/gin"
)

func newTestBundle(t *testing.T) *HandlerBundle {
	t.Helper()
	gin.SetMode(gin.TestMode)

	callers := callerRepo.NewMemoryCallerRepo()
	mentors := mentorRepo.NewMemoryMentorRepo()
	windows := availabilityRepo.NewMemoryAvailabilityRepo()
	appts := appointmentRepo.NewMemoryAppointmentRepo()
	sessions := sessionRepo.NewMemorySessionRepo()

	mentor := models.Mentor{ID: "m-sarah", Name: "Dr. Sarah Smith", Email: "sarah@example.com", Specialty: "General Consultation", Active: true}
	if err := mentors.Create(&mentor); err != nil {
		t.Fatalf("failed to seed mentor: %v", err)
	}
	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	w := models.AvailabilityWindow{ID: "w1", MentorID: "m-sarah", Date: tomorrow, StartTime: "09:00", EndTime: "17:00", SlotDurationMinutes: 30}
	if err := windows.Add(&w); err != nil {
		t.Fatalf("failed to seed window: %v", err)
	}

	sessionSvc := conversation.NewDefaultSessionService(sessions, conversation.PricingTable{STTPerSecond: 0.01})
	contextSvc := conversation.NewDefaultContextService(callers, appts, sessions, nil)
	ledger := scheduling.NewDefaultLedgerService(appts, windows)
	slots := scheduling.NewDefaultSlotService(windows, appts)

	toolset := agent.NewToolset(ledger, slots, mentors, callers, sessionSvc, contextSvc, "+1")
	registry := agent.NewRegistry()
	toolset.RegisterAll(registry)

	return &HandlerBundle{
		Callers:            callers,
		Mentors:            mentors,
		Sessions:           sessions,
		Appointments:       appts,
		Availability:       scheduling.NewDefaultAvailabilityService(windows, mentors),
		Slots:              slots,
		Ledger:             ledger,
		SessionSvc:         sessionSvc,
		Context:            contextSvc,
		Registry:           registry,
		Dispatcher:         agent.NewDispatcher(registry, sessionSvc),
		DefaultCountryCode: "+1",
	}
}

func newAgentRouter(h *HandlerBundle) *gin.Engine {
	r := gin.New()
	r.GET("/agent/tools", h.ListTools)
	r.POST("/agent/sessions", h.StartAgentSession)
	r.POST("/agent/sessions/:id/tools", h.InvokeTool)
	r.POST("/agent/sessions/:id/usage", h.PushUsage)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAgentSessionLifecycleOverHTTP(t *testing.T) {
	h := newTestBundle(t)
	r := newAgentRouter(h)

	rec := postJSON(t, r, "/agent/sessions", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("start session status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	var started struct {
		Session models.ConversationSession `json:"session"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &started); err != nil {
		t.Fatalf("failed to decode start response: %v", err)
	}
	sessionID := started.Session.ID

	rec = postJSON(t, r, "/agent/sessions/"+sessionID+"/tools", invokeToolRequest{
		Tool: "identify",
		Args: map[string]any{"phone": "5551230000", "name": "Jordan"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("identify status = %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Jordan") {
		t.Errorf("identify response %q does not greet the caller", rec.Body.String())
	}

	rec = postJSON(t, r, "/agent/sessions/"+sessionID+"/usage", models.UsageDelta{SpeechSeconds: 12.5})
	if rec.Code != http.StatusOK {
		t.Fatalf("usage status = %d: %s", rec.Code, rec.Body.String())
	}
	session, err := h.Sessions.Get(sessionID)
	if err != nil || session == nil {
		t.Fatalf("session lookup failed: %v", err)
	}
	if session.Meters.SpeechSeconds != 12.5 {
		t.Errorf("SpeechSeconds = %v, want 12.5", session.Meters.SpeechSeconds)
	}

	rec = postJSON(t, r, "/agent/sessions/"+sessionID+"/tools", invokeToolRequest{Tool: "end_conversation"})
	if rec.Code != http.StatusOK {
		t.Fatalf("end status = %d: %s", rec.Code, rec.Body.String())
	}
	session, _ = h.Sessions.Get(sessionID)
	if session.Status != models.SessionCompleted {
		t.Errorf("session status = %s, want completed", session.Status)
	}
}

func TestInvokeUnknownToolOverHTTP(t *testing.T) {
	h := newTestBundle(t)
	r := newAgentRouter(h)

	rec := postJSON(t, r, "/agent/sessions", nil)
	var started struct {
		Session models.ConversationSession `json:"session"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &started); err != nil {
		t.Fatalf("failed to decode start response: %v", err)
	}

	rec = postJSON(t, r, "/agent/sessions/"+started.Session.ID+"/tools", invokeToolRequest{Tool: "launch_rocket"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown tool status = %d, want 400", rec.Code)
	}
}

func TestListToolsExposesCatalogue(t *testing.T) {
	h := newTestBundle(t)
	r := newAgentRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/agent/tools", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("list tools status = %d", rec.Code)
	}
	for _, name := range []string{"identify", "book_appointment", "end_conversation"} {
		if !strings.Contains(rec.Body.String(), name) {
			t.Errorf("tool catalogue missing %s", name)
		}
	}
}
