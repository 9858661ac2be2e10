package conversation

import (
	"strings"
	"testing"
	"time"

	sessionRepo "mentorline/database/repository/session"
	"mentorline/models"
)

var testPricing = PricingTable{
	STTPerSecond:   0.01,
	TTSPerChar:     0.001,
	LLMInputPer1K:  0.5,
	LLMOutputPer1K: 1.0,
}

func approx(a, b float64) bool {
	d := a - b
	return d < 1e-9 && d > -1e-9
}

func TestPricingTablePrice(t *testing.T) {
	meters := models.CostMeters{
		SpeechSeconds:    120,
		SynthesizedChars: 500,
		LLMInputTokens:   2000,
		LLMOutputTokens:  1000,
	}
	got := testPricing.Price(meters)

	if !approx(got.SpeechToText, 1.2) {
		t.Errorf("SpeechToText = %v, want 1.2", got.SpeechToText)
	}
	if !approx(got.TextToSpeech, 0.5) {
		t.Errorf("TextToSpeech = %v, want 0.5", got.TextToSpeech)
	}
	if !approx(got.LLMInput, 1.0) {
		t.Errorf("LLMInput = %v, want 1.0", got.LLMInput)
	}
	if !approx(got.LLMOutput, 1.0) {
		t.Errorf("LLMOutput = %v, want 1.0", got.LLMOutput)
	}
	if !approx(got.Total, 3.7) {
		t.Errorf("Total = %v, want 3.7", got.Total)
	}
}

func TestUsageAccumulatesAdditively(t *testing.T) {
	svc := NewDefaultSessionService(sessionRepo.NewMemorySessionRepo(), testPricing)
	session, err := svc.Start()
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := svc.AddUsage(session.ID, models.UsageDelta{SpeechSeconds: 10, LLMInputTokens: 100}); err != nil {
			t.Fatalf("add usage failed: %v", err)
		}
	}

	stored, err := svc.Get(session.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.Meters.SpeechSeconds != 30 {
		t.Errorf("SpeechSeconds = %v, want 30", stored.Meters.SpeechSeconds)
	}
	if stored.Meters.LLMInputTokens != 300 {
		t.Errorf("LLMInputTokens = %v, want 300", stored.Meters.LLMInputTokens)
	}
}

func TestEndCompletesAndPrices(t *testing.T) {
	svc := NewDefaultSessionService(sessionRepo.NewMemorySessionRepo(), testPricing)
	session, err := svc.Start()
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if err := svc.AddUsage(session.ID, models.UsageDelta{SpeechSeconds: 60}); err != nil {
		t.Fatalf("add usage failed: %v", err)
	}
	if err := svc.RecordAction(session.ID, models.ActionEntry{
		Tool:   "cancel_appointment",
		Args:   map[string]any{"date": "2025-03-10", "time": "09:00", "succeeded": true},
		Result: "cancelled",
	}); err != nil {
		t.Fatalf("record action failed: %v", err)
	}

	ended, err := svc.End(session.ID)
	if err != nil {
		t.Fatalf("end failed: %v", err)
	}
	if ended.Status != models.SessionCompleted {
		t.Errorf("status = %s, want %s", ended.Status, models.SessionCompleted)
	}
	if ended.EndedAt == nil {
		t.Error("EndedAt not set")
	}
	if ended.Cost == nil || !approx(ended.Cost.Total, 0.6) {
		t.Errorf("cost = %+v, want total 0.6", ended.Cost)
	}
	if !strings.Contains(ended.Summary, "cancelled") {
		t.Errorf("summary %q does not mention the cancellation", ended.Summary)
	}
	if strings.Contains(ended.Summary, "$") {
		t.Errorf("summary %q leaks a dollar figure", ended.Summary)
	}
}

func TestEndIsIdempotent(t *testing.T) {
	svc := NewDefaultSessionService(sessionRepo.NewMemorySessionRepo(), testPricing)
	session, err := svc.Start()
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}

	first, err := svc.End(session.ID)
	if err != nil {
		t.Fatalf("first end failed: %v", err)
	}
	second, err := svc.End(session.ID)
	if err != nil {
		t.Fatalf("second end failed: %v", err)
	}
	if second.Status != models.SessionCompleted {
		t.Errorf("status after re-end = %s, want %s", second.Status, models.SessionCompleted)
	}
	if !second.EndedAt.Equal(*first.EndedAt) {
		t.Error("re-ending moved EndedAt")
	}
}

func TestSummarizeIgnoresFailedAndReadOnlyActions(t *testing.T) {
	log := []models.ActionEntry{
		{Tool: "identify", Args: map[string]any{"phone": "+15551230000"}},
		{Tool: "list_mentors"},
		{Tool: "book_appointment", Args: map[string]any{"date": "2025-03-10", "time": "09:00", "succeeded": false}},
	}
	got := Summarize(log)
	if got != "No appointment changes were made during this conversation." {
		t.Errorf("Summarize = %q, want the no-changes message", got)
	}
}

func TestSummarizeListsEffectedActions(t *testing.T) {
	log := []models.ActionEntry{
		{Tool: "book_appointment", Args: map[string]any{
			"date": "2025-03-10", "time": "09:00", "mentorName": "Dr. Sarah Smith", "succeeded": true,
		}},
		{Tool: "modify_appointment", Args: map[string]any{
			"oldDate": "2025-03-10", "oldTime": "09:00", "newDate": "2025-03-11", "newTime": "10:00", "succeeded": true,
		}},
	}
	got := Summarize(log)
	for _, want := range []string{"Dr. Sarah Smith", "2025-03-10", "2025-03-11", "10:00"} {
		if !strings.Contains(got, want) {
			t.Errorf("Summarize = %q, missing %q", got, want)
		}
	}
}

func TestReaperSweepsOnlyStaleActiveSessions(t *testing.T) {
	repo := sessionRepo.NewMemorySessionRepo()
	svc := NewDefaultSessionService(repo, testPricing)

	stale, err := svc.Start()
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	fresh, err := svc.Start()
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	done, err := svc.Start()
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if _, err := svc.End(done.ID); err != nil {
		t.Fatalf("end failed: %v", err)
	}

	// Age the stale session past the default 30-minute timeout.
	s, _ := repo.Get(stale.ID)
	s.StartedAt = time.Now().Add(-2 * time.Hour)
	s.LastActivityAt = time.Now().Add(-time.Hour)
	if err := repo.Update(s); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	n, err := NewReaper(repo).Sweep()
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if n != 1 {
		t.Errorf("swept %d sessions, want 1", n)
	}

	got, _ := repo.Get(stale.ID)
	if got.Status != models.SessionAbandoned {
		t.Errorf("stale session status = %s, want %s", got.Status, models.SessionAbandoned)
	}
	got, _ = repo.Get(fresh.ID)
	if got.Status != models.SessionActive {
		t.Errorf("fresh session status = %s, want %s", got.Status, models.SessionActive)
	}
	got, _ = repo.Get(done.ID)
	if got.Status != models.SessionCompleted {
		t.Errorf("completed session status = %s, want %s", got.Status, models.SessionCompleted)
	}
}
