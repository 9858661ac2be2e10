package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newCalendarRouter(h *HandlerBundle) http.Handler {
	r := newAgentRouter(h)
	r.GET("/admin/mentors/:id/calendar", h.MentorCalendar)
	return r
}

func TestMentorCalendarGroupsByDate(t *testing.T) {
	h := newTestBundle(t)
	r := newCalendarRouter(h)

	tomorrow := time.Now().AddDate(0, 0, 1)
	date := tomorrow.Format("2006-01-02")
	ctx := context.Background()
	if _, err := h.Ledger.Book(ctx, "+15551230000", "m-sarah", date, "09:00", 0, ""); err != nil {
		t.Fatalf("failed to book first appointment: %v", err)
	}
	if _, err := h.Ledger.Book(ctx, "+15559876543", "m-sarah", date, "10:00", 0, ""); err != nil {
		t.Fatalf("failed to book second appointment: %v", err)
	}

	path := fmt.Sprintf("/admin/mentors/m-sarah/calendar?year=%d&month=%d", tomorrow.Year(), int(tomorrow.Month()))
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("calendar status = %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		MentorID string                 `json:"mentorId"`
		Days     map[string]CalendarDay `json:"days"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode calendar: %v", err)
	}
	if resp.MentorID != "m-sarah" {
		t.Errorf("mentorId = %q, want m-sarah", resp.MentorID)
	}

	day, ok := resp.Days[date]
	if !ok {
		t.Fatalf("calendar has no entry for %s: %v", date, resp.Days)
	}
	if len(day.Appointments) != 2 {
		t.Errorf("appointments on %s = %d, want 2", date, len(day.Appointments))
	}
	for _, a := range day.Appointments {
		if a.MentorName != "Dr. Sarah Smith" {
			t.Errorf("appointment mentor name = %q, want Dr. Sarah Smith", a.MentorName)
		}
	}
	if len(day.Availability) != 1 {
		t.Errorf("windows on %s = %d, want 1", date, len(day.Availability))
	}
}

func TestMentorCalendarRejectsBadMonth(t *testing.T) {
	h := newTestBundle(t)
	r := newCalendarRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/admin/mentors/m-sarah/calendar?year=2025&month=13", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad month status = %d, want 400", rec.Code)
	}
}
