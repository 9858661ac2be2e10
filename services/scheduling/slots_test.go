package scheduling

import (
	"context"
	"testing"
	"time"

	appointmentRepo "mentorline/database/repository/appointment"
	availabilityRepo "mentorline/database/repository/availability"
	"mentorline/models"
)

func addWindow(t *testing.T, repo availabilityRepo.AvailabilityRepository, mentorID, date, start, end string, slotMinutes int) {
	t.Helper()
	w := &models.AvailabilityWindow{
		ID:                  mentorID + "-" + date + "-" + start,
		MentorID:            mentorID,
		Date:                date,
		StartTime:           start,
		EndTime:             end,
		SlotDurationMinutes: slotMinutes,
		CreatedAt:           time.Now(),
	}
	if err := w.Validate(); err != nil {
		t.Fatalf("invalid test window: %v", err)
	}
	if err := repo.Add(w); err != nil {
		t.Fatalf("failed to add window: %v", err)
	}
}

func TestWindowTimesDropsTrailingPartial(t *testing.T) {
	tests := []struct {
		name   string
		window models.AvailabilityWindow
		want   []string
	}{
		{
			name:   "even division",
			window: models.AvailabilityWindow{StartTime: "09:00", EndTime: "10:00", SlotDurationMinutes: 30},
			want:   []string{"09:00", "09:30"},
		},
		{
			name:   "trailing partial dropped",
			window: models.AvailabilityWindow{StartTime: "09:00", EndTime: "09:50", SlotDurationMinutes: 30},
			want:   []string{"09:00"},
		},
		{
			name:   "window shorter than one slot",
			window: models.AvailabilityWindow{StartTime: "09:00", EndTime: "09:15", SlotDurationMinutes: 30},
			want:   nil,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := windowTimes(tc.window)
			if len(got) != len(tc.want) {
				t.Fatalf("windowTimes() = %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("windowTimes()[%d] = %s, want %s", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestWindowTimesStaysInsideWindow(t *testing.T) {
	w := models.AvailabilityWindow{StartTime: "09:00", EndTime: "17:00", SlotDurationMinutes: 45}
	for _, ts := range windowTimes(w) {
		if ts < "09:00" || ts >= "17:00" {
			t.Errorf("slot %s falls outside window 09:00-17:00", ts)
		}
	}
}

func TestAvailableSlotsExcludesBooked(t *testing.T) {
	windows := availabilityRepo.NewMemoryAvailabilityRepo()
	appts := appointmentRepo.NewMemoryAppointmentRepo()
	addWindow(t, windows, "m1", "2025-03-10", "09:00", "11:00", 30)

	ledger := NewDefaultLedgerService(appts, windows)
	if _, err := ledger.Book(context.Background(), "+15551230000", "m1", "2025-03-10", "09:30", 30, ""); err != nil {
		t.Fatalf("book failed: %v", err)
	}

	slots, err := NewDefaultSlotService(windows, appts).AvailableSlots("m1", "2025-03-10")
	if err != nil {
		t.Fatalf("AvailableSlots failed: %v", err)
	}
	want := map[string]bool{"09:00": true, "09:30": false, "10:00": true, "10:30": true}
	if len(slots) != len(want) {
		t.Fatalf("got %d slots, want %d: %v", len(slots), len(want), slots)
	}
	for _, s := range slots {
		avail, ok := want[s.Time]
		if !ok {
			t.Errorf("unexpected slot time %s", s.Time)
			continue
		}
		if s.Available != avail {
			t.Errorf("slot %s available = %v, want %v", s.Time, s.Available, avail)
		}
	}
}

func TestAvailableSlotsDeduplicatesOverlappingWindows(t *testing.T) {
	windows := availabilityRepo.NewMemoryAvailabilityRepo()
	appts := appointmentRepo.NewMemoryAppointmentRepo()
	addWindow(t, windows, "m1", "2025-03-10", "09:00", "10:00", 30)
	addWindow(t, windows, "m1", "2025-03-10", "09:30", "10:30", 30)

	slots, err := NewDefaultSlotService(windows, appts).AvailableSlots("m1", "2025-03-10")
	if err != nil {
		t.Fatalf("AvailableSlots failed: %v", err)
	}

	seen := make(map[string]int)
	for _, s := range slots {
		seen[s.Time]++
	}
	for ts, n := range seen {
		if n > 1 {
			t.Errorf("slot %s emitted %d times, want 1", ts, n)
		}
	}
	for i := 1; i < len(slots); i++ {
		if slots[i-1].Time >= slots[i].Time {
			t.Errorf("slots not ordered: %s before %s", slots[i-1].Time, slots[i].Time)
		}
	}
}

func TestAvailableSlotsNoWindows(t *testing.T) {
	windows := availabilityRepo.NewMemoryAvailabilityRepo()
	appts := appointmentRepo.NewMemoryAppointmentRepo()

	slots, err := NewDefaultSlotService(windows, appts).AvailableSlots("m-unknown", "2025-03-10")
	if err != nil {
		t.Fatalf("AvailableSlots failed: %v", err)
	}
	if len(slots) != 0 {
		t.Errorf("mentor without windows produced %d slots, want 0", len(slots))
	}
}
