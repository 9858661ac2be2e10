package scheduling

import (
	"context"
	"errors"
	"sync"
	"testing"

	appointmentRepo "mentorline/database/repository/appointment"
	availabilityRepo "mentorline/database/repository/availability"
	"mentorline/models"
)

func newTestLedger(t *testing.T) (*DefaultLedgerService, availabilityRepo.AvailabilityRepository) {
	t.Helper()
	windows := availabilityRepo.NewMemoryAvailabilityRepo()
	appts := appointmentRepo.NewMemoryAppointmentRepo()
	return NewDefaultLedgerService(appts, windows), windows
}

func TestBookAndSlotTakenRoundTrip(t *testing.T) {
	ledger, windows := newTestLedger(t)
	addWindow(t, windows, "m1", "2025-03-10", "09:00", "17:00", 30)

	appt, err := ledger.Book(context.Background(), "+15551230000", "m1", "2025-03-10", "09:00", 30, "first visit")
	if err != nil {
		t.Fatalf("book failed: %v", err)
	}
	if appt.Status != models.AppointmentBooked {
		t.Errorf("status = %s, want %s", appt.Status, models.AppointmentBooked)
	}

	taken, err := ledger.IsSlotTaken("m1", "2025-03-10", "09:00")
	if err != nil {
		t.Fatalf("IsSlotTaken failed: %v", err)
	}
	if !taken {
		t.Error("slot not reported taken after book")
	}

	if ok, err := ledger.Cancel(appt.ID); err != nil || !ok {
		t.Fatalf("cancel = (%v, %v), want (true, nil)", ok, err)
	}
	taken, err = ledger.IsSlotTaken("m1", "2025-03-10", "09:00")
	if err != nil {
		t.Fatalf("IsSlotTaken failed: %v", err)
	}
	if taken {
		t.Error("slot still reported taken after cancel")
	}
}

func TestBookRejectsUncoveredSlot(t *testing.T) {
	ledger, windows := newTestLedger(t)
	addWindow(t, windows, "m1", "2025-03-10", "09:00", "12:00", 30)

	tests := []struct {
		name string
		date string
		time string
	}{
		{"outside window hours", "2025-03-10", "14:00"},
		{"off the slot grid", "2025-03-10", "09:15"},
		{"no window on date", "2025-03-11", "09:00"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ledger.Book(context.Background(), "+15551230000", "m1", tc.date, tc.time, 30, "")
			var unavailable *MentorUnavailableError
			if !errors.As(err, &unavailable) {
				t.Errorf("book(%s %s) error = %v, want MentorUnavailableError", tc.date, tc.time, err)
			}
		})
	}
}

func TestBookConflictOnHeldSlot(t *testing.T) {
	ledger, windows := newTestLedger(t)
	addWindow(t, windows, "m1", "2025-03-10", "09:00", "17:00", 30)

	if _, err := ledger.Book(context.Background(), "+15551230000", "m1", "2025-03-10", "10:00", 30, ""); err != nil {
		t.Fatalf("first book failed: %v", err)
	}
	_, err := ledger.Book(context.Background(), "+15559998888", "m1", "2025-03-10", "10:00", 30, "")
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("second book error = %v, want ConflictError", err)
	}
}

func TestConcurrentBookersExactlyOneWins(t *testing.T) {
	ledger, windows := newTestLedger(t)
	addWindow(t, windows, "m1", "2025-03-10", "09:00", "17:00", 30)

	const n = 32
	var wg sync.WaitGroup
	results := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := ledger.Book(context.Background(), "+1555123"+string(rune('0'+i%10)), "m1", "2025-03-10", "09:00", 30, "")
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	successes, conflicts := 0, 0
	for err := range results {
		switch {
		case err == nil:
			successes++
		default:
			var conflict *ConflictError
			if !errors.As(err, &conflict) {
				t.Errorf("unexpected error kind: %v", err)
				continue
			}
			conflicts++
		}
	}
	if successes != 1 {
		t.Errorf("successes = %d, want exactly 1", successes)
	}
	if conflicts != n-1 {
		t.Errorf("conflicts = %d, want %d", conflicts, n-1)
	}
}

func TestCancelIsIdempotent(t *testing.T) {
	ledger, windows := newTestLedger(t)
	addWindow(t, windows, "m1", "2025-03-10", "09:00", "17:00", 30)

	appt, err := ledger.Book(context.Background(), "+15551230000", "m1", "2025-03-10", "09:00", 30, "")
	if err != nil {
		t.Fatalf("book failed: %v", err)
	}

	first, err := ledger.Cancel(appt.ID)
	if err != nil || !first {
		t.Fatalf("first cancel = (%v, %v), want (true, nil)", first, err)
	}
	second, err := ledger.Cancel(appt.ID)
	if err != nil || second {
		t.Fatalf("second cancel = (%v, %v), want (false, nil)", second, err)
	}

	stored, err := ledger.GetByID(appt.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if stored.Status != models.AppointmentCancelled {
		t.Errorf("status after double cancel = %s, want %s", stored.Status, models.AppointmentCancelled)
	}
}

func TestCancelMissingAppointmentIsNoOp(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ok, err := ledger.Cancel("no-such-id")
	if err != nil || ok {
		t.Errorf("cancel of missing appointment = (%v, %v), want (false, nil)", ok, err)
	}
}

func TestModifyPreservesMentorAndMoves(t *testing.T) {
	ledger, windows := newTestLedger(t)
	addWindow(t, windows, "m1", "2025-03-10", "09:00", "17:00", 30)
	addWindow(t, windows, "m1", "2025-03-11", "09:00", "17:00", 30)

	appt, err := ledger.Book(context.Background(), "+15551230000", "m1", "2025-03-10", "09:00", 30, "")
	if err != nil {
		t.Fatalf("book failed: %v", err)
	}

	moved, err := ledger.Modify(context.Background(), appt.ID, "2025-03-11", "10:00")
	if err != nil {
		t.Fatalf("modify failed: %v", err)
	}
	if moved.MentorID != "m1" {
		t.Errorf("mentor after modify = %s, want m1", moved.MentorID)
	}
	if moved.Date != "2025-03-11" || moved.Time != "10:00" {
		t.Errorf("slot after modify = %s %s, want 2025-03-11 10:00", moved.Date, moved.Time)
	}

	taken, _ := ledger.IsSlotTaken("m1", "2025-03-10", "09:00")
	if taken {
		t.Error("old slot still held after modify")
	}
}

func TestFailedModifyLeavesSourceIntact(t *testing.T) {
	ledger, windows := newTestLedger(t)
	addWindow(t, windows, "m1", "2025-03-10", "09:00", "17:00", 30)

	source, err := ledger.Book(context.Background(), "+15551230000", "m1", "2025-03-10", "09:00", 30, "")
	if err != nil {
		t.Fatalf("book source failed: %v", err)
	}
	if _, err := ledger.Book(context.Background(), "+15559998888", "m1", "2025-03-10", "10:00", 30, ""); err != nil {
		t.Fatalf("book blocker failed: %v", err)
	}

	_, err = ledger.Modify(context.Background(), source.ID, "2025-03-10", "10:00")
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("modify into held slot error = %v, want ConflictError", err)
	}

	stored, err := ledger.GetByID(source.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if stored.Date != "2025-03-10" || stored.Time != "09:00" || stored.Status != models.AppointmentBooked {
		t.Errorf("source changed by failed modify: %s %s %s", stored.Date, stored.Time, stored.Status)
	}
}

func TestModifyRejectsUncoveredTarget(t *testing.T) {
	ledger, windows := newTestLedger(t)
	addWindow(t, windows, "m1", "2025-03-10", "09:00", "17:00", 30)

	appt, err := ledger.Book(context.Background(), "+15551230000", "m1", "2025-03-10", "09:00", 30, "")
	if err != nil {
		t.Fatalf("book failed: %v", err)
	}
	_, err = ledger.Modify(context.Background(), appt.ID, "2025-03-12", "09:00")
	var unavailable *MentorUnavailableError
	if !errors.As(err, &unavailable) {
		t.Errorf("modify to uncovered date error = %v, want MentorUnavailableError", err)
	}
}

func TestModifyBySlotScopesToCaller(t *testing.T) {
	ledger, windows := newTestLedger(t)
	addWindow(t, windows, "m1", "2025-03-10", "09:00", "17:00", 30)
	addWindow(t, windows, "m1", "2025-03-11", "09:00", "17:00", 30)

	if _, err := ledger.Book(context.Background(), "+15551230000", "m1", "2025-03-10", "09:00", 30, ""); err != nil {
		t.Fatalf("book failed: %v", err)
	}

	_, err := ledger.ModifyBySlot(context.Background(), "+15559998888", "2025-03-10", "09:00", "2025-03-11", "10:00")
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("modify of another caller's slot error = %v, want NotFoundError", err)
	}
}

func TestCancelBySlotScopesToCaller(t *testing.T) {
	ledger, windows := newTestLedger(t)
	addWindow(t, windows, "m1", "2025-03-10", "09:00", "17:00", 30)

	if _, err := ledger.Book(context.Background(), "+15551230000", "m1", "2025-03-10", "09:00", 30, ""); err != nil {
		t.Fatalf("book failed: %v", err)
	}

	ok, err := ledger.CancelBySlot("+15559998888", "2025-03-10", "09:00")
	if err != nil || ok {
		t.Errorf("cancel of another caller's slot = (%v, %v), want (false, nil)", ok, err)
	}
	ok, err = ledger.CancelBySlot("+15551230000", "2025-03-10", "09:00")
	if err != nil || !ok {
		t.Errorf("cancel of own slot = (%v, %v), want (true, nil)", ok, err)
	}
}
