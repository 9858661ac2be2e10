package agent

import (
	"testing"
	"time"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"5551230000", "+15551230000"},
		{"(555) 123-0000", "+15551230000"},
		{"+1 555 123 0000", "+15551230000"},
		{"15551230000", "+15551230000"},
		{"+442071234567", "+442071234567"},
		{"call me maybe", ""},
	}
	for _, tc := range tests {
		if got := NormalizePhone(tc.raw, "+1"); got != tc.want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestNormalizeTime(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"9 AM", "09:00"},
		{"09:00", "09:00"},
		{"9:00AM", "09:00"},
		{"2:30 PM", "14:30"},
		{"14:30", "14:30"},
		{"12 PM", "12:00"},
		{"12 AM", "00:00"},
		{"9 p.m.", "21:00"},
	}
	for _, tc := range tests {
		got, err := NormalizeTime(tc.raw)
		if err != nil {
			t.Errorf("NormalizeTime(%q) failed: %v", tc.raw, err)
			continue
		}
		if got != tc.want {
			t.Errorf("NormalizeTime(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestNormalizeTimeRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "soonish", "25:00", "9:99"} {
		if got, err := NormalizeTime(raw); err == nil {
			t.Errorf("NormalizeTime(%q) = %q, want error", raw, got)
		}
	}
}

func TestIsPast(t *testing.T) {
	now := time.Date(2025, 3, 5, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		date string
		time string
		want bool
	}{
		{"2025-03-04", "09:00", true},
		{"2025-03-05", "11:59", true},
		{"2025-03-05", "12:01", false},
		{"2025-03-06", "09:00", false},
	}
	for _, tc := range tests {
		if got := IsPast(tc.date, tc.time, now); got != tc.want {
			t.Errorf("IsPast(%s %s) = %v, want %v", tc.date, tc.time, got, tc.want)
		}
	}
}

func TestNextBusinessDaysSkipsWeekends(t *testing.T) {
	// 2025-03-07 is a Friday.
	friday := time.Date(2025, 3, 7, 9, 0, 0, 0, time.UTC)
	got := NextBusinessDays(friday, 3)
	want := []string{"2025-03-10", "2025-03-11", "2025-03-12"}
	if len(got) != len(want) {
		t.Fatalf("NextBusinessDays = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("NextBusinessDays[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}
