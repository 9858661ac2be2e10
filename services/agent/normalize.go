package agent

import (
	"fmt"
	"strings"
	"time"
)

// NormalizePhone canonicalizes free-form phone input into the identity key.
// Non-digits are stripped; exactly ten digits get the default country code,
// anything else a bare "+" prefix. Returns "" when no digits remain.
func NormalizePhone(raw, defaultCountryCode string) string {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	if d == "" {
		return ""
	}
	if len(d) == 10 {
		return defaultCountryCode + d
	}
	return "+" + d
}

var timeLayouts = []string{
	"15:04",
	"3:04 PM",
	"3:04PM",
	"3 PM",
	"3PM",
}

// NormalizeTime canonicalizes free-form time input ("9 AM", "9:00AM",
// "2:30 PM", "14:30") to 24-hour "15:04".
func NormalizeTime(raw string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, ".", "")
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("15:04"), nil
		}
	}
	return "", fmt.Errorf("unrecognized time %q", raw)
}

// NormalizeDate validates a "2006-01-02" date string.
func NormalizeDate(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return "", fmt.Errorf("unrecognized date %q", raw)
	}
	return s, nil
}

// IsPast reports whether the local date+time instant has already elapsed.
func IsPast(date, timeStr string, now time.Time) bool {
	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+timeStr, now.Location())
	if err != nil {
		return false
	}
	return t.Before(now)
}

// NextBusinessDays returns the next n weekday dates strictly after from.
func NextBusinessDays(from time.Time, n int) []string {
	dates := make([]string, 0, n)
	d := from
	for len(dates) < n {
		d = d.AddDate(0, 0, 1)
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		dates = append(dates, d.Format("2006-01-02"))
	}
	return dates
}
