package utils

import (
	"strings"
	"time"
)

const (
	layoutDate     = "2006-01-02"
	layoutDateTime = "2006-01-02 15:04:05"
)

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// ParseDateTime parses "YYYY-MM-DD HH:MM:SS" in local timezone. Itinerary
// timestamps from the upstream service come in this layout.
func ParseDateTime(s string) (time.Time, error) {
	return time.ParseInLocation(layoutDateTime, strings.TrimSpace(s), time.Local)
}

// FormatDate formats time to YYYY-MM-DD in local timezone.
func FormatDate(t time.Time) string {
	return t.In(time.Local).Format(layoutDate)
}

// FormatClock renders just the HH:MM part of an itinerary timestamp string,
// falling back to the raw value when it does not parse.
func FormatClock(s string) string {
	t, err := ParseDateTime(s)
	if err != nil {
		return strings.TrimSpace(s)
	}
	return t.Format("15:04")
}
