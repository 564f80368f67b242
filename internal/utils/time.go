package utils

import (
	"strings"
	"time"
)

const (
	layoutDate      = "2006-01-02"
	layoutTimestamp = time.RFC3339Nano
)

// timestampLayouts is tried in order. The order is load-bearing: ambiguous
// inputs such as "01/02/2024" resolve to whichever layout matches first.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	layoutDate,
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
}

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// Timestamp renders t the way created_at is persisted.
func Timestamp(t time.Time) string {
	return t.UTC().Format(layoutTimestamp)
}

// ParseTimestamp runs the fallback chain over a persisted timestamp.
// Inputs without a zone are read as UTC.
func ParseTimestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseDate parses YYYY-MM-DD as a UTC midnight, the zone stored
// timestamps are read in.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(layoutDate, strings.TrimSpace(s), time.UTC)
}
