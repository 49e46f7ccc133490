package reconcile

import (
	"strings"
	"time"
)

// Accepted timestamp layouts, most specific first. The scraper emits
// ISO-8601 with optional fractional seconds and an optional Z; manual
// sources send Brazilian dd/mm/yyyy dates.
var timestampLayouts = []string{
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
}

// ParseTimestamp normalizes an incoming timestamp string. ok is false when
// the value is empty or matches no accepted layout.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseTimestampOr(s string, fallback time.Time) time.Time {
	if t, ok := ParseTimestamp(s); ok {
		return t
	}
	return fallback
}
