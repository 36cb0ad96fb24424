package sales

import (
	"strings"
	"time"
)

// DateLayout is the normalized calendar date format used for aggregate keys
const DateLayout = "2006-01-02"

// ParseDate normalizes a point-of-sale date string to YYYY-MM-DD.
//
// The input format is inferred from the separator alone: "/" means
// MM/DD/YYYY and "-" means DD-MM-YYYY. A "-" value that already starts
// with a four digit year is left alone, as is anything with neither
// separator or fewer than three segments. Dates where both day and month
// are <= 12 are ambiguous and are resolved purely by the separator.
func ParseDate(s string) string {
	switch {
	case strings.Contains(s, "/"):
		parts := strings.Split(s, "/")
		if len(parts) < 3 {
			return s
		}
		return parts[2] + "-" + padTwo(parts[0]) + "-" + padTwo(parts[1])
	case strings.Contains(s, "-"):
		parts := strings.Split(s, "-")
		if len(parts) < 3 || isYear(parts[0]) {
			return s
		}
		return parts[2] + "-" + padTwo(parts[1]) + "-" + padTwo(parts[0])
	default:
		return s
	}
}

func padTwo(s string) string {
	if len(s) >= 2 {
		return s
	}
	return strings.Repeat("0", 2-len(s)) + s
}

func isYear(s string) bool {
	if len(s) != 4 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// calendarDate parses a normalized date key. Keys that are not YYYY-MM-DD
// report false and never match a date range.
func calendarDate(s string) (time.Time, bool) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// truncateDay returns the calendar date of t (in t's location), expressed
// at UTC midnight.
func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
