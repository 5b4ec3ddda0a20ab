package database

import (
	"time"
)

// Today returns the current UTC calendar date as YYYY-MM-DD.
// Logo transitions are stamped with this value.
func Today() string {
	return time.Now().UTC().Format("2006-01-02")
}

// MonthKey derives the zero-padded YYYY-MM grouping key from an ISO date.
// Zero-padding keeps lexicographic and calendar order identical.
func MonthKey(isoDate string) string {
	if len(isoDate) < 7 {
		return isoDate
	}
	return isoDate[:7]
}

// FormatMonthDisplay formats a YYYY-MM key as a human-readable label,
// e.g. "2024 June". Invalid keys are returned unchanged.
func FormatMonthDisplay(key string) string {
	d, err := time.Parse("2006-01", key)
	if err != nil {
		return key
	}
	return d.Format("2006 January")
}
