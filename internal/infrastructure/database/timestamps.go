package database

import (
	"fmt"
	"time"
)

// TimestampLayout is the storage format for every timestamp column.
// It is fixed-width UTC, so ORDER BY on the text column is chronological.
const TimestampLayout = "2006-01-02T15:04:05.000000Z"

// FormatTime renders t in TimestampLayout after converting to UTC.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTime parses a value written by FormatTime.
func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(TimestampLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t, nil
}
