package services

import (
	"fmt"
	"time"
)

// ParseDate parses a date string in typical formats (YYYY-MM-DD)
// It enforces strict checks but centralizes the logic for future format additions
func ParseDate(dateStr string) (time.Time, error) {
	// Primary format: ISO 8601 (standard for HTML5 date inputs)
	layout := "2006-01-02"

	parsedTime, err := time.Parse(layout, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: expected YYYY-MM-DD")
	}

	return parsedTime, nil
}

// ParseSlotTime parses an "HH:MM" slot label and returns the hour and minute.
func ParseSlotTime(slot string) (int, int, error) {
	t, err := time.Parse("15:04", slot)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time format: expected HH:MM")
	}
	return t.Hour(), t.Minute(), nil
}

// DateOnly truncates a timestamp to midnight UTC so date comparisons ignore
// the time component.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
