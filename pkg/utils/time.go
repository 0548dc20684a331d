package utils

import (
	"fmt"
	"time"
)

// ParseUserTime accepts RFC3339 or YYYY-MM-DD. A bare date used as an end
// bound covers the whole day.
func ParseUserTime(timeStr string, isEndTime bool) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, timeStr)
	if err == nil {
		return t, nil
	}

	t, err = time.Parse("2006-01-02", timeStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time format, expected RFC3339 or YYYY-MM-DD, got %s", timeStr)
	}

	if isEndTime {
		t = t.Add(24*time.Hour - time.Second)
	}

	return t, nil
}

// DaysAgo returns the start of the UTC day n days before now.
func DaysAgo(now time.Time, n int) time.Time {
	y, m, d := now.UTC().AddDate(0, 0, -n).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
