package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// Clock helpers for the "HH:MM" strings the itinerary pipeline works in.
// All schedule arithmetic happens in minutes since midnight.

func ParseClock(s string) (int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock value %q", s)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid clock value %q", s)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid clock value %q", s)
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("clock value %q out of range", s)
	}
	return hours*60 + minutes, nil
}

// ParseClockOr parses s, falling back to def when s is empty or malformed.
// The schedule compiler never hard-fails on a bad time string.
func ParseClockOr(s string, def int) int {
	if s == "" {
		return def
	}
	m, err := ParseClock(s)
	if err != nil {
		return def
	}
	return m
}

// FormatClock renders minutes since midnight as "HH:MM", rolling over
// past-midnight values into the next day's clock.
func FormatClock(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	minutes %= 24 * 60
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
