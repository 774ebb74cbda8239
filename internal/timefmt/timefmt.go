// Package timefmt formats and parses the durations and wall-clock strings
// exchanged with the time tracking API.
package timefmt

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the calendar day layout used on the wire.
const DateLayout = "2006-01-02"

// Clock formats seconds as zero-padded HH:MM:SS. Hours are not wrapped at 24.
func Clock(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// ClockString formats a numeric string with Clock. Non-numeric input yields 00:00:00.
func ClockString(v string) string {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return Clock(0)
	}
	return Clock(int64(f))
}

// Human formats seconds as "1h 2m 3s", dropping leading zero units.
func Human(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm %ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

// TimeOfDay formats t as HH:MM:SS in t's location.
// A nil time formats as 00:00:00.
func TimeOfDay(t *time.Time) string {
	if t == nil {
		return Clock(0)
	}
	return t.Format("15:04:05")
}

// ParseClock parses HH:MM or HH:MM:SS into seconds since midnight.
func ParseClock(v string) (int64, error) {
	parts := strings.Split(strings.TrimSpace(v), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid clock %q: expected HH:MM[:SS]", v)
	}
	var total int64
	for i, unit := range []int64{3600, 60, 1} {
		if i >= len(parts) {
			break
		}
		n, err := strconv.ParseInt(parts[i], 10, 64)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid clock %q", v)
		}
		if i > 0 && n > 59 {
			return 0, fmt.Errorf("invalid clock %q: component out of range", v)
		}
		total += n * unit
	}
	return total, nil
}

// Span returns end minus start in seconds. The result is negative when end
// precedes start.
func Span(start, end string) (int64, error) {
	s, err := ParseClock(start)
	if err != nil {
		return 0, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return 0, err
	}
	return e - s, nil
}

// Date formats t as YYYY-MM-DD.
func Date(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses YYYY-MM-DD into UTC midnight.
func ParseDate(v string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(v))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", v)
	}
	return d, nil
}

// ParseDay accepts RFC3339 or YYYY-MM-DD and returns the calendar day.
func ParseDay(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	return ParseDate(v)
}
