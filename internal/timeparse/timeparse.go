// Package timeparse resolves the user-supplied time forms accepted when
// scheduling an event: "now", a Unix epoch, an absolute timestamp, or a
// relative offset like "+30m" or "2d".
package timeparse

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mieubrisse/stacktrace"
)

// absoluteLayouts are tried in order for absolute timestamp input.
var absoluteLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Parse resolves input to a point in time relative to now. Accepted forms:
//
//   - "" or "now": now
//   - a bare integer: Unix epoch seconds
//   - "+<n><unit>" or "<n><unit>": offset into the future (e.g., "+30m",
//     "2d", "6mo", "1y")
//   - an absolute timestamp (RFC3339 or "2006-01-02 15:04:05" variants),
//     interpreted in the local timezone when no zone is given
func Parse(input string, now time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" || input == "now" {
		return now, nil
	}

	if isDigits(input) {
		epoch, err := strconv.ParseInt(input, 10, 64)
		if err != nil {
			return time.Time{}, stacktrace.NewError(
				"unparseable time '%s': Unix epoch out of range", input)
		}
		return time.Unix(epoch, 0), nil
	}

	if d, err := parseOffset(strings.TrimPrefix(input, "+")); err == nil {
		return now.Add(d), nil
	}

	for _, layout := range absoluteLayouts {
		if layout == time.RFC3339 {
			if t, err := time.Parse(layout, input); err == nil {
				return t, nil
			}
			continue
		}
		if t, err := time.ParseInLocation(layout, input, time.Local); err == nil {
			return t, nil
		}
	}

	return time.Time{}, stacktrace.NewError(
		"unparseable time '%s': use 'now', a Unix epoch, an offset like '+30m' or '2d', or an absolute timestamp", input)
}

// parseOffset parses relative offsets like "30m", "2h", "7d", "1w", "6mo",
// "1y". Months and years use the same coarse 30-day and 365-day magnitudes
// the rest of the system uses.
func parseOffset(s string) (time.Duration, error) {
	var n int
	var unit string
	if _, err := fmt.Sscanf(s, "%d%s", &n, &unit); err != nil {
		return 0, stacktrace.NewError("invalid offset format: %s", s)
	}
	if n < 0 {
		return 0, stacktrace.NewError("offset must not be negative: %s", s)
	}

	var d time.Duration
	switch unit {
	case "s", "sec", "secs", "second", "seconds":
		d = time.Duration(n) * time.Second
	case "m", "min", "mins", "minute", "minutes":
		d = time.Duration(n) * time.Minute
	case "h", "hr", "hrs", "hour", "hours":
		d = time.Duration(n) * time.Hour
	case "d", "day", "days":
		d = time.Duration(n) * 24 * time.Hour
	case "w", "wk", "wks", "week", "weeks":
		d = time.Duration(n) * 7 * 24 * time.Hour
	case "mo", "month", "months":
		d = time.Duration(n) * 30 * 24 * time.Hour
	case "y", "yr", "yrs", "year", "years":
		d = time.Duration(n) * 365 * 24 * time.Hour
	default:
		return 0, stacktrace.NewError("unknown offset unit: %s", unit)
	}

	return d, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
