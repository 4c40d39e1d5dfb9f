// Package interval renders second counts as compact human-readable strings
// like "3 days 4 hours". At most the two largest magnitudes are kept, which
// stays short while preserving useful precision near unit boundaries
// ("11 months 29 days" rather than just "11 months").
package interval

import (
	"fmt"
	"strings"
)

// unit pairs a magnitude in seconds with its singular/plural labels.
type unit struct {
	seconds  int64
	singular string
	plural   string
}

// units is ordered largest-first. The year and month entries are coarse
// approximations (365-day year, 30-day month), intentionally not
// calendar-accurate: callers expect these exact magnitudes, so they must not
// be "fixed" to real calendar arithmetic.
var units = []unit{
	{31536000, "year", "years"},
	{2592000, "month", "months"},
	{604800, "week", "weeks"},
	{86400, "day", "days"},
	{3600, "hour", "hours"},
	{60, "minute", "minutes"},
	{1, "second", "seconds"},
}

// Format converts a signed second count into a human-readable string of at
// most two chunks, e.g. "1 hour 1 minute". Non-positive inputs are the
// caller-observed past/present case and render as "now"; negative values
// never reach the magnitude scan below. Format is a total function: every
// integer input maps to a defined output.
func Format(seconds int64) string {
	if seconds <= 0 {
		return "now"
	}
	total := seconds

	// Find the largest unit that fits at least once. The table ends with a
	// 1-second unit, so the scan always terminates with a match once total > 0.
	i := 0
	for units[i].seconds > total {
		i++
	}
	first := units[i]
	count := total / first.seconds

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d %s", count, Pluralize(count, first.singular, first.plural))

	if i+1 < len(units) {
		second := units[i+1]
		remainder := total - first.seconds*count
		if count2 := remainder / second.seconds; count2 != 0 {
			fmt.Fprintf(&sb, " %d %s", count2, Pluralize(count2, second.singular, second.plural))
		}
	}

	return sb.String()
}

// Pluralize picks the singular label when count is exactly 1 and the plural
// label otherwise (including 0). It deliberately knows nothing about locales.
func Pluralize(count int64, singular, plural string) string {
	if count == 1 {
		return singular
	}
	return plural
}
