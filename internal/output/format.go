// Package output renders event and schedule listings in the supported
// output formats: an aligned terminal table, JSON, CSV, or a bare list of
// identifiers for scripting.
package output

import (
	"github.com/mieubrisse/stacktrace"
)

// Format selects how a listing is rendered.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatCSV   Format = "csv"
	FormatIDs   Format = "ids"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatTable, FormatJSON, FormatCSV, FormatIDs:
		return Format(s), nil
	case "":
		return FormatTable, nil
	default:
		return "", stacktrace.NewError("unknown output format '%s': expected table, json, csv, or ids", s)
	}
}
