package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/mieubrisse/stacktrace"

	"github.com/odyssey/cronctl/internal/database"
	"github.com/odyssey/cronctl/internal/interval"
)

// nonRepeating is shown in the recurrence column for one-off events.
const nonRepeating = "Non-repeating"

// displayTimeLayout is the local-time layout used in table and CSV cells.
const displayTimeLayout = "2006-01-02 15:04:05"

// EventRow is the render-ready view of a scheduled event.
type EventRow struct {
	ID              string            `json:"id"`
	Hook            string            `json:"hook"`
	Args            map[string]string `json:"args"`
	NextRun         string            `json:"next_run"`
	NextRunRelative string            `json:"next_run_relative"`
	Schedule        string            `json:"schedule,omitempty"`
	Recurrence      string            `json:"recurrence"`
}

// ToEventRow converts a stored event into its display view, with relative
// times computed against now.
func ToEventRow(e *database.Event, now time.Time) EventRow {
	row := EventRow{
		ID:              e.ShortID,
		Hook:            e.Hook,
		Args:            e.Args,
		NextRun:         e.NextRunAt.Local().Format(displayTimeLayout),
		NextRunRelative: interval.Format(int64(e.NextRunAt.Sub(now) / time.Second)),
		Schedule:        e.Schedule,
		Recurrence:      nonRepeating,
	}
	if e.IsRecurring() {
		row.Recurrence = interval.Format(e.IntervalSeconds)
	}
	return row
}

// ToEventRows converts a slice of stored events, preserving order.
func ToEventRows(events []*database.Event, now time.Time) []EventRow {
	rows := make([]EventRow, len(events))
	for i, e := range events {
		rows[i] = ToEventRow(e, now)
	}
	return rows
}

// RenderEvents writes the event listing to w in the requested format.
func RenderEvents(w io.Writer, format Format, rows []EventRow) error {
	switch format {
	case FormatJSON:
		return renderJSON(w, rows)
	case FormatCSV:
		return renderEventsCSV(w, rows)
	case FormatIDs:
		for _, row := range rows {
			fmt.Fprintln(w, row.ID)
		}
		return nil
	default:
		return renderEventsTable(w, rows)
	}
}

func renderEventsTable(w io.Writer, rows []EventRow) error {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No scheduled events.")
		return nil
	}

	tbl := newTable(w, "ID", "HOOK", "NEXT RUN", "NEXT RUN IN", "SCHEDULE", "RECURRENCE")
	for _, row := range rows {
		schedule := row.Schedule
		if schedule == "" {
			schedule = "--"
		}
		tbl.AddRow(row.ID, row.Hook, row.NextRun, row.NextRunRelative, schedule, row.Recurrence)
	}
	tbl.Print()
	return nil
}

func renderEventsCSV(w io.Writer, rows []EventRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "hook", "next_run", "next_run_relative", "schedule", "recurrence"}); err != nil {
		return stacktrace.Propagate(err, "failed to write CSV header")
	}
	for _, row := range rows {
		record := []string{row.ID, row.Hook, row.NextRun, row.NextRunRelative, row.Schedule, row.Recurrence}
		if err := cw.Write(record); err != nil {
			return stacktrace.Propagate(err, "failed to write CSV row")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return stacktrace.Propagate(err, "failed to flush CSV output")
	}
	return nil
}

func renderJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return stacktrace.Propagate(err, "failed to encode JSON output")
	}
	return nil
}
