package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/mieubrisse/stacktrace"

	"github.com/odyssey/cronctl/internal/interval"
	"github.com/odyssey/cronctl/internal/schedule"
)

// ScheduleRow is the render-ready view of a recurrence schedule.
type ScheduleRow struct {
	Name            string `json:"name"`
	Display         string `json:"display"`
	IntervalSeconds int64  `json:"interval"`
	IntervalHuman   string `json:"interval_human"`
}

// ToScheduleRows converts registry schedules, preserving order.
func ToScheduleRows(schedules []schedule.Schedule) []ScheduleRow {
	rows := make([]ScheduleRow, len(schedules))
	for i, s := range schedules {
		rows[i] = ScheduleRow{
			Name:            s.Name,
			Display:         s.Display,
			IntervalSeconds: s.IntervalSeconds,
			IntervalHuman:   interval.Format(s.IntervalSeconds),
		}
	}
	return rows
}

// RenderSchedules writes the schedule listing to w in the requested format.
func RenderSchedules(w io.Writer, format Format, rows []ScheduleRow) error {
	switch format {
	case FormatJSON:
		return renderJSON(w, rows)
	case FormatCSV:
		return renderSchedulesCSV(w, rows)
	case FormatIDs:
		for _, row := range rows {
			fmt.Fprintln(w, row.Name)
		}
		return nil
	default:
		return renderSchedulesTable(w, rows)
	}
}

func renderSchedulesTable(w io.Writer, rows []ScheduleRow) error {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No recurrence schedules.")
		return nil
	}

	tbl := newTable(w, "NAME", "DISPLAY NAME", "INTERVAL (S)", "INTERVAL")
	for _, row := range rows {
		tbl.AddRow(row.Name, row.Display, row.IntervalSeconds, row.IntervalHuman)
	}
	tbl.Print()
	return nil
}

func renderSchedulesCSV(w io.Writer, rows []ScheduleRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"name", "display", "interval", "interval_human"}); err != nil {
		return stacktrace.Propagate(err, "failed to write CSV header")
	}
	for _, row := range rows {
		record := []string{row.Name, row.Display, strconv.FormatInt(row.IntervalSeconds, 10), row.IntervalHuman}
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
