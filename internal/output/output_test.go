package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/odyssey/cronctl/internal/database"
	"github.com/odyssey/cronctl/internal/schedule"
)

func sampleEvents(now time.Time) []*database.Event {
	return []*database.Event{
		{
			ID:              "aaaaaaaa-0000-0000-0000-000000000000",
			ShortID:         "aaaaaaaa",
			Hook:            "backup",
			Args:            map[string]string{"target": "s3"},
			Schedule:        "hourly",
			IntervalSeconds: 3600,
			NextRunAt:       now.Add(30 * time.Minute),
		},
		{
			ID:        "bbbbbbbb-0000-0000-0000-000000000000",
			ShortID:   "bbbbbbbb",
			Hook:      "cache-flush",
			Args:      map[string]string{},
			NextRunAt: now.Add(-1 * time.Minute),
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"", FormatTable, false},
		{"table", FormatTable, false},
		{"json", FormatJSON, false},
		{"csv", FormatCSV, false},
		{"ids", FormatIDs, false},
		{"yaml", "", true},
		{"TABLE", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseFormat(%q) should fail", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseFormat(%q) error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestToEventRow(t *testing.T) {
	now := time.Now()
	rows := ToEventRows(sampleEvents(now), now)

	if rows[0].Recurrence != "1 hour" {
		t.Errorf("recurring event recurrence = %q, want %q", rows[0].Recurrence, "1 hour")
	}
	if rows[0].NextRunRelative != "30 minutes" {
		t.Errorf("relative = %q, want %q", rows[0].NextRunRelative, "30 minutes")
	}

	// One-off, already due.
	if rows[1].Recurrence != "Non-repeating" {
		t.Errorf("one-off recurrence = %q, want %q", rows[1].Recurrence, "Non-repeating")
	}
	if rows[1].NextRunRelative != "now" {
		t.Errorf("overdue relative = %q, want %q", rows[1].NextRunRelative, "now")
	}
}

func TestRenderEvents_Table(t *testing.T) {
	now := time.Now()
	var buf bytes.Buffer
	if err := RenderEvents(&buf, FormatTable, ToEventRows(sampleEvents(now), now)); err != nil {
		t.Fatalf("render failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"HOOK", "NEXT RUN IN", "backup", "cache-flush", "Non-repeating"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderEvents_TableEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderEvents(&buf, FormatTable, nil); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(buf.String(), "No scheduled events.") {
		t.Errorf("empty table output = %q", buf.String())
	}
}

func TestRenderEvents_JSON(t *testing.T) {
	now := time.Now()
	var buf bytes.Buffer
	if err := RenderEvents(&buf, FormatJSON, ToEventRows(sampleEvents(now), now)); err != nil {
		t.Fatalf("render failed: %v", err)
	}

	var decoded []EventRow
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if len(decoded) != 2 || decoded[0].Hook != "backup" {
		t.Errorf("decoded = %+v", decoded)
	}
	if decoded[0].Args["target"] != "s3" {
		t.Errorf("args lost in JSON round trip: %+v", decoded[0].Args)
	}
}

func TestRenderEvents_CSV(t *testing.T) {
	now := time.Now()
	var buf bytes.Buffer
	if err := RenderEvents(&buf, FormatCSV, ToEventRows(sampleEvents(now), now)); err != nil {
		t.Fatalf("render failed: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d records", len(records))
	}
	if records[0][1] != "hook" || records[1][1] != "backup" {
		t.Errorf("records = %v", records)
	}
}

func TestRenderEvents_IDs(t *testing.T) {
	now := time.Now()
	var buf bytes.Buffer
	if err := RenderEvents(&buf, FormatIDs, ToEventRows(sampleEvents(now), now)); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	lines := strings.Fields(buf.String())
	if len(lines) != 2 || lines[0] != "aaaaaaaa" || lines[1] != "bbbbbbbb" {
		t.Errorf("ids output = %v", lines)
	}
}

func TestRenderSchedules(t *testing.T) {
	rows := ToScheduleRows([]schedule.Schedule{
		{Name: "hourly", Display: "Once Hourly", IntervalSeconds: 3600},
		{Name: "daily", Display: "Once Daily", IntervalSeconds: 86400},
	})

	if rows[0].IntervalHuman != "1 hour" {
		t.Errorf("humanized interval = %q, want %q", rows[0].IntervalHuman, "1 hour")
	}

	var buf bytes.Buffer
	if err := RenderSchedules(&buf, FormatTable, rows); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	for _, want := range []string{"NAME", "Once Hourly", "86400", "1 day"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("schedule table missing %q:\n%s", want, buf.String())
		}
	}

	buf.Reset()
	if err := RenderSchedules(&buf, FormatIDs, rows); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if got := strings.Fields(buf.String()); len(got) != 2 || got[0] != "hourly" {
		t.Errorf("ids output = %v", got)
	}
}
