package database

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/mieubrisse/stacktrace"
)

// scanEvents scans multiple event rows from a query result.
func scanEvents(rows *sql.Rows) ([]*Event, error) {
	var events []*Event
	for rows.Next() {
		var e Event
		var argsJSON, nextRunAt, createdAt, updatedAt string
		if err := rows.Scan(&e.ID, &e.ShortID, &e.Hook, &argsJSON, &e.Schedule, &e.IntervalSeconds, &nextRunAt, &createdAt, &updatedAt); err != nil {
			return nil, stacktrace.Propagate(err, "failed to scan event row")
		}
		if err := decodeEventFields(&e, argsJSON, nextRunAt, createdAt, updatedAt); err != nil {
			return nil, err
		}
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, stacktrace.Propagate(err, "error iterating event rows")
	}
	return events, nil
}

// scanEvent scans a single event row. Callers are expected to translate
// sql.ErrNoRows into a nil event.
func scanEvent(row *sql.Row) (*Event, error) {
	var e Event
	var argsJSON, nextRunAt, createdAt, updatedAt string
	if err := row.Scan(&e.ID, &e.ShortID, &e.Hook, &argsJSON, &e.Schedule, &e.IntervalSeconds, &nextRunAt, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if err := decodeEventFields(&e, argsJSON, nextRunAt, createdAt, updatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

func decodeEventFields(e *Event, argsJSON, nextRunAt, createdAt, updatedAt string) error {
	if err := json.Unmarshal([]byte(argsJSON), &e.Args); err != nil {
		return stacktrace.Propagate(err, "failed to decode args for event '%s'", e.ID)
	}
	var err error
	if e.NextRunAt, err = time.Parse(time.RFC3339, nextRunAt); err != nil {
		return stacktrace.Propagate(err, "invalid next_run_at for event '%s'", e.ID)
	}
	e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	e.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return nil
}
