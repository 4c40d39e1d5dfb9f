package database

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/mieubrisse/stacktrace"
)

const eventColumns = "id, short_id, hook, args, schedule, interval_seconds, next_run_at, created_at, updated_at"

// Event represents a row in the events table: one scheduled firing of a hook,
// either one-off (Schedule empty, IntervalSeconds 0) or recurring.
type Event struct {
	ID              string
	ShortID         string
	Hook            string
	Args            map[string]string
	Schedule        string
	IntervalSeconds int64
	NextRunAt       time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsRecurring returns whether the event reschedules itself after firing.
func (e *Event) IsRecurring() bool {
	return e.IntervalSeconds > 0
}

// CreateEventParams holds the parameters for creating an event.
type CreateEventParams struct {
	Hook            string
	Args            map[string]string
	Schedule        string
	IntervalSeconds int64
	NextRunAt       time.Time
}

// CreateEvent inserts a new event and returns it.
func (db *DB) CreateEvent(params CreateEventParams) (*Event, error) {
	id := uuid.New().String()
	shortID := ShortID(id)
	now := time.Now().UTC()

	argsJSON, err := encodeArgs(params.Args)
	if err != nil {
		return nil, err
	}

	_, err = db.conn.Exec(
		`INSERT INTO events (id, short_id, hook, args, schedule, interval_seconds, next_run_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		shortID,
		params.Hook,
		argsJSON,
		params.Schedule,
		params.IntervalSeconds,
		params.NextRunAt.UTC().Format(time.RFC3339),
		now.Format(time.RFC3339),
		now.Format(time.RFC3339),
	)
	if err != nil {
		return nil, stacktrace.Propagate(err, "failed to insert event for hook '%s'", params.Hook)
	}

	return db.GetEvent(id)
}

// GetEvent returns the event with the given full ID, or nil if not found.
func (db *DB) GetEvent(id string) (*Event, error) {
	row := db.conn.QueryRow("SELECT "+eventColumns+" FROM events WHERE id = ?", id)
	event, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, stacktrace.Propagate(err, "failed to get event '%s'", id)
	}
	return event, nil
}

// GetEventByShortID returns the event with the given 8-character short ID,
// or nil if not found.
func (db *DB) GetEventByShortID(shortID string) (*Event, error) {
	row := db.conn.QueryRow("SELECT "+eventColumns+" FROM events WHERE short_id = ?", shortID)
	event, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, stacktrace.Propagate(err, "failed to get event by short ID '%s'", shortID)
	}
	return event, nil
}

// ListEvents returns all events ordered by next run time ascending, ties
// broken by hook name, so listings are stable.
func (db *DB) ListEvents() ([]*Event, error) {
	rows, err := db.conn.Query("SELECT " + eventColumns + " FROM events ORDER BY next_run_at ASC, hook ASC")
	if err != nil {
		return nil, stacktrace.Propagate(err, "failed to list events")
	}
	defer rows.Close()
	return scanEvents(rows)
}

// GetEventsByHook returns all events for the given hook, soonest first.
func (db *DB) GetEventsByHook(hook string) ([]*Event, error) {
	rows, err := db.conn.Query(
		"SELECT "+eventColumns+" FROM events WHERE hook = ? ORDER BY next_run_at ASC, hook ASC", hook)
	if err != nil {
		return nil, stacktrace.Propagate(err, "failed to list events for hook '%s'", hook)
	}
	defer rows.Close()
	return scanEvents(rows)
}

// DueEvents returns all events whose next run time is at or before asOf,
// soonest first.
func (db *DB) DueEvents(asOf time.Time) ([]*Event, error) {
	rows, err := db.conn.Query(
		"SELECT "+eventColumns+" FROM events WHERE next_run_at <= ? ORDER BY next_run_at ASC, hook ASC",
		asOf.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, stacktrace.Propagate(err, "failed to list due events")
	}
	defer rows.Close()
	return scanEvents(rows)
}

// FindDuplicateEvent returns an existing event with the same hook and args
// whose next run falls within the window around nextRun, or nil if none
// exists. Used to reject near-duplicate scheduling.
func (db *DB) FindDuplicateEvent(hook string, args map[string]string, nextRun time.Time, window time.Duration) (*Event, error) {
	argsJSON, err := encodeArgs(args)
	if err != nil {
		return nil, err
	}

	row := db.conn.QueryRow(
		"SELECT "+eventColumns+" FROM events WHERE hook = ? AND args = ? AND next_run_at >= ? AND next_run_at <= ? LIMIT 1",
		hook,
		argsJSON,
		nextRun.Add(-window).UTC().Format(time.RFC3339),
		nextRun.Add(window).UTC().Format(time.RFC3339),
	)
	event, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, stacktrace.Propagate(err, "failed to check for duplicate event")
	}
	return event, nil
}

// DeleteEvent removes the event with the given full ID. Returns whether a
// row was deleted.
func (db *DB) DeleteEvent(id string) (bool, error) {
	result, err := db.conn.Exec("DELETE FROM events WHERE id = ?", id)
	if err != nil {
		return false, stacktrace.Propagate(err, "failed to delete event '%s'", id)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, stacktrace.Propagate(err, "failed to count deleted rows")
	}
	return n > 0, nil
}

// DeleteEventsByHook removes all events for the given hook and returns how
// many were deleted.
func (db *DB) DeleteEventsByHook(hook string) (int64, error) {
	result, err := db.conn.Exec("DELETE FROM events WHERE hook = ?", hook)
	if err != nil {
		return 0, stacktrace.Propagate(err, "failed to delete events for hook '%s'", hook)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, stacktrace.Propagate(err, "failed to count deleted rows")
	}
	return n, nil
}

// RescheduleEvent advances a recurring event past asOf. The next run is
// normally the previous next run plus the interval; if the event fell behind
// by more than one full interval (dispatcher was down), it is scheduled one
// interval from asOf instead of burning through every missed firing.
func (db *DB) RescheduleEvent(event *Event, asOf time.Time) error {
	if !event.IsRecurring() {
		return stacktrace.NewError("event '%s' for hook '%s' is not recurring", event.ShortID, event.Hook)
	}

	interval := time.Duration(event.IntervalSeconds) * time.Second
	nextRun := event.NextRunAt.Add(interval)
	if nextRun.Before(asOf) {
		nextRun = asOf.Add(interval)
	}

	_, err := db.conn.Exec(
		"UPDATE events SET next_run_at = ?, updated_at = ? WHERE id = ?",
		nextRun.UTC().Format(time.RFC3339),
		time.Now().UTC().Format(time.RFC3339),
		event.ID,
	)
	if err != nil {
		return stacktrace.Propagate(err, "failed to reschedule event '%s'", event.ShortID)
	}
	event.NextRunAt = nextRun.UTC()
	return nil
}

func encodeArgs(args map[string]string) (string, error) {
	if args == nil {
		args = map[string]string{}
	}
	data, err := json.Marshal(args)
	if err != nil {
		return "", stacktrace.Propagate(err, "failed to encode event args")
	}
	return string(data), nil
}
