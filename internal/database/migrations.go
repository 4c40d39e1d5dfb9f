package database

import (
	"database/sql"

	"github.com/mieubrisse/stacktrace"
)

// SQL migration statements
const (
	createEventsTableSQL = `CREATE TABLE IF NOT EXISTS events (
	id TEXT PRIMARY KEY,
	short_id TEXT NOT NULL DEFAULT '',
	hook TEXT NOT NULL,
	args TEXT NOT NULL DEFAULT '{}',
	schedule TEXT NOT NULL DEFAULT '',
	interval_seconds INTEGER NOT NULL DEFAULT 0,
	next_run_at TEXT NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);`
	createHookIndexSQL    = `CREATE INDEX IF NOT EXISTS idx_events_hook ON events(hook);`
	createNextRunIndexSQL = `CREATE INDEX IF NOT EXISTS idx_events_next_run ON events(next_run_at);`
	createShortIDIndexSQL = `CREATE INDEX IF NOT EXISTS idx_events_short_id ON events(short_id);`
	backfillShortIDSQL    = `UPDATE events SET short_id = SUBSTR(id, 1, 8) WHERE short_id = '';`
)

// migrate applies all idempotent schema migrations.
func migrate(conn *sql.DB) error {
	migrations := []string{
		createEventsTableSQL,
		createHookIndexSQL,
		createNextRunIndexSQL,
		createShortIDIndexSQL,
		backfillShortIDSQL,
	}
	for _, migrationSQL := range migrations {
		if _, err := conn.Exec(migrationSQL); err != nil {
			return stacktrace.Propagate(err, "migration failed")
		}
	}
	return nil
}
