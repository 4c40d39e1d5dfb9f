// Package database is the SQLite-backed store of scheduled events.
package database

import (
	"database/sql"

	"github.com/mieubrisse/stacktrace"

	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection to the cronctl SQLite database.
type DB struct {
	conn *sql.DB
}

// Open opens or creates the SQLite database at the given filepath and runs
// auto-migration.
func Open(dbFilepath string) (*DB, error) {
	dsn := dbFilepath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, stacktrace.Propagate(err, "failed to open database at '%s'", dbFilepath)
	}

	// SQLite only supports a single writer, so limit the pool to one
	// connection to avoid contention between connections in the same process.
	conn.SetMaxOpenConns(1)

	if err := migrate(conn); err != nil {
		conn.Close()
		return nil, stacktrace.Propagate(err, "failed to auto-migrate database")
	}

	return &DB{conn: conn}, nil
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// ShortID returns the 8-character short form of a full event ID.
func ShortID(id string) string {
	if len(id) < 8 {
		return id
	}
	return id[:8]
}
