// Package persistence provides SQLite-based storage for pathlab runs:
// which board was searched, which queries ran, and what they cost.
// Useful for comparing engine behavior across changes.
package persistence

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite connection for route-log storage.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at TEXT NOT NULL,
		board_seed INTEGER NOT NULL,
		board_radius INTEGER NOT NULL,
		tiles INTEGER NOT NULL,
		scenario TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS routes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id),
		origin_q INTEGER NOT NULL,
		origin_r INTEGER NOT NULL,
		dest_q INTEGER NOT NULL,
		dest_r INTEGER NOT NULL,
		max_turns INTEGER NOT NULL,
		found INTEGER NOT NULL,
		path_len INTEGER NOT NULL,
		turns INTEGER NOT NULL,
		duration_us INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_routes_run ON routes(run_id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// Run describes one pathlab invocation.
type Run struct {
	ID          string    `db:"id"`
	StartedAt   time.Time `db:"started_at"`
	BoardSeed   int64     `db:"board_seed"`
	BoardRadius int       `db:"board_radius"`
	Tiles       int       `db:"tiles"`
	Scenario    string    `db:"scenario"`
}

// Route describes one recorded query.
type Route struct {
	RunID      string `db:"run_id"`
	OriginQ    int    `db:"origin_q"`
	OriginR    int    `db:"origin_r"`
	DestQ      int    `db:"dest_q"`
	DestR      int    `db:"dest_r"`
	MaxTurns   int    `db:"max_turns"`
	Found      bool   `db:"found"`
	PathLen    int    `db:"path_len"`
	Turns      int    `db:"turns"`
	DurationUS int64  `db:"duration_us"`
}

// NewRun allocates a run row and returns its id.
func (db *DB) NewRun(seed int64, radius, tiles int, scenario string) (string, error) {
	id := uuid.NewString()
	_, err := db.conn.Exec(
		`INSERT INTO runs (id, started_at, board_seed, board_radius, tiles, scenario)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, time.Now().UTC().Format(time.RFC3339), seed, radius, tiles, scenario)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	slog.Debug("run recorded", "id", id, "scenario", scenario)
	return id, nil
}

// RecordRoutes writes a batch of query results in one transaction.
func (db *DB) RecordRoutes(routes []Route) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex(
		`INSERT INTO routes
		 (run_id, origin_q, origin_r, dest_q, dest_r, max_turns, found, path_len, turns, duration_us)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range routes {
		found := 0
		if r.Found {
			found = 1
		}
		if _, err := stmt.Exec(r.RunID, r.OriginQ, r.OriginR, r.DestQ, r.DestR,
			r.MaxTurns, found, r.PathLen, r.Turns, r.DurationUS); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// RouteCount returns how many routes are recorded for a run.
func (db *DB) RouteCount(runID string) (int, error) {
	var n int
	err := db.conn.Get(&n, "SELECT COUNT(*) FROM routes WHERE run_id = ?", runID)
	return n, err
}
