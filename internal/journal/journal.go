// Package journal provides SQLite-based run telemetry: one row per started
// run, the semantic events of every tick and periodic full-state snapshots.
// The journal is append-only; it records what happened but is never read
// back to restore a game.
package journal

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/windward/internal/sim"
	"github.com/talgya/windward/internal/units"
)

// Journal wraps a SQLite connection for run telemetry.
type Journal struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite journal at the given path.
func Open(path string) (*Journal, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	j := &Journal{conn: conn}
	if err := j.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return j, nil
}

// Close closes the underlying connection.
func (j *Journal) Close() error {
	return j.conn.Close()
}

func (j *Journal) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at TEXT NOT NULL,
		seed INTEGER NOT NULL,
		edge_length INTEGER NOT NULL,
		resource_density REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL,
		tick INTEGER NOT NULL,
		kind INTEGER NOT NULL,
		speed REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL,
		tick INTEGER NOT NULL,
		state_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_run_tick ON events(run_id, tick);
	CREATE INDEX IF NOT EXISTS idx_snapshots_run ON snapshots(run_id);
	`
	_, err := j.conn.Exec(schema)
	return err
}

// BeginRun records the start of a new run and returns its id.
func (j *Journal) BeginRun(init *sim.WorldInit) (int64, error) {
	res, err := j.conn.Exec(
		"INSERT INTO runs (started_at, seed, edge_length, resource_density) VALUES (?, ?, ?, ?)",
		time.Now().UTC().Format(time.RFC3339),
		int64(init.Seed),
		init.Setting.EdgeLength,
		init.Setting.ResourceDensity,
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	return res.LastInsertId()
}

// RecordEvents appends the events of one tick to the run's log.
func (j *Journal) RecordEvents(runID int64, tick units.Tick, events []sim.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := j.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range events {
		_, err := tx.Exec(
			"INSERT INTO events (run_id, tick, kind, speed) VALUES (?, ?, ?, ?)",
			runID, uint64(tick), e.Kind, e.Speed,
		)
		if err != nil {
			return fmt.Errorf("insert event: %w", err)
		}
	}

	return tx.Commit()
}

// RecordSnapshot appends a full JSON snapshot of the world state.
func (j *Journal) RecordSnapshot(runID int64, state *sim.WorldState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	_, err = j.conn.Exec(
		"INSERT INTO snapshots (run_id, tick, state_json) VALUES (?, ?, ?)",
		runID, uint64(state.Timestamp), string(payload),
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

// EventRow is one journaled event as stored.
type EventRow struct {
	Tick  uint64  `db:"tick"`
	Kind  uint8   `db:"kind"`
	Speed float32 `db:"speed"`
}

// RecentEvents returns the most recent limit events of a run, newest first.
func (j *Journal) RecentEvents(runID int64, limit int) ([]EventRow, error) {
	var rows []EventRow
	err := j.conn.Select(&rows,
		"SELECT tick, kind, speed FROM events WHERE run_id = ? ORDER BY id DESC LIMIT ?",
		runID, limit,
	)
	return rows, err
}
