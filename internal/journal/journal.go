// SPDX-License-Identifier: AGPL-3.0-or-later

// Package journal persists execution history in a local SQLite database.
// Only results of real (non-dry-run) executions are recorded: what ran,
// in which order, and how each step ended. Plans themselves are never
// persisted.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cm-org/cm/internal/paths"
	"github.com/cm-org/cm/internal/types"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const (
	sqliteDriverName   = "sqlite"
	defaultBusyTimeout = 5 * time.Second
)

var migrations = [...]string{
	`CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		op TEXT NOT NULL,
		started_at INTEGER NOT NULL,
		finished_at INTEGER NOT NULL,
		succeeded INTEGER NOT NULL,
		exit_code INTEGER NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);`,
	`CREATE TABLE IF NOT EXISTS run_steps (
		run_id TEXT NOT NULL REFERENCES runs(id),
		idx INTEGER NOT NULL,
		label TEXT NOT NULL,
		state TEXT NOT NULL,
		exit_code INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		PRIMARY KEY (run_id, idx)
	);`,
}

// DB wraps the SQLite connection holding the run journal.
type DB struct {
	sql *sql.DB
}

// Run is one recorded execution.
type Run struct {
	ID         string
	Op         types.Op
	StartedAt  time.Time
	FinishedAt time.Time
	Succeeded  bool
	ExitCode   int
	Steps      []StepRecord
}

// StepRecord is the persisted outcome of one step.
type StepRecord struct {
	Index    int
	Label    string
	State    types.StepState
	ExitCode int
	Duration time.Duration
}

// Open initialises the journal DB under dataDir (the platform data dir
// when empty), creating directory and schema as needed.
func Open(ctx context.Context, dataDir string) (*DB, error) {
	dir := dataDir
	if dir == "" {
		dir = paths.DataDir()
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("ensure data dir: %w", err)
	}

	dbPath := filepath.Join(dir, "cm.db")
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)", filepath.ToSlash(dbPath), int(defaultBusyTimeout/time.Millisecond))
	conn, err := sql.Open(sqliteDriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	for _, stmt := range []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA foreign_keys=ON;",
	} {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("execute pragma %q: %w", stmt, err)
		}
	}
	for _, stmt := range migrations {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("apply migration: %w", err)
		}
	}
	return &DB{sql: conn}, nil
}

// Close shuts down the underlying connection.
func (db *DB) Close() error {
	if db == nil || db.sql == nil {
		return nil
	}
	return db.sql.Close()
}

// Record appends one execution to the journal and returns its run ID.
func (db *DB) Record(ctx context.Context, op types.Op, started, finished time.Time, result types.ExecutionResult) (string, error) {
	runID := uuid.NewString()

	tx, err := db.sql.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin journal tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	succeeded := 0
	if result.Succeeded() {
		succeeded = 1
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, op, started_at, finished_at, succeeded, exit_code) VALUES (?, ?, ?, ?, ?, ?)`,
		runID, string(op), started.UnixMilli(), finished.UnixMilli(), succeeded, result.ExitCode(),
	); err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	for i, sr := range result.Steps {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_steps (run_id, idx, label, state, exit_code, duration_ms) VALUES (?, ?, ?, ?, ?, ?)`,
			runID, i, sr.Step.Label, string(sr.State), sr.ExitCode, sr.Duration.Milliseconds(),
		); err != nil {
			return "", fmt.Errorf("insert step %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit journal tx: %w", err)
	}
	return runID, nil
}

// Recent returns up to limit runs, newest first, steps included.
func (db *DB) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := db.sql.QueryContext(ctx,
		`SELECT id, op, started_at, finished_at, succeeded, exit_code
		 FROM runs ORDER BY started_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r                  Run
			opRaw              string
			started, finished  int64
			succeeded, exitRaw int
		)
		if err := rows.Scan(&r.ID, &opRaw, &started, &finished, &succeeded, &exitRaw); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.Op = types.Op(opRaw)
		r.StartedAt = time.UnixMilli(started)
		r.FinishedAt = time.UnixMilli(finished)
		r.Succeeded = succeeded != 0
		r.ExitCode = exitRaw
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	for i := range runs {
		steps, err := db.runSteps(ctx, runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Steps = steps
	}
	return runs, nil
}

func (db *DB) runSteps(ctx context.Context, runID string) ([]StepRecord, error) {
	rows, err := db.sql.QueryContext(ctx,
		`SELECT idx, label, state, exit_code, duration_ms
		 FROM run_steps WHERE run_id = ? ORDER BY idx`, runID)
	if err != nil {
		return nil, fmt.Errorf("query steps: %w", err)
	}
	defer rows.Close()

	var steps []StepRecord
	for rows.Next() {
		var (
			rec        StepRecord
			state      string
			durationMS int64
		)
		if err := rows.Scan(&rec.Index, &rec.Label, &state, &rec.ExitCode, &durationMS); err != nil {
			return nil, fmt.Errorf("scan step: %w", err)
		}
		rec.State = types.StepState(state)
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		steps = append(steps, rec)
	}
	return steps, rows.Err()
}
