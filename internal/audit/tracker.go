package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/serdal-zonemap/internal/debug"
)

const importRunSchema = `
CREATE TABLE IF NOT EXISTS import_run (
	run_id      BIGSERIAL PRIMARY KEY,
	source_file TEXT NOT NULL,
	started_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	finished_at TIMESTAMPTZ,
	status      TEXT NOT NULL DEFAULT 'running',
	imported    INTEGER NOT NULL DEFAULT 0,
	skipped     INTEGER NOT NULL DEFAULT 0,
	notes       TEXT NOT NULL DEFAULT ''
);
`

// Run statuses
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Tracker keeps an audit trail of recommendation imports
type Tracker struct {
	db *sql.DB
}

// NewTracker creates a new audit tracker
func NewTracker(db *sql.DB) *Tracker {
	return &Tracker{db: db}
}

// ImportRun is one recorded import
type ImportRun struct {
	RunID      int64      `json:"run_id"`
	SourceFile string     `json:"source_file"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Status     string     `json:"status"`
	Imported   int        `json:"imported"`
	Skipped    int        `json:"skipped"`
	Notes      string     `json:"notes"`
}

// EnsureSchema creates the import_run table if it does not exist
func (t *Tracker) EnsureSchema(ctx context.Context) error {
	if _, err := t.db.ExecContext(ctx, importRunSchema); err != nil {
		return fmt.Errorf("failed to create import_run table: %w", err)
	}
	return nil
}

// StartRun records the start of an import and returns its run ID
func (t *Tracker) StartRun(ctx context.Context, localDebug bool, sourceFile string) (int64, error) {
	debug.DebugHeader(localDebug)
	defer debug.DebugFooter(localDebug)

	var runID int64
	err := t.db.QueryRowContext(ctx, `
		INSERT INTO import_run (source_file, status)
		VALUES ($1, $2)
		RETURNING run_id
	`, sourceFile, StatusRunning).Scan(&runID)
	if err != nil {
		return 0, fmt.Errorf("failed to record import run: %w", err)
	}

	debug.DebugOutput(localDebug, "Started import run %d for %s", runID, sourceFile)
	return runID, nil
}

// CompleteRun closes a run with its row counts. A non-nil runErr marks the run failed.
func (t *Tracker) CompleteRun(ctx context.Context, localDebug bool, runID int64, imported, skipped int, runErr error) error {
	debug.DebugHeader(localDebug)
	defer debug.DebugFooter(localDebug)

	status, notes := StatusCompleted, ""
	if runErr != nil {
		status, notes = StatusFailed, runErr.Error()
	}

	res, err := t.db.ExecContext(ctx, `
		UPDATE import_run
		SET finished_at = now(), status = $2, imported = $3, skipped = $4, notes = $5
		WHERE run_id = $1
	`, runID, status, imported, skipped, notes)
	if err != nil {
		return fmt.Errorf("failed to complete import run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("import run %d not found", runID)
	}

	debug.DebugOutput(localDebug, "Import run %d %s: %d imported, %d skipped", runID, status, imported, skipped)
	return nil
}

// History returns the most recent import runs, newest first
func (t *Tracker) History(ctx context.Context, localDebug bool, limit int) ([]ImportRun, error) {
	debug.DebugHeader(localDebug)
	defer debug.DebugFooter(localDebug)

	rows, err := t.db.QueryContext(ctx, `
		SELECT run_id, source_file, started_at, finished_at, status, imported, skipped, notes
		FROM import_run
		ORDER BY run_id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query import history: %w", err)
	}
	defer rows.Close()

	var history []ImportRun
	for rows.Next() {
		var run ImportRun
		var finished sql.NullTime
		if err := rows.Scan(&run.RunID, &run.SourceFile, &run.StartedAt, &finished,
			&run.Status, &run.Imported, &run.Skipped, &run.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan import run: %w", err)
		}
		if finished.Valid {
			run.FinishedAt = &finished.Time
		}
		history = append(history, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read import history: %w", err)
	}

	debug.DebugOutput(localDebug, "Retrieved %d import runs", len(history))
	return history, nil
}
