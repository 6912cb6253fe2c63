// Package journal keeps a history of generation runs in SQLite. It is
// informational only: whether a part is generated again depends on the
// artifact files, never on the journal.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"citygen/pkg/db"
)

// Outcomes of a part within a run.
const (
	OutcomeGenerated = "generated"
	OutcomeSkipped   = "skipped"
	OutcomeFailed    = "failed"
)

// Recorder receives run events from the orchestrator.
type Recorder interface {
	StartRun(ctx context.Context, start, end int) (string, error)
	RecordPart(ctx context.Context, runID, recordID, part string, attempts int, outcome string) error
	FinishRun(ctx context.Context, runID string, records int) error
	Close() error
}

// Run is one row of the run history.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt *time.Time
	RangeStart int
	RangeEnd   int
	Records    int
	Generated  int
	Skipped    int
	Failed     int
}

// SQLiteJournal implements Recorder on top of the runs and attempts tables.
type SQLiteJournal struct {
	db  *db.DB
	now func() time.Time
}

// Open opens the journal at path. An empty path yields a Noop recorder.
func Open(path string) (Recorder, error) {
	if path == "" {
		return Noop{}, nil
	}
	d, err := db.Init(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	return New(d), nil
}

// New wraps an initialized database.
func New(d *db.DB) *SQLiteJournal {
	return &SQLiteJournal{db: d, now: func() time.Time { return time.Now().UTC() }}
}

// Close closes the underlying database.
func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}

// StartRun inserts a run and returns its id.
func (j *SQLiteJournal) StartRun(ctx context.Context, start, end int) (string, error) {
	id := uuid.New().String()
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO runs (run_id, started_at, range_start, range_end) VALUES (?, ?, ?, ?)`,
		id, j.now(), start, end)
	if err != nil {
		return "", fmt.Errorf("failed to start run: %w", err)
	}
	return id, nil
}

// RecordPart appends the outcome of one part.
func (j *SQLiteJournal) RecordPart(ctx context.Context, runID, recordID, part string, attempts int, outcome string) error {
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO attempts (run_id, record_id, part, attempts, outcome, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		runID, recordID, part, attempts, outcome, j.now())
	if err != nil {
		return fmt.Errorf("failed to record part: %w", err)
	}
	return nil
}

// FinishRun marks a run as completed.
func (j *SQLiteJournal) FinishRun(ctx context.Context, runID string, records int) error {
	res, err := j.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, records = ? WHERE run_id = ?`,
		j.now(), records, runID)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("unknown run %s", runID)
	}
	return nil
}

// RecentRuns returns the last n runs, newest first, with outcome counts.
func (j *SQLiteJournal) RecentRuns(ctx context.Context, n int) ([]Run, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT r.run_id, r.started_at, r.finished_at, r.range_start, r.range_end, r.records,
			COALESCE(SUM(CASE WHEN a.outcome = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN a.outcome = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN a.outcome = ? THEN 1 ELSE 0 END), 0)
		FROM runs r LEFT JOIN attempts a ON a.run_id = r.run_id
		GROUP BY r.run_id
		ORDER BY r.started_at DESC
		LIMIT ?`,
		OutcomeGenerated, OutcomeSkipped, OutcomeFailed, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var finished sql.NullTime
		if err := rows.Scan(&r.ID, &r.StartedAt, &finished, &r.RangeStart, &r.RangeEnd, &r.Records,
			&r.Generated, &r.Skipped, &r.Failed); err != nil {
			return nil, err
		}
		if finished.Valid {
			t := finished.Time
			r.FinishedAt = &t
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Prune deletes runs started more than olderThan ago, with their attempts,
// and returns how many runs went.
func (j *SQLiteJournal) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	n, err := j.db.PruneRuns(ctx, j.now().Add(-olderThan))
	if err != nil {
		return 0, fmt.Errorf("failed to prune runs: %w", err)
	}
	return n, nil
}

// Noop discards all events.
type Noop struct{}

func (Noop) StartRun(context.Context, int, int) (string, error) { return "", nil }

func (Noop) RecordPart(context.Context, string, string, string, int, string) error { return nil }

func (Noop) FinishRun(context.Context, string, int) error { return nil }

func (Noop) Close() error { return nil }
