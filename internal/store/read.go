package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// ReadRun retrieves a single run record by ID.
// Returns an error wrapping sql.ErrNoRows if not found.
func (s *Store) ReadRun(ctx context.Context, id string) (RunRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, profile_hash, precision, scale, shots, steps, created_at
		FROM runs
		WHERE id = ?
	`, id)

	return scanRunRow(row)
}

// ListRuns returns all recorded runs, newest first. UUIDv7 keys sort by
// creation time, so ordering by id alone is chronological and stable.
//
// Returns an empty slice (not nil) if no runs exist.
func (s *Store) ListRuns(ctx context.Context) ([]RunRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, profile_hash, precision, scale, shots, steps, created_at
		FROM runs
		ORDER BY id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	if runs == nil {
		runs = []RunRecord{}
	}

	return runs, nil
}

// ReadSamples returns a run's trace rows in step order.
//
// Returns an empty slice (not nil) if the run has no samples.
func (s *Store) ReadSamples(ctx context.Context, runID string) ([]Sample, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, t, s, theta, p1, exp_z
		FROM samples
		WHERE run_id = ?
		ORDER BY t ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query samples: %w", err)
	}
	defer rows.Close()

	var samples []Sample
	for rows.Next() {
		var smp Sample
		if err := rows.Scan(&smp.RunID, &smp.T, &smp.S, &smp.Theta, &smp.P1, &smp.ExpZ); err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		samples = append(samples, smp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate samples: %w", err)
	}

	if samples == nil {
		samples = []Sample{}
	}

	return samples, nil
}

// scanRun scans the current row into a RunRecord.
func scanRun(rows *sql.Rows) (RunRecord, error) {
	var run RunRecord
	var createdAt string

	if err := rows.Scan(
		&run.ID, &run.Name, &run.ProfileHash, &run.Precision,
		&run.Scale, &run.Shots, &run.Steps, &createdAt,
	); err != nil {
		return RunRecord{}, fmt.Errorf("scan run: %w", err)
	}

	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return RunRecord{}, fmt.Errorf("scan run: parse created_at %q: %w", createdAt, err)
	}
	run.CreatedAt = ts

	return run, nil
}

// scanRunRow scans a single row into a RunRecord.
func scanRunRow(row *sql.Row) (RunRecord, error) {
	var run RunRecord
	var createdAt string

	if err := row.Scan(
		&run.ID, &run.Name, &run.ProfileHash, &run.Precision,
		&run.Scale, &run.Shots, &run.Steps, &createdAt,
	); err != nil {
		return RunRecord{}, fmt.Errorf("read run: %w", err)
	}

	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return RunRecord{}, fmt.Errorf("read run: parse created_at %q: %w", createdAt, err)
	}
	run.CreatedAt = ts

	return run, nil
}
