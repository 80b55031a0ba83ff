package store

import (
	"context"
	"fmt"
	"time"

	"github.com/NetworkArchetype/PLM/internal/temporal"
)

// WriteRun inserts a run record into the store.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - duplicate IDs are
// silently ignored. Other constraint violations still return errors.
func (s *Store) WriteRun(ctx context.Context, run RunRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs
		(id, name, profile_hash, precision, scale, shots, steps, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.Name,
		run.ProfileHash,
		run.Precision,
		run.Scale,
		run.Shots,
		run.Steps,
		run.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}

	return nil
}

// WriteSamples inserts a run's trace rows in a single transaction.
// Uses ON CONFLICT(run_id, t) DO NOTHING for idempotency.
//
// Note: The run referenced by runID must exist (foreign key constraint).
func (s *Store) WriteSamples(ctx context.Context, runID string, records []temporal.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write samples: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO samples
		(run_id, t, s, theta, p1, exp_z)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, t) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("write samples: prepare: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx, runID, rec.T, rec.S, rec.Theta, rec.P1, rec.ExpZ); err != nil {
			return fmt.Errorf("write samples: t=%d: %w", rec.T, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write samples: commit: %w", err)
	}

	return nil
}

// AppendSample inserts a single trace row. Used when samples arrive one
// step at a time rather than as a finished series.
func (s *Store) AppendSample(ctx context.Context, runID string, rec temporal.Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO samples
		(run_id, t, s, theta, p1, exp_z)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, t) DO NOTHING
	`, runID, rec.T, rec.S, rec.Theta, rec.P1, rec.ExpZ)
	if err != nil {
		return fmt.Errorf("append sample: t=%d: %w", rec.T, err)
	}
	return nil
}

// RecordRun atomically writes a run record and its full trace in a
// single transaction. Either everything lands or nothing does, so a
// crash can never leave a cataloged run with half its samples.
func (s *Store) RecordRun(ctx context.Context, run RunRecord, records []temporal.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("record run: begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, name, profile_hash, precision, scale, shots, steps, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.Name,
		run.ProfileHash,
		run.Precision,
		run.Scale,
		run.Shots,
		run.Steps,
		run.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record run: write run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO samples
		(run_id, t, s, theta, p1, exp_z)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, t) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("record run: prepare: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx, run.ID, rec.T, rec.S, rec.Theta, rec.P1, rec.ExpZ); err != nil {
			return fmt.Errorf("record run: sample t=%d: %w", rec.T, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("record run: commit: %w", err)
	}

	return nil
}
