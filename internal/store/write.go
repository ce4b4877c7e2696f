package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/almanac/internal/ir"
)

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

// WriteRun inserts a run summary.
// Uses ON CONFLICT(id) DO NOTHING: writing the same run twice is a no-op and
// reports inserted == false. Other constraint violations still return errors.
//
// The final interval set is stored as canonical JSON.
func (s *Store) WriteRun(ctx context.Context, run ir.RunRecord) (inserted bool, err error) {
	return insertRun(ctx, s.db, run)
}

// WriteSteps inserts the stage trace of a run in one transaction.
// The run must already exist (foreign key). Steps already present for the
// same (run_id, seq) are left untouched.
func (s *Store) WriteSteps(ctx context.Context, runID string, steps []ir.StageStep) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write steps: %w", err)
	}
	defer tx.Rollback()

	if err := insertSteps(ctx, tx, runID, steps); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write steps: %w", err)
	}
	return nil
}

// Record writes a run and its trace in a single transaction: either both
// land or neither does. A run that is already stored keeps its original
// trace; the new steps are discarded.
func (s *Store) Record(ctx context.Context, run ir.RunRecord, steps []ir.StageStep) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("record run: %w", err)
	}
	defer tx.Rollback()

	inserted, err := insertRun(ctx, tx, run)
	if err != nil || !inserted {
		return false, err
	}
	if err := insertSteps(ctx, tx, run.ID, steps); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("record run: %w", err)
	}
	return true, nil
}

func insertRun(ctx context.Context, db execer, run ir.RunRecord) (bool, error) {
	finalJSON, err := marshalIntervals(run.Final)
	if err != nil {
		return false, fmt.Errorf("write run: %w", err)
	}

	res, err := db.ExecContext(ctx, `
		INSERT INTO runs
		(id, session, pipeline_hash, mode, seed_count, measure, answer, final_set, seq, engine_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.Session,
		run.PipelineHash,
		string(run.Mode),
		run.SeedCount,
		run.Measure,
		run.Answer,
		finalJSON,
		run.Seq,
		run.EngineVersion,
	)
	if err != nil {
		return false, fmt.Errorf("write run: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("write run: %w", err)
	}
	return n > 0, nil
}

func insertSteps(ctx context.Context, db execer, runID string, steps []ir.StageStep) error {
	stmt, err := db.PrepareContext(ctx, `
		INSERT INTO stage_steps
		(run_id, seq, stage, input_count, output_count, measure, min_start)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, seq) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("write steps: %w", err)
	}
	defer stmt.Close()

	for _, step := range steps {
		if _, err := stmt.ExecContext(ctx,
			runID,
			step.Seq,
			step.Stage,
			step.InputCount,
			step.OutputCount,
			step.Measure,
			step.MinStart,
		); err != nil {
			return fmt.Errorf("write step %d (%s): %w", step.Seq, step.Stage, err)
		}
	}
	return nil
}
