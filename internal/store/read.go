package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/almanac/internal/ir"
)

const runColumns = `id, session, pipeline_hash, mode, seed_count, measure, answer, final_set, seq, engine_version`

// ReadRun returns the run with the given ID, or ErrNotFound.
func (s *Store) ReadRun(ctx context.Context, id string) (ir.RunRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ir.RunRecord{}, fmt.Errorf("read run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return ir.RunRecord{}, fmt.Errorf("read run %s: %w", id, err)
	}
	return run, nil
}

// ListRuns returns stored runs ordered by seq ASC, id COLLATE BINARY ASC.
// An empty session lists every run.
//
// Returns an empty slice (not nil) if nothing matches.
func (s *Store) ListRuns(ctx context.Context, session string) ([]ir.RunRecord, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if session == "" {
		rows, err = s.db.QueryContext(ctx, `
			SELECT `+runColumns+` FROM runs
			ORDER BY seq ASC, id COLLATE BINARY ASC
		`)
	} else {
		rows, err = s.db.QueryContext(ctx, `
			SELECT `+runColumns+` FROM runs
			WHERE session = ?
			ORDER BY seq ASC, id COLLATE BINARY ASC
		`, session)
	}
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []ir.RunRecord{}
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
	return runs, nil
}

// ReadSteps returns the trace of a run in seq order.
// Returns an empty slice (not nil) for unknown runs.
func (s *Store) ReadSteps(ctx context.Context, runID string) ([]ir.StageStep, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, stage, input_count, output_count, measure, min_start
		FROM stage_steps
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query steps: %w", err)
	}
	defer rows.Close()

	steps := []ir.StageStep{}
	for rows.Next() {
		var step ir.StageStep
		if err := rows.Scan(
			&step.Seq,
			&step.Stage,
			&step.InputCount,
			&step.OutputCount,
			&step.Measure,
			&step.MinStart,
		); err != nil {
			return nil, fmt.Errorf("scan step: %w", err)
		}
		steps = append(steps, step)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate steps: %w", err)
	}
	return steps, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (ir.RunRecord, error) {
	var (
		run       ir.RunRecord
		mode      string
		finalJSON string
	)
	err := row.Scan(
		&run.ID,
		&run.Session,
		&run.PipelineHash,
		&mode,
		&run.SeedCount,
		&run.Measure,
		&run.Answer,
		&finalJSON,
		&run.Seq,
		&run.EngineVersion,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ir.RunRecord{}, err
		}
		return ir.RunRecord{}, fmt.Errorf("scan run: %w", err)
	}

	run.Mode = ir.Mode(mode)
	run.Final, err = unmarshalIntervals(finalJSON)
	if err != nil {
		return ir.RunRecord{}, fmt.Errorf("scan run %s: %w", run.ID, err)
	}
	return run, nil
}
