package store

import (
	"context"
	"database/sql"
	"fmt"
)

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// insertRun inserts a run, or updates the tallies of an existing one.
func insertRun(ctx context.Context, db execer, run Run) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO runs
		(id, sweep_name, source, filter, tool_version, seq, total, passed, failed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			total = excluded.total,
			passed = excluded.passed,
			failed = excluded.failed
	`,
		run.ID,
		run.SweepName,
		run.Source,
		run.Filter,
		run.ToolVersion,
		run.Seq,
		run.Total,
		run.Passed,
		run.Failed,
	)
	return err
}

// insertCaseResult inserts a case result. The run must already exist
// (foreign key constraint). Writing the same case name twice for one run
// is silently ignored.
func insertCaseResult(ctx context.Context, db execer, rec CaseRecord) error {
	errorsJSON, err := marshalErrors(rec.Errors)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO case_results
		(run_id, seq, name, case_id, frequency, delay, delay_encoding, frequency_hz, delay_ns,
		 target_cycles, observed_ticks, error_kind, simulation_skipped, pass, errors)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, name) DO NOTHING
	`,
		rec.RunID,
		rec.Seq,
		rec.Name,
		rec.CaseID,
		rec.Frequency,
		rec.Delay,
		rec.DelayEncoding,
		formatUint(rec.FrequencyHz),
		rec.DelayNs,
		formatUint(rec.TargetCycles),
		formatUint(rec.ObservedTicks),
		rec.ErrorKind,
		rec.SimulationSkipped,
		rec.Pass,
		errorsJSON,
	)
	return err
}

// WriteRunAtomic writes a run and all of its case results in one
// transaction, so a crash never leaves a run with half its cases.
// Writing the same run again refreshes its tallies and skips cases that
// are already stored.
func (s *Store) WriteRunAtomic(ctx context.Context, run Run, records []CaseRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("atomic run write: begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := insertRun(ctx, tx, run); err != nil {
		return fmt.Errorf("atomic run write: run: %w", err)
	}

	for _, rec := range records {
		if rec.RunID != run.ID {
			return fmt.Errorf("atomic run write: case %s belongs to run %q, not %q", rec.Name, rec.RunID, run.ID)
		}
		if err := insertCaseResult(ctx, tx, rec); err != nil {
			return fmt.Errorf("atomic run write: case %s: %w", rec.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("atomic run write: commit: %w", err)
	}
	return nil
}
