package store

import (
	"context"
	"database/sql"
	"fmt"
)

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const runColumns = `id, sweep_name, source, filter, tool_version, seq, total, passed, failed`

const caseColumns = `run_id, seq, name, case_id, frequency, delay, delay_encoding, frequency_hz, delay_ns,
	target_cycles, observed_ticks, error_kind, simulation_skipped, pass, errors`

// ListRuns returns all runs, oldest first (ORDER BY seq ASC, id ASC COLLATE BINARY).
// Returns an empty slice (not nil) if there are none.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+runColumns+`
		FROM runs
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
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

// ReadRun retrieves a single run by ID.
// Returns an error wrapping sql.ErrNoRows if not found.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+runColumns+`
		FROM runs
		WHERE id = ?
	`, id)
	return scanRun(row)
}

// LatestRun returns the run with the highest seq.
// Returns an error wrapping sql.ErrNoRows if the store is empty.
func (s *Store) LatestRun(ctx context.Context) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+runColumns+`
		FROM runs
		ORDER BY seq DESC, id COLLATE BINARY DESC
		LIMIT 1
	`)
	return scanRun(row)
}

// ReadCaseResults returns a run's case results in the order they were
// checked (ORDER BY seq ASC, name ASC COLLATE BINARY).
// Returns an empty slice (not nil) if there are none.
func (s *Store) ReadCaseResults(ctx context.Context, runID string) ([]CaseRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+caseColumns+`
		FROM case_results
		WHERE run_id = ?
		ORDER BY seq ASC, name COLLATE BINARY ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query case results: %w", err)
	}
	defer rows.Close()

	records := []CaseRecord{}
	for rows.Next() {
		rec, err := scanCaseRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate case results: %w", err)
	}
	return records, nil
}

// GetLastSeq returns the highest seq number used in the store, or 0.
// Used to resume the logical clock after earlier runs.
func (s *Store) GetLastSeq(ctx context.Context) (int64, error) {
	var maxSeq int64
	err := s.db.QueryRowContext(ctx, `
		SELECT MAX(
			(SELECT COALESCE(MAX(seq), 0) FROM runs),
			(SELECT COALESCE(MAX(seq), 0) FROM case_results)
		)
	`).Scan(&maxSeq)
	if err != nil {
		return 0, fmt.Errorf("get last seq: %w", err)
	}
	return maxSeq, nil
}

func scanRun(row scanner) (Run, error) {
	var run Run
	err := row.Scan(
		&run.ID,
		&run.SweepName,
		&run.Source,
		&run.Filter,
		&run.ToolVersion,
		&run.Seq,
		&run.Total,
		&run.Passed,
		&run.Failed,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return run, fmt.Errorf("run not found: %w", err)
		}
		return run, fmt.Errorf("scan run: %w", err)
	}
	return run, nil
}

func scanCaseRecord(row scanner) (CaseRecord, error) {
	var (
		rec                            CaseRecord
		freqHz, targetCycles, observed string
		errorsJSON                     string
	)
	err := row.Scan(
		&rec.RunID,
		&rec.Seq,
		&rec.Name,
		&rec.CaseID,
		&rec.Frequency,
		&rec.Delay,
		&rec.DelayEncoding,
		&freqHz,
		&rec.DelayNs,
		&targetCycles,
		&observed,
		&rec.ErrorKind,
		&rec.SimulationSkipped,
		&rec.Pass,
		&errorsJSON,
	)
	if err != nil {
		return rec, fmt.Errorf("scan case result: %w", err)
	}

	if rec.FrequencyHz, err = parseUint("frequency_hz", freqHz); err != nil {
		return rec, err
	}
	if rec.TargetCycles, err = parseUint("target_cycles", targetCycles); err != nil {
		return rec, err
	}
	if rec.ObservedTicks, err = parseUint("observed_ticks", observed); err != nil {
		return rec, err
	}
	if rec.Errors, err = unmarshalErrors(errorsJSON); err != nil {
		return rec, err
	}
	return rec, nil
}
