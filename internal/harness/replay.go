package harness

import (
	"context"
	"fmt"
	"strconv"

	"github.com/roach88/dtimer/internal/store"
	"github.com/roach88/dtimer/internal/sweep"
	"github.com/roach88/dtimer/internal/timer"
)

// ReplayDiff is one recorded value that a replay did not reproduce.
type ReplayDiff struct {
	Name     string `json:"name"`
	Field    string `json:"field"`
	Recorded string `json:"recorded"`
	Replayed string `json:"replayed"`
}

// ReplayResult is the outcome of replaying a recorded run.
type ReplayResult struct {
	RunID         string       `json:"run_id"`
	Cases         int          `json:"cases"`
	Deterministic bool         `json:"deterministic"`
	Diffs         []ReplayDiff `json:"diffs,omitempty"`
}

// Replay re-checks every recorded case of a run and reports where the
// current result differs from the stored one. Case IDs, cycle counts,
// observed ticks and error kinds must all reproduce exactly.
//
// A recorded rejection is replayed expecting the same error kind; other
// cases are replayed without a pinned cycle count, so the comparison is
// against the record rather than the original expectation.
func Replay(ctx context.Context, runID string, records []store.CaseRecord, opts ...Option) (*ReplayResult, error) {
	o := newOptions(opts)
	res := &ReplayResult{RunID: runID, Cases: len(records), Deterministic: true}

	for _, rec := range records {
		c, err := caseFromRecord(rec)
		if err != nil {
			return nil, err
		}

		got, err := RunCase(ctx, c, opts...)
		if err != nil {
			return nil, fmt.Errorf("replay %s: %w", rec.Name, err)
		}

		diffs := diffRecord(rec, got)
		if len(diffs) > 0 {
			res.Deterministic = false
			res.Diffs = append(res.Diffs, diffs...)
		}
		o.logger.Debug("case replayed", "case", rec.Name, "diffs", len(diffs))
	}

	return res, nil
}

func caseFromRecord(rec store.CaseRecord) (sweep.Case, error) {
	tok, err := sweep.DelayFromText(rec.DelayEncoding, rec.Delay)
	if err != nil {
		return sweep.Case{}, fmt.Errorf("replay %s: %w", rec.Name, err)
	}
	c := sweep.Case{Name: rec.Name, Frequency: rec.Frequency, Delay: tok}
	if rec.ErrorKind != "" {
		kind, err := timer.ParseErrorKind(rec.ErrorKind)
		if err != nil {
			return sweep.Case{}, fmt.Errorf("replay %s: %w", rec.Name, err)
		}
		c.Expect.Error = kind
	}
	return c, nil
}

func diffRecord(rec store.CaseRecord, got CaseResult) []ReplayDiff {
	var diffs []ReplayDiff
	add := func(field, recorded, replayed string) {
		if recorded != replayed {
			diffs = append(diffs, ReplayDiff{Name: rec.Name, Field: field, Recorded: recorded, Replayed: replayed})
		}
	}

	add("case_id", rec.CaseID, got.CaseID)
	add("error_kind", rec.ErrorKind, string(got.ErrorKind))
	add("target_cycles", strconv.FormatUint(rec.TargetCycles, 10), strconv.FormatUint(got.TargetCycles, 10))
	add("simulation_skipped", strconv.FormatBool(rec.SimulationSkipped), strconv.FormatBool(got.SimulationSkipped))
	if !rec.SimulationSkipped && !got.SimulationSkipped {
		add("observed_ticks", strconv.FormatUint(rec.ObservedTicks, 10), strconv.FormatUint(got.ObservedTicks, 10))
	}
	return diffs
}
