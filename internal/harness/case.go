package harness

import (
	"context"
	"fmt"
	"math/big"

	"github.com/roach88/dtimer/internal/engine"
	"github.com/roach88/dtimer/internal/sweep"
	"github.com/roach88/dtimer/internal/timer"
)

// CaseResult is the outcome of checking one sweep case.
type CaseResult struct {
	Name   string `json:"name"`
	CaseID string `json:"case_id"`

	// Inputs as written, and as parsed when parsing succeeded.
	Frequency     string `json:"frequency"`
	Delay         string `json:"delay"`
	DelayEncoding string `json:"delay_encoding"`
	FrequencyHz   uint64 `json:"frequency_hz,omitempty"`
	DelayNs       int64  `json:"delay_ns,omitempty"`

	// TargetCycles is the computed cycle count; ObservedTicks is how many
	// ticks the simulated counter took to expire.
	TargetCycles  uint64 `json:"target_cycles"`
	ObservedTicks uint64 `json:"observed_ticks"`

	// ErrorKind is set when the configuration was rejected.
	ErrorKind timer.ErrorKind `json:"error_kind,omitempty"`

	// SimulationSkipped is set when the target exceeds the tick budget. The
	// cycle count is still checked.
	SimulationSkipped bool `json:"simulation_skipped,omitempty"`

	Pass   bool     `json:"pass"`
	Errors []string `json:"errors,omitempty"`
}

func (r *CaseResult) fail(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	r.Pass = false
}

// SweepResult aggregates the case results of one sweep run.
type SweepResult struct {
	Name    string       `json:"name"`
	Results []CaseResult `json:"results"`
	Passed  int          `json:"passed"`
	Failed  int          `json:"failed"`
	Total   int          `json:"total"`
}

// Pass reports whether every case passed.
func (r *SweepResult) Pass() bool {
	return r.Failed == 0
}

// RunCase checks one case.
//
// The configuration is parsed and validated. A rejection passes only when
// the case expects that error kind. An accepted configuration must match
// the expected cycle count (if pinned) and the exact ceiling computed with
// arbitrary-precision arithmetic, and a simulated counter must expire after
// exactly that many ticks.
//
// Targets beyond the tick budget are not simulated.
//
// The returned error is non-nil for an ill-formed case definition or when
// ctx ends mid-simulation.
func RunCase(ctx context.Context, c sweep.Case, opts ...Option) (CaseResult, error) {
	o := newOptions(opts)

	if err := c.Validate(); err != nil {
		return CaseResult{Name: c.Name}, err
	}

	r := CaseResult{
		Name:          c.Name,
		Frequency:     c.Frequency,
		Delay:         c.Delay.String(),
		DelayEncoding: sweep.DelayEncoding(c.Delay),
		Pass:          true,
	}

	id, err := c.ID()
	if err != nil {
		return r, fmt.Errorf("case %s: %w", c.Name, err)
	}
	r.CaseID = id

	cfg, err := timer.ConfigureText(c.Frequency, c.Delay)
	if err != nil {
		kind, ok := timer.KindOf(err)
		if !ok {
			return r, fmt.Errorf("case %s: %w", c.Name, err)
		}
		r.ErrorKind = kind
		switch {
		case !c.Expect.ExpectsError():
			r.fail("configuration rejected: %v", err)
		case c.Expect.Error != kind:
			r.fail("expected %s, got %v", c.Expect.Error, err)
		}
		o.logger.Debug("case rejected", "case", c.Name, "kind", kind, "pass", r.Pass)
		return r, nil
	}

	r.FrequencyHz = cfg.Clock().FrequencyHz
	r.DelayNs = cfg.Delay().Nanoseconds
	r.TargetCycles = timer.Cycles(cfg)

	if c.Expect.ExpectsError() {
		r.fail("expected %s, but configuration was accepted with %d cycles", c.Expect.Error, r.TargetCycles)
		return r, nil
	}

	if c.Expect.Cycles != nil && r.TargetCycles != *c.Expect.Cycles {
		r.fail("cycles = %d, want %d", r.TargetCycles, *c.Expect.Cycles)
	}
	if !isCeiling(r.TargetCycles, r.DelayNs, r.FrequencyHz) {
		r.fail("cycles = %d is not ceil(%d ns * %d Hz / 1e9)", r.TargetCycles, r.DelayNs, r.FrequencyHz)
	}

	sim := engine.NewSimulator(cfg, engine.WithTickBudget(o.tickBudget), engine.WithLogger(o.logger))
	observed, err := sim.RunToExpiry(ctx)
	switch {
	case engine.IsCancelled(err):
		return r, err
	case engine.IsBudgetError(err):
		r.SimulationSkipped = true
		o.logger.Debug("simulation skipped", "case", c.Name, "error", err)
	case err != nil:
		return r, fmt.Errorf("case %s: %w", c.Name, err)
	default:
		r.ObservedTicks = observed
		if observed != r.TargetCycles {
			r.fail("counter expired after %d ticks, want %d", observed, r.TargetCycles)
		}
		if !sim.Latch().Expired() {
			r.fail("latch not asserted after expiry")
		}
	}

	o.logger.Debug("case checked",
		"case", c.Name,
		"cycles", r.TargetCycles,
		"observed", r.ObservedTicks,
		"pass", r.Pass,
	)
	return r, nil
}

// isCeiling reports whether n is the smallest count with
// n * 1e9 >= delayNs * freqHz.
func isCeiling(n uint64, delayNs int64, freqHz uint64) bool {
	product := new(big.Int).Mul(big.NewInt(delayNs), new(big.Int).SetUint64(freqHz))
	billion := big.NewInt(1_000_000_000)

	covered := new(big.Int).Mul(new(big.Int).SetUint64(n), billion)
	if covered.Cmp(product) < 0 {
		return false
	}
	if n == 0 {
		return product.Sign() == 0
	}
	short := new(big.Int).Mul(new(big.Int).SetUint64(n-1), billion)
	return short.Cmp(product) < 0
}

// RunSweep checks the cases in order and tallies the results. It stops at
// the first context cancellation and returns the partial result with the
// error.
func RunSweep(ctx context.Context, name string, cases []sweep.Case, opts ...Option) (*SweepResult, error) {
	res := &SweepResult{Name: name, Results: make([]CaseResult, 0, len(cases))}

	for _, c := range cases {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		r, err := RunCase(ctx, c, opts...)
		if err != nil {
			return res, err
		}
		res.Results = append(res.Results, r)
		res.Total++
		if r.Pass {
			res.Passed++
		} else {
			res.Failed++
		}
	}

	return res, nil
}
