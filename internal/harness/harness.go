package harness

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/dtimer/internal/engine"
	"github.com/roach88/dtimer/internal/testutil"
	"github.com/roach88/dtimer/internal/timer"
)

// Option configures a harness run.
type Option func(*options)

type options struct {
	logger     *slog.Logger
	tickBudget uint64
}

// WithLogger sets the logger for step-level debug output.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithTickBudget caps how many ticks a sweep case may simulate.
//
// Default: engine.DefaultTickBudget.
func WithTickBudget(limit uint64) Option {
	return func(o *options) {
		o.tickBudget = limit
	}
}

func newOptions(opts []Option) options {
	o := options{
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		tickBudget: engine.DefaultTickBudget,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// harness executes one scenario against one simulator.
type harness struct {
	sim    *engine.Simulator
	logger *slog.Logger
}

// Run executes a scenario and returns the result.
//
// A configuration rejection is an outcome, not an error: it passes if the
// scenario expects that error kind and fails otherwise. The returned error
// is reserved for scenarios the harness cannot execute.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	o := newOptions(opts)
	result := NewResult()

	cfg, err := timer.ConfigureText(string(scenario.Frequency), scenario.Delay.Token)
	if err != nil {
		kind, ok := timer.KindOf(err)
		if !ok {
			return nil, fmt.Errorf("configuring scenario %s: %w", scenario.Name, err)
		}
		result.ErrorKind = kind
		if scenario.ExpectError != string(kind) {
			result.AddError(fmt.Sprintf("configuration rejected: %v", err))
		}
		return result, nil
	}

	if scenario.ExpectError != "" {
		result.AddError(fmt.Sprintf("expected %s, but configuration was accepted with %d cycles",
			scenario.ExpectError, timer.Cycles(cfg)))
		return result, nil
	}

	h := &harness{
		sim: engine.NewSimulator(cfg,
			engine.WithClock(testutil.NewDeterministicClock()),
			engine.WithRecording(),
			engine.WithLogger(o.logger),
		),
		logger: o.logger,
	}
	result.Target = h.sim.Target()

	for i, step := range scenario.Steps {
		if err := h.executeStep(i, step, result); err != nil {
			return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
	}

	result.addEvents(h.sim.Events())

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}

	return result, nil
}

func (h *harness) executeStep(index int, step Step, result *Result) error {
	switch step.Action {
	case ActionTrigger:
		h.sim.Trigger()
	case ActionTick:
		h.sim.Advance(step.Ticks())
	case ActionReset:
		h.sim.Reset()
	case ActionSample:
		sample := h.sim.Sample()
		if step.Expect != nil {
			for _, msg := range checkSample(sample, *step.Expect) {
				result.AddError(fmt.Sprintf("steps[%d]: %s", index, msg))
			}
		}
	default:
		return fmt.Errorf("steps[%d]: unknown action %q", index, step.Action)
	}

	h.logger.Debug("scenario step",
		"step", index,
		"action", step.Action,
		"ticks", h.sim.Ticks(),
		"expired", h.sim.Latch().Expired(),
	)
	return nil
}

// checkSample compares the fields the expectation names.
func checkSample(got timer.Sample, want SampleExpect) []string {
	var msgs []string
	if want.Expired != nil && got.Expired != *want.Expired {
		msgs = append(msgs, fmt.Sprintf("expired = %t, want %t", got.Expired, *want.Expired))
	}
	if want.Elapsed != nil && got.Elapsed != *want.Elapsed {
		msgs = append(msgs, fmt.Sprintf("elapsed = %d, want %d", got.Elapsed, *want.Elapsed))
	}
	if want.State != "" && got.State.String() != want.State {
		msgs = append(msgs, fmt.Sprintf("state = %s, want %s", got.State, want.State))
	}
	return msgs
}
