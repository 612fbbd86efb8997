package engine

import (
	"context"
	"io"
	"log/slog"

	"github.com/roach88/dtimer/internal/timer"
)

// cancelCheckInterval is how many ticks RunToExpiry runs between context checks.
const cancelCheckInterval = 1 << 14

// Sequencer hands out strictly increasing event sequence numbers.
// Implemented by Clock and by testutil.DeterministicClock.
type Sequencer interface {
	Next() int64
}

// Simulator is the tick source for a single delay-timer counter.
//
// The simulator owns its counter. Stimulus methods (Trigger, Tick, Advance,
// Reset) advance it synchronously; observation methods never change it.
// Not safe for concurrent use.
type Simulator struct {
	counter *timer.Counter
	clock   Sequencer
	ticks   uint64

	record bool
	events []Event

	budget uint64
	logger *slog.Logger
}

// SimulatorOption configures a Simulator.
type SimulatorOption func(*Simulator)

// WithClock stamps events from an existing clock instead of a fresh one.
// Sharing a clock gives events from several simulators a common order.
func WithClock(c Sequencer) SimulatorOption {
	return func(s *Simulator) {
		s.clock = c
	}
}

// WithRecording enables the per-step event log.
//
// Recording is off by default: RunToExpiry on a 500,000-cycle target would
// otherwise allocate an event per tick.
func WithRecording() SimulatorOption {
	return func(s *Simulator) {
		s.record = true
	}
}

// WithTickBudget sets the RunToExpiry limit.
//
// Default: DefaultTickBudget.
func WithTickBudget(limit uint64) SimulatorOption {
	return func(s *Simulator) {
		s.budget = limit
	}
}

// WithLogger sets the logger for debug output.
func WithLogger(l *slog.Logger) SimulatorOption {
	return func(s *Simulator) {
		s.logger = l
	}
}

// NewSimulator creates a simulator around a fresh, idle counter.
func NewSimulator(cfg timer.TimerConfig, opts ...SimulatorOption) *Simulator {
	s := &Simulator{
		counter: timer.NewCounter(cfg),
		clock:   NewClock(),
		budget:  DefaultTickBudget,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Trigger starts or restarts the counter.
// Returns true if the trigger itself expired the counter (zero target).
func (s *Simulator) Trigger() bool {
	expired := s.counter.Trigger()
	s.emit(EventTrigger)
	if expired {
		s.emit(EventExpire)
	}
	return expired
}

// Tick delivers one clock tick. Returns true on the expiring tick.
func (s *Simulator) Tick() bool {
	s.ticks++
	expired := s.counter.Tick()
	s.emit(EventTick)
	if expired {
		s.emit(EventExpire)
	}
	return expired
}

// Advance delivers n ticks and returns how many of them caused expiry.
// The count is 0 or 1 since only a trigger can re-arm the counter.
func (s *Simulator) Advance(n uint64) int {
	fired := 0
	for i := uint64(0); i < n; i++ {
		if s.Tick() {
			fired++
		}
	}
	return fired
}

// Reset cancels the current interval and returns the counter to idle.
func (s *Simulator) Reset() {
	s.counter.Reset()
	s.emit(EventReset)
}

// Sample reads the counter's outputs and records the observation.
func (s *Simulator) Sample() timer.Sample {
	sample := s.counter.Latch().Sample()
	s.emit(EventSample)
	return sample
}

// RunToExpiry triggers the counter and ticks it until it expires.
//
// Returns the number of ticks observed between the trigger and expiry, which
// for a correct counter equals its target. Fails with TICK_BUDGET_EXCEEDED
// when the target is beyond the budget, and with CANCELLED if ctx ends.
func (s *Simulator) RunToExpiry(ctx context.Context) (uint64, error) {
	budget := NewTickBudget(s.budget)
	target := s.counter.Target()
	if !budget.Admits(target) {
		return 0, NewBudgetError(target, budget.Limit())
	}

	s.logger.Debug("run to expiry", "target", target, "frequency_hz", s.counter.Config().Clock().FrequencyHz)

	if s.Trigger() {
		return 0, nil
	}

	for {
		if budget.Used()%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return budget.Used(), NewCancelledError(budget.Used(), err)
			}
		}
		if !budget.Spend() {
			return budget.Used(), NewBudgetError(target, budget.Limit())
		}
		if s.Tick() {
			return budget.Used(), nil
		}
	}
}

// Latch returns the counter's expiry output.
func (s *Simulator) Latch() timer.Latch {
	return s.counter.Latch()
}

// Target returns the counter's cycle count.
func (s *Simulator) Target() uint64 {
	return s.counter.Target()
}

// Expirations returns the number of expiry edges so far.
func (s *Simulator) Expirations() uint64 {
	return s.counter.Expirations()
}

// Ticks returns the total ticks delivered.
func (s *Simulator) Ticks() uint64 {
	return s.ticks
}

// Events returns a copy of the recorded event log.
func (s *Simulator) Events() []Event {
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

func (s *Simulator) emit(kind EventKind) {
	if !s.record {
		return
	}
	sample := s.counter.Latch().Sample()
	s.events = append(s.events, Event{
		Seq:     s.clock.Next(),
		Tick:    s.ticks,
		Kind:    kind,
		State:   sample.State,
		Elapsed: sample.Elapsed,
		Expired: sample.Expired,
	})
}
