package harness

import (
	"github.com/roach88/dtimer/internal/engine"
	"github.com/roach88/dtimer/internal/timer"
)

// TraceEvent is one recorded counter observation, in serializable form.
type TraceEvent struct {
	Seq     int64  `json:"seq"`
	Tick    uint64 `json:"tick"`
	Kind    string `json:"kind"`
	State   string `json:"state"`
	Elapsed uint64 `json:"elapsed"`
	Expired bool   `json:"expired"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every step expectation and assertion held.
	Pass bool `json:"pass"`

	// Target is the configured cycle count. Zero when the configuration
	// was rejected.
	Target uint64 `json:"target"`

	// ErrorKind is set when the configuration was rejected.
	ErrorKind timer.ErrorKind `json:"error_kind,omitempty"`

	// Trace holds the recorded events in seq order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// addEvents appends simulator events to the trace.
func (r *Result) addEvents(events []engine.Event) {
	for _, ev := range events {
		r.Trace = append(r.Trace, TraceEvent{
			Seq:     ev.Seq,
			Tick:    ev.Tick,
			Kind:    string(ev.Kind),
			State:   ev.StateName(),
			Elapsed: ev.Elapsed,
			Expired: ev.Expired,
		})
	}
}
