package engine

import "github.com/roach88/dtimer/internal/timer"

// EventKind names what a recorded event observed.
type EventKind string

const (
	EventTrigger EventKind = "trigger"
	EventTick    EventKind = "tick"
	EventExpire  EventKind = "expire"
	EventReset   EventKind = "reset"
	EventSample  EventKind = "sample"
)

// Event is one recorded observation of a simulated counter.
type Event struct {
	// Seq is the logical clock value; strictly increasing within a simulator.
	Seq int64 `json:"seq"`

	// Tick is the number of ticks delivered since the simulator was created.
	Tick uint64 `json:"tick"`

	Kind EventKind `json:"kind"`

	// State, Elapsed and Expired are the counter's outputs after the step.
	State   timer.State `json:"-"`
	Elapsed uint64      `json:"elapsed"`
	Expired bool        `json:"expired"`
}

// StateName returns the counter state as text, for serialization.
func (e Event) StateName() string {
	return e.State.String()
}
