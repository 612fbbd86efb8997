package engine

import "sync/atomic"

// Clock is a monotonic logical clock for event ordering.
//
// Every recorded event is stamped with a strictly increasing seq from this
// clock. Seq values are unrelated to simulated ticks: a single tick may
// produce several events (tick, expire), each with its own seq.
//
// Thread-safety: Clock is safe for concurrent use (atomic operations), so a
// sweep can share one clock across cases to get a run-wide ordering.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a new clock starting at a specific sequence number.
// Used to continue numbering after results already in the store.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number and increments the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
