package timer

// Latch is the level-held expiry output of a Counter.
//
// It is a view, not a copy: it always reflects the counter's current state.
// Once the counter expires the level stays high until the next Trigger or
// Reset. Because Counter transitions are synchronous, a read between calls
// never sees an intermediate state.
type Latch struct {
	c *Counter
}

// Sample is a consistent snapshot of a Counter's observable outputs.
type Sample struct {
	State   State
	Elapsed uint64
	Target  uint64
	Expired bool
}

// Expired reports the current expiry level.
func (l Latch) Expired() bool {
	if l.c == nil {
		return false
	}
	return l.c.IsExpired()
}

// Sample reads every observable output at once.
func (l Latch) Sample() Sample {
	if l.c == nil {
		return Sample{}
	}
	return Sample{
		State:   l.c.state,
		Elapsed: l.c.elapsed,
		Target:  l.c.target,
		Expired: l.c.state == StateExpired,
	}
}
