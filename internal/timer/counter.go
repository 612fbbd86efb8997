package timer

// State is the lifecycle phase of a Counter.
type State uint8

const (
	// StateIdle is the initial state: no interval is being timed.
	StateIdle State = iota

	// StateRunning indicates ticks are being counted toward the target.
	StateRunning

	// StateExpired indicates the target was reached. Held until the next
	// trigger or reset.
	StateExpired
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// Counter is the clocked one-shot delay timer.
//
// A Counter exclusively owns its configuration and state. It is advanced by
// exactly one tick source; methods must not be called concurrently.
type Counter struct {
	cfg    TimerConfig
	target uint64

	state   State
	elapsed uint64

	// expirations counts expiry edges since construction.
	expirations uint64
}

// NewCounter creates an idle counter for a validated configuration.
func NewCounter(cfg TimerConfig) *Counter {
	return &Counter{
		cfg:    cfg,
		target: Cycles(cfg),
		state:  StateIdle,
	}
}

// Trigger starts or restarts the timing interval.
//
// Any previous interval is abandoned; elapsed ticks are not carried over.
// With a zero target the counter expires on the trigger itself and Trigger
// returns true. Otherwise the counter enters Running(0) and Trigger returns
// false.
func (c *Counter) Trigger() bool {
	c.elapsed = 0
	if c.target == 0 {
		c.expire()
		return true
	}
	c.state = StateRunning
	return false
}

// Tick advances the counter by one clock tick.
//
// Ticks are ignored while Idle or Expired. Returns true on the tick that
// causes expiry.
func (c *Counter) Tick() bool {
	if c.state != StateRunning {
		return false
	}
	c.elapsed++
	if c.elapsed == c.target {
		c.expire()
		return true
	}
	return false
}

// Reset cancels any interval and returns to Idle.
func (c *Counter) Reset() {
	c.state = StateIdle
	c.elapsed = 0
}

func (c *Counter) expire() {
	c.state = StateExpired
	c.expirations++
}

// IsExpired reports whether the counter is in the Expired state.
func (c *Counter) IsExpired() bool { return c.state == StateExpired }

// State returns the current lifecycle state.
func (c *Counter) State() State { return c.state }

// Elapsed returns ticks counted since the last trigger.
// In the Expired state this equals Target.
func (c *Counter) Elapsed() uint64 { return c.elapsed }

// Target returns the configured cycle count.
func (c *Counter) Target() uint64 { return c.target }

// Expirations returns the number of expiry edges observed so far.
func (c *Counter) Expirations() uint64 { return c.expirations }

// Config returns the configuration the counter was built from.
func (c *Counter) Config() TimerConfig { return c.cfg }

// Latch returns a read-only view of this counter's expiry output.
func (c *Counter) Latch() Latch { return Latch{c: c} }
