// Package timer implements the configurable delay timer core.
//
// A timer is configured with a clock frequency and a requested delay. The
// delay arrives in one of two external encodings (raw nanoseconds or a
// unit-suffixed string) and is normalized by ParseDelay. NewTimerConfig is the
// single validation choke point: it is the only way to obtain a TimerConfig,
// so the rest of the system never holds an invalid configuration.
//
// The cycle count for a configuration is
//
//	ceil(delay_ns * frequency_hz / 1e9)
//
// computed with a 128-bit intermediate so no legal input overflows.
//
// A Counter consumes a TimerConfig and advances one tick at a time:
//
//	Idle --Trigger--> Running(0) --Tick...--> Expired
//	  \--Trigger (target 0)-------------------^
//
// Re-triggering restarts the interval from Running(0). Reset returns to Idle.
// A Latch is a read-only view over a Counter for consumers that sample the
// expiry level once per tick.
//
// Counters are not safe for concurrent use. Each instance is driven by a
// single tick source in strict sequential order.
package timer
