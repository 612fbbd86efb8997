// Package harness runs conformance checks against the delay timer.
//
// Two kinds of input are supported: sweep cases (see package sweep), which
// check a configuration's cycle count and that a simulated counter expires
// after exactly that many ticks, and scenarios, which script a counter step
// by step and assert on the recorded trace.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: expires_after_five
//	description: "100 ns at 50 MHz expires on the fifth tick"
//	frequency: 50MHz        # or whole Hz: 50000000
//	delay: 100ns            # or whole nanoseconds: 100
//	steps:
//	  - action: trigger
//	  - action: tick
//	    count: 3
//	  - action: sample
//	    expect: { expired: false, elapsed: 3, state: running }
//	  - action: tick
//	    count: 2
//	assertions:
//	  - type: expired_at
//	    tick: 5
//
// A scenario whose configuration must be rejected names the error kind
// instead of steps:
//
//	expect_error: INVALID_DELAY
//
// # Assertion Types
//
//   - trace_contains: an event of the given kind exists, optionally at a tick
//   - trace_order: events of the given kinds occur in order
//   - trace_count: an event kind occurs exactly N times
//   - expired_at: the counter expired on the given tick
//
// # Deterministic Testing
//
// Every scenario run stamps its events from a fresh
// testutil.DeterministicClock, so traces are byte-identical across runs and
// can be compared against golden files in canonical JSON.
package harness
