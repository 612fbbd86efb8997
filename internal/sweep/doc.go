// Package sweep defines the (frequency, delay) configurations a delay timer is
// exercised against.
//
// A sweep is an immutable list of cases built by pure functions. Default
// returns the built-in matrix; Load reads a sweep written in CUE:
//
//	name: "nightly"
//	cases: [
//		{name: "Edge_SubClock_10ns", frequency: 50000000, delay: 10, expect: cycles: 1},
//		{name: "Invalid_NegativeDelay", frequency: "50MHz", delay: "-10us", expect: error: "INVALID_DELAY"},
//	]
//	matrix: [{
//		frequencies: [50000000, 100000000, 68000000]
//		delays: [100000, 50000, 150000]
//	}]
//
// Delays are integers (nanoseconds) or unit strings ("100us"). Frequencies
// are integers (Hz) or unit strings ("68MHz"). Cases may expect an exact
// cycle count or a specific configuration error; with no expectation the
// runner only requires the configuration to be valid and the counter to
// expire on time.
package sweep
