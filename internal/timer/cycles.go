package timer

import "math/bits"

// nsPerSecond is the divisor that turns ns*Hz into cycles.
const nsPerSecond = uint64(Second)

// Cycles returns the number of ticks the counter must observe after a
// trigger before asserting expiry:
//
//	ceil(delay_ns * frequency_hz / 1e9)
//
// A zero delay costs zero ticks. Any positive delay, however short, costs at
// least one tick; a delay of exactly one period costs exactly one.
// Cycles is total: NewTimerConfig already rejected every input it cannot
// represent.
func Cycles(cfg TimerConfig) uint64 {
	if cfg.IsZero() {
		panic("timer: Cycles called with an unvalidated TimerConfig")
	}
	return cfg.cycles
}

// ceilCycles computes ceil(delay*freq / 1e9) with a 128-bit intermediate.
// Returns false if the quotient does not fit in 64 bits.
func ceilCycles(delayNs, freqHz uint64) (uint64, bool) {
	hi, lo := bits.Mul64(delayNs, freqHz)

	// Round up by adding (den - 1) before dividing.
	var carry uint64
	lo, carry = bits.Add64(lo, nsPerSecond-1, 0)
	hi, carry = bits.Add64(hi, 0, carry)
	if carry != 0 {
		return 0, false
	}

	// bits.Div64 panics when the quotient overflows, which is exactly hi >= den.
	if hi >= nsPerSecond {
		return 0, false
	}
	q, _ := bits.Div64(hi, lo, nsPerSecond)
	return q, true
}
