// Package engine drives delay-timer counters through deterministic tick
// sequences.
//
// A Simulator owns one timer.Counter and plays the role of the external
// clock: it delivers triggers, ticks and resets in strict order and, when
// recording is enabled, stamps every observation with a logical sequence
// number.
//
// CRITICAL PATTERNS:
//
// Logical Clock:
// Events are ordered by Clock.Next(), never by wall-clock time. Two runs of
// the same stimulus produce identical event logs.
//
// Single Writer:
// A Simulator is advanced by one goroutine. Independent simulators share
// nothing and may run on separate goroutines.
//
// Bounded Work:
// RunToExpiry refuses to count past its tick budget, so a mistaken
// configuration cannot spin forever.
package engine
