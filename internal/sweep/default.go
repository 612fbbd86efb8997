package sweep

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/dtimer/internal/timer"
)

// Matrix is the cross product of a set of frequencies and a set of delays.
type Matrix struct {
	Frequencies []string
	Delays      []timer.DelayToken
}

// Cases expands the matrix, frequency-major, naming each case
// F<hz>_D<delay> (e.g. "F50000000_D100us").
func (m Matrix) Cases() []Case {
	cases := make([]Case, 0, len(m.Frequencies)*len(m.Delays))
	for _, freq := range m.Frequencies {
		for _, delay := range m.Delays {
			cases = append(cases, Case{
				Name:      fmt.Sprintf("F%s_D%s", frequencyName(freq), delayName(delay)),
				Frequency: freq,
				Delay:     delay,
			})
		}
	}
	return cases
}

// frequencyName renders a frequency for a case name in whole Hz when it parses.
func frequencyName(freq string) string {
	if hz, err := timer.ParseFrequency(freq); err == nil {
		return strconv.FormatInt(hz, 10)
	}
	return strings.ReplaceAll(freq, " ", "")
}

// delayName renders raw nanoseconds as whole microseconds where exact.
func delayName(tok timer.DelayToken) string {
	switch t := tok.(type) {
	case timer.RawNanoseconds:
		if t%1000 == 0 {
			return fmt.Sprintf("%dus", int64(t)/1000)
		}
		return fmt.Sprintf("%dns", int64(t))
	case timer.UnitString:
		return strings.ReplaceAll(strings.TrimSpace(string(t)), " ", "")
	default:
		return "unknown"
	}
}

// Default returns the built-in sweep. Each call builds a fresh slice.
//
// It contains:
//   - the regular matrix: 50, 100 and 68 MHz against 100, 50 and 150 us
//   - the boundary cases: zero delay, sub-period, exact period, long delay,
//     low frequency
//   - unit-string encodings of delays the matrix covers as integers
//   - configurations that must be rejected
func Default() Sweep {
	regular := Matrix{
		Frequencies: []string{Hz(50_000_000), Hz(100_000_000), Hz(68_000_000)},
		Delays: []timer.DelayToken{
			timer.RawNanoseconds(100_000),
			timer.RawNanoseconds(50_000),
			timer.RawNanoseconds(150_000),
		},
	}

	cases := regular.Cases()
	cases = append(cases, edgeCases()...)
	cases = append(cases, encodingCases()...)
	cases = append(cases, invalidCases()...)

	return Sweep{
		Name:        "default",
		Description: "Regular frequency/delay matrix plus boundary and invalid configurations",
		Cases:       cases,
	}
}

func edgeCases() []Case {
	return []Case{
		{
			Name:      "Special_Zero",
			Frequency: Hz(50_000_000),
			Delay:     timer.RawNanoseconds(0),
			Expect:    Expectation{Cycles: Cycles(0)},
		},
		{
			// 10 ns at a 20 ns period must still cost one tick.
			Name:      "Edge_SubClock_10ns",
			Frequency: Hz(50_000_000),
			Delay:     timer.RawNanoseconds(10),
			Expect:    Expectation{Cycles: Cycles(1)},
		},
		{
			Name:      "Edge_OneClock_20ns",
			Frequency: Hz(50_000_000),
			Delay:     timer.RawNanoseconds(20),
			Expect:    Expectation{Cycles: Cycles(1)},
		},
		{
			Name:      "Edge_LongDelay_10ms",
			Frequency: Hz(50_000_000),
			Delay:     timer.RawNanoseconds(10_000_000),
			Expect:    Expectation{Cycles: Cycles(500_000)},
		},
		{
			Name:      "Edge_LowFreq_1kHz",
			Frequency: Hz(1_000),
			Delay:     timer.RawNanoseconds(10_000_000),
			Expect:    Expectation{Cycles: Cycles(10)},
		},
	}
}

func encodingCases() []Case {
	return []Case{
		{
			Name:      "Encoding_100us",
			Frequency: Hz(50_000_000),
			Delay:     timer.UnitString("100us"),
			Expect:    Expectation{Cycles: Cycles(5_000)},
		},
		{
			Name:      "Encoding_100000ns",
			Frequency: Hz(50_000_000),
			Delay:     timer.UnitString("100000ns"),
			Expect:    Expectation{Cycles: Cycles(5_000)},
		},
		{
			Name:      "Encoding_1sec_1kHz",
			Frequency: "1kHz",
			Delay:     timer.UnitString("1sec"),
			Expect:    Expectation{Cycles: Cycles(1_000)},
		},
	}
}

func invalidCases() []Case {
	return []Case{
		{
			Name:      "Invalid_ZeroFreq",
			Frequency: Hz(0),
			Delay:     timer.RawNanoseconds(100_000),
			Expect:    Expectation{Error: timer.KindInvalidFrequency},
		},
		{
			Name:      "Invalid_NegativeDelay",
			Frequency: Hz(50_000_000),
			Delay:     timer.UnitString("-10us"),
			Expect:    Expectation{Error: timer.KindInvalidDelay},
		},
		{
			Name:      "Invalid_NegativeDelayRaw",
			Frequency: Hz(50_000_000),
			Delay:     timer.RawNanoseconds(-10_000),
			Expect:    Expectation{Error: timer.KindInvalidDelay},
		},
		{
			Name:      "Invalid_UnknownUnit",
			Frequency: Hz(50_000_000),
			Delay:     timer.UnitString("10ms"),
			Expect:    Expectation{Error: timer.KindMalformedDuration},
		},
	}
}
