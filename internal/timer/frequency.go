package timer

import (
	"strings"

	humanize "github.com/dustin/go-humanize"
)

// Common clock rates.
const (
	Hz  uint64 = 1
	KHz uint64 = 1_000 * Hz
	MHz uint64 = 1_000 * KHz
	GHz uint64 = 1_000 * MHz
)

var frequencyUnits = map[string]int64{
	"":    int64(Hz),
	"hz":  int64(Hz),
	"khz": int64(KHz),
	"mhz": int64(MHz),
	"ghz": int64(GHz),
}

// ClockSpec describes the driving clock.
type ClockSpec struct {
	// FrequencyHz is the clock rate. Zero is the invalid-configuration sentinel.
	FrequencyHz uint64
}

// Period returns the clock period in nanoseconds, rounded down.
// Returns 0 for a zero frequency or for clocks faster than 1 GHz.
func (c ClockSpec) Period() uint64 {
	if c.FrequencyHz == 0 {
		return 0
	}
	return uint64(Second) / c.FrequencyHz
}

// String renders the frequency with an SI prefix, e.g. "50 MHz".
func (c ClockSpec) String() string {
	return FormatFrequency(c.FrequencyHz)
}

// ClockFromSigned builds a ClockSpec from a signed external encoding.
// Negative values are rejected with INVALID_FREQUENCY. Zero passes through
// so that NewTimerConfig reports it at validation time.
func ClockFromSigned(hz int64) (ClockSpec, error) {
	if hz < 0 {
		return ClockSpec{}, newConfigError(KindInvalidFrequency, "", "frequency must be positive, got %d Hz", hz)
	}
	return ClockSpec{FrequencyHz: uint64(hz)}, nil
}

// ParseFrequency parses a frequency such as "50000000", "68MHz" or "1kHz"
// into a signed Hz value. Units are Hz, kHz, MHz and GHz (case-insensitive);
// a bare number is Hz. The sign is preserved for ClockFromSigned to judge.
// Text frequencies are limited to the int64 range; anything above
// MaxInt64 Hz is reported as MALFORMED_FREQUENCY even though ClockSpec
// itself holds a uint64.
func ParseFrequency(s string) (int64, error) {
	num, unit, ok := splitQuantity(s)
	if !ok {
		return 0, newConfigError(KindMalformedFrequency, s, "expected <number>[unit]")
	}
	scale, ok := frequencyUnits[strings.ToLower(unit)]
	if !ok {
		return 0, newConfigError(KindMalformedFrequency, s, "unrecognized unit %q (want Hz, kHz, MHz or GHz)", unit)
	}

	hz, err := scaleDecimal(num, scale)
	if err != nil {
		return 0, newConfigError(KindMalformedFrequency, s, "%v", err)
	}
	return hz, nil
}

// FormatFrequency renders hz with an SI prefix.
func FormatFrequency(hz uint64) string {
	return humanize.SIWithDigits(float64(hz), 3, "Hz")
}
