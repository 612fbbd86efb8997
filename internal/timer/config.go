package timer

import "strconv"

// DelaySpec is a requested delay in canonical nanoseconds.
type DelaySpec struct {
	Nanoseconds int64
}

// TimerConfig is a validated (clock, delay) pair.
//
// The zero value is not a valid configuration; obtain one from
// NewTimerConfig. Fields are unexported so a TimerConfig cannot be built or
// altered outside the validator.
type TimerConfig struct {
	clock  ClockSpec
	delay  DelaySpec
	cycles uint64
}

// NewTimerConfig validates a clock and a parsed delay.
//
// Fails with INVALID_FREQUENCY for a zero frequency and INVALID_DELAY for a
// negative delay. Large values are accepted; the only remaining rejection is
// CYCLE_OVERFLOW when the exact cycle count exceeds the 64-bit counter.
func NewTimerConfig(clock ClockSpec, delayNs int64) (TimerConfig, error) {
	if clock.FrequencyHz == 0 {
		return TimerConfig{}, newConfigError(KindInvalidFrequency, "0", "frequency must be greater than zero")
	}
	if delayNs < 0 {
		return TimerConfig{}, newConfigError(KindInvalidDelay, strconv.FormatInt(delayNs, 10), "delay must not be negative")
	}

	cycles, ok := ceilCycles(uint64(delayNs), clock.FrequencyHz)
	if !ok {
		return TimerConfig{}, newConfigError(KindCycleOverflow, strconv.FormatInt(delayNs, 10),
			"%d ns at %d Hz exceeds a 64-bit cycle counter", delayNs, clock.FrequencyHz)
	}

	return TimerConfig{
		clock:  clock,
		delay:  DelaySpec{Nanoseconds: delayNs},
		cycles: cycles,
	}, nil
}

// Configure runs the whole input pipeline: the signed frequency is checked,
// the delay token parsed, and the pair validated.
func Configure(frequencyHz int64, delay DelayToken) (TimerConfig, error) {
	clock, err := ClockFromSigned(frequencyHz)
	if err != nil {
		return TimerConfig{}, err
	}
	ns, err := ParseDelay(delay)
	if err != nil {
		return TimerConfig{}, err
	}
	return NewTimerConfig(clock, ns)
}

// ConfigureText is Configure for a frequency given as text ("50MHz",
// "68000000"). A malformed frequency is reported before the delay is looked at.
func ConfigureText(frequency string, delay DelayToken) (TimerConfig, error) {
	hz, err := ParseFrequency(frequency)
	if err != nil {
		return TimerConfig{}, err
	}
	return Configure(hz, delay)
}

// Clock returns the validated clock.
func (c TimerConfig) Clock() ClockSpec { return c.clock }

// Delay returns the validated delay.
func (c TimerConfig) Delay() DelaySpec { return c.delay }

// IsZero reports whether c is the zero value (never produced by the validator).
func (c TimerConfig) IsZero() bool { return c.clock.FrequencyHz == 0 }
