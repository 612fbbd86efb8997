package timer

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimerConfig_Valid(t *testing.T) {
	cfg, err := NewTimerConfig(ClockSpec{FrequencyHz: 50 * MHz}, 100_000)
	require.NoError(t, err)

	assert.Equal(t, uint64(50_000_000), cfg.Clock().FrequencyHz)
	assert.Equal(t, int64(100_000), cfg.Delay().Nanoseconds)
	assert.False(t, cfg.IsZero())
}

func TestNewTimerConfig_ZeroFrequency(t *testing.T) {
	for _, delay := range []int64{0, 10, 10_000_000, -10_000, math.MaxInt64} {
		_, err := NewTimerConfig(ClockSpec{FrequencyHz: 0}, delay)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidFrequency, "delay=%d", delay)

		kind, ok := KindOf(err)
		require.True(t, ok)
		assert.Equal(t, KindInvalidFrequency, kind)
	}
}

func TestNewTimerConfig_NegativeDelay(t *testing.T) {
	for _, hz := range []uint64{1, 1 * KHz, 50 * MHz, math.MaxUint64} {
		_, err := NewTimerConfig(ClockSpec{FrequencyHz: hz}, -10_000)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidDelay, "hz=%d", hz)
	}
}

func TestNewTimerConfig_AcceptsLargeValues(t *testing.T) {
	_, err := NewTimerConfig(ClockSpec{FrequencyHz: 10 * GHz}, 1_000_000_000_000)
	assert.NoError(t, err)
}

func TestNewTimerConfig_CycleOverflow(t *testing.T) {
	_, err := NewTimerConfig(ClockSpec{FrequencyHz: math.MaxUint64}, math.MaxInt64)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCycleOverflow)
}

func TestConfigure(t *testing.T) {
	t.Run("unit string", func(t *testing.T) {
		cfg, err := Configure(50_000_000, UnitString("10ms"))
		// ms is not a recognized unit
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMalformedDuration)
		assert.True(t, cfg.IsZero())
	})

	t.Run("raw nanoseconds", func(t *testing.T) {
		cfg, err := Configure(50_000_000, RawNanoseconds(10_000_000))
		require.NoError(t, err)
		assert.Equal(t, uint64(500_000), Cycles(cfg))
	})

	t.Run("negative delay string reaches validator", func(t *testing.T) {
		_, err := Configure(50_000_000, UnitString("-10us"))
		assert.ErrorIs(t, err, ErrInvalidDelay)
	})

	t.Run("negative frequency", func(t *testing.T) {
		_, err := Configure(-1, RawNanoseconds(100))
		assert.ErrorIs(t, err, ErrInvalidFrequency)
	})

	t.Run("zero frequency", func(t *testing.T) {
		_, err := Configure(0, UnitString("100us"))
		assert.ErrorIs(t, err, ErrInvalidFrequency)
	})
}

func TestConfigureText(t *testing.T) {
	t.Run("unit frequency", func(t *testing.T) {
		cfg, err := ConfigureText("50MHz", UnitString("100us"))
		require.NoError(t, err)
		assert.Equal(t, uint64(5_000), Cycles(cfg))
	})

	t.Run("integer text frequency", func(t *testing.T) {
		cfg, err := ConfigureText("68000000", RawNanoseconds(150_000))
		require.NoError(t, err)
		assert.Equal(t, uint64(10_200), Cycles(cfg))
	})

	t.Run("malformed frequency wins over malformed delay", func(t *testing.T) {
		_, err := ConfigureText("fast", UnitString("10ms"))
		assert.ErrorIs(t, err, ErrMalformedFrequency)
	})

	t.Run("zero frequency wins over negative delay", func(t *testing.T) {
		_, err := ConfigureText("0Hz", RawNanoseconds(-5))
		assert.ErrorIs(t, err, ErrInvalidFrequency)
	})
}

func TestConfigError(t *testing.T) {
	err := newConfigError(KindInvalidDelay, "-5", "delay must not be negative")
	assert.Equal(t, `INVALID_DELAY: delay must not be negative (input="-5")`, err.Error())
	assert.True(t, errors.Is(err, ErrInvalidDelay))
	assert.False(t, errors.Is(err, ErrInvalidFrequency))

	err = newConfigError(KindInvalidFrequency, "", "frequency must be positive")
	assert.Equal(t, "INVALID_FREQUENCY: frequency must be positive", err.Error())

	_, ok := KindOf(errors.New("plain"))
	assert.False(t, ok)
}

func TestParseErrorKind(t *testing.T) {
	k, err := ParseErrorKind("INVALID_DELAY")
	require.NoError(t, err)
	assert.Equal(t, KindInvalidDelay, k)

	_, err = ParseErrorKind("BOGUS")
	assert.Error(t, err)
}
