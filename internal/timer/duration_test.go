package timer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"100us", 100_000},
		{"50000ns", 50_000},
		{"1sec", 1_000_000_000},
		{"-10us", -10_000},
		{"+5ns", 5},
		{"0ns", 0},
		{"1.5us", 1_500},
		{"0.000000001sec", 1},
		{"100 us", 100_000},
		{"  20ns  ", 20},
		{"10US", 10_000},
		{"9223372036ns", 9_223_372_036},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDuration(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDuration_Malformed(t *testing.T) {
	inputs := []string{
		"",
		"100",  // no unit
		"us",   // no number
		"10ms", // unrecognized unit
		"10 s", // unrecognized unit
		"abc",
		"1.5ns", // fractional nanoseconds
		"1e3ns", // exponent form
		"--1us",
		"1.us",
		"10  us", // two spaces
		"NaNns",
		"9223372036854775808ns", // int64 overflow
		"10000000000sec",        // overflow after scaling
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			_, err := ParseDuration(in)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedDuration)
		})
	}
}

func TestParseDelay_EncodingsAgree(t *testing.T) {
	tokens := []DelayToken{
		UnitString("100us"),
		UnitString("50000ns"),
		RawNanoseconds(100_000),
	}

	// "50000ns" is 50 us, half of the other two.
	a, err := ParseDelay(tokens[0])
	require.NoError(t, err)
	b, err := ParseDelay(tokens[1])
	require.NoError(t, err)
	c, err := ParseDelay(tokens[2])
	require.NoError(t, err)

	assert.Equal(t, int64(100_000), a)
	assert.Equal(t, int64(50_000), b)
	assert.Equal(t, int64(100_000), c)

	d, err := ParseDelay(UnitString("100000ns"))
	require.NoError(t, err)
	assert.Equal(t, a, d)
}

func TestParseDelay_RawPassThrough(t *testing.T) {
	for _, v := range []int64{0, 1, -1, 10_000_000, -9_000_000_000} {
		got, err := ParseDelay(RawNanoseconds(v))
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestParseDelay_Nil(t *testing.T) {
	_, err := ParseDelay(nil)
	assert.ErrorIs(t, err, ErrMalformedDuration)
}

func TestDelayToken_String(t *testing.T) {
	assert.Equal(t, "-10000", RawNanoseconds(-10_000).String())
	assert.Equal(t, "100us", UnitString("100us").String())
}
