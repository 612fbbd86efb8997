package testutil

import (
	"testing"

	"github.com/roach88/dtimer/internal/timer"
)

// MustConfig builds a validated timer configuration or fails the test.
func MustConfig(tb testing.TB, frequencyHz int64, delay timer.DelayToken) timer.TimerConfig {
	tb.Helper()
	cfg, err := timer.Configure(frequencyHz, delay)
	if err != nil {
		tb.Fatalf("configure %d Hz / %v: %v", frequencyHz, delay, err)
	}
	return cfg
}
