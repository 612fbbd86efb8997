package harness

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/dtimer/internal/store"
	"github.com/roach88/dtimer/internal/sweep"
	"github.com/roach88/dtimer/internal/timer"
)

// recordOf converts a fresh case result into the record a sweep would store.
func recordOf(t *testing.T, c sweep.Case) store.CaseRecord {
	t.Helper()
	r, err := RunCase(context.Background(), c)
	require.NoError(t, err)
	return store.CaseRecord{
		RunID:             "run-1",
		Name:              r.Name,
		CaseID:            r.CaseID,
		Frequency:         r.Frequency,
		Delay:             r.Delay,
		DelayEncoding:     r.DelayEncoding,
		FrequencyHz:       r.FrequencyHz,
		DelayNs:           r.DelayNs,
		TargetCycles:      r.TargetCycles,
		ObservedTicks:     r.ObservedTicks,
		ErrorKind:         string(r.ErrorKind),
		SimulationSkipped: r.SimulationSkipped,
		Pass:              r.Pass,
	}
}

func TestReplay_Deterministic(t *testing.T) {
	records := []store.CaseRecord{
		recordOf(t, sweep.Case{Name: "a", Frequency: "50MHz", Delay: timer.UnitString("100us")}),
		recordOf(t, sweep.Case{Name: "b", Frequency: "1000", Delay: timer.RawNanoseconds(2_500_000)}),
		recordOf(t, sweep.Case{Name: "c", Frequency: "0", Delay: timer.RawNanoseconds(1),
			Expect: sweep.Expectation{Error: timer.KindInvalidFrequency}}),
	}

	res, err := Replay(context.Background(), "run-1", records)
	require.NoError(t, err)
	assert.True(t, res.Deterministic)
	assert.Equal(t, 3, res.Cases)
	assert.Empty(t, res.Diffs)
}

func TestReplay_ReportsDifferences(t *testing.T) {
	rec := recordOf(t, sweep.Case{Name: "a", Frequency: "50MHz", Delay: timer.UnitString("100us")})
	rec.TargetCycles = 4999
	rec.ObservedTicks = 4999

	res, err := Replay(context.Background(), "run-1", []store.CaseRecord{rec})
	require.NoError(t, err)
	assert.False(t, res.Deterministic)
	require.Len(t, res.Diffs, 2)
	assert.Equal(t, ReplayDiff{Name: "a", Field: "target_cycles", Recorded: "4999", Replayed: "5000"}, res.Diffs[0])
	assert.Equal(t, "observed_ticks", res.Diffs[1].Field)
}

func TestReplay_ErrorKindChanged(t *testing.T) {
	rec := recordOf(t, sweep.Case{Name: "neg", Frequency: "1000", Delay: timer.RawNanoseconds(-1),
		Expect: sweep.Expectation{Error: timer.KindInvalidDelay}})
	rec.ErrorKind = string(timer.KindCycleOverflow)

	res, err := Replay(context.Background(), "run-1", []store.CaseRecord{rec})
	require.NoError(t, err)
	assert.False(t, res.Deterministic)
	require.Len(t, res.Diffs, 1)
	assert.Equal(t, "error_kind", res.Diffs[0].Field)
}

func TestReplay_BadEncoding(t *testing.T) {
	rec := store.CaseRecord{Name: "x", Frequency: "1000", Delay: "1", DelayEncoding: "morse"}
	_, err := Replay(context.Background(), "run-1", []store.CaseRecord{rec})
	assert.Error(t, err)
}
