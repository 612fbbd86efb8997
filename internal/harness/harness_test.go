package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/dtimer/internal/timer"
)

func mustParse(t *testing.T, src string) *Scenario {
	t.Helper()
	s, err := ParseScenario([]byte(src))
	require.NoError(t, err)
	return s
}

func TestRun_TestdataScenariosPass(t *testing.T) {
	scenarios, err := LoadScenarios("testdata/scenarios")
	require.NoError(t, err)

	for _, s := range scenarios {
		t.Run(s.Name, func(t *testing.T) {
			result, err := Run(s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestRun_TraceShape(t *testing.T) {
	s := mustParse(t, `
name: two_cycles
description: "40 ns at 50 MHz"
frequency: 50000000
delay: 40
steps:
  - action: trigger
  - action: tick
    count: 2
`)
	result, err := Run(s)
	require.NoError(t, err)
	require.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, uint64(2), result.Target)

	require.Len(t, result.Trace, 4)
	kinds := []string{}
	for i, ev := range result.Trace {
		assert.Equal(t, int64(i+1), ev.Seq)
		kinds = append(kinds, ev.Kind)
	}
	assert.Equal(t, []string{"trigger", "tick", "tick", "expire"}, kinds)
	assert.Equal(t, "expired", result.Trace[3].State)
	assert.True(t, result.Trace[3].Expired)
}

func TestRun_Deterministic(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/reset_cancels.yaml")
	require.NoError(t, err)

	first, err := Run(s)
	require.NoError(t, err)
	second, err := Run(s)
	require.NoError(t, err)

	assert.Equal(t, first.Trace, second.Trace)
}

func TestRun_SampleMismatchFails(t *testing.T) {
	s := mustParse(t, `
name: wrong_elapsed
description: "sample expectation does not hold"
frequency: 50MHz
delay: 100ns
steps:
  - action: trigger
  - action: tick
    count: 2
  - action: sample
    expect: { elapsed: 3, expired: true, state: expired }
`)
	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 3)
	assert.Equal(t, "steps[2]: expired = false, want true", result.Errors[0])
	assert.Equal(t, "steps[2]: elapsed = 2, want 3", result.Errors[1])
	assert.Equal(t, "steps[2]: state = running, want expired", result.Errors[2])
}

func TestRun_AssertionFailureRecorded(t *testing.T) {
	s := mustParse(t, `
name: never_ticked
description: "counter never reaches its target"
frequency: 50MHz
delay: 100ns
steps:
  - action: trigger
assertions:
  - type: expired_at
    tick: 5
`)
	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "never expired")
}

func TestRun_ExpectedErrorMatches(t *testing.T) {
	s := mustParse(t, `
name: bad_unit
description: "ms is not a recognized unit"
frequency: 50MHz
delay: 10ms
expect_error: MALFORMED_DURATION
`)
	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, timer.KindMalformedDuration, result.ErrorKind)
	assert.Empty(t, result.Trace)
}

func TestRun_FrequencyCheckedBeforeDelay(t *testing.T) {
	s := mustParse(t, `
name: both_bad
description: "zero frequency and negative delay"
frequency: 0
delay: -5
expect_error: INVALID_FREQUENCY
`)
	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_ExpectedErrorDiffers(t *testing.T) {
	s := mustParse(t, `
name: wrong_kind
description: "rejected with a different kind"
frequency: 50MHz
delay: -10
expect_error: MALFORMED_DURATION
`)
	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Equal(t, timer.KindInvalidDelay, result.ErrorKind)
}

func TestRun_UnexpectedRejectionFails(t *testing.T) {
	s := mustParse(t, `
name: bad_freq
description: "unparseable frequency"
frequency: fast
delay: 10
steps:
  - action: trigger
`)
	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Equal(t, timer.KindMalformedFrequency, result.ErrorKind)
	assert.Contains(t, result.Errors[0], "configuration rejected")
}

func TestRun_AcceptedWhenErrorExpected(t *testing.T) {
	s := mustParse(t, `
name: not_bad
description: "a valid configuration that was expected to fail"
frequency: 50MHz
delay: 100ns
expect_error: INVALID_DELAY
`)
	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Contains(t, result.Errors[0], "accepted with 5 cycles")
}
