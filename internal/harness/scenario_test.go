package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/dtimer/internal/timer"
)

func TestLoadScenario_Valid(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/expires_after_five.yaml")
	require.NoError(t, err)

	assert.Equal(t, "expires_after_five", s.Name)
	assert.Equal(t, Frequency("50MHz"), s.Frequency)
	assert.Equal(t, timer.UnitString("100ns"), s.Delay.Token)
	require.Len(t, s.Steps, 4)
	assert.Equal(t, ActionTrigger, s.Steps[0].Action)
	assert.Equal(t, uint64(3), s.Steps[1].Ticks())

	require.NotNil(t, s.Steps[2].Expect)
	require.NotNil(t, s.Steps[2].Expect.Elapsed)
	assert.Equal(t, uint64(3), *s.Steps[2].Expect.Elapsed)
	assert.Equal(t, "running", s.Steps[2].Expect.State)

	require.Len(t, s.Assertions, 3)
	assert.Equal(t, AssertExpiredAt, s.Assertions[0].Type)
	assert.Equal(t, uint64(5), *s.Assertions[0].Tick)
}

func TestLoadScenario_FileNotFound(t *testing.T) {
	_, err := LoadScenario("testdata/scenarios/nope.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestParseScenario_IntegerEncodings(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: ints
description: "integer frequency and raw nanoseconds"
frequency: 68000000
delay: 150000
steps:
  - action: trigger
`))
	require.NoError(t, err)
	assert.Equal(t, Frequency("68000000"), s.Frequency)
	assert.Equal(t, timer.RawNanoseconds(150_000), s.Delay.Token)
}

func TestParseScenario_TickCountDefaultsToOne(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: one_tick
description: "bare tick"
frequency: 1000
delay: 1sec
steps:
  - action: tick
`))
	require.NoError(t, err)
	assert.Nil(t, s.Steps[0].Count)
	assert.Equal(t, uint64(1), s.Steps[0].Ticks())
}

func TestParseScenario_TickCountZeroRejected(t *testing.T) {
	_, err := ParseScenario([]byte(`
name: zero_ticks
description: "explicit zero tick count"
frequency: 1000
delay: 1sec
steps:
  - action: trigger
  - action: tick
    count: 0
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "steps[1]: count must be at least 1")
}

func TestParseScenario_ExpectError(t *testing.T) {
	s, err := ParseScenario([]byte(`
name: zero_freq
description: "zero frequency"
frequency: 0
delay: 100
expect_error: INVALID_FREQUENCY
`))
	require.NoError(t, err)
	assert.Equal(t, "INVALID_FREQUENCY", s.ExpectError)
	assert.Empty(t, s.Steps)
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name: "unknown field",
			yaml: `
name: x
description: d
frequency: 1
delay: 1
stepz: []
`,
			wantErr: "failed to parse YAML",
		},
		{
			name: "float delay",
			yaml: `
name: x
description: d
frequency: 1
delay: 1.5
steps: [{action: trigger}]
`,
			wantErr: "delay must be an integer or string",
		},
		{
			name: "list frequency",
			yaml: `
name: x
description: d
frequency: [1]
delay: 1
steps: [{action: trigger}]
`,
			wantErr: "frequency must be a scalar",
		},
		{
			name:    "missing name",
			yaml:    "description: d\nfrequency: 1\ndelay: 1\nsteps: [{action: trigger}]\n",
			wantErr: "name is required",
		},
		{
			name:    "missing delay",
			yaml:    "name: x\ndescription: d\nfrequency: 1\nsteps: [{action: trigger}]\n",
			wantErr: "delay is required",
		},
		{
			name:    "no steps",
			yaml:    "name: x\ndescription: d\nfrequency: 1\ndelay: 1\n",
			wantErr: "steps list is required",
		},
		{
			name:    "unknown action",
			yaml:    "name: x\ndescription: d\nfrequency: 1\ndelay: 1\nsteps: [{action: fire}]\n",
			wantErr: `unknown action "fire"`,
		},
		{
			name:    "count on trigger",
			yaml:    "name: x\ndescription: d\nfrequency: 1\ndelay: 1\nsteps: [{action: trigger, count: 2}]\n",
			wantErr: "count is only valid for tick",
		},
		{
			name:    "expect on tick",
			yaml:    "name: x\ndescription: d\nfrequency: 1\ndelay: 1\nsteps: [{action: tick, expect: {expired: true}}]\n",
			wantErr: "expect is only valid for sample",
		},
		{
			name:    "unknown state",
			yaml:    "name: x\ndescription: d\nfrequency: 1\ndelay: 1\nsteps: [{action: sample, expect: {state: armed}}]\n",
			wantErr: `unknown state "armed"`,
		},
		{
			name:    "unknown error kind",
			yaml:    "name: x\ndescription: d\nfrequency: 1\ndelay: 1\nexpect_error: BOGUS\n",
			wantErr: "expect_error",
		},
		{
			name:    "expect_error with steps",
			yaml:    "name: x\ndescription: d\nfrequency: 0\ndelay: 1\nexpect_error: INVALID_FREQUENCY\nsteps: [{action: trigger}]\n",
			wantErr: "cannot have steps",
		},
		{
			name:    "expired_at without tick",
			yaml:    "name: x\ndescription: d\nfrequency: 1\ndelay: 1\nsteps: [{action: trigger}]\nassertions: [{type: expired_at}]\n",
			wantErr: "tick is required for expired_at",
		},
		{
			name:    "unknown event",
			yaml:    "name: x\ndescription: d\nfrequency: 1\ndelay: 1\nsteps: [{action: trigger}]\nassertions: [{type: trace_count, event: boom}]\n",
			wantErr: "trace_count needs a known event",
		},
		{
			name:    "unknown assertion type",
			yaml:    "name: x\ndescription: d\nfrequency: 1\ndelay: 1\nsteps: [{action: trigger}]\nassertions: [{type: final_state}]\n",
			wantErr: `unknown assertion type "final_state"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadScenarios_Directory(t *testing.T) {
	scenarios, err := LoadScenarios("testdata/scenarios")
	require.NoError(t, err)

	names := make([]string, len(scenarios))
	for i, s := range scenarios {
		names[i] = s.Name
	}
	assert.Equal(t, []string{
		"expires_after_five",
		"negative_delay_rejected",
		"reset_cancels",
		"retrigger_restarts",
		"zero_delay_immediate",
	}, names)
}

func TestLoadScenarios_DuplicateNames(t *testing.T) {
	dir := t.TempDir()
	body := []byte("name: same\ndescription: d\nfrequency: 1\ndelay: 1\nsteps: [{action: trigger}]\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), body, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yml"), body, 0644))

	_, err := LoadScenarios(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"same" already used by a.yaml`)
}
