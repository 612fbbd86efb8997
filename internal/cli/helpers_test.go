package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and returns stdout, stderr and
// the command error.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

// writeFile writes content to dir/name and returns the path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const smallSweep = `
name: "small"
cases: [
	{name: "A_100ns", frequency: "50MHz", delay: "100ns", expect: cycles: 5},
	{name: "B_1000us", frequency: 1000, delay: 1000000, expect: cycles: 1},
	{name: "C_negative", frequency: 1000, delay: "-5000us", expect: failure: "INVALID_DELAY"},
]
`

const failingSweep = `
name: "failing"
cases: [
	{name: "Wrong", frequency: "50MHz", delay: "100ns", expect: cycles: 6},
]
`

const expiresScenario = `name: expires_after_two
description: two ticks at 1 kHz
frequency: 1kHz
delay: 2000us
steps:
  - action: trigger
  - action: tick
    count: 2
assertions:
  - type: expired_at
    tick: 2
`

const failingScenario = `name: wrong_expectation
description: samples before expiry but expects it
frequency: 1kHz
delay: 2000us
steps:
  - action: trigger
  - action: tick
  - action: sample
    expect: { expired: true }
`

// Run IDs handed out by recordedDB, in recording order.
const (
	testRun1 = "01890a5d-ac96-774b-bcce-b30209000001"
	testRun2 = "01890a5d-ac96-774b-bcce-b30209000002"
)

var testRunIDs = []string{testRun1, testRun2}
