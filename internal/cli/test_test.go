package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scenarioLayout creates dir/scenarios with the given files and returns
// the scenarios and golden directories.
func scenarioLayout(t *testing.T, files map[string]string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	scenarios := filepath.Join(dir, "scenarios")
	require.NoError(t, os.MkdirAll(scenarios, 0755))
	for name, content := range files {
		writeFile(t, scenarios, name, content)
	}
	return scenarios, filepath.Join(dir, "golden")
}

func TestTestCommandMissingArgs(t *testing.T) {
	_, _, err := execute(t, "test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestTestCommandNonExistentScenariosDir(t *testing.T) {
	_, _, err := execute(t, "test", "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "scenarios directory not found")
}

func TestTestCommandEmptyScenariosDir(t *testing.T) {
	scenarios, _ := scenarioLayout(t, nil)

	out, _, err := execute(t, "test", scenarios)
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found")
}

func TestTestCommandEmptyScenariosDirJSON(t *testing.T) {
	scenarios, _ := scenarioLayout(t, nil)

	var result TestResult
	out, _, err := execute(t, "--format", "json", "test", scenarios)
	require.NoError(t, err)

	resp := decodeResponse(t, out, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.Zero(t, result.Total)
}

func TestTestCommand_UpdateThenMatch(t *testing.T) {
	scenarios, golden := scenarioLayout(t, map[string]string{"expires.yaml": expiresScenario})

	out, _, err := execute(t, "test", scenarios)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ expires_after_two (golden missing)")

	out, _, err = execute(t, "test", scenarios, "--update")
	require.NoError(t, err)
	assert.Contains(t, out, "(golden updated)")
	assert.FileExists(t, filepath.Join(golden, "expires_after_two.golden"))

	var result TestResult
	out, _, err = execute(t, "--format", "json", "test", scenarios)
	require.NoError(t, err)
	decodeResponse(t, out, &result)
	require.Len(t, result.Scenarios, 1)
	assert.Equal(t, "match", result.Scenarios[0].Golden)
	assert.Len(t, result.Scenarios[0].Digest, 64)
}

func TestTestCommand_GoldenMismatch(t *testing.T) {
	scenarios, golden := scenarioLayout(t, map[string]string{"expires.yaml": expiresScenario})
	writeFile(t, golden, "expires_after_two.golden", `{"scenario_name":"stale"}`)

	out, _, err := execute(t, "test", scenarios)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ expires_after_two (golden mismatch)")
	assert.Contains(t, out, "does not match golden file")
}

func TestTestCommand_GoldenDirFlag(t *testing.T) {
	scenarios, _ := scenarioLayout(t, map[string]string{"expires.yaml": expiresScenario})
	custom := filepath.Join(t.TempDir(), "elsewhere")

	_, _, err := execute(t, "test", scenarios, "--update", "--golden-dir", custom)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(custom, "expires_after_two.golden"))
}

func TestTestCommand_FailingScenario(t *testing.T) {
	scenarios, _ := scenarioLayout(t, map[string]string{
		"expires.yaml": expiresScenario,
		"wrong.yaml":   failingScenario,
	})

	var result TestResult
	out, _, err := execute(t, "--format", "json", "test", scenarios)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	resp := decodeResponse(t, out, &result)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeTestFailed, resp.Error.Code)
	assert.Equal(t, 1, result.Passed)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 2, result.Total)
}

func TestTestCommand_Filter(t *testing.T) {
	scenarios, _ := scenarioLayout(t, map[string]string{
		"expires.yaml": expiresScenario,
		"wrong.yaml":   failingScenario,
	})

	out, _, err := execute(t, "test", scenarios, "--filter", "expires_*")
	require.NoError(t, err)
	assert.Contains(t, out, "Test Summary: 1 passed, 0 failed, 1 total")
	assert.NotContains(t, out, "wrong_expectation")
}

func TestTestCommand_MalformedScenario(t *testing.T) {
	scenarios, _ := scenarioLayout(t, map[string]string{"bad.yaml": "name: bad\nfrequency: 1kHz\nbogus: true\n"})

	_, _, err := execute(t, "test", scenarios)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTestCommand_HarnessScenarios(t *testing.T) {
	scenarios := filepath.Join("..", "harness", "testdata", "scenarios")

	out, _, err := execute(t, "test", scenarios)
	require.NoError(t, err, out)
	assert.Contains(t, out, "✓ expires_after_five\n")
	assert.Contains(t, out, "✓ All scenarios passed")
}

func TestTestHelpText(t *testing.T) {
	out, _, err := execute(t, "test", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "--update")
	assert.Contains(t, out, "--filter")
	assert.Contains(t, out, "scenarios-dir")
}
