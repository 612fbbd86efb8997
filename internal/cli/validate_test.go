package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/dtimer/internal/sweep"
)

func TestValidateCommandMissingArgs(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewValidateCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestValidate_ValidSweep(t *testing.T) {
	path := writeFile(t, t.TempDir(), "small.cue", smallSweep)

	out, _, err := execute(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, `sweep "small" is valid (3 cases)`)
}

func TestValidate_ValidSweepJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "small.cue", smallSweep)

	var result ValidationResult
	out, _, err := execute(t, "--format", "json", "validate", path)
	require.NoError(t, err)

	resp := decodeResponse(t, out, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, result.Valid)
	assert.Equal(t, 3, result.Cases)
	assert.Empty(t, result.Errors)
}

func TestValidate_SchemaViolation(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.cue", `name: "bad"
cases: [{name: "x", frequency: 1000, delay: 10, colour: "red"}]
`)

	var result ValidationResult
	out, _, err := execute(t, "--format", "json", "validate", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	resp := decodeResponse(t, out, &result)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeInvalidSweep, resp.Error.Code)
	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, sweep.ErrCodeSchemaViolation, result.Errors[0].Code)
}

func TestValidate_SyntaxError(t *testing.T) {
	path := writeFile(t, t.TempDir(), "broken.cue", `name: "broken"
cases: [{name: "x",
`)

	out, _, err := execute(t, "validate", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, sweep.ErrCodeBuildFailed)
}

func TestValidate_DuplicateNames(t *testing.T) {
	path := writeFile(t, t.TempDir(), "dup.cue", `name: "dup"
cases: [
	{name: "x", frequency: 1000, delay: 10},
	{name: "x", frequency: 2000, delay: 10},
]
`)

	out, _, err := execute(t, "validate", path)
	require.Error(t, err)
	assert.Contains(t, out, sweep.ErrCodeInvalidCase)
	assert.Contains(t, out, "duplicate case name")
}

func TestValidate_FileNotFound(t *testing.T) {
	_, _, err := execute(t, "validate", "/nonexistent/sweep.cue")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
