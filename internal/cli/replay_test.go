package cli

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/dtimer/internal/harness"
)

func TestReplay_Deterministic(t *testing.T) {
	dbPath := recordedDB(t, smallSweep)

	var result harness.ReplayResult
	out, _, err := execute(t, "--format", "json", "replay", "--db", dbPath)
	require.NoError(t, err)

	resp := decodeResponse(t, out, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, testRun1, result.RunID)
	assert.Equal(t, 3, result.Cases)
	assert.True(t, result.Deterministic)
}

func TestReplay_TamperedRecord(t *testing.T) {
	dbPath := recordedDB(t, smallSweep)

	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	_, err = db.ExecContext(context.Background(),
		`UPDATE case_results SET target_cycles = '6' WHERE run_id = ? AND name = 'A_100ns'`, testRun1)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	out, _, err := execute(t, "replay", "--db", dbPath, "--run", testRun1)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "A_100ns.target_cycles: recorded 6, replayed 5")
}

func TestReplay_MissingDatabase(t *testing.T) {
	_, _, err := execute(t, "replay", "--db", "/nonexistent/dtimer.db")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestReplay_MalformedRunID(t *testing.T) {
	dbPath := recordedDB(t, smallSweep)

	out, _, err := execute(t, "--format", "json", "replay", "--db", dbPath, "--run", "run-1")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, ErrCodeInvalidRunID)
}
