package store

import (
	"path/filepath"
	"testing"
)

// createTestStore creates a new file-backed store in a temp dir.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun creates a run with minimal required fields.
func createTestRun(id string, seq int64) Run {
	return Run{
		ID:          id,
		SweepName:   "default",
		Source:      "builtin",
		ToolVersion: "0.1.0",
		Seq:         seq,
	}
}

// createTestCase creates a passing case record.
func createTestCase(runID, name, caseID string, seq int64, cycles uint64) CaseRecord {
	return CaseRecord{
		RunID:         runID,
		Seq:           seq,
		Name:          name,
		CaseID:        caseID,
		Frequency:     "50000000",
		Delay:         "100000",
		DelayEncoding: "raw_ns",
		FrequencyHz:   50_000_000,
		DelayNs:       100_000,
		TargetCycles:  cycles,
		ObservedTicks: cycles,
		Pass:          true,
	}
}
