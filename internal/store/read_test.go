package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
)

func TestListRuns_OrderedBySeq(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	for _, run := range []Run{
		createTestRun("run-c", 30),
		createTestRun("run-a", 10),
		createTestRun("run-b", 20),
	} {
		if err := insertRun(ctx, s.db, run); err != nil {
			t.Fatalf("insertRun(%s) failed: %v", run.ID, err)
		}
	}

	runs, err := s.ListRuns(ctx)
	if err != nil {
		t.Fatalf("ListRuns() failed: %v", err)
	}
	want := []string{"run-a", "run-b", "run-c"}
	if len(runs) != len(want) {
		t.Fatalf("got %d runs, want %d", len(runs), len(want))
	}
	for i, id := range want {
		if runs[i].ID != id {
			t.Errorf("runs[%d].ID = %q, want %q", i, runs[i].ID, id)
		}
	}

	latest, err := s.LatestRun(ctx)
	if err != nil {
		t.Fatalf("LatestRun() failed: %v", err)
	}
	if latest.ID != "run-c" {
		t.Errorf("LatestRun().ID = %q, want run-c", latest.ID)
	}
}

func TestReadRun_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.ReadRun(context.Background(), "nope")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("ReadRun() error = %v, want sql.ErrNoRows", err)
	}

	_, err = s.LatestRun(context.Background())
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("LatestRun() error = %v, want sql.ErrNoRows", err)
	}
}

func TestReadCaseResults_OrderedBySeqThenName(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if err := insertRun(ctx, s.db, createTestRun("run-1", 1)); err != nil {
		t.Fatalf("insertRun() failed: %v", err)
	}
	for _, rec := range []CaseRecord{
		createTestCase("run-1", "C", "id-c", 4, 1),
		createTestCase("run-1", "b", "id-b", 3, 1),
		createTestCase("run-1", "B", "id-B", 3, 1),
		createTestCase("run-1", "A", "id-a", 2, 1),
	} {
		if err := insertCaseResult(ctx, s.db, rec); err != nil {
			t.Fatalf("insertCaseResult(%s) failed: %v", rec.Name, err)
		}
	}

	records, err := s.ReadCaseResults(ctx, "run-1")
	if err != nil {
		t.Fatalf("ReadCaseResults() failed: %v", err)
	}
	want := []string{"A", "B", "b", "C"}
	for i, name := range want {
		if records[i].Name != name {
			t.Errorf("records[%d].Name = %q, want %q", i, records[i].Name, name)
		}
	}
}

func TestReadCaseResults_EmptyNotNil(t *testing.T) {
	s := createTestStore(t)

	records, err := s.ReadCaseResults(context.Background(), "nope")
	if err != nil {
		t.Fatalf("ReadCaseResults() failed: %v", err)
	}
	if records == nil {
		t.Error("got nil, want empty slice")
	}
}

func TestGetLastSeq(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	seq, err := s.GetLastSeq(ctx)
	if err != nil {
		t.Fatalf("GetLastSeq() failed: %v", err)
	}
	if seq != 0 {
		t.Errorf("empty store seq = %d, want 0", seq)
	}

	if err := insertRun(ctx, s.db, createTestRun("run-1", 5)); err != nil {
		t.Fatalf("insertRun() failed: %v", err)
	}
	if err := insertCaseResult(ctx, s.db, createTestCase("run-1", "A", "id-a", 9, 1)); err != nil {
		t.Fatalf("insertCaseResult() failed: %v", err)
	}

	seq, err = s.GetLastSeq(ctx)
	if err != nil {
		t.Fatalf("GetLastSeq() failed: %v", err)
	}
	if seq != 9 {
		t.Errorf("seq = %d, want 9", seq)
	}
}
