package store

import (
	"context"
	"fmt"
	"sort"
)

// ChangeType classifies how a case differs between two runs.
type ChangeType string

const (
	ChangeAdded     ChangeType = "added"      // only in the head run
	ChangeRemoved   ChangeType = "removed"    // only in the base run
	ChangeCycles    ChangeType = "cycles"     // target cycle count differs
	ChangeOutcome   ChangeType = "outcome"    // pass/fail flipped
	ChangeErrorKind ChangeType = "error_kind" // rejection kind differs
)

// CaseChange is one difference between two runs.
type CaseChange struct {
	CaseID string      `json:"case_id"`
	Name   string      `json:"name"`
	Type   ChangeType  `json:"type"`
	Base   *CaseRecord `json:"base,omitempty"`
	Head   *CaseRecord `json:"head,omitempty"`
}

// CompareRuns reports how the cases of head differ from those of base.
//
// Cases are matched by content-addressed case ID, so a renamed case is
// still compared with its earlier self. Changes are ordered by case name,
// then type.
func (s *Store) CompareRuns(ctx context.Context, baseID, headID string) ([]CaseChange, error) {
	if _, err := s.ReadRun(ctx, baseID); err != nil {
		return nil, fmt.Errorf("compare runs: base: %w", err)
	}
	if _, err := s.ReadRun(ctx, headID); err != nil {
		return nil, fmt.Errorf("compare runs: head: %w", err)
	}

	base, err := s.ReadCaseResults(ctx, baseID)
	if err != nil {
		return nil, fmt.Errorf("compare runs: %w", err)
	}
	head, err := s.ReadCaseResults(ctx, headID)
	if err != nil {
		return nil, fmt.Errorf("compare runs: %w", err)
	}

	baseByID := make(map[string]*CaseRecord, len(base))
	for i := range base {
		baseByID[base[i].CaseID] = &base[i]
	}

	changes := []CaseChange{}
	seen := make(map[string]bool, len(head))
	for i := range head {
		h := &head[i]
		seen[h.CaseID] = true

		b, ok := baseByID[h.CaseID]
		if !ok {
			changes = append(changes, CaseChange{CaseID: h.CaseID, Name: h.Name, Type: ChangeAdded, Head: h})
			continue
		}
		if b.TargetCycles != h.TargetCycles {
			changes = append(changes, CaseChange{CaseID: h.CaseID, Name: h.Name, Type: ChangeCycles, Base: b, Head: h})
		}
		if b.ErrorKind != h.ErrorKind {
			changes = append(changes, CaseChange{CaseID: h.CaseID, Name: h.Name, Type: ChangeErrorKind, Base: b, Head: h})
		}
		if b.Pass != h.Pass {
			changes = append(changes, CaseChange{CaseID: h.CaseID, Name: h.Name, Type: ChangeOutcome, Base: b, Head: h})
		}
	}

	for i := range base {
		b := &base[i]
		if !seen[b.CaseID] {
			changes = append(changes, CaseChange{CaseID: b.CaseID, Name: b.Name, Type: ChangeRemoved, Base: b})
		}
	}

	sort.SliceStable(changes, func(i, j int) bool {
		if changes[i].Name != changes[j].Name {
			return changes[i].Name < changes[j].Name
		}
		return changes[i].Type < changes[j].Type
	})
	return changes, nil
}
