package store

import (
	"context"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// ExportFormatVersion is bumped when RunExport changes incompatibly.
const ExportFormatVersion = 1

// RunExport is a self-contained snapshot of one run.
type RunExport struct {
	Version int          `cbor:"version"`
	Run     Run          `cbor:"run"`
	Cases   []CaseRecord `cbor:"cases"`
}

// exportEncMode produces deterministic CBOR, so exporting the same run
// twice yields identical bytes.
var exportEncMode cbor.EncMode

var exportDecMode cbor.DecMode

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsEmpty,
	}
	exportEncMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create export CBOR encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyEnforcedAPF,
		IndefLength: cbor.IndefLengthForbidden,
	}
	exportDecMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create export CBOR decoder mode: %v", err))
	}
}

// ExportRun reads a run and its case results into a RunExport.
func (s *Store) ExportRun(ctx context.Context, runID string) (RunExport, error) {
	run, err := s.ReadRun(ctx, runID)
	if err != nil {
		return RunExport{}, fmt.Errorf("export run: %w", err)
	}
	cases, err := s.ReadCaseResults(ctx, runID)
	if err != nil {
		return RunExport{}, fmt.Errorf("export run: %w", err)
	}
	return RunExport{Version: ExportFormatVersion, Run: run, Cases: cases}, nil
}

// EncodeExport writes exp to w as CBOR.
func EncodeExport(w io.Writer, exp RunExport) error {
	if err := exportEncMode.NewEncoder(w).Encode(exp); err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	return nil
}

// DecodeExport reads a CBOR export written by EncodeExport.
func DecodeExport(r io.Reader) (RunExport, error) {
	var exp RunExport
	if err := exportDecMode.NewDecoder(r).Decode(&exp); err != nil {
		return RunExport{}, fmt.Errorf("decode export: %w", err)
	}
	if exp.Version != ExportFormatVersion {
		return RunExport{}, fmt.Errorf("decode export: unsupported version %d", exp.Version)
	}
	return exp, nil
}
