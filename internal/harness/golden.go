package harness

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/dtimer/internal/ir"
)

// GoldenDir is where golden traces live, relative to the test or scenario
// directory.
const GoldenDir = "testdata/golden"

// ErrGoldenMismatch is returned by CheckGolden when the trace differs.
var ErrGoldenMismatch = errors.New("trace does not match golden file")

// TraceSnapshot captures a scenario run for golden comparison.
type TraceSnapshot struct {
	ScenarioName string
	Frequency    string
	Delay        string
	Target       uint64
	ErrorKind    string
	Trace        []TraceEvent
}

// NewTraceSnapshot builds the snapshot of a scenario's result.
func NewTraceSnapshot(scenario *Scenario, result *Result) TraceSnapshot {
	return TraceSnapshot{
		ScenarioName: scenario.Name,
		Frequency:    string(scenario.Frequency),
		Delay:        scenario.Delay.Token.String(),
		Target:       result.Target,
		ErrorKind:    string(result.ErrorKind),
		Trace:        result.Trace,
	}
}

// toIR converts the snapshot to an IR object for canonical JSON.
func (s TraceSnapshot) toIR() ir.IRObject {
	trace := make(ir.IRArray, len(s.Trace))
	for i, ev := range s.Trace {
		trace[i] = ir.IRObject{
			"seq":     ir.IRInt(ev.Seq),
			"tick":    ir.Uint(ev.Tick),
			"kind":    ir.IRString(ev.Kind),
			"state":   ir.IRString(ev.State),
			"elapsed": ir.Uint(ev.Elapsed),
			"expired": ir.IRBool(ev.Expired),
		}
	}

	obj := ir.IRObject{
		"scenario_name": ir.IRString(s.ScenarioName),
		"frequency":     ir.IRString(s.Frequency),
		"delay":         ir.IRString(s.Delay),
		"target":        ir.Uint(s.Target),
		"trace":         trace,
		"version":       ir.IRString(ir.SnapshotVersion),
	}
	if s.ErrorKind != "" {
		obj["error_kind"] = ir.IRString(s.ErrorKind)
	}
	return obj
}

// MarshalCanonical renders the snapshot as canonical JSON.
func (s TraceSnapshot) MarshalCanonical() ([]byte, error) {
	return ir.MarshalCanonical(s.toIR())
}

// Digest returns the content hash of the snapshot.
func (s TraceSnapshot) Digest() (string, error) {
	return ir.TraceDigest(s.toIR())
}

// RunWithGolden executes a scenario and compares the trace against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	data, err := NewTraceSnapshot(scenario, result).MarshalCanonical()
	if err != nil {
		return nil, err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir(GoldenDir),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)

	return result, nil
}

// CheckGolden compares data with goldenDir/{name}.golden outside of a test
// binary. With update set, the file is (re)written instead.
// A missing golden file is not an error; it returns false.
func CheckGolden(goldenDir, name string, data []byte, update bool) (bool, error) {
	path := filepath.Join(goldenDir, name+".golden")

	if update {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return false, fmt.Errorf("creating golden dir: %w", err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return false, fmt.Errorf("writing golden file: %w", err)
		}
		return true, nil
	}

	want, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading golden file: %w", err)
	}
	if !bytes.Equal(want, data) {
		return true, fmt.Errorf("%s: %w", path, ErrGoldenMismatch)
	}
	return true, nil
}
