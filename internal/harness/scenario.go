package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/roach88/dtimer/internal/timer"
)

// Scenario scripts a single counter and asserts on what it records.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Frequency is the clock rate, whole Hz or a unit string.
	Frequency Frequency `yaml:"frequency"`

	// Delay is the requested delay in either encoding.
	Delay Delay `yaml:"delay"`

	// ExpectError, if set, is the error kind the configuration must be
	// rejected with. Such scenarios have no steps.
	ExpectError string `yaml:"expect_error,omitempty"`

	// Steps are applied to the counter in order.
	Steps []Step `yaml:"steps,omitempty"`

	// Assertions validate the recorded trace after all steps.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Frequency is a clock rate as written in a scenario: a YAML integer (Hz)
// or a unit string such as "68MHz".
type Frequency string

// UnmarshalYAML accepts an integer or string scalar.
func (f *Frequency) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: frequency must be a scalar", node.Line)
	}
	switch node.Tag {
	case "!!int":
		var n int64
		if err := node.Decode(&n); err != nil {
			return fmt.Errorf("line %d: frequency: %w", node.Line, err)
		}
		*f = Frequency(strconv.FormatInt(n, 10))
	case "!!str":
		*f = Frequency(node.Value)
	default:
		return fmt.Errorf("line %d: frequency must be an integer or string, got %s", node.Line, node.Tag)
	}
	return nil
}

// Delay wraps a delay token decoded from YAML. An integer decodes as raw
// nanoseconds and a string as a unit string.
type Delay struct {
	Token timer.DelayToken
}

// UnmarshalYAML accepts an integer or string scalar.
func (d *Delay) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: delay must be a scalar", node.Line)
	}
	switch node.Tag {
	case "!!int":
		var n int64
		if err := node.Decode(&n); err != nil {
			return fmt.Errorf("line %d: delay: %w", node.Line, err)
		}
		d.Token = timer.RawNanoseconds(n)
	case "!!str":
		d.Token = timer.UnitString(node.Value)
	default:
		return fmt.Errorf("line %d: delay must be an integer or string, got %s", node.Line, node.Tag)
	}
	return nil
}

// Step is one stimulus or observation.
type Step struct {
	// Action is one of trigger, tick, reset, sample.
	Action string `yaml:"action"`

	// Count is the number of ticks for a tick step. Omitted means 1;
	// an explicit 0 is rejected.
	Count *uint64 `yaml:"count,omitempty"`

	// Expect checks the counter outputs at a sample step.
	// Only the fields present are compared.
	Expect *SampleExpect `yaml:"expect,omitempty"`
}

// Ticks returns the number of ticks a tick step delivers.
func (s Step) Ticks() uint64 {
	if s.Count == nil {
		return 1
	}
	return *s.Count
}

// SampleExpect is a partial expectation on a counter sample.
type SampleExpect struct {
	Expired *bool   `yaml:"expired,omitempty"`
	Elapsed *uint64 `yaml:"elapsed,omitempty"`
	State   string  `yaml:"state,omitempty"`
}

// Step actions.
const (
	ActionTrigger = "trigger"
	ActionTick    = "tick"
	ActionReset   = "reset"
	ActionSample  = "sample"
)

// Assertion validates the recorded trace.
type Assertion struct {
	// Type is one of trace_contains, trace_order, trace_count, expired_at.
	Type string `yaml:"type"`

	// Event is the event kind (trace_contains, trace_count).
	Event string `yaml:"event,omitempty"`

	// Events is the expected kind order (trace_order).
	Events []string `yaml:"events,omitempty"`

	// Count is the expected number of occurrences (trace_count).
	Count int `yaml:"count,omitempty"`

	// Tick pins the simulator tick (required for expired_at, optional
	// for trace_contains).
	Tick *uint64 `yaml:"tick,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertExpiredAt     = "expired_at"
)

var eventKinds = map[string]bool{
	"trigger": true,
	"tick":    true,
	"expire":  true,
	"reset":   true,
	"sample":  true,
}

var stateNames = map[string]bool{
	"idle":    true,
	"running": true,
	"expired": true,
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // catches typos like "assertion:" vs "assertions:"
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadScenarios loads every *.yaml and *.yml file in dir, sorted by file
// name. Scenario names must be unique.
func LoadScenarios(dir string) ([]*Scenario, error) {
	var paths []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		paths = append(paths, matches...)
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	seen := make(map[string]string, len(paths))
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		if prev, ok := seen[s.Name]; ok {
			return nil, fmt.Errorf("%s: scenario name %q already used by %s", filepath.Base(path), s.Name, prev)
		}
		seen[s.Name] = filepath.Base(path)
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Frequency == "" {
		return fmt.Errorf("frequency is required")
	}

	if s.Delay.Token == nil {
		return fmt.Errorf("delay is required")
	}

	if s.ExpectError != "" {
		if _, err := timer.ParseErrorKind(s.ExpectError); err != nil {
			return fmt.Errorf("expect_error: %w", err)
		}
		if len(s.Steps) > 0 || len(s.Assertions) > 0 {
			return fmt.Errorf("expect_error scenarios cannot have steps or assertions")
		}
		return nil
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i := range s.Steps {
		if err := validateStep(i, &s.Steps[i]); err != nil {
			return err
		}
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}

	return nil
}

func validateStep(index int, step *Step) error {
	switch step.Action {
	case ActionTrigger, ActionReset:
	case ActionTick:
		if step.Count != nil && *step.Count == 0 {
			return fmt.Errorf("steps[%d]: count must be at least 1", index)
		}
	case ActionSample:
		if step.Expect != nil && step.Expect.State != "" && !stateNames[step.Expect.State] {
			return fmt.Errorf("steps[%d].expect: unknown state %q", index, step.Expect.State)
		}
	case "":
		return fmt.Errorf("steps[%d]: action is required", index)
	default:
		return fmt.Errorf("steps[%d]: unknown action %q", index, step.Action)
	}

	if step.Action != ActionTick && step.Count != nil {
		return fmt.Errorf("steps[%d]: count is only valid for tick", index)
	}
	if step.Action != ActionSample && step.Expect != nil {
		return fmt.Errorf("steps[%d]: expect is only valid for sample", index)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTraceContains:
		if !eventKinds[a.Event] {
			return fmt.Errorf("assertions[%d]: trace_contains needs a known event, got %q", index, a.Event)
		}
	case AssertTraceOrder:
		if len(a.Events) == 0 {
			return fmt.Errorf("assertions[%d]: events list is required for trace_order", index)
		}
		for _, ev := range a.Events {
			if !eventKinds[ev] {
				return fmt.Errorf("assertions[%d]: unknown event %q", index, ev)
			}
		}
	case AssertTraceCount:
		if !eventKinds[a.Event] {
			return fmt.Errorf("assertions[%d]: trace_count needs a known event, got %q", index, a.Event)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertExpiredAt:
		if a.Tick == nil {
			return fmt.Errorf("assertions[%d]: tick is required for expired_at", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
