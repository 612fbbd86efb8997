package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/dtimer/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update    bool   // regenerate golden files
	Filter    string // scenario filter (glob pattern)
	GoldenDir string // defaults to a "golden" sibling of the scenarios directory
}

// ScenarioResult holds the result of a single scenario execution.
type ScenarioResult struct {
	Name   string `json:"name"`
	Pass   bool   `json:"pass"`
	Digest string `json:"digest,omitempty"`

	// Golden is "match", "updated" or "missing".
	Golden string   `json:"golden"`
	Errors []string `json:"errors,omitempty"`
}

// TestResult holds the overall test result.
type TestResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

func (r TestResult) renderText(w io.Writer) {
	if r.Total == 0 {
		fmt.Fprintln(w, "No scenarios found.")
		return
	}
	for _, s := range r.Scenarios {
		suffix := ""
		if s.Golden != "match" {
			suffix = " (golden " + s.Golden + ")"
		}
		fmt.Fprintf(w, "%s %s%s\n", passMark(s.Pass), s.Name, suffix)
		for _, msg := range s.Errors {
			fmt.Fprintf(w, "    %s\n", msg)
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Test Summary: %d passed, %d failed, %d total\n", r.Passed, r.Failed, r.Total)
	if r.Failed == 0 {
		fmt.Fprintln(w, "✓ All scenarios passed")
	}
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run scenario files against the counter",
		Long: `Run YAML scenario files against a simulated counter.

Each scenario configures a timer, applies its steps, checks the step
expectations and trace assertions, and compares the recorded trace with
its golden file. Golden files are read from the "golden" directory next to
the scenarios directory unless --golden-dir is given; a scenario without a
golden file is reported but does not fail.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, malformed scenario files, etc.)

Examples:
  dtimer test ./testdata/scenarios
  dtimer test ./testdata/scenarios --filter "retrigger_*"
  dtimer test ./testdata/scenarios --update
  dtimer test ./testdata/scenarios --format json`,
		Args:          exactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern")
	cmd.Flags().StringVar(&opts.GoldenDir, "golden-dir", "", "directory holding golden files")

	return cmd
}

func runTests(opts *TestOptions, scenariosDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	if _, err := os.Stat(scenariosDir); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("scenarios directory not found: %s", scenariosDir))
	}

	scenarios, err := harness.LoadScenarios(scenariosDir)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load scenarios", err)
	}
	scenarios, err = filterScenarios(scenarios, opts.Filter)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid filter", err)
	}

	goldenDir := opts.GoldenDir
	if goldenDir == "" {
		goldenDir = filepath.Join(filepath.Dir(filepath.Clean(scenariosDir)), "golden")
	}
	formatter.VerboseLog("Running %d scenario(s), golden files in %s", len(scenarios), goldenDir)

	result := TestResult{
		Scenarios: make([]ScenarioResult, 0, len(scenarios)),
		Total:     len(scenarios),
	}
	for _, s := range scenarios {
		sr, err := runScenario(s, goldenDir, opts.Update, harness.WithLogger(logger))
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("scenario %s", s.Name), err)
		}
		result.Scenarios = append(result.Scenarios, sr)
		if sr.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
	}

	if result.Failed > 0 {
		msg := fmt.Sprintf("%d scenario(s) failed", result.Failed)
		if err := formatter.Failure(result, ErrCodeTestFailed, msg); err != nil {
			return err
		}
		// Test failures = exit code 1
		return NewExitError(ExitFailure, msg)
	}
	return formatter.Success(result)
}

// runScenario executes one scenario and checks its trace against the golden file.
func runScenario(s *harness.Scenario, goldenDir string, update bool, opts ...harness.Option) (ScenarioResult, error) {
	res, err := harness.Run(s, opts...)
	if err != nil {
		return ScenarioResult{}, err
	}

	out := ScenarioResult{Name: s.Name, Pass: res.Pass, Errors: res.Errors}

	snapshot := harness.NewTraceSnapshot(s, res)
	data, err := snapshot.MarshalCanonical()
	if err != nil {
		return ScenarioResult{}, fmt.Errorf("marshal trace: %w", err)
	}
	if out.Digest, err = snapshot.Digest(); err != nil {
		return ScenarioResult{}, err
	}

	found, err := harness.CheckGolden(goldenDir, s.Name, data, update)
	switch {
	case err != nil:
		out.Pass = false
		out.Golden = "mismatch"
		out.Errors = append(out.Errors, err.Error())
	case update:
		out.Golden = "updated"
	case !found:
		out.Golden = "missing"
	default:
		out.Golden = "match"
	}
	return out, nil
}

func filterScenarios(scenarios []*harness.Scenario, pattern string) ([]*harness.Scenario, error) {
	if pattern == "" {
		return scenarios, nil
	}
	var out []*harness.Scenario
	for _, s := range scenarios {
		ok, err := filepath.Match(pattern, s.Name)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, s)
		}
	}
	return out, nil
}
