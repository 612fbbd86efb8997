package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/dtimer/internal/engine"
	"github.com/roach88/dtimer/internal/harness"
	"github.com/roach88/dtimer/internal/store"
	"github.com/roach88/dtimer/internal/sweep"
)

// SourceBuiltin is the recorded source of the built-in sweep.
const SourceBuiltin = "builtin"

// SweepOptions holds flags for the sweep command.
type SweepOptions struct {
	*RootOptions
	Filter   string
	Database string
	Budget   uint64

	// RunIDs allows overriding the run ID generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	RunIDs engine.RunIDGenerator
}

// SweepReport is the output of the sweep command.
type SweepReport struct {
	RunID  string `json:"run_id,omitempty"`
	Source string `json:"source"`
	Filter string `json:"filter,omitempty"`
	*harness.SweepResult
}

func (r SweepReport) renderText(w io.Writer) {
	for _, c := range r.Results {
		switch {
		case c.ErrorKind != "":
			fmt.Fprintf(w, "%s %s: rejected %s\n", passMark(c.Pass), c.Name, c.ErrorKind)
		case c.SimulationSkipped:
			fmt.Fprintf(w, "%s %s: %s cycles (simulation skipped)\n", passMark(c.Pass), c.Name, formatCycles(c.TargetCycles))
		default:
			fmt.Fprintf(w, "%s %s: %s cycles\n", passMark(c.Pass), c.Name, formatCycles(c.TargetCycles))
		}
		for _, msg := range c.Errors {
			fmt.Fprintf(w, "    %s\n", msg)
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Sweep Summary: %d passed, %d failed, %d total\n", r.Passed, r.Failed, r.Total)
	if r.RunID != "" {
		fmt.Fprintf(w, "Run ID: %s\n", r.RunID)
	}
}

// NewSweepCommand creates the sweep command.
func NewSweepCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SweepOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sweep [sweep.cue]",
		Short: "Check a sweep of timer configurations",
		Long: `Check every case of a sweep: parse and validate its configuration,
compare the cycle count with the expected and exact values, and run a
simulated counter to expiry.

Without a file the built-in sweep is used: a frequency x delay matrix plus
edge, encoding and invalid-input cases. With --db the run and its case
results are recorded in a SQLite database.

Exit codes:
  0 - All cases passed
  1 - One or more cases failed
  2 - Command error (invalid file, database error, etc.)

Examples:
  dtimer sweep
  dtimer sweep --filter "F50000000_*"
  dtimer sweep ./sweeps/regression.cue --db ./dtimer.db`,
		Args:          wrapArgs(cobra.MaximumNArgs(1)),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runSweep(opts, path, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Filter, "filter", "", "run only cases whose name matches this glob")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record the run in this SQLite database")
	cmd.Flags().Uint64Var(&opts.Budget, "budget", engine.DefaultTickBudget, "maximum ticks to simulate per case")

	return cmd
}

func runSweep(opts *SweepOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	sw, source, err := loadSweep(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load sweep", err)
	}

	cases, err := sweep.Filter(sw.Cases, opts.Filter)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid filter", err)
	}
	logger.Debug("sweep loaded", "name", sw.Name, "source", source, "cases", len(cases))

	ctx, stop := signalContext(cmd.Context(), logger)
	defer stop()

	result, err := harness.RunSweep(ctx, sw.Name, cases,
		harness.WithLogger(logger),
		harness.WithTickBudget(opts.Budget),
	)
	if err != nil {
		if errors.Is(err, context.Canceled) || engine.IsCancelled(err) {
			return WrapExitError(ExitCommandError, "sweep interrupted", err)
		}
		return WrapExitError(ExitCommandError, "sweep failed", err)
	}

	report := SweepReport{Source: source, Filter: opts.Filter, SweepResult: result}

	if opts.Database != "" {
		runID, err := recordSweep(ctx, opts, report, logger)
		if err != nil {
			return err
		}
		report.RunID = runID
	}

	if !result.Pass() {
		msg := fmt.Sprintf("%d case(s) failed", result.Failed)
		if err := formatter.Failure(report, ErrCodeSweepFailed, msg); err != nil {
			return err
		}
		return NewExitError(ExitFailure, msg)
	}
	return formatter.Success(report)
}

// loadSweep reads a sweep file, or returns the built-in sweep for an empty path.
func loadSweep(path string) (*sweep.Sweep, string, error) {
	if path == "" {
		sw := sweep.Default()
		return &sw, SourceBuiltin, nil
	}
	sw, err := sweep.LoadFile(path)
	if err != nil {
		return nil, "", err
	}
	return sw, path, nil
}

// recordSweep stores the run and its case results in one transaction.
// Sequence numbers continue from the highest one already stored.
func recordSweep(ctx context.Context, opts *SweepOptions, report SweepReport, logger *slog.Logger) (string, error) {
	st, err := store.Open(opts.Database)
	if err != nil {
		return "", WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()

	lastSeq, err := st.GetLastSeq(ctx)
	if err != nil {
		return "", WrapExitError(ExitCommandError, "failed to read sequence", err)
	}
	clock := engine.NewClockAt(lastSeq)

	ids := opts.RunIDs
	if ids == nil {
		ids = engine.UUIDv7Generator{}
	}

	run := store.Run{
		ID:          ids.Generate(),
		SweepName:   report.Name,
		Source:      report.Source,
		Filter:      report.Filter,
		ToolVersion: Version,
		Seq:         clock.Next(),
		Total:       report.Total,
		Passed:      report.Passed,
		Failed:      report.Failed,
	}
	records := make([]store.CaseRecord, 0, len(report.Results))
	for _, r := range report.Results {
		records = append(records, caseRecord(run.ID, clock.Next(), r))
	}

	if err := st.WriteRunAtomic(ctx, run, records); err != nil {
		return "", WrapExitError(ExitCommandError, "failed to record run", err)
	}
	logger.Info("run recorded", "run_id", run.ID, "db", opts.Database, "cases", len(records))
	return run.ID, nil
}

func caseRecord(runID string, seq int64, r harness.CaseResult) store.CaseRecord {
	return store.CaseRecord{
		RunID:             runID,
		Seq:               seq,
		Name:              r.Name,
		CaseID:            r.CaseID,
		Frequency:         r.Frequency,
		Delay:             r.Delay,
		DelayEncoding:     r.DelayEncoding,
		FrequencyHz:       r.FrequencyHz,
		DelayNs:           r.DelayNs,
		TargetCycles:      r.TargetCycles,
		ObservedTicks:     r.ObservedTicks,
		ErrorKind:         string(r.ErrorKind),
		SimulationSkipped: r.SimulationSkipped,
		Pass:              r.Pass,
		Errors:            r.Errors,
	}
}

// signalContext derives a context that is cancelled on SIGINT or SIGTERM.
// The command's context is used as the parent when set (tests).
func signalContext(parent context.Context, logger *slog.Logger) (context.Context, func()) {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("received signal, stopping", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}
