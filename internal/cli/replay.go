package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/dtimer/internal/engine"
	"github.com/roach88/dtimer/internal/harness"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	Run      string
	Budget   uint64
}

type replayReport struct {
	*harness.ReplayResult
}

func (r replayReport) renderText(w io.Writer) {
	if r.Deterministic {
		fmt.Fprintf(w, "✓ Run %s replayed: %d case(s) reproduced exactly\n", r.RunID, r.Cases)
		return
	}
	fmt.Fprintf(w, "✗ Run %s replayed with %d difference(s):\n", r.RunID, len(r.Diffs))
	for _, d := range r.Diffs {
		fmt.Fprintf(w, "  %s.%s: recorded %s, replayed %s\n", d.Name, d.Field, d.Recorded, d.Replayed)
	}
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay --db <path> [--run <id|latest>]",
		Short: "Re-run a recorded sweep and verify determinism",
		Long: `Re-run every case of a recorded run and compare the results with the
stored ones. Case IDs, cycle counts, observed ticks and error kinds must
reproduce exactly.

Exit codes:
  0 - The run reproduced exactly
  1 - Differences detected
  2 - Command error (database not found, unknown run, etc.)

Examples:
  dtimer replay --db ./dtimer.db
  dtimer replay --db ./dtimer.db --run 0190c4e2-... --format json`,
		Args:          exactArgs(0),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.Run, "run", RunLatest, `run ID to replay, or "latest"`)
	cmd.Flags().Uint64Var(&opts.Budget, "budget", engine.DefaultTickBudget, "maximum ticks to simulate per case")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	st, err := openExisting(opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx, stop := signalContext(cmd.Context(), logger)
	defer stop()

	run, err := resolveRun(ctx, st, opts.Run)
	if err != nil {
		return reportRunError(formatter, opts.Run, err)
	}
	records, err := st.ReadCaseResults(ctx, run.ID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read case results", err)
	}

	result, err := harness.Replay(ctx, run.ID, records,
		harness.WithLogger(logger),
		harness.WithTickBudget(opts.Budget),
	)
	if err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("failed to replay run %s", run.ID), err)
	}

	report := replayReport{result}
	if !result.Deterministic {
		msg := fmt.Sprintf("%d difference(s) detected", len(result.Diffs))
		if err := formatter.Failure(report, ErrCodeReplayDiverged, msg); err != nil {
			return err
		}
		return NewExitError(ExitFailure, msg)
	}
	return formatter.Success(report)
}
