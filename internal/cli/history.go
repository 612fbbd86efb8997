package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/dtimer/internal/engine"
	"github.com/roach88/dtimer/internal/store"
)

// RunLatest selects the most recent run wherever a run ID is accepted.
const RunLatest = "latest"

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Against  string
}

// RunList is the output of history without a run ID.
type RunList struct {
	Runs []store.Run `json:"runs"`
}

func (l RunList) renderText(w io.Writer) {
	if len(l.Runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return
	}
	for _, r := range l.Runs {
		fmt.Fprintf(w, "%s  seq=%d  %-16s %d/%d passed  (%s)\n",
			r.ID, r.Seq, r.SweepName, r.Passed, r.Total, r.Source)
	}
}

// RunDetail is the output of history for one run.
type RunDetail struct {
	Run   store.Run          `json:"run"`
	Cases []store.CaseRecord `json:"cases"`
}

func (d RunDetail) renderText(w io.Writer) {
	fmt.Fprintf(w, "Run %s (sweep %s, %s, tool %s)\n", d.Run.ID, d.Run.SweepName, d.Run.Source, d.Run.ToolVersion)
	for _, c := range d.Cases {
		if c.ErrorKind != "" {
			fmt.Fprintf(w, "  %s %s: rejected %s\n", passMark(c.Pass), c.Name, c.ErrorKind)
			continue
		}
		fmt.Fprintf(w, "  %s %s: %s cycles\n", passMark(c.Pass), c.Name, formatCycles(c.TargetCycles))
	}
	fmt.Fprintf(w, "%d passed, %d failed, %d total\n", d.Run.Passed, d.Run.Failed, d.Run.Total)
}

// RunComparison is the output of history --against.
type RunComparison struct {
	Base    string             `json:"base"`
	Head    string             `json:"head"`
	Changes []store.CaseChange `json:"changes"`
}

func (c RunComparison) renderText(w io.Writer) {
	if len(c.Changes) == 0 {
		fmt.Fprintf(w, "No changes between %s and %s.\n", c.Base, c.Head)
		return
	}
	fmt.Fprintf(w, "%d change(s) from %s to %s:\n", len(c.Changes), c.Base, c.Head)
	for _, ch := range c.Changes {
		switch ch.Type {
		case store.ChangeAdded, store.ChangeRemoved:
			fmt.Fprintf(w, "  %-10s %s\n", ch.Type, ch.Name)
		case store.ChangeCycles:
			fmt.Fprintf(w, "  %-10s %s: %s -> %s\n", ch.Type, ch.Name,
				formatCycles(ch.Base.TargetCycles), formatCycles(ch.Head.TargetCycles))
		case store.ChangeOutcome:
			fmt.Fprintf(w, "  %-10s %s: %s -> %s\n", ch.Type, ch.Name, passMark(ch.Base.Pass), passMark(ch.Head.Pass))
		default:
			fmt.Fprintf(w, "  %-10s %s: %q -> %q\n", ch.Type, ch.Name, ch.Base.ErrorKind, ch.Head.ErrorKind)
		}
	}
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history --db <path> [run-id]",
		Short: "Show recorded sweep runs",
		Long: `Show sweep runs recorded with "dtimer sweep --db".

Without a run ID all runs are listed in order. With a run ID (or "latest")
the run's case results are shown. With --against, the run is compared
with another one case by case.

Examples:
  dtimer history --db ./dtimer.db
  dtimer history --db ./dtimer.db latest
  dtimer history --db ./dtimer.db latest --against 0190c4e2-...`,
		Args:          wrapArgs(cobra.MaximumNArgs(1)),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			runID := ""
			if len(args) == 1 {
				runID = args[0]
			}
			return runHistory(opts, runID, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.Against, "against", "", "compare the run with this base run")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(opts *HistoryOptions, runID string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	if opts.Against != "" && runID == "" {
		return NewExitError(ExitCommandError, "--against requires a run ID")
	}

	st, err := openExisting(opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	if runID == "" {
		runs, err := st.ListRuns(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list runs", err)
		}
		return formatter.Success(RunList{Runs: runs})
	}

	run, err := resolveRun(ctx, st, runID)
	if err != nil {
		return reportRunError(formatter, runID, err)
	}

	if opts.Against != "" {
		base, err := resolveRun(ctx, st, opts.Against)
		if err != nil {
			return reportRunError(formatter, opts.Against, err)
		}
		changes, err := st.CompareRuns(ctx, base.ID, run.ID)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to compare runs", err)
		}
		return formatter.Success(RunComparison{Base: base.ID, Head: run.ID, Changes: changes})
	}

	cases, err := st.ReadCaseResults(ctx, run.ID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read case results", err)
	}
	return formatter.Success(RunDetail{Run: run, Cases: cases})
}

// openExisting opens a store that must already exist; reading commands
// never create a database.
func openExisting(path string) (*store.Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, WrapExitError(ExitCommandError, fmt.Sprintf("database not found: %s", path), err)
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

var errMalformedRunID = errors.New("malformed run ID")

// resolveRun reads a run by ID, or the most recent run for RunLatest.
// IDs that are not UUIDs are rejected without touching the database.
func resolveRun(ctx context.Context, st *store.Store, id string) (store.Run, error) {
	if id == RunLatest {
		return st.LatestRun(ctx)
	}
	if !engine.IsRunID(id) {
		return store.Run{}, fmt.Errorf("%w: %q", errMalformedRunID, id)
	}
	return st.ReadRun(ctx, id)
}

func reportRunError(formatter *OutputFormatter, id string, err error) error {
	if errors.Is(err, errMalformedRunID) {
		msg := fmt.Sprintf("invalid run ID %q: want a UUID or %q", id, RunLatest)
		if outErr := formatter.Error(ErrCodeInvalidRunID, msg, nil); outErr != nil {
			return outErr
		}
		return NewExitError(ExitCommandError, msg)
	}
	if errors.Is(err, sql.ErrNoRows) {
		msg := fmt.Sprintf("run not found: %s", id)
		if outErr := formatter.Error(ErrCodeRunNotFound, msg, nil); outErr != nil {
			return outErr
		}
		return NewExitError(ExitCommandError, msg)
	}
	return WrapExitError(ExitCommandError, "failed to read run", err)
}
