package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/dtimer/internal/store"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Database string
	Run      string
	Output   string
}

// ExportSummary describes a written export.
type ExportSummary struct {
	RunID  string `json:"run_id"`
	Cases  int    `json:"cases"`
	Output string `json:"output"`
	Bytes  int64  `json:"bytes"`
}

func (s ExportSummary) renderText(w io.Writer) {
	fmt.Fprintf(w, "Exported run %s (%d cases, %d bytes) to %s\n", s.RunID, s.Cases, s.Bytes, s.Output)
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export --db <path> --run <id|latest> --out <file>",
		Short: "Export a recorded run as CBOR",
		Long: `Export a recorded run and its case results as a single canonical CBOR
document. Exporting the same run twice produces identical bytes.

Examples:
  dtimer export --db ./dtimer.db --run latest --out run.cbor`,
		Args:          exactArgs(0),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.Run, "run", RunLatest, `run ID to export, or "latest"`)
	cmd.Flags().StringVarP(&opts.Output, "out", "o", "", "output file (required)")
	_ = cmd.MarkFlagRequired("db")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func runExport(opts *ExportOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	st, err := openExisting(opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	run, err := resolveRun(ctx, st, opts.Run)
	if err != nil {
		return reportRunError(formatter, opts.Run, err)
	}

	exp, err := st.ExportRun(ctx, run.ID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to export run", err)
	}

	n, err := writeExport(opts.Output, exp)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to write export", err)
	}
	formatter.VerboseLog("Wrote %d bytes to %s", n, opts.Output)

	return formatter.Success(ExportSummary{
		RunID:  run.ID,
		Cases:  len(exp.Cases),
		Output: opts.Output,
		Bytes:  n,
	})
}

func writeExport(path string, exp store.RunExport) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	if err := store.EncodeExport(f, exp); err != nil {
		f.Close()
		return 0, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return 0, err
	}
	return info.Size(), f.Close()
}
