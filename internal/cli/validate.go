package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/dtimer/internal/sweep"
)

// ValidationIssue is one problem found in a sweep file.
type ValidationIssue struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	File   string            `json:"file"`
	Name   string            `json:"name,omitempty"`
	Cases  int               `json:"cases"`
	Errors []ValidationIssue `json:"errors,omitempty"`
}

func (r ValidationResult) renderText(w io.Writer) {
	if r.Valid {
		fmt.Fprintf(w, "✓ %s: sweep %q is valid (%d cases)\n", r.File, r.Name, r.Cases)
		return
	}
	fmt.Fprintf(w, "✗ %s: %d error(s)\n", r.File, len(r.Errors))
	for _, issue := range r.Errors {
		if issue.Line > 0 {
			fmt.Fprintf(w, "  line %d: [%s] %s\n", issue.Line, issue.Code, issue.Message)
		} else {
			fmt.Fprintf(w, "  [%s] %s\n", issue.Code, issue.Message)
		}
	}
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <sweep.cue>",
		Short: "Validate a sweep file without running it",
		Long: `Validate a CUE sweep file against the sweep schema.

Performs syntax checking, schema validation and case consistency checks
(unique names, at most one expectation per case) without running any case.

Exit codes:
  0 - Sweep is valid
  1 - Sweep has errors
  2 - Command error (file not readable)`,
		Args:          exactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	result := ValidationResult{File: path}

	sw, err := sweep.LoadFile(path)
	if err != nil {
		var loadErr *sweep.LoadError
		if !errors.As(err, &loadErr) {
			return WrapExitError(ExitCommandError, "failed to load sweep", err)
		}
		if loadErr.Code == sweep.ErrCodeReadFailed {
			if outErr := formatter.Error(loadErr.Code, loadErr.Message, nil); outErr != nil {
				return outErr
			}
			return WrapExitError(ExitCommandError, "failed to read sweep", err)
		}
		result.Errors = append(result.Errors, issueFromLoadError(loadErr))
		return outputValidation(formatter, result)
	}

	result.Name = sw.Name
	result.Cases = len(sw.Cases)
	formatter.VerboseLog("Loaded sweep %q with %d case(s) from %s", sw.Name, len(sw.Cases), path)

	for _, c := range sw.Cases {
		if err := c.Validate(); err != nil {
			result.Errors = append(result.Errors, ValidationIssue{Code: sweep.ErrCodeInvalidCase, Message: err.Error()})
		}
	}
	if len(sw.Cases) == 0 {
		result.Errors = append(result.Errors, ValidationIssue{Code: sweep.ErrCodeInvalidCase, Message: "sweep has no cases"})
	}

	return outputValidation(formatter, result)
}

func issueFromLoadError(e *sweep.LoadError) ValidationIssue {
	issue := ValidationIssue{Code: e.Code, Message: e.Message}
	if e.Pos.IsValid() {
		issue.Line = e.Pos.Line()
		issue.Column = e.Pos.Column()
	}
	return issue
}

func outputValidation(formatter *OutputFormatter, result ValidationResult) error {
	result.Valid = len(result.Errors) == 0
	if result.Valid {
		return formatter.Success(result)
	}

	msg := fmt.Sprintf("%d validation error(s)", len(result.Errors))
	if err := formatter.Failure(result, ErrCodeInvalidSweep, msg); err != nil {
		return err
	}
	return NewExitError(ExitFailure, msg)
}
