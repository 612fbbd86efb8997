package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/dtimer/internal/sweep"
	"github.com/roach88/dtimer/internal/timer"
)

// ParseOptions holds flags for the parse command.
type ParseOptions struct {
	*RootOptions
	Kind *kindValue
}

// ParsedToken is the outcome of parsing one token.
type ParsedToken struct {
	Input     string          `json:"input"`
	Kind      string          `json:"kind"`
	Encoding  string          `json:"encoding,omitempty"`
	Value     int64           `json:"value"`
	Unit      string          `json:"unit"`
	ErrorKind timer.ErrorKind `json:"error_kind,omitempty"`
	Message   string          `json:"message,omitempty"`
}

// ParseReport lists parsed tokens in argument order.
type ParseReport struct {
	Tokens []ParsedToken `json:"tokens"`
	Failed int           `json:"failed"`
}

func (r ParseReport) renderText(w io.Writer) {
	for _, tok := range r.Tokens {
		if tok.ErrorKind != "" {
			fmt.Fprintf(w, "✗ %q: %s: %s\n", tok.Input, tok.ErrorKind, tok.Message)
			continue
		}
		switch tok.Kind {
		case "frequency":
			fmt.Fprintf(w, "✓ %q = %d Hz (%s)\n", tok.Input, tok.Value, timer.FormatFrequency(uint64(max(tok.Value, 0))))
		default:
			fmt.Fprintf(w, "✓ %q = %s [%s]\n", tok.Input, formatNanos(tok.Value), tok.Encoding)
		}
	}
}

// NewParseCommand creates the parse command.
func NewParseCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ParseOptions{
		RootOptions: rootOpts,
		Kind:        newKindValue("delay", "delay", "frequency"),
	}

	cmd := &cobra.Command{
		Use:   "parse <token>...",
		Short: "Parse delay or frequency tokens",
		Long: `Parse delay or frequency tokens and print their canonical values.

Delays are converted to nanoseconds. A plain integer is taken as raw
nanoseconds; otherwise units ns, us and sec are accepted. Frequencies are
converted to Hz; units Hz, kHz, MHz and GHz are accepted.

Exit codes:
  0 - All tokens parsed
  1 - One or more tokens are malformed
  2 - Command error

Examples:
  dtimer parse 100us 1.5sec 2500
  dtimer parse --kind frequency 50MHz 1kHz`,
		Args:          wrapArgs(cobra.MinimumNArgs(1)),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(opts, args, cmd)
		},
	}

	cmd.Flags().Var(opts.Kind, "kind", "token kind (delay|frequency)")

	return cmd
}

func runParse(opts *ParseOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	report := ParseReport{Tokens: make([]ParsedToken, 0, len(args))}
	for _, arg := range args {
		tok := parseToken(opts.Kind.String(), arg)
		if tok.ErrorKind != "" {
			report.Failed++
		}
		report.Tokens = append(report.Tokens, tok)
	}

	if report.Failed > 0 {
		msg := fmt.Sprintf("%d token(s) malformed", report.Failed)
		if err := formatter.Failure(report, ErrCodeParseFailed, msg); err != nil {
			return err
		}
		return NewExitError(ExitFailure, msg)
	}
	return formatter.Success(report)
}

func parseToken(kind, input string) ParsedToken {
	out := ParsedToken{Input: input, Kind: kind}

	var (
		value int64
		err   error
	)
	switch kind {
	case "frequency":
		out.Unit = "Hz"
		value, err = timer.ParseFrequency(input)
	default:
		out.Unit = "ns"
		tok := delayToken(input)
		out.Encoding = sweep.DelayEncoding(tok)
		value, err = timer.ParseDelay(tok)
	}

	if err != nil {
		out.ErrorKind, _ = timer.KindOf(err)
		out.Message = err.Error()
		return out
	}
	out.Value = value
	return out
}
