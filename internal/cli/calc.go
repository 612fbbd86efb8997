package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/dtimer/internal/engine"
	"github.com/roach88/dtimer/internal/sweep"
	"github.com/roach88/dtimer/internal/timer"
)

// CalcOptions holds flags for the calc command.
type CalcOptions struct {
	*RootOptions
	Frequency frequencyValue
	Delay     delayValue
	Simulate  bool
	Budget    uint64
}

// CalcResult describes one computed timer configuration.
type CalcResult struct {
	Frequency     string `json:"frequency"`
	Delay         string `json:"delay"`
	DelayEncoding string `json:"delay_encoding"`
	FrequencyHz   uint64 `json:"frequency_hz"`
	PeriodNs      uint64 `json:"period_ns"`
	DelayNs       int64  `json:"delay_ns"`
	Cycles        uint64 `json:"cycles"`

	// Simulated is set when --simulate ran the counter to expiry.
	Simulated     bool   `json:"simulated,omitempty"`
	ObservedTicks uint64 `json:"observed_ticks,omitempty"`
}

func (r CalcResult) renderText(w io.Writer) {
	fmt.Fprintf(w, "Frequency: %s (%d Hz, period %d ns)\n",
		timer.FormatFrequency(r.FrequencyHz), r.FrequencyHz, r.PeriodNs)
	fmt.Fprintf(w, "Delay:     %s [%s]\n", formatNanos(r.DelayNs), r.DelayEncoding)
	fmt.Fprintf(w, "Cycles:    %s\n", formatCycles(r.Cycles))
	if r.Simulated {
		fmt.Fprintf(w, "Simulated: expired after %s ticks\n", formatCycles(r.ObservedTicks))
	}
}

// NewCalcCommand creates the calc command.
func NewCalcCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CalcOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "calc --freq <frequency> --delay <delay>",
		Short: "Compute the cycle count for a delay",
		Long: `Validate a frequency and delay and compute the number of clock cycles
the timer counts before expiring: ceil(delay_ns * frequency_hz / 1e9).

With --simulate, a counter is triggered and ticked until it expires, and
the observed tick count is reported alongside the computed one.

Exit codes:
  0 - Configuration accepted
  1 - Configuration rejected (error kind in the output)
  2 - Command error

Examples:
  dtimer calc --freq 50MHz --delay 100us
  dtimer calc --freq 1000 --delay 10000000 --simulate`,
		Args:          exactArgs(0),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalc(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().Var(&opts.Frequency, "freq", "clock frequency, e.g. 50000000 or 50MHz (required)")
	cmd.Flags().Var(&opts.Delay, "delay", "delay, raw nanoseconds or a unit string such as 100us (required)")
	cmd.Flags().BoolVar(&opts.Simulate, "simulate", false, "run a simulated counter to expiry")
	cmd.Flags().Uint64Var(&opts.Budget, "budget", engine.DefaultTickBudget, "maximum ticks to simulate")
	_ = cmd.MarkFlagRequired("freq")
	_ = cmd.MarkFlagRequired("delay")

	return cmd
}

func runCalc(ctx context.Context, opts *CalcOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	cfg, err := timer.ConfigureText(opts.Frequency.String(), opts.Delay.tok)
	if err != nil {
		kind, ok := timer.KindOf(err)
		if !ok {
			return WrapExitError(ExitCommandError, "configuration failed", err)
		}
		if outErr := formatter.Error(string(kind), err.Error(), nil); outErr != nil {
			return outErr
		}
		return WrapExitError(ExitFailure, "configuration rejected", err)
	}

	result := CalcResult{
		Frequency:     opts.Frequency.String(),
		Delay:         opts.Delay.String(),
		DelayEncoding: sweep.DelayEncoding(opts.Delay.tok),
		FrequencyHz:   cfg.Clock().FrequencyHz,
		PeriodNs:      cfg.Clock().Period(),
		DelayNs:       cfg.Delay().Nanoseconds,
		Cycles:        timer.Cycles(cfg),
	}

	if opts.Simulate {
		sim := engine.NewSimulator(cfg, engine.WithTickBudget(opts.Budget), engine.WithLogger(logger))
		observed, err := sim.RunToExpiry(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "simulation failed", err)
		}
		result.Simulated = true
		result.ObservedTicks = observed
		logger.Debug("simulated", "cycles", result.Cycles, "observed", observed)
	}

	return formatter.Success(result)
}
