package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/almanac/internal/engine"
	"github.com/roach88/almanac/internal/ir"
)

// TraceMode is the per-stage trace of one mode.
type TraceMode struct {
	Mode    ir.Mode        `json:"mode"`
	Seed    ir.IntervalSet `json:"seed"`
	Steps   []ir.StageStep `json:"steps"`
	Final   ir.IntervalSet `json:"final,omitempty"`
	Minimum int64          `json:"minimum"`
}

// TraceResult is the payload of the trace command.
type TraceResult struct {
	Input string      `json:"input"`
	Modes []TraceMode `json:"modes"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SolveOptions{RootOptions: rootOpts}
	var showSets bool

	cmd := &cobra.Command{
		Use:   "trace [input]",
		Short: "Show what every stage did to the interval set",
		Long: `Run the pipeline and print one line per stage: how many intervals went in
and came out, the total measure (which every stage preserves) and the
smallest start after the stage.

Examples:
  almanac trace
  almanac trace ./input.txt --mode range --sets
  almanac trace ./almanac.cue --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, inputPath(args), showSets, cmd)
		},
	}

	addRunFlags(cmd, opts)
	cmd.Flags().BoolVar(&showSets, "sets", false, "print the final interval set of each mode")

	return cmd
}

func runTrace(opts *SolveOptions, path string, showSets bool, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	modes, err := parseModes(opts.Mode)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --mode", err)
	}

	a, err := LoadAlmanac(path)
	if err != nil {
		return loadExitError(err)
	}

	solved, err := solve(cmd.Context(), a, modes, opts, engine.NewClock(), newLogger(opts.RootOptions, cmd.ErrOrStderr()))
	if err != nil {
		if opts.Format == "json" {
			_ = formatter.Error(errorCode(err), err.Error(), nil)
		}
		return WrapExitError(ExitFailure, "failed to trace", err)
	}

	result := TraceResult{Input: path, Modes: make([]TraceMode, 0, len(solved.Answers))}
	for _, ans := range solved.Answers {
		tm := TraceMode{Mode: ans.Mode, Seed: ans.Seed, Steps: ans.Steps, Minimum: ans.Minimum}
		if showSets || opts.Format == "json" {
			tm.Final = ans.Final
		}
		result.Modes = append(result.Modes, tm)
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}
	outputTraceText(cmd.OutOrStdout(), result)
	return nil
}

func outputTraceText(w io.Writer, result TraceResult) {
	fmt.Fprintf(w, "Trace for %s\n", result.Input)
	for _, m := range result.Modes {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Mode: %s (%d seed intervals, measure %d)\n", m.Mode, len(m.Seed), m.Seed.Measure())
		fmt.Fprintf(w, "  %-4s %-28s %5s %5s %10s %12s\n", "SEQ", "STAGE", "IN", "OUT", "MEASURE", "MIN")
		for _, s := range m.Steps {
			fmt.Fprintf(w, "  %-4d %-28s %5d %5d %10d %12d\n",
				s.Seq, s.Stage, s.InputCount, s.OutputCount, s.Measure, s.MinStart)
		}
		fmt.Fprintf(w, "Minimum: %d\n", m.Minimum)
		if m.Final != nil {
			fmt.Fprintf(w, "Final:")
			for _, iv := range m.Final {
				fmt.Fprintf(w, " %s", iv)
			}
			fmt.Fprintln(w)
		}
	}
}
