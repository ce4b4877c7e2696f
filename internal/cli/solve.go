package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/almanac/internal/almanac"
	"github.com/roach88/almanac/internal/engine"
	"github.com/roach88/almanac/internal/ir"
	"github.com/roach88/almanac/internal/store"
)

// ModeBoth runs single mode, then range mode.
const ModeBoth = "both"

// SolveOptions holds flags for the solve command.
type SolveOptions struct {
	*RootOptions
	Mode          string // single | range | both
	Database      string // record runs here when set
	Strict        bool
	RequireStages bool

	// SessionGenerator overrides the session id source (for testing).
	// If nil, defaults to engine.UUIDv7Generator.
	SessionGenerator engine.SessionGenerator
}

// Answer is the outcome of one mode.
type Answer struct {
	Mode     ir.Mode        `json:"mode"`
	Minimum  int64          `json:"minimum"`
	Measure  int64          `json:"measure"`
	RunID    string         `json:"run_id"`
	Recorded bool           `json:"recorded,omitempty"`
	Seed     ir.IntervalSet `json:"-"`
	Final    ir.IntervalSet `json:"-"`
	Steps    []ir.StageStep `json:"-"`
}

// SolveResult is the payload of a solve.
type SolveResult struct {
	Input   string   `json:"input"`
	Session string   `json:"session"`
	Answers []Answer `json:"answers"`
}

// String prints one minimum per line, in mode order.
func (r SolveResult) String() string {
	var b strings.Builder
	for _, a := range r.Answers {
		fmt.Fprintln(&b, a.Minimum)
	}
	return b.String()
}

// NewSolveCommand creates the solve command.
func NewSolveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SolveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "solve [input]",
		Short: "Print the minimum location for each mode",
		Long: `Run the almanac pipeline and print the smallest location start.

In single mode every seed value is its own one-wide interval. In range mode
seed values are read as (start, length) pairs. With --mode both (default)
single mode is printed first, then range mode.

Nothing is printed to stdout unless every requested mode succeeds.

Examples:
  almanac solve
  almanac solve ./input.txt --mode range
  almanac solve ./almanac.cue --db ./history.db`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(opts, inputPath(args), cmd)
		},
	}

	addRunFlags(cmd, opts)
	cmd.Flags().StringVar(&opts.Database, "db", "", "record runs in this SQLite database")

	return cmd
}

// addRunFlags registers the flags shared by solve and trace.
func addRunFlags(cmd *cobra.Command, opts *SolveOptions) {
	cmd.Flags().StringVar(&opts.Mode, "mode", ModeBoth, "seed mode (single|range|both)")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "reject stages with overlapping rule domains")
	cmd.Flags().BoolVar(&opts.RequireStages, "require-stages", false, "reject almanacs without stages")
}

// parseModes expands the --mode flag.
func parseModes(s string) ([]ir.Mode, error) {
	if s == ModeBoth {
		return []ir.Mode{ir.ModeSingle, ir.ModeRange}, nil
	}
	m, err := ir.ParseMode(s)
	if err != nil {
		return nil, fmt.Errorf("%w (or %q)", err, ModeBoth)
	}
	return []ir.Mode{m}, nil
}

func runSolve(opts *SolveOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	modes, err := parseModes(opts.Mode)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --mode", err)
	}

	a, err := LoadAlmanac(path)
	if err != nil {
		return loadExitError(err)
	}
	formatter.VerboseLog("Loaded %s: %d seeds, %d stages", path, len(a.Seeds), len(a.Pipeline.Stages))

	var st *store.Store
	clock := engine.NewClock()
	if opts.Database != "" {
		st, err = store.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				logger.Error("error closing database", "error", closeErr)
			}
		}()

		last, err := st.MaxSeq(cmd.Context())
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read database", err)
		}
		clock = engine.NewClockAt(last)
	}

	result, err := solve(cmd.Context(), a, modes, opts, clock, logger)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to solve", err)
	}
	result.Input = path

	if st != nil {
		if err := recordAnswers(cmd.Context(), st, a, clock, result); err != nil {
			return WrapExitError(ExitFailure, "failed to record runs", err)
		}
	}

	return formatter.Success(result)
}

// solve runs every mode with one shared clock and session.
// The first failing mode aborts the whole solve.
func solve(ctx context.Context, a *ir.Almanac, modes []ir.Mode, opts *SolveOptions, clock engine.Sequencer, logger *slog.Logger) (*SolveResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	engOpts := []engine.Option{
		engine.WithClock(clock),
		engine.WithLogger(logger),
	}
	if opts.SessionGenerator != nil {
		engOpts = append(engOpts, engine.WithSessionGenerator(opts.SessionGenerator))
	}
	if opts.Strict {
		engOpts = append(engOpts, engine.WithStrict())
	}
	if opts.RequireStages {
		engOpts = append(engOpts, engine.WithRequireStages())
	}
	exec := engine.New(a.Pipeline, engOpts...)

	pipelineHash, err := ir.PipelineHash(a.Pipeline)
	if err != nil {
		return nil, err
	}

	result := &SolveResult{Session: exec.NewSession(), Answers: make([]Answer, 0, len(modes))}
	for _, mode := range modes {
		seed, err := almanac.SeedSet(a, mode)
		if err != nil {
			return nil, fmt.Errorf("%s mode: %w", mode, err)
		}

		res, err := exec.Execute(ctx, seed)
		if err != nil {
			return nil, fmt.Errorf("%s mode: %w", mode, err)
		}

		minimum, err := res.MinimumStart()
		if err != nil {
			return nil, fmt.Errorf("%s mode: %w", mode, err)
		}

		runID, err := ir.RunID(pipelineHash, mode, a.Seeds)
		if err != nil {
			return nil, err
		}

		logger.Info("mode solved", "mode", mode, "minimum", minimum, "intervals", len(res.Final))
		result.Answers = append(result.Answers, Answer{
			Mode:    mode,
			Minimum: minimum,
			Measure: res.Final.Measure(),
			RunID:   runID,
			Seed:    res.Seed,
			Final:   res.Final,
			Steps:   res.Steps,
		})
	}
	return result, nil
}

// recordAnswers stores every answer under the session of the solve.
func recordAnswers(ctx context.Context, st *store.Store, a *ir.Almanac, clock engine.Sequencer, result *SolveResult) error {
	if ctx == nil {
		ctx = context.Background()
	}
	pipelineHash, err := ir.PipelineHash(a.Pipeline)
	if err != nil {
		return err
	}

	for i := range result.Answers {
		ans := &result.Answers[i]
		inserted, err := st.Record(ctx, ir.RunRecord{
			ID:            ans.RunID,
			Session:       result.Session,
			PipelineHash:  pipelineHash,
			Mode:          ans.Mode,
			SeedCount:     len(a.Seeds),
			Measure:       ans.Measure,
			Answer:        ans.Minimum,
			Final:         ans.Final,
			Seq:           clock.Next(),
			EngineVersion: ir.EngineVersion,
		}, ans.Steps)
		if err != nil {
			return fmt.Errorf("%s mode: %w", ans.Mode, err)
		}
		ans.Recorded = inserted
	}
	return nil
}
