package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/almanac/internal/ir"
	"github.com/roach88/almanac/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Session  string
	RunID    string
}

// HistoryResult is the payload of the history command.
type HistoryResult struct {
	Runs  []ir.RunRecord `json:"runs"`
	Steps []ir.StageStep `json:"steps,omitempty"` // only with --run
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List runs recorded with solve --db",
		Long: `List recorded runs in logical order.

With --run, show one run together with its per-stage trace.

Examples:
  almanac history --db ./history.db
  almanac history --db ./history.db --session 0190...
  almanac history --db ./history.db --run 3f2a... --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.Session, "session", "", "only list runs of this session")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "show a single run and its trace")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	// Opening would create an empty database; history only reads.
	if _, err := os.Stat(opts.Database); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("database not found: %s", opts.Database))
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	var result HistoryResult

	if opts.RunID != "" {
		run, err := st.ReadRun(ctx, opts.RunID)
		if err != nil {
			return WrapExitError(ExitFailure, "failed to read run", err)
		}
		steps, err := st.ReadSteps(ctx, opts.RunID)
		if err != nil {
			return WrapExitError(ExitFailure, "failed to read steps", err)
		}
		result = HistoryResult{Runs: []ir.RunRecord{run}, Steps: steps}
	} else {
		runs, err := st.ListRuns(ctx, opts.Session)
		if err != nil {
			return WrapExitError(ExitFailure, "failed to list runs", err)
		}
		result = HistoryResult{Runs: runs}
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}
	outputHistoryText(cmd.OutOrStdout(), result)
	return nil
}

func outputHistoryText(w io.Writer, result HistoryResult) {
	if len(result.Runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return
	}

	fmt.Fprintf(w, "%-6s %-12s %-6s %6s %10s %s\n", "SEQ", "RUN", "MODE", "SEEDS", "MINIMUM", "SESSION")
	for _, r := range result.Runs {
		fmt.Fprintf(w, "%-6d %-12s %-6s %6d %10d %s\n", r.Seq, truncateID(r.ID), r.Mode, r.SeedCount, r.Answer, r.Session)
	}

	if len(result.Steps) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Steps:")
		for _, s := range result.Steps {
			fmt.Fprintf(w, "  [%d] %s in=%d out=%d measure=%d min=%d\n",
				s.Seq, s.Stage, s.InputCount, s.OutputCount, s.Measure, s.MinStart)
		}
	}
}

// truncateID shortens a hash for display.
func truncateID(id string) string {
	if len(id) <= 12 {
		return id
	}
	return id[:12]
}
