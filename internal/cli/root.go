package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the almanac CLI.
//
// Run without a subcommand it behaves like "solve --mode both": it reads the
// input almanac and prints the single-mode and range-mode minimums on two
// lines.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}
	solveOpts := &SolveOptions{RootOptions: opts, Mode: ModeBoth}

	cmd := &cobra.Command{
		Use:   "almanac [input]",
		Short: "Almanac - interval remapping pipeline",
		Long: `Push seed values through an almanac's chain of remapping stages and
report the smallest resulting location.

The input is a text almanac ("seeds:" line followed by "<name> map:" blocks)
or a CUE document with .cue extension. It defaults to the file "input".`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(solveOpts, inputPath(args), cmd)
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewSolveCommand(opts))
	cmd.AddCommand(NewTraceCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// newLogger builds the command logger. Diagnostics go to w (stderr) so
// stdout carries only answers; --verbose enables per-stage debug lines.
func newLogger(opts *RootOptions, w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if opts.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
