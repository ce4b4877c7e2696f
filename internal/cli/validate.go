package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/almanac/internal/almanac"
	"github.com/roach88/almanac/internal/engine"
	"github.com/roach88/almanac/internal/ir"
)

// Issue severities.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// ValidationIssue is one problem found in an almanac.
type ValidationIssue struct {
	Severity string `json:"severity"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Stage    string `json:"stage,omitempty"`
	Line     int    `json:"line,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Input  string            `json:"input"`
	Valid  bool              `json:"valid"`
	Seeds  int               `json:"seeds"`
	Stages int               `json:"stages"`
	Rules  int               `json:"rules"`
	Issues []ValidationIssue `json:"issues,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	var requireStages bool

	cmd := &cobra.Command{
		Use:   "validate [input]",
		Short: "Check an almanac without running it",
		Long: `Parse an almanac and check the rules the engine relies on:
every rule has a positive length and no two rules of a stage overlap.

An odd number of seed values is reported as a warning because only range
mode needs pairs.

Exit codes:
  0 - Valid (warnings allowed)
  1 - Invalid almanac
  2 - Command error (input not found, etc.)`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, inputPath(args), requireStages, cmd)
		},
	}

	cmd.Flags().BoolVar(&requireStages, "require-stages", false, "treat an almanac without stages as invalid")

	return cmd
}

func runValidate(opts *RootOptions, path string, requireStages bool, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	result := ValidationResult{Input: path}

	a, err := LoadAlmanac(path)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) && le.ExitCode() == ExitCommandError {
			return loadExitError(err)
		}
		result.Issues = append(result.Issues, loadIssue(err))
	} else {
		result.Seeds = len(a.Seeds)
		result.Stages = len(a.Pipeline.Stages)
		for _, s := range a.Pipeline.Stages {
			result.Rules += len(s.Rules)
		}
		result.Issues = append(result.Issues, checkAlmanac(a, requireStages)...)
		formatter.VerboseLog("Checked %d stages, %d rules", result.Stages, result.Rules)
	}

	result.Valid = true
	for _, issue := range result.Issues {
		if issue.Severity == SeverityError {
			result.Valid = false
		}
	}

	if opts.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		outputValidateText(cmd.OutOrStdout(), result)
	}

	if !result.Valid {
		return NewExitError(ExitFailure, fmt.Sprintf("%s is invalid", path))
	}
	return nil
}

// checkAlmanac collects every precondition violation, one CheckStage per stage.
func checkAlmanac(a *ir.Almanac, requireStages bool) []ValidationIssue {
	var issues []ValidationIssue

	if len(a.Pipeline.Stages) == 0 {
		severity := SeverityWarning
		if requireStages {
			severity = SeverityError
		}
		issues = append(issues, ValidationIssue{
			Severity: severity,
			Code:     engine.ErrCodeNoStages,
			Message:  "almanac has no stages; every seed maps to itself",
		})
	}

	for _, stage := range a.Pipeline.Stages {
		err := engine.CheckStage(stage)
		var pe *engine.PreconditionError
		if errors.As(err, &pe) {
			issues = append(issues, ValidationIssue{
				Severity: SeverityError,
				Code:     string(pe.Code),
				Message:  pe.Message,
				Stage:    pe.Stage,
			})
		}
	}

	if _, err := almanac.SeedSet(a, ir.ModeRange); err != nil {
		var me *almanac.MalformedInputError
		if errors.As(err, &me) {
			issues = append(issues, ValidationIssue{
				Severity: SeverityWarning,
				Code:     me.Code,
				Message:  me.Message + "; range mode unavailable",
			})
		}
	}

	return issues
}

func loadIssue(err error) ValidationIssue {
	issue := ValidationIssue{Severity: SeverityError, Code: ErrCodeGeneric, Message: err.Error()}
	var le *LoadError
	if errors.As(err, &le) {
		issue.Code = le.Code
		issue.Message = le.Message
		issue.Line = le.Line
		if le.Pos.IsValid() {
			issue.Line = le.Pos.Line()
		}
	}
	return issue
}

func outputValidateText(w io.Writer, result ValidationResult) {
	mark := "✓"
	if !result.Valid {
		mark = "✗"
	}
	fmt.Fprintf(w, "%s %s: %d seeds, %d stages, %d rules\n", mark, result.Input, result.Seeds, result.Stages, result.Rules)
	for _, issue := range result.Issues {
		loc := ""
		switch {
		case issue.Stage != "":
			loc = fmt.Sprintf(" (stage %s)", issue.Stage)
		case issue.Line > 0:
			loc = fmt.Sprintf(" (line %d)", issue.Line)
		}
		fmt.Fprintf(w, "  %s [%s]%s: %s\n", issue.Severity, issue.Code, loc, issue.Message)
	}
}
