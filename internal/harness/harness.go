package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/roach88/almanac/internal/almanac"
	"github.com/roach88/almanac/internal/compiler"
	"github.com/roach88/almanac/internal/engine"
	"github.com/roach88/almanac/internal/ir"
	"github.com/roach88/almanac/internal/store"
	"github.com/roach88/almanac/internal/testutil"
)

// Harness holds the deterministic collaborators of one scenario run.
type Harness struct {
	store      *store.Store
	clock      *testutil.DeterministicClock
	sessionGen *testutil.FixedSessionGenerator
	logger     *slog.Logger
}

// Run executes a scenario with a background context.
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
//  1. Load the almanac (text or CUE)
//  2. Build the seed set for the scenario mode
//  3. Execute the pipeline with a deterministic clock
//  4. Extract the minimum and record the run in the store
//  5. Compare against Expect and evaluate assertions
//
// Errors produced by the almanac itself (malformed input, precondition
// violations) are outcomes, compared against Expect.Error. The returned error
// is reserved for harness failures such as a store that will not open.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{
		store:      st,
		clock:      testutil.NewDeterministicClock(),
		sessionGen: testutil.NewFixedSessionGenerator(scenario.Session),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	result := NewResult()
	runErr := h.execute(ctx, scenario, result)
	if runErr != nil {
		if isHarnessError(runErr) {
			return nil, runErr
		}
		result.ErrorCode = ErrorCode(runErr)
	}

	h.checkExpect(scenario, runErr, result)
	if runErr != nil {
		return result, nil
	}

	actx := &AssertionContext{Store: st, Ctx: ctx, RunID: result.RunID}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(msg)
	}

	return result, nil
}

func (h *Harness) execute(ctx context.Context, scenario *Scenario, result *Result) error {
	a, err := loadInput(scenario)
	if err != nil {
		return err
	}

	mode, err := ir.ParseMode(scenario.Mode)
	if err != nil {
		return err
	}

	seed, err := almanac.SeedSet(a, mode)
	if err != nil {
		return err
	}
	result.Seed = seed

	opts := []engine.Option{
		engine.WithClock(h.clock),
		engine.WithSessionGenerator(h.sessionGen),
		engine.WithLogger(h.logger),
	}
	if scenario.Strict {
		opts = append(opts, engine.WithStrict())
	}
	if scenario.RequireStages {
		opts = append(opts, engine.WithRequireStages())
	}
	exec := engine.New(a.Pipeline, opts...)

	res, err := exec.Execute(ctx, seed)
	if err != nil {
		return err
	}
	result.Steps = res.Steps
	result.Final = res.Final

	minimum, err := res.MinimumStart()
	if err != nil {
		return err
	}
	result.Minimum = minimum

	return h.record(ctx, exec, a, mode, res, result)
}

// record stores the run so stored_run assertions can read it back.
func (h *Harness) record(ctx context.Context, exec *engine.Executor, a *ir.Almanac, mode ir.Mode, res *engine.Result, result *Result) error {
	pipelineHash, err := ir.PipelineHash(a.Pipeline)
	if err != nil {
		return harnessError{err}
	}
	runID, err := ir.RunID(pipelineHash, mode, a.Seeds)
	if err != nil {
		return harnessError{err}
	}

	run := ir.RunRecord{
		ID:            runID,
		Session:       exec.NewSession(),
		PipelineHash:  pipelineHash,
		Mode:          mode,
		SeedCount:     len(a.Seeds),
		Measure:       res.Final.Measure(),
		Answer:        result.Minimum,
		Final:         res.Final,
		Seq:           h.clock.Next(),
		EngineVersion: ir.EngineVersion,
	}
	if _, err := h.store.Record(ctx, run, res.Steps); err != nil {
		return harnessError{fmt.Errorf("record run: %w", err)}
	}
	result.RunID = runID
	return nil
}

func (h *Harness) checkExpect(scenario *Scenario, runErr error, result *Result) {
	want := scenario.Expect
	switch {
	case want.Error != "" && runErr == nil:
		result.AddError(fmt.Sprintf("expected error %s, run succeeded with minimum %d", want.Error, result.Minimum))
	case want.Error != "" && result.ErrorCode != want.Error:
		result.AddError(fmt.Sprintf("expected error %s, got %s: %v", want.Error, result.ErrorCode, runErr))
	case want.Error == "" && runErr != nil:
		result.AddError(fmt.Sprintf("unexpected error: %v", runErr))
	case want.Minimum != nil && *want.Minimum != result.Minimum:
		result.AddError(fmt.Sprintf("minimum: expected %d, got %d", *want.Minimum, result.Minimum))
	}
}

func loadInput(scenario *Scenario) (*ir.Almanac, error) {
	if scenario.Input != "" {
		return almanac.Parse(strings.NewReader(scenario.Input))
	}
	if strings.EqualFold(filepath.Ext(scenario.InputFile), ".cue") {
		return compiler.New().LoadFile(scenario.InputFile)
	}
	return almanac.ParseFile(scenario.InputFile)
}

// harnessError marks failures of the harness itself rather than the almanac.
type harnessError struct{ err error }

func (e harnessError) Error() string { return e.err.Error() }
func (e harnessError) Unwrap() error { return e.err }

func isHarnessError(err error) bool {
	var he harnessError
	return errors.As(err, &he)
}

// Error codes for failures that carry no code of their own.
const (
	CodeCompileError = "compile_error"
	CodeIOError      = "io_error"
	CodeCanceled     = "canceled"
	CodeUnknown      = "error"
)

// ErrorCode maps an error from loading or running an almanac to a stable code.
func ErrorCode(err error) string {
	var (
		malformed *almanac.MalformedInputError
		precond   *engine.PreconditionError
		empty     *engine.EmptySetError
		pipeline  *engine.PipelineError
		compile   *compiler.CompileError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &malformed):
		return malformed.Code
	case errors.As(err, &precond):
		return string(precond.Code)
	case errors.As(err, &empty):
		return "EMPTY_SET"
	case errors.As(err, &pipeline):
		return pipeline.Code
	case errors.As(err, &compile):
		return CodeCompileError
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return CodeCanceled
	case isPathError(err):
		return CodeIOError
	}
	return CodeUnknown
}

func isPathError(err error) bool {
	var pe *fs.PathError
	return errors.As(err, &pe)
}
