package harness

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/roach88/almanac/internal/ir"
	"github.com/roach88/almanac/internal/store"
)

// AssertionError is returned when an assertion fails.
// It carries the full trace to help debug the failure.
type AssertionError struct {
	Type     string         // Assertion type for categorization
	Expected string         // Human-readable expected outcome
	Actual   string         // Human-readable actual outcome
	Steps    []ir.StageStep // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for _, s := range e.Steps {
		fmt.Fprintf(&buf, "  [%d] %s in=%d out=%d measure=%d min=%d\n",
			s.Seq, s.Stage, s.InputCount, s.OutputCount, s.Measure, s.MinStart)
	}

	return buf.String()
}

// AssertionContext carries what store-backed assertions need.
type AssertionContext struct {
	Store *store.Store
	Ctx   context.Context
	RunID string
}

func missingStage(result *Result, a Assertion) error {
	return &AssertionError{
		Type:     a.Type,
		Expected: fmt.Sprintf("stage %q in trace", a.Stage),
		Actual:   "not found in trace",
		Steps:    result.Steps,
	}
}

func assertStageMeasure(result *Result, a Assertion) error {
	step, ok := result.step(a.Stage)
	if !ok {
		return missingStage(result, a)
	}
	if step.Measure != *a.Measure {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("measure %d after %s", *a.Measure, a.Stage),
			Actual:   fmt.Sprintf("measure %d", step.Measure),
			Steps:    result.Steps,
		}
	}
	return nil
}

func assertStageMin(result *Result, a Assertion) error {
	step, ok := result.step(a.Stage)
	if !ok {
		return missingStage(result, a)
	}
	if step.OutputCount == 0 || step.MinStart != *a.Min {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("min start %d after %s", *a.Min, a.Stage),
			Actual:   fmt.Sprintf("min start %d over %d intervals", step.MinStart, step.OutputCount),
			Steps:    result.Steps,
		}
	}
	return nil
}

func assertStageCount(result *Result, a Assertion) error {
	step, ok := result.step(a.Stage)
	if !ok {
		return missingStage(result, a)
	}
	if step.OutputCount != *a.Count {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%d intervals after %s", *a.Count, a.Stage),
			Actual:   fmt.Sprintf("%d intervals", step.OutputCount),
			Steps:    result.Steps,
		}
	}
	return nil
}

// assertMeasureConserved checks that no stage changed the total length.
func assertMeasureConserved(result *Result, a Assertion) error {
	want := result.Seed.Measure()
	for _, s := range result.Steps {
		if s.Measure != want {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("measure %d at every stage", want),
				Actual:   fmt.Sprintf("measure %d after %s", s.Measure, s.Stage),
				Steps:    result.Steps,
			}
		}
	}
	return nil
}

// assertStageOrder checks the trace visits exactly the listed stages, in order.
func assertStageOrder(result *Result, a Assertion) error {
	got := make([]string, len(result.Steps))
	for i, s := range result.Steps {
		got[i] = s.Stage
	}
	if !reflect.DeepEqual(got, a.Stages) {
		return &AssertionError{
			Type:     a.Type,
			Expected: strings.Join(a.Stages, " -> "),
			Actual:   strings.Join(got, " -> "),
			Steps:    result.Steps,
		}
	}
	return nil
}

// assertStoredRun reads the run back from the store and compares it with
// what the executor returned.
func assertStoredRun(result *Result, a Assertion, actx *AssertionContext) error {
	if actx == nil || actx.Store == nil {
		return fmt.Errorf("%s: no store available", a.Type)
	}

	run, err := actx.Store.ReadRun(actx.Ctx, actx.RunID)
	if err != nil {
		return fmt.Errorf("%s: %w", a.Type, err)
	}
	if run.Answer != result.Minimum {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("stored answer %d", result.Minimum),
			Actual:   fmt.Sprintf("stored answer %d", run.Answer),
			Steps:    result.Steps,
		}
	}

	steps, err := actx.Store.ReadSteps(actx.Ctx, actx.RunID)
	if err != nil {
		return fmt.Errorf("%s: %w", a.Type, err)
	}
	if !reflect.DeepEqual(steps, result.Steps) {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%d stored steps matching the trace", len(result.Steps)),
			Actual:   fmt.Sprintf("%d stored steps: %v", len(steps), steps),
			Steps:    result.Steps,
		}
	}
	return nil
}

// EvaluateAssertions runs every assertion and returns the failure messages.
// All assertions are evaluated even after a failure.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errs []string
	for i, a := range assertions {
		var err error
		switch a.Type {
		case AssertStageMeasure:
			err = assertStageMeasure(result, a)
		case AssertStageMin:
			err = assertStageMin(result, a)
		case AssertStageCount:
			err = assertStageCount(result, a)
		case AssertMeasureConserved:
			err = assertMeasureConserved(result, a)
		case AssertStageOrder:
			err = assertStageOrder(result, a)
		case AssertStoredRun:
			err = assertStoredRun(result, a, actx)
		default:
			err = fmt.Errorf("unknown assertion type %q", a.Type)
		}
		if err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}
