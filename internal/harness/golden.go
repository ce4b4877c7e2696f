package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/almanac/internal/ir"
)

// TraceSnapshot captures what a scenario run produced.
// Everything in it is deterministic, so it serializes byte-identically.
type TraceSnapshot struct {
	ScenarioName string         `json:"scenario_name"`
	Mode         string         `json:"mode"`
	Seed         ir.IntervalSet `json:"seed"`
	Final        ir.IntervalSet `json:"final"`
	Minimum      int64          `json:"minimum"`
	Steps        []ir.StageStep `json:"steps"`
}

// toCanonicalMap lowers the snapshot to values ir.MarshalCanonical accepts.
func (s *TraceSnapshot) toCanonicalMap() map[string]any {
	steps := make([]any, len(s.Steps))
	for i, step := range s.Steps {
		steps[i] = step
	}
	return map[string]any{
		"scenario_name": s.ScenarioName,
		"mode":          s.Mode,
		"seed":          s.Seed,
		"final":         s.Final,
		"minimum":       s.Minimum,
		"steps":         steps,
	}
}

// Snapshot returns the canonical JSON trace of a result.
func Snapshot(scenario *Scenario, result *Result) ([]byte, error) {
	snap := TraceSnapshot{
		ScenarioName: scenario.Name,
		Mode:         scenario.Mode,
		Seed:         result.Seed,
		Final:        result.Final,
		Minimum:      result.Minimum,
		Steps:        result.Steps,
	}
	return ir.MarshalCanonical(snap.toCanonicalMap())
}

// RunWithGolden executes a scenario and compares its trace against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns an error if the scenario cannot run. A trace mismatch or a
// failed expectation fails t.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	for _, msg := range result.Errors {
		t.Errorf("scenario %s: %s", scenario.Name, msg)
	}

	return AssertGolden(t, scenario, result)
}

// AssertGolden compares an already computed result against its golden file.
func AssertGolden(t *testing.T, scenario *Scenario, result *Result) error {
	t.Helper()

	traceJSON, err := Snapshot(scenario, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, traceJSON)

	return nil
}
