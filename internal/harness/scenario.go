package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/almanac/internal/ir"
)

// Scenario defines one almanac run and the checks applied to its outcome.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Input is an inline almanac in the text format.
	// Exactly one of Input and InputFile must be set.
	Input string `yaml:"input,omitempty"`

	// InputFile is a path to a text (.txt) or CUE (.cue) almanac.
	// Relative paths are resolved against the scenario file's directory.
	InputFile string `yaml:"input_file,omitempty"`

	// Mode is the seed interpretation: "single" or "range".
	Mode string `yaml:"mode"`

	// Session is the fixed session id recorded with the run.
	// Defaults to "test-session".
	Session string `yaml:"session,omitempty"`

	// Strict rejects pipelines whose stages have overlapping rule domains.
	Strict bool `yaml:"strict,omitempty"`

	// RequireStages rejects pipelines with no stages.
	RequireStages bool `yaml:"require_stages,omitempty"`

	// Expect describes the outcome of the run.
	Expect ExpectClause `yaml:"expect"`

	// Assertions validate the per-stage trace.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// ExpectClause specifies the expected outcome. Exactly one field is set.
type ExpectClause struct {
	// Minimum is the expected smallest location start.
	Minimum *int64 `yaml:"minimum,omitempty"`

	// Error is the expected error code, e.g. "odd_seed_count" or
	// "OVERLAPPING_DOMAINS".
	Error string `yaml:"error,omitempty"`
}

// Assertion validates the trace of a successful run.
type Assertion struct {
	// Type specifies the assertion type:
	// - "stage_measure": total length after Stage equals Measure
	// - "stage_min": smallest start after Stage equals Min
	// - "stage_count": number of intervals after Stage equals Count
	// - "measure_conserved": every stage preserves the seed measure
	// - "stage_order": stages ran in exactly the order of Stages
	// - "stored_run": the recorded run reads back with the same answer and trace
	Type string `yaml:"type"`

	// Stage names the stage (stage_measure, stage_min, stage_count).
	Stage string `yaml:"stage,omitempty"`

	// Measure is the expected total length (stage_measure).
	Measure *int64 `yaml:"measure,omitempty"`

	// Min is the expected smallest start (stage_min).
	Min *int64 `yaml:"min,omitempty"`

	// Count is the expected number of intervals (stage_count).
	Count *int `yaml:"count,omitempty"`

	// Stages is the expected stage order (stage_order).
	Stages []string `yaml:"stages,omitempty"`
}

// Assertion type constants.
const (
	AssertStageMeasure     = "stage_measure"
	AssertStageMin         = "stage_min"
	AssertStageCount       = "stage_count"
	AssertMeasureConserved = "measure_conserved"
	AssertStageOrder       = "stage_order"
	AssertStoredRun        = "stored_run"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed, contains unknown
// fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:" vs "assertions:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Resolve the input path BEFORE validation so existence is checked on
	// the real location.
	if scenario.InputFile != "" && !filepath.IsAbs(scenario.InputFile) {
		scenario.InputFile = filepath.Join(filepath.Dir(path), scenario.InputFile)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadScenarios loads every *.yaml and *.yml file in dir, sorted by file name.
// The first invalid file aborts the load.
func LoadScenarios(dir string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".yaml" || ext == ".yml" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	scenarios := make([]*Scenario, 0, len(names))
	for _, name := range names {
		s, err := LoadScenario(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	switch {
	case s.Input == "" && s.InputFile == "":
		return fmt.Errorf("one of input or input_file is required")
	case s.Input != "" && s.InputFile != "":
		return fmt.Errorf("input and input_file are mutually exclusive")
	}

	if s.InputFile != "" {
		if _, err := os.Stat(s.InputFile); os.IsNotExist(err) {
			return fmt.Errorf("input file not found: %s", s.InputFile)
		}
	}

	if _, err := ir.ParseMode(s.Mode); err != nil {
		return fmt.Errorf("mode: %w", err)
	}

	if (s.Expect.Minimum == nil) == (s.Expect.Error == "") {
		return fmt.Errorf("expect: exactly one of minimum or error is required")
	}

	if s.Expect.Error != "" && len(s.Assertions) > 0 {
		return fmt.Errorf("assertions cannot be combined with an expected error")
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertStageMeasure:
		if a.Stage == "" || a.Measure == nil {
			return fmt.Errorf("assertions[%d]: %s requires stage and measure", index, a.Type)
		}
	case AssertStageMin:
		if a.Stage == "" || a.Min == nil {
			return fmt.Errorf("assertions[%d]: %s requires stage and min", index, a.Type)
		}
	case AssertStageCount:
		if a.Stage == "" || a.Count == nil {
			return fmt.Errorf("assertions[%d]: %s requires stage and count", index, a.Type)
		}
	case AssertStageOrder:
		if len(a.Stages) == 0 {
			return fmt.Errorf("assertions[%d]: %s requires stages", index, a.Type)
		}
	case AssertMeasureConserved, AssertStoredRun:
	default:
		return fmt.Errorf("assertions[%d]: unknown type %q", index, a.Type)
	}
	return nil
}
