package harness

import "github.com/roach88/almanac/internal/ir"

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when the outcome matched Expect and every assertion held.
	Pass bool `json:"pass"`

	// Minimum is the extracted answer; valid only when ErrorCode is empty.
	Minimum int64 `json:"minimum"`

	// ErrorCode is the code of the error the run stopped with, if any.
	ErrorCode string `json:"error_code,omitempty"`

	// RunID is the content-addressed id the run was stored under.
	RunID string `json:"run_id,omitempty"`

	Seed  ir.IntervalSet `json:"seed"`
	Final ir.IntervalSet `json:"final"`

	// Steps is the executor trace, one entry per stage.
	Steps []ir.StageStep `json:"steps"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Steps:  []ir.StageStep{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// step returns the trace entry for the named stage.
func (r *Result) step(stage string) (ir.StageStep, bool) {
	for _, s := range r.Steps {
		if s.Stage == stage {
			return s, true
		}
	}
	return ir.StageStep{}, false
}
