package engine

import (
	"errors"
	"fmt"
)

// PreconditionError reports a caller or producer bug detected by the engine.
//
// Precondition errors include:
//   - Overlapping rule domains within one Stage
//   - Rules with a non-positive length
//
// These are programmer errors, not user errors. They are never retried.
type PreconditionError struct {
	// Code identifies the violation.
	Code PreconditionCode

	// Message is a human-readable description.
	Message string

	// Stage names the offending stage, if any.
	Stage string

	// Details contains additional context.
	Details map[string]string
}

// PreconditionCode categorizes precondition violations.
type PreconditionCode string

const (
	// ErrCodeOverlappingDomains indicates two rules of one stage share values.
	ErrCodeOverlappingDomains PreconditionCode = "OVERLAPPING_DOMAINS"

	// ErrCodeNonPositiveLength indicates a rule whose domain is empty or reversed.
	ErrCodeNonPositiveLength PreconditionCode = "NON_POSITIVE_LENGTH"
)

// Error implements the error interface.
func (e *PreconditionError) Error() string {
	if e.Stage != "" {
		return fmt.Sprintf("%s: %s (stage=%s)", e.Code, e.Message, e.Stage)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// EmptySetError is returned when a result is extracted from an empty set.
// The pass-through rule of Apply preserves measure, so an empty final set
// means the caller seeded the pipeline with nothing.
type EmptySetError struct {
	// Operation names the extraction that was attempted.
	Operation string
}

func (e *EmptySetError) Error() string {
	return fmt.Sprintf("EMPTY_SET: %s called on an empty interval set", e.Operation)
}

// PipelineError reports a pipeline that the caller's policy rejects.
type PipelineError struct {
	Code    string
	Message string
}

// ErrCodeNoStages indicates a pipeline with zero stages when at least one
// was required.
const ErrCodeNoStages = "NO_STAGES"

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsPreconditionError returns true for precondition violations, including
// extraction from an empty set.
// Uses errors.As to handle wrapped errors.
func IsPreconditionError(err error) bool {
	var pe *PreconditionError
	if errors.As(err, &pe) {
		return true
	}
	var ee *EmptySetError
	return errors.As(err, &ee)
}

// IsPipelineError returns true if the error is a PipelineError.
func IsPipelineError(err error) bool {
	var pe *PipelineError
	return errors.As(err, &pe)
}

// NewOverlapError creates a PreconditionError for two overlapping rules.
func NewOverlapError(stage string, i, j int, shared fmt.Stringer) *PreconditionError {
	return &PreconditionError{
		Code:    ErrCodeOverlappingDomains,
		Message: fmt.Sprintf("rules %d and %d share %s", i, j, shared),
		Stage:   stage,
		Details: map[string]string{
			"rule_a": fmt.Sprintf("%d", i),
			"rule_b": fmt.Sprintf("%d", j),
		},
	}
}

// NewLengthError creates a PreconditionError for a rule with length <= 0.
func NewLengthError(stage string, i int, length int64) *PreconditionError {
	return &PreconditionError{
		Code:    ErrCodeNonPositiveLength,
		Message: fmt.Sprintf("rule %d has length %d", i, length),
		Stage:   stage,
		Details: map[string]string{
			"rule":   fmt.Sprintf("%d", i),
			"length": fmt.Sprintf("%d", length),
		},
	}
}
