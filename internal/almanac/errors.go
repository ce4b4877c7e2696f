package almanac

import (
	"errors"
	"fmt"
)

// Error codes for malformed input.
const (
	CodeMissingSeeds   = "missing_seeds"
	CodeBadToken       = "bad_token"
	CodeTokenCount     = "token_count"
	CodeUnexpectedLine = "unexpected_line"
	CodeDuplicateStage = "duplicate_stage"
	CodeOddSeedCount   = "odd_seed_count"
	CodeZeroLength     = "zero_length"
	CodeOutOfRange     = "out_of_range"
)

// MalformedInputError reports almanac text the parser cannot accept.
// It is always fatal: the engine never runs on partially parsed input.
type MalformedInputError struct {
	Line    int // 1-based; 0 when the error is not tied to a line
	Code    string
	Message string
}

func (e *MalformedInputError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s: %s", e.Line, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsMalformedInput returns true if err is or wraps a *MalformedInputError.
func IsMalformedInput(err error) bool {
	var me *MalformedInputError
	return errors.As(err, &me)
}

func malformed(line int, code, format string, args ...any) *MalformedInputError {
	return &MalformedInputError{Line: line, Code: code, Message: fmt.Sprintf(format, args...)}
}
