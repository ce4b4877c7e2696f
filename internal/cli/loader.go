package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue/token"

	"github.com/roach88/almanac/internal/almanac"
	"github.com/roach88/almanac/internal/compiler"
	"github.com/roach88/almanac/internal/engine"
	"github.com/roach88/almanac/internal/ir"
)

// DefaultInput is read when a command is given no input path.
const DefaultInput = "input"

// LoadError represents an error that occurred while loading an almanac.
type LoadError struct {
	Code    string
	Message string
	Line    int       // text almanacs; 0 when unknown
	Pos     token.Pos // CUE almanacs
	Err     error
}

func (e *LoadError) Error() string {
	switch {
	case e.Pos.IsValid():
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	case e.Line > 0:
		return fmt.Sprintf("line %d: %s: %s", e.Line, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// ExitCode maps the load failure to a process exit code: a missing file is
// a command error, a bad almanac is a failure.
func (e *LoadError) ExitCode() int {
	if e.Code == ErrCodeNotFound {
		return ExitCommandError
	}
	return ExitFailure
}

// inputPath returns the single positional argument or DefaultInput.
func inputPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return DefaultInput
}

// isCUE reports whether path names a CUE almanac.
func isCUE(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".cue")
}

// LoadAlmanac reads a text or CUE almanac. CUE is chosen by the .cue
// extension; anything else is parsed as text.
func LoadAlmanac(path string) (*ir.Almanac, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("input not found: %s", path), Err: err}
		}
		return nil, &LoadError{Code: ErrCodeGeneric, Message: err.Error(), Err: err}
	}

	var (
		a   *ir.Almanac
		err error
	)
	if isCUE(path) {
		a, err = compiler.New().LoadFile(path)
	} else {
		a, err = almanac.ParseFile(path)
	}
	if err != nil {
		return nil, toLoadError(err)
	}
	return a, nil
}

// toLoadError classifies a parser or compiler failure.
func toLoadError(err error) *LoadError {
	var (
		malformed *almanac.MalformedInputError
		compile   *compiler.CompileError
	)
	switch {
	case errors.As(err, &malformed):
		return &LoadError{Code: ErrCodeMalformed, Message: malformed.Code + ": " + malformed.Message, Line: malformed.Line, Err: err}
	case errors.As(err, &compile):
		return &LoadError{Code: ErrCodeCompile, Message: compile.Message, Pos: compile.Pos, Err: err}
	}
	return &LoadError{Code: ErrCodeGeneric, Message: err.Error(), Err: err}
}

// errorCode picks the CLIError code for an engine or load failure.
func errorCode(err error) string {
	var le *LoadError
	switch {
	case errors.As(err, &le):
		return le.Code
	case almanac.IsMalformedInput(err):
		return ErrCodeMalformed
	case engine.IsPreconditionError(err):
		return ErrCodePrecondition
	case engine.IsPipelineError(err):
		return ErrCodePipeline
	}
	return ErrCodeGeneric
}

// loadExitError wraps a LoadAlmanac failure with its exit code.
func loadExitError(err error) *ExitError {
	code := ExitFailure
	var le *LoadError
	if errors.As(err, &le) {
		code = le.ExitCode()
	}
	return WrapExitError(code, "failed to load almanac", err)
}
