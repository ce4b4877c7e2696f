package compiler

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/almanac/internal/ir"
)

// CompileError reports a CUE almanac that cannot become an ir.Almanac.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Compiler holds a CUE context and the compiled schema.
// Build one per process and reuse it; it is not safe for concurrent use.
type Compiler struct {
	ctx    *cue.Context
	schema cue.Value
}

// New creates a Compiler.
func New() *Compiler {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		panic(fmt.Sprintf("compiler: invalid embedded schema: %v", err))
	}
	return &Compiler{
		ctx:    ctx,
		schema: schema.LookupPath(cue.ParsePath("#Almanac")),
	}
}

// CompileBytes compiles CUE source. filename is used for error positions.
func (c *Compiler) CompileBytes(filename string, src []byte) (*ir.Almanac, error) {
	v := c.ctx.CompileBytes(src, cue.Filename(filename))
	return c.CompileAlmanac(v)
}

// LoadFile reads and compiles the CUE almanac at path.
func (c *Compiler) LoadFile(path string) (*ir.Almanac, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read CUE almanac: %w", err)
	}
	return c.CompileBytes(path, src)
}

// CompileAlmanac validates v against the schema and extracts the almanac.
func (c *Compiler) CompileAlmanac(v cue.Value) (*ir.Almanac, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	unified := c.schema.Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	alm := &ir.Almanac{}

	seeds, err := parseInts(unified.LookupPath(cue.ParsePath("seeds")))
	if err != nil {
		return nil, err
	}
	alm.Seeds = seeds

	stages, err := parseStages(unified.LookupPath(cue.ParsePath("stages")))
	if err != nil {
		return nil, err
	}
	alm.Pipeline = ir.Pipeline{Stages: stages}

	return alm, nil
}

func parseInts(v cue.Value) ([]int64, error) {
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var out []int64
	for iter.Next() {
		n, err := iter.Value().Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		out = append(out, n)
	}
	return out, nil
}

func parseStages(v cue.Value) ([]ir.Stage, error) {
	if !v.Exists() {
		return nil, nil
	}

	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var stages []ir.Stage
	seen := make(map[string]bool)
	for iter.Next() {
		sv := iter.Value()

		name, err := sv.LookupPath(cue.ParsePath("name")).String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		if seen[name] {
			return nil, &CompileError{
				Field:   "stages",
				Message: fmt.Sprintf("stage %q declared twice", name),
				Pos:     sv.Pos(),
			}
		}
		seen[name] = true

		rules, err := parseRules(sv.LookupPath(cue.ParsePath("rules")))
		if err != nil {
			return nil, err
		}
		stages = append(stages, ir.Stage{Name: name, Rules: rules})
	}
	return stages, nil
}

func parseRules(v cue.Value) ([]ir.Rule, error) {
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var rules []ir.Rule
	for iter.Next() {
		rv := iter.Value()
		var nums [3]int64
		for i, field := range []string{"dst", "src", "len"} {
			n, err := rv.LookupPath(cue.ParsePath(field)).Int64()
			if err != nil {
				return nil, formatCUEError(err)
			}
			nums[i] = n
		}
		dst, src, length := nums[0], nums[1], nums[2]
		if !ir.SpanFits(src, length) || !ir.SpanFits(dst, length) {
			return nil, &CompileError{
				Field:   "rules",
				Message: fmt.Sprintf("rule {dst: %d, src: %d, len: %d} overflows int64", dst, src, length),
				Pos:     rv.Pos(),
			}
		}
		rules = append(rules, ir.NewRule(dst, src, length))
	}
	return rules, nil
}

// formatCUEError converts a CUE error into a *CompileError, keeping the
// position of the first error when CUE reports one.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &CompileError{Field: "cue", Message: err.Error()}
	}

	first := errs[0]
	ce := &CompileError{Field: "cue", Message: first.Error()}
	if positions := errors.Positions(first); len(positions) > 0 {
		ce.Pos = positions[0]
	}
	return ce
}
