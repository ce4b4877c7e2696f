package almanac

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/roach88/almanac/internal/ir"
)

// state is the parser's position in the document.
type state int

const (
	stateInitial state = iota // before the seeds line
	stateBetween              // after seeds or a closed stage, expecting a heading
	stateInMap                // reading rule lines of an open stage
	stateDone                 // end of input accepted
)

func (s state) String() string {
	switch s {
	case stateInitial:
		return "initial"
	case stateBetween:
		return "between maps"
	case stateInMap:
		return "in map"
	default:
		return "done"
	}
}

// action is what the parser does with a line after a transition.
type action int

const (
	actionNone action = iota
	actionSetSeeds
	actionOpenStage
	actionReopenStage // close the current stage, then open a new one
	actionAddRule
	actionCloseStage
)

// transition is the parser's state machine. It never touches parser data;
// the returned action says what to do with l.
func transition(s state, l line) (state, action, error) {
	switch s {
	case stateInitial:
		switch l.kind {
		case lineBlank:
			return stateInitial, actionNone, nil
		case lineEOF:
			return s, actionNone, malformed(0, CodeMissingSeeds, "input has no seeds line")
		case lineSeeds:
			if l.badToken != "" {
				return s, actionNone, malformed(l.no, CodeBadToken, "seed value %q is not a non-negative integer", l.badToken)
			}
			if len(l.numbers) == 0 {
				return s, actionNone, malformed(l.no, CodeMissingSeeds, "seeds line lists no values")
			}
			return stateBetween, actionSetSeeds, nil
		default:
			return s, actionNone, malformed(l.no, CodeMissingSeeds, "expected seeds line, got %s", l.kind)
		}

	case stateBetween:
		switch l.kind {
		case lineBlank:
			return stateBetween, actionNone, nil
		case lineHeading:
			return stateInMap, actionOpenStage, nil
		case lineEOF:
			return stateDone, actionNone, nil
		case lineOther:
			return s, actionNone, malformed(l.no, CodeBadToken, "token %q outside any map", l.badToken)
		default:
			return s, actionNone, malformed(l.no, CodeUnexpectedLine, "expected map heading, got %s", l.kind)
		}

	case stateInMap:
		switch l.kind {
		case lineNumbers:
			if len(l.numbers) != 3 {
				return s, actionNone, malformed(l.no, CodeTokenCount, "rule needs 3 numbers (dst src len), got %d", len(l.numbers))
			}
			dst, src, length := l.numbers[0], l.numbers[1], l.numbers[2]
			if length == 0 {
				return s, actionNone, malformed(l.no, CodeZeroLength, "rule length must be positive")
			}
			if !ir.SpanFits(src, length) || !ir.SpanFits(dst, length) {
				return s, actionNone, malformed(l.no, CodeOutOfRange, "rule %d %d %d overflows int64", dst, src, length)
			}
			return stateInMap, actionAddRule, nil
		case lineBlank:
			return stateBetween, actionCloseStage, nil
		case lineEOF:
			return stateDone, actionCloseStage, nil
		case lineHeading:
			return stateInMap, actionReopenStage, nil
		case lineOther:
			return s, actionNone, malformed(l.no, CodeBadToken, "rule token %q is not a non-negative integer", l.badToken)
		default:
			return s, actionNone, malformed(l.no, CodeUnexpectedLine, "unexpected %s inside map", l.kind)
		}
	}

	return s, actionNone, fmt.Errorf("almanac: no transition from state %s", s)
}

// Parser reads one almanac document.
type Parser struct {
	lexer *Lexer

	seeds  []int64
	stages []ir.Stage
	names  map[string]int // stage name -> line of its heading
	open   *ir.Stage
}

// NewParser creates a parser that classifies lines with lexer.
func NewParser(lexer *Lexer) *Parser {
	return &Parser{lexer: lexer, names: make(map[string]int)}
}

// Parse reads the whole document from r.
func (p *Parser) Parse(r io.Reader) (*ir.Almanac, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	s := stateInitial
	no := 0
	for scanner.Scan() {
		no++
		l := p.lexer.classify(no, scanner.Text())

		next, act, err := transition(s, l)
		if err != nil {
			return nil, err
		}
		if err := p.perform(act, l); err != nil {
			return nil, err
		}
		s = next
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read almanac: %w", err)
	}

	next, act, err := transition(s, line{kind: lineEOF})
	if err != nil {
		return nil, err
	}
	if err := p.perform(act, line{kind: lineEOF}); err != nil {
		return nil, err
	}
	if next != stateDone {
		return nil, fmt.Errorf("almanac: input ended in state %s", next)
	}

	return &ir.Almanac{
		Seeds:    p.seeds,
		Pipeline: ir.Pipeline{Stages: p.stages},
	}, nil
}

func (p *Parser) perform(act action, l line) error {
	switch act {
	case actionSetSeeds:
		p.seeds = l.numbers
	case actionOpenStage:
		return p.openStage(l)
	case actionReopenStage:
		p.closeStage()
		return p.openStage(l)
	case actionAddRule:
		p.open.Rules = append(p.open.Rules, ir.NewRule(l.numbers[0], l.numbers[1], l.numbers[2]))
	case actionCloseStage:
		p.closeStage()
	}
	return nil
}

func (p *Parser) openStage(l line) error {
	if first, dup := p.names[l.name]; dup {
		return malformed(l.no, CodeDuplicateStage, "stage %q already declared on line %d", l.name, first)
	}
	p.names[l.name] = l.no
	p.open = &ir.Stage{Name: l.name}
	return nil
}

func (p *Parser) closeStage() {
	if p.open == nil {
		return
	}
	p.stages = append(p.stages, *p.open)
	p.open = nil
}

// Parse reads an almanac from r with a fresh lexer.
func Parse(r io.Reader) (*ir.Almanac, error) {
	return NewParser(NewLexer()).Parse(r)
}

// ParseFile reads an almanac from the file at path.
func ParseFile(path string) (*ir.Almanac, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open almanac: %w", err)
	}
	defer f.Close()

	alm, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return alm, nil
}

// SeedSet interprets the almanac's seeds under mode, reporting a dangling
// range value or an interval that overflows int64 as malformed input.
func SeedSet(a *ir.Almanac, mode ir.Mode) (ir.IntervalSet, error) {
	set, err := a.SeedSet(mode)
	var sce *ir.SeedCountError
	if errors.As(err, &sce) {
		return nil, malformed(0, CodeOddSeedCount, "%s", sce.Error())
	}
	var sre *ir.SeedRangeError
	if errors.As(err, &sre) {
		return nil, malformed(0, CodeOutOfRange, "%s", sre.Error())
	}
	return set, err
}
