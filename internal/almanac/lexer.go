package almanac

import (
	"regexp"
	"strconv"
	"strings"
)

// lineKind classifies one input line.
type lineKind int

const (
	lineBlank lineKind = iota
	lineSeeds
	lineHeading
	lineNumbers
	lineOther
	lineEOF // synthetic, sent once after the last line
)

func (k lineKind) String() string {
	switch k {
	case lineBlank:
		return "blank"
	case lineSeeds:
		return "seeds"
	case lineHeading:
		return "map heading"
	case lineNumbers:
		return "numbers"
	case lineEOF:
		return "end of input"
	default:
		return "text"
	}
}

// line is a classified input line.
type line struct {
	no       int
	kind     lineKind
	name     string  // lineHeading
	numbers  []int64 // lineSeeds, lineNumbers
	badToken string  // lineOther, or lineSeeds with a non-numeric value
	text     string
}

// Lexer classifies lines. It holds only compiled patterns and is safe to
// share; build it once with NewLexer and pass it to every Parser.
type Lexer struct {
	seeds   *regexp.Regexp
	heading *regexp.Regexp
	number  *regexp.Regexp
}

// NewLexer compiles the line patterns.
func NewLexer() *Lexer {
	return &Lexer{
		seeds:   regexp.MustCompile(`^\s*seeds:(.*)$`),
		heading: regexp.MustCompile(`^\s*(\S+)\s+map:\s*$`),
		number:  regexp.MustCompile(`^[0-9]+$`),
	}
}

// classify turns raw text into a line.
func (lx *Lexer) classify(no int, text string) line {
	l := line{no: no, text: text}

	if strings.TrimSpace(text) == "" {
		l.kind = lineBlank
		return l
	}

	if m := lx.seeds.FindStringSubmatch(text); m != nil {
		l.kind = lineSeeds
		l.numbers, l.badToken = lx.numbers(strings.Fields(m[1]))
		return l
	}

	if m := lx.heading.FindStringSubmatch(text); m != nil {
		l.kind = lineHeading
		l.name = m[1]
		return l
	}

	nums, bad := lx.numbers(strings.Fields(text))
	if bad != "" {
		l.kind = lineOther
		l.badToken = bad
		return l
	}
	l.kind = lineNumbers
	l.numbers = nums
	return l
}

// numbers parses non-negative decimal tokens. It returns the first token
// that is not one, or that overflows int64.
func (lx *Lexer) numbers(tokens []string) ([]int64, string) {
	out := make([]int64, 0, len(tokens))
	for _, tok := range tokens {
		if !lx.number.MatchString(tok) {
			return nil, tok
		}
		v, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			return nil, tok
		}
		out = append(out, v)
	}
	return out, ""
}
