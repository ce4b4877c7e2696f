package ir

import "fmt"

// Mode selects how the seeds line is interpreted.
type Mode string

const (
	// ModeSingle turns every seed value v into the unit interval [v, v+1).
	ModeSingle Mode = "single"

	// ModeRange consumes seed values in (start, length) pairs.
	ModeRange Mode = "range"
)

// ValidModes lists the accepted modes in reporting order.
var ValidModes = []Mode{ModeSingle, ModeRange}

// ParseMode converts a flag or YAML value to a Mode.
func ParseMode(s string) (Mode, error) {
	for _, m := range ValidModes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("invalid mode %q: must be one of %v", s, ValidModes)
}

// Almanac is the structured data handed to the engine by a parser:
// the raw seed values and the pipeline of stages.
type Almanac struct {
	Seeds    []int64  `json:"seeds"`
	Pipeline Pipeline `json:"pipeline"`
}

// SeedCountError reports a range-mode seed list with a dangling value.
type SeedCountError struct {
	Count int
}

func (e *SeedCountError) Error() string {
	return fmt.Sprintf("range mode needs (start, length) pairs, got %d seed values", e.Count)
}

// SeedRangeError reports a seed interval whose end does not fit in int64.
type SeedRangeError struct {
	Start  int64
	Length int64
}

func (e *SeedRangeError) Error() string {
	return fmt.Sprintf("seed interval [%d, %d+%d) overflows int64", e.Start, e.Start, e.Length)
}

// SeedSet interprets the seed values under mode.
//
// Range pairs with zero length produce empty intervals and are dropped.
func (a *Almanac) SeedSet(mode Mode) (IntervalSet, error) {
	switch mode {
	case ModeSingle:
		set := make(IntervalSet, 0, len(a.Seeds))
		for _, v := range a.Seeds {
			if !SpanFits(v, 1) {
				return nil, &SeedRangeError{Start: v, Length: 1}
			}
			set = append(set, Unit(v))
		}
		return set, nil
	case ModeRange:
		if len(a.Seeds)%2 != 0 {
			return nil, &SeedCountError{Count: len(a.Seeds)}
		}
		set := make(IntervalSet, 0, len(a.Seeds)/2)
		for i := 0; i < len(a.Seeds); i += 2 {
			start, length := a.Seeds[i], a.Seeds[i+1]
			if !SpanFits(start, length) {
				return nil, &SeedRangeError{Start: start, Length: length}
			}
			iv := Span(start, length)
			if iv.IsEmpty() {
				continue
			}
			set = append(set, iv)
		}
		return set, nil
	default:
		return nil, fmt.Errorf("invalid mode %q", mode)
	}
}
