package ir

import (
	"fmt"
	"math"
)

// Interval is a half-open range of integers [Start, End).
//
// Invariant: Start <= End. An Interval with Start == End is empty; producers
// must discard empty intervals rather than propagate them downstream.
type Interval struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// NewInterval returns [start, end).
// Panics if start > end - a reversed interval is a programmer error.
func NewInterval(start, end int64) Interval {
	if start > end {
		panic(fmt.Sprintf("ir: reversed interval [%d, %d)", start, end))
	}
	return Interval{Start: start, End: end}
}

// Unit returns the single-value interval [v, v+1).
// The caller keeps v below math.MaxInt64; see SpanFits.
func Unit(v int64) Interval {
	return Interval{Start: v, End: v + 1}
}

// Span returns [start, start+length).
// Panics on negative length. The caller checks SpanFits first when the
// values come from input.
func Span(start, length int64) Interval {
	return NewInterval(start, start+length)
}

// SpanFits reports whether [start, start+length) is representable: length is
// non-negative and start+length does not overflow int64.
func SpanFits(start, length int64) bool {
	return length >= 0 && start <= math.MaxInt64-length
}

// Len returns the number of integers in the interval.
func (i Interval) Len() int64 {
	return i.End - i.Start
}

// IsEmpty reports whether the interval contains no integers.
func (i Interval) IsEmpty() bool {
	return i.End <= i.Start
}

// Contains reports whether v lies in [Start, End).
func (i Interval) Contains(v int64) bool {
	return i.Start <= v && v < i.End
}

// Overlaps reports whether i and o share at least one integer.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start < o.End && o.Start < i.End
}

// Intersect returns the intersection of i and o.
// If they do not overlap, the result has unspecified bounds but Len() == 0.
func (i Interval) Intersect(o Interval) Interval {
	if i.Start < o.Start {
		i.Start = o.Start
	}
	if i.End > o.End {
		i.End = o.End
	}
	if i.End < i.Start {
		i.End = i.Start
	}
	return i
}

// Shift returns the interval translated by offset.
func (i Interval) Shift(offset int64) Interval {
	return Interval{Start: i.Start + offset, End: i.End + offset}
}

// String formats the interval as [start, end).
func (i Interval) String() string {
	return fmt.Sprintf("[%d, %d)", i.Start, i.End)
}

// IntervalSet holds every value reachable at one point in the pipeline.
// Members may overlap; no canonicalization or merging is performed.
type IntervalSet []Interval

// Measure returns the total count of integers covered by the set,
// counting overlapping values once per interval that holds them.
func (s IntervalSet) Measure() int64 {
	var total int64
	for _, iv := range s {
		total += iv.Len()
	}
	return total
}

// Clone returns a copy of the set that shares no backing array with s.
func (s IntervalSet) Clone() IntervalSet {
	if s == nil {
		return nil
	}
	out := make(IntervalSet, len(s))
	copy(out, s)
	return out
}
