package engine

import "github.com/roach88/almanac/internal/ir"

// MinimumStart returns the smallest Start among the intervals of set.
// An empty set is a precondition violation and yields *EmptySetError.
func MinimumStart(set ir.IntervalSet) (int64, error) {
	if len(set) == 0 {
		return 0, &EmptySetError{Operation: "MinimumStart"}
	}
	lowest := set[0].Start
	for _, iv := range set[1:] {
		if iv.Start < lowest {
			lowest = iv.Start
		}
	}
	return lowest, nil
}

// MustMinimumStart is like MinimumStart but panics on an empty set.
// Use only where the set is known to be non-empty.
func MustMinimumStart(set ir.IntervalSet) int64 {
	v, err := MinimumStart(set)
	if err != nil {
		panic(err)
	}
	return v
}
