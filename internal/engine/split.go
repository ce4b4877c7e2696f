package engine

import "github.com/roach88/almanac/internal/ir"

// Split partitions iv against a rule domain.
//
// If iv and domain do not intersect, outside is [iv] and ok is false.
// Otherwise inside is the intersection and outside holds the part of iv left
// of it and the part right of it; either is omitted when the intersection
// touches that edge of iv.
//
// The pieces exactly cover iv: their lengths always sum to iv.Len().
// Zero-length pieces are never returned, so an empty iv yields nothing.
func Split(iv, domain ir.Interval) (outside []ir.Interval, inside ir.Interval, ok bool) {
	if iv.IsEmpty() {
		return nil, ir.Interval{}, false
	}

	inter := iv.Intersect(domain)
	if inter.IsEmpty() {
		return []ir.Interval{iv}, ir.Interval{}, false
	}

	if iv.Start < inter.Start {
		outside = append(outside, ir.Interval{Start: iv.Start, End: inter.Start})
	}
	if inter.End < iv.End {
		outside = append(outside, ir.Interval{Start: inter.End, End: iv.End})
	}
	return outside, inter, true
}
