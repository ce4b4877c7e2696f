package engine

import "github.com/roach88/almanac/internal/ir"

// Apply computes the image of set under stage.
//
// Every interval starts out unmapped. Rules are visited in declaration order;
// for each rule, every unmapped interval is split against the rule's domain.
// The inside piece is translated by the rule's offset and becomes mapped; the
// outside pieces stay unmapped and remain candidates for later rules. Whatever
// is still unmapped after the last rule passes through unchanged.
//
// The result lists mapped pieces in rule order, followed by pass-through
// pieces. set is not modified.
//
// PRECONDITION: rule domains within stage are pairwise disjoint. With
// overlapping domains the result depends on rule order; see CheckStage.
func Apply(stage ir.Stage, set ir.IntervalSet) ir.IntervalSet {
	unmapped := make(ir.IntervalSet, 0, len(set))
	for _, iv := range set {
		if !iv.IsEmpty() {
			unmapped = append(unmapped, iv)
		}
	}

	mapped := make(ir.IntervalSet, 0, len(unmapped))
	for _, rule := range stage.Rules {
		if len(unmapped) == 0 {
			break
		}
		domain := rule.Domain()
		remaining := make(ir.IntervalSet, 0, len(unmapped))
		for _, iv := range unmapped {
			outside, inside, ok := Split(iv, domain)
			if ok {
				mapped = append(mapped, inside.Shift(rule.Offset))
			}
			remaining = append(remaining, outside...)
		}
		unmapped = remaining
	}

	return append(mapped, unmapped...)
}
