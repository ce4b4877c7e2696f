package engine

import (
	"slices"

	"github.com/roach88/almanac/internal/ir"
)

// CheckStage verifies the precondition Apply relies on: every rule has a
// positive length and no two rule domains overlap.
// Returns the first violation found in rule order.
func CheckStage(stage ir.Stage) error {
	for i, r := range stage.Rules {
		if r.Length <= 0 {
			return NewLengthError(stage.Name, i, r.Length)
		}
	}

	// Sort indices by domain start so each rule only needs comparing with
	// its successor.
	order := make([]int, len(stage.Rules))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		sa, sb := stage.Rules[a].SourceStart, stage.Rules[b].SourceStart
		switch {
		case sa < sb:
			return -1
		case sa > sb:
			return 1
		}
		return 0
	})

	for k := 1; k < len(order); k++ {
		a, b := order[k-1], order[k]
		da, db := stage.Rules[a].Domain(), stage.Rules[b].Domain()
		if da.Overlaps(db) {
			i, j := min(a, b), max(a, b)
			return NewOverlapError(stage.Name, i, j, da.Intersect(db))
		}
	}
	return nil
}

// CheckPipeline runs CheckStage on every stage in declared order.
func CheckPipeline(p ir.Pipeline) error {
	for _, s := range p.Stages {
		if err := CheckStage(s); err != nil {
			return err
		}
	}
	return nil
}
