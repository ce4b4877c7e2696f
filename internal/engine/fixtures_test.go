package engine

import "github.com/roach88/almanac/internal/ir"

func rule(dst, src, length int64) ir.Rule {
	return ir.NewRule(dst, src, length)
}

// exampleAlmanac is the standard seven-stage example almanac.
func exampleAlmanac() *ir.Almanac {
	return &ir.Almanac{
		Seeds: []int64{79, 14, 55, 13},
		Pipeline: ir.Pipeline{Stages: []ir.Stage{
			{Name: "seed-to-soil", Rules: []ir.Rule{rule(50, 98, 2), rule(52, 50, 48)}},
			{Name: "soil-to-fertilizer", Rules: []ir.Rule{rule(0, 15, 37), rule(37, 52, 2), rule(39, 0, 15)}},
			{Name: "fertilizer-to-water", Rules: []ir.Rule{rule(49, 53, 8), rule(0, 11, 42), rule(42, 0, 7), rule(57, 7, 4)}},
			{Name: "water-to-light", Rules: []ir.Rule{rule(88, 18, 7), rule(18, 25, 70)}},
			{Name: "light-to-temperature", Rules: []ir.Rule{rule(45, 77, 23), rule(81, 45, 19), rule(68, 64, 13)}},
			{Name: "temperature-to-humidity", Rules: []ir.Rule{rule(0, 69, 1), rule(1, 0, 69)}},
			{Name: "humidity-to-location", Rules: []ir.Rule{rule(60, 56, 37), rule(56, 93, 4)}},
		}},
	}
}

func seedSet(mode ir.Mode) ir.IntervalSet {
	set, err := exampleAlmanac().SeedSet(mode)
	if err != nil {
		panic(err)
	}
	return set
}
