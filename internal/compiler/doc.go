// Package compiler turns almanacs written in CUE into the ir model.
//
// A CUE almanac looks like:
//
//	seeds: [79, 14, 55, 13]
//	stages: [
//		{name: "seed-to-soil", rules: [
//			{dst: 50, src: 98, len: 2},
//			{dst: 52, src: 50, len: 48},
//		]},
//	]
//
// Stages are a list, not a struct, so declaration order is explicit. The
// document is unified with the embedded #Almanac schema before extraction,
// so type errors carry CUE source positions.
package compiler
