// Package almanac reads the line-oriented almanac text format.
//
// The format is:
//
//	seeds: 79 14 55 13
//
//	seed-to-soil map:
//	50 98 2
//	52 50 48
//
//	soil-to-fertilizer map:
//	0 15 37
//	...
//
// The first non-blank line lists the seed values. Each "<name> map:" header
// opens a Stage; every following line of three non-negative integers
// (dst_start, src_start, length) adds one Rule with offset dst - src. A blank
// line or end of input closes the Stage.
//
// Reading is a small state machine. Lines are first classified by a Lexer,
// then fed to transition, which returns the next state and the action the
// parser performs. Any malformed line stops parsing with a
// *MalformedInputError carrying the 1-based line number.
package almanac
