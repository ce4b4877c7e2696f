// Package harness runs almanac scenarios against the real engine.
//
// A scenario is a YAML file naming an almanac (inline or by path), the seed
// interpretation mode and what the run must produce: the minimum location,
// an expected error code, and per-stage assertions over the executor trace.
//
// Every scenario runs with a fresh deterministic clock, a fixed session id
// and a private in-memory store, so the same scenario always yields the same
// trace. RunWithGolden snapshots that trace as canonical JSON under
// testdata/golden.
//
// Example scenario:
//
//	name: example_range
//	description: Standard example with seeds read as ranges
//	input_file: ../almanacs/example.txt
//	mode: range
//	expect:
//	  minimum: 46
//	assertions:
//	  - type: measure_conserved
//	  - type: stage_min
//	    stage: seed-to-soil
//	    min: 57
package harness
