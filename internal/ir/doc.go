// Package ir provides the data model for the almanac remapping pipeline.
//
// This package contains value types only. All other internal packages
// import ir; ir imports nothing internal. This keeps the model the
// foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Intervals are half-open [Start, End) everywhere. Inclusive ends are
//     never used, not even at parse boundaries.
//   - All numbers are int64. Inputs fit comfortably in 64-bit signed integers.
//   - Values are immutable after construction. Every transform returns new
//     Intervals and new IntervalSets.
//   - All JSON tags use snake_case.
package ir
