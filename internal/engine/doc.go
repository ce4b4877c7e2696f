// Package engine implements the almanac range-remapping pipeline.
//
// The engine takes a seed IntervalSet and folds it through an ordered list of
// Stages. Each Stage is a piecewise-linear translation of the integers; the
// engine applies it to whole intervals at once by splitting every interval
// against each Rule's domain.
//
// ARCHITECTURE:
//
// Components, leaves first:
//   - Split: one Interval against one Rule domain -> outside pieces + inside piece
//   - Apply: one Stage against an IntervalSet -> the Stage's image
//   - Run / Executor.Execute: explicit fold of Apply over the Pipeline
//   - MinimumStart: smallest Start in the final set
//
// Data flows strictly forward. No component mutates its input; every step
// returns a fresh IntervalSet, and the only state carried between stages is
// the fold accumulator.
//
// INVARIANTS:
//
// Measure Conservation:
// Split never creates or loses a value, so Apply preserves the measure of its
// input and so does the whole pipeline. Zero-length pieces are never emitted.
//
// Declared Order:
// Stages are applied in the Pipeline's declared order. Reordering changes the
// result in general, so the executor never reorders or skips stages.
//
// Disjoint Domains (caller precondition):
// Rule domains within one Stage must not overlap. Apply does not re-check
// this; CheckPipeline detects violations and the Executor runs it in strict
// mode.
//
// The engine is single-threaded and synchronous. Independent intervals inside
// Apply share no state, which is the natural seam should parallelism ever be
// needed.
package engine
