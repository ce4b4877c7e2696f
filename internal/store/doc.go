// Package store records almanac runs in SQLite.
//
// A run is keyed by its content-addressed ID (see ir.RunID), so recording the
// same pipeline, mode and seeds twice leaves a single row. Each run owns the
// per-stage trace the executor produced.
//
// All reads are ordered by the logical seq column with the ID as a binary
// tiebreaker; wall-clock timestamps are never stored.
package store
