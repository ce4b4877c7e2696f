package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/almanac/internal/ir"
)

// createTestStore creates a new file-backed store in a temp dir.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun creates a run with minimal required fields.
func createTestRun(id, session string, seq int64) ir.RunRecord {
	return ir.RunRecord{
		ID:            id,
		Session:       session,
		PipelineHash:  "test-hash",
		Mode:          ir.ModeRange,
		SeedCount:     2,
		Measure:       27,
		Answer:        46,
		Final:         ir.IntervalSet{ir.NewInterval(46, 56), ir.NewInterval(60, 61)},
		Seq:           seq,
		EngineVersion: "0.2.0",
	}
}

func createTestSteps(start int64) []ir.StageStep {
	return []ir.StageStep{
		{Seq: start, Stage: "seed-to-soil", InputCount: 2, OutputCount: 2, Measure: 27, MinStart: 57},
		{Seq: start + 1, Stage: "soil-to-fertilizer", InputCount: 2, OutputCount: 2, Measure: 27, MinStart: 57},
		{Seq: start + 2, Stage: "fertilizer-to-water", InputCount: 2, OutputCount: 3, Measure: 27, MinStart: 53},
	}
}
