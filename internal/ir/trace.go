package ir

// StageStep records what one stage did to the pipeline accumulator.
// Seq comes from the engine's logical clock, never from wall time.
type StageStep struct {
	Seq         int64  `json:"seq"`
	Stage       string `json:"stage"`
	InputCount  int    `json:"input_count"`
	OutputCount int    `json:"output_count"`
	Measure     int64  `json:"measure"`
	MinStart    int64  `json:"min_start"` // meaningful only when OutputCount > 0
}

// RunRecord is the stored summary of one pipeline run.
type RunRecord struct {
	ID            string      `json:"id"` // content-addressed, see RunID
	Session       string      `json:"session"`
	PipelineHash  string      `json:"pipeline_hash"`
	Mode          Mode        `json:"mode"`
	SeedCount     int         `json:"seed_count"`
	Measure       int64       `json:"measure"`
	Answer        int64       `json:"answer"`
	Final         IntervalSet `json:"final"`
	Seq           int64       `json:"seq"`
	EngineVersion string      `json:"engine_version"`
}
