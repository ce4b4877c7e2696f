package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/almanac/internal/ir"
)

// Run folds Apply over the pipeline's stages in declared order, starting from
// seed, and returns the set produced by the last stage.
//
// A pipeline with zero stages is the identity: the seed set comes back
// unchanged. Stages are never skipped or reordered.
func Run(pipeline ir.Pipeline, seed ir.IntervalSet) ir.IntervalSet {
	acc := seed.Clone()
	for _, stage := range pipeline.Stages {
		acc = Apply(stage, acc)
	}
	return acc
}

// Observer is called after each stage with the step just recorded and the
// stage's output set. Observers must not modify the set.
type Observer func(step ir.StageStep, output ir.IntervalSet)

// Result is the outcome of one Executor run.
type Result struct {
	Seed  ir.IntervalSet `json:"seed"`
	Final ir.IntervalSet `json:"final"`
	Steps []ir.StageStep `json:"steps"`
}

// MinimumStart extracts the answer from the final set.
func (r *Result) MinimumStart() (int64, error) {
	return MinimumStart(r.Final)
}

// Executor runs one pipeline, recording a step per stage.
//
// The pipeline's stage slice is copied at construction so later mutation by
// the caller cannot change the evaluation order.
//
// INVARIANTS:
//   - stages order NEVER changes after construction
//   - evaluation is single-threaded and synchronous
type Executor struct {
	pipeline      ir.Pipeline
	clock         Sequencer
	logger        *slog.Logger
	observer      Observer
	sessionGen    SessionGenerator
	requireStages bool
	strict        bool
}

// Option allows configuration of executor behaviour.
type Option func(*Executor)

// WithClock shares a logical clock between executors.
// Default: a fresh *Clock starting at 0.
func WithClock(c Sequencer) Option {
	return func(e *Executor) {
		e.clock = c
	}
}

// WithLogger sets the logger for per-stage debug output.
// Default: logs are discarded.
func WithLogger(l *slog.Logger) Option {
	return func(e *Executor) {
		e.logger = l
	}
}

// WithObserver registers a callback invoked after every stage.
func WithObserver(o Observer) Option {
	return func(e *Executor) {
		e.observer = o
	}
}

// WithSessionGenerator overrides the session id source.
// Default: UUIDv7Generator.
func WithSessionGenerator(g SessionGenerator) Option {
	return func(e *Executor) {
		e.sessionGen = g
	}
}

// WithRequireStages makes Execute fail with *PipelineError when the pipeline
// has no stages, instead of treating it as the identity.
func WithRequireStages() Option {
	return func(e *Executor) {
		e.requireStages = true
	}
}

// WithStrict makes Execute verify CheckPipeline before running.
func WithStrict() Option {
	return func(e *Executor) {
		e.strict = true
	}
}

// New creates an Executor for the pipeline.
func New(pipeline ir.Pipeline, opts ...Option) *Executor {
	var stages []ir.Stage
	if pipeline.Stages != nil {
		stages = make([]ir.Stage, len(pipeline.Stages))
		copy(stages, pipeline.Stages)
	}

	e := &Executor{
		pipeline:   ir.Pipeline{Stages: stages},
		clock:      NewClock(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		sessionGen: UUIDv7Generator{},
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Pipeline returns the pipeline the executor was built with.
func (e *Executor) Pipeline() ir.Pipeline {
	return e.pipeline
}

// NewSession returns a fresh session id.
func (e *Executor) NewSession() string {
	return e.sessionGen.Generate()
}

// Validate applies the configured policy checks without running anything.
func (e *Executor) Validate() error {
	if e.requireStages && len(e.pipeline.Stages) == 0 {
		return &PipelineError{Code: ErrCodeNoStages, Message: "pipeline has no stages"}
	}
	if e.strict {
		if err := CheckPipeline(e.pipeline); err != nil {
			return err
		}
	}
	return nil
}

// Execute folds seed through every stage and returns the final set along
// with one StageStep per stage.
//
// ctx is only consulted between stages; a cancelled context abandons the run
// and returns ctx.Err(). No partial result is returned on error.
func (e *Executor) Execute(ctx context.Context, seed ir.IntervalSet) (*Result, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}

	result := &Result{
		Seed:  seed.Clone(),
		Steps: make([]ir.StageStep, 0, len(e.pipeline.Stages)),
	}

	acc := seed.Clone()
	for _, stage := range e.pipeline.Stages {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("execute stage %q: %w", stage.Name, err)
		}

		out := Apply(stage, acc)
		step := ir.StageStep{
			Seq:         e.clock.Next(),
			Stage:       stage.Name,
			InputCount:  len(acc),
			OutputCount: len(out),
			Measure:     out.Measure(),
		}
		if len(out) > 0 {
			step.MinStart = MustMinimumStart(out)
		}

		e.logger.Debug("stage applied",
			"seq", step.Seq,
			"stage", step.Stage,
			"input", step.InputCount,
			"output", step.OutputCount,
			"measure", step.Measure,
		)

		result.Steps = append(result.Steps, step)
		if e.observer != nil {
			e.observer(step, out)
		}
		acc = out
	}

	result.Final = acc
	return result, nil
}
