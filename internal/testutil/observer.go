package testutil

import (
	"sync"

	"github.com/roach88/almanac/internal/ir"
)

// StepRecorder collects what an engine.Observer sees.
// Pass rec.Observe to engine.WithObserver.
type StepRecorder struct {
	mu      sync.Mutex
	steps   []ir.StageStep
	outputs []ir.IntervalSet
}

// Observe records one step and a copy of its output set.
func (r *StepRecorder) Observe(step ir.StageStep, output ir.IntervalSet) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps = append(r.steps, step)
	r.outputs = append(r.outputs, output.Clone())
}

// Steps returns the recorded steps in arrival order.
func (r *StepRecorder) Steps() []ir.StageStep {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ir.StageStep(nil), r.steps...)
}

// Outputs returns the recorded output sets in arrival order.
func (r *StepRecorder) Outputs() []ir.IntervalSet {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ir.IntervalSet(nil), r.outputs...)
}

// StageNames returns the stage name of every recorded step.
func (r *StepRecorder) StageNames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, len(r.steps))
	for i, s := range r.steps {
		names[i] = s.Stage
	}
	return names
}
