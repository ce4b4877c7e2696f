package engine

import (
	"bytes"
	"context"
	"log/slog"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/almanac/internal/ir"
)

func TestRunSingleModeExample(t *testing.T) {
	final := Run(exampleAlmanac().Pipeline, seedSet(ir.ModeSingle))

	want := ir.IntervalSet{ir.Unit(86), ir.Unit(82), ir.Unit(43), ir.Unit(35)}
	if diff := cmp.Diff(want, final); diff != "" {
		t.Errorf("final set mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, int64(35), MustMinimumStart(final))
}

func TestRunRangeModeExample(t *testing.T) {
	final := Run(exampleAlmanac().Pipeline, seedSet(ir.ModeRange))

	v, err := MinimumStart(final)
	require.NoError(t, err)
	assert.Equal(t, int64(46), v)
	assert.Equal(t, int64(27), final.Measure(), "14 + 13 seeds in, 27 values out")
}

func TestRunAgreesWithPointwiseMap(t *testing.T) {
	a := exampleAlmanac()
	for v := int64(0); v < 120; v++ {
		final := Run(a.Pipeline, ir.IntervalSet{ir.Unit(v)})
		assert.Equal(t, ir.IntervalSet{ir.Unit(a.Pipeline.Map(v))}, final, "seed %d", v)
	}
}

func TestRunEmptyPipelineIsIdentity(t *testing.T) {
	seed := ir.IntervalSet{ir.NewInterval(79, 93), ir.NewInterval(55, 68)}
	assert.Equal(t, seed, Run(ir.Pipeline{}, seed))
}

func TestRunOrderSensitive(t *testing.T) {
	stages := exampleAlmanac().Pipeline.Stages
	reversed := slices.Clone(stages)
	slices.Reverse(reversed)

	seed := seedSet(ir.ModeSingle)
	forward := MustMinimumStart(Run(ir.Pipeline{Stages: stages}, seed))
	backward := MustMinimumStart(Run(ir.Pipeline{Stages: reversed}, seed))

	assert.Equal(t, int64(35), forward)
	assert.NotEqual(t, forward, backward, "stage order must be honoured")
}

func TestRunDoesNotMutateSeed(t *testing.T) {
	seed := seedSet(ir.ModeRange)
	before := seed.Clone()
	_ = Run(exampleAlmanac().Pipeline, seed)
	assert.Equal(t, before, seed)
}

func TestExecutorSteps(t *testing.T) {
	exec := New(exampleAlmanac().Pipeline)

	res, err := exec.Execute(context.Background(), seedSet(ir.ModeRange))
	require.NoError(t, err)

	want := []ir.StageStep{
		{Seq: 1, Stage: "seed-to-soil", InputCount: 2, OutputCount: 2, Measure: 27, MinStart: 57},
		{Seq: 2, Stage: "soil-to-fertilizer", InputCount: 2, OutputCount: 2, Measure: 27, MinStart: 57},
		{Seq: 3, Stage: "fertilizer-to-water", InputCount: 2, OutputCount: 3, Measure: 27, MinStart: 53},
		{Seq: 4, Stage: "water-to-light", InputCount: 3, OutputCount: 3, Measure: 27, MinStart: 46},
		{Seq: 5, Stage: "light-to-temperature", InputCount: 3, OutputCount: 4, Measure: 27, MinStart: 45},
		{Seq: 6, Stage: "temperature-to-humidity", InputCount: 4, OutputCount: 4, Measure: 27, MinStart: 46},
		{Seq: 7, Stage: "humidity-to-location", InputCount: 4, OutputCount: 7, Measure: 27, MinStart: 46},
	}
	if diff := cmp.Diff(want, res.Steps); diff != "" {
		t.Errorf("steps mismatch (-want +got):\n%s", diff)
	}

	v, err := res.MinimumStart()
	require.NoError(t, err)
	assert.Equal(t, int64(46), v)
	assert.Equal(t, seedSet(ir.ModeRange), res.Seed)
}

func TestExecutorMatchesRun(t *testing.T) {
	p := exampleAlmanac().Pipeline
	for _, mode := range ir.ValidModes {
		res, err := New(p).Execute(context.Background(), seedSet(mode))
		require.NoError(t, err)
		assert.Equal(t, Run(p, seedSet(mode)), res.Final, "mode %s", mode)
	}
}

func TestExecutorSharedClock(t *testing.T) {
	clock := NewClockAt(100)
	p := exampleAlmanac().Pipeline

	first, err := New(p, WithClock(clock)).Execute(context.Background(), seedSet(ir.ModeSingle))
	require.NoError(t, err)
	second, err := New(p, WithClock(clock)).Execute(context.Background(), seedSet(ir.ModeRange))
	require.NoError(t, err)

	assert.Equal(t, int64(101), first.Steps[0].Seq)
	assert.Equal(t, int64(108), second.Steps[0].Seq)
	assert.Equal(t, int64(114), clock.Current())
}

func TestExecutorObserver(t *testing.T) {
	var names []string
	var measures []int64
	exec := New(exampleAlmanac().Pipeline, WithObserver(func(step ir.StageStep, out ir.IntervalSet) {
		names = append(names, step.Stage)
		measures = append(measures, out.Measure())
	}))

	_, err := exec.Execute(context.Background(), seedSet(ir.ModeSingle))
	require.NoError(t, err)

	assert.Equal(t, exampleAlmanac().Pipeline.StageNames(), names)
	for _, m := range measures {
		assert.Equal(t, int64(4), m)
	}
}

func TestExecutorEmptyPipeline(t *testing.T) {
	seed := ir.IntervalSet{ir.Unit(5)}

	res, err := New(ir.Pipeline{}).Execute(context.Background(), seed)
	require.NoError(t, err)
	assert.Equal(t, seed, res.Final)
	assert.Empty(t, res.Steps)
}

func TestExecutorRequireStages(t *testing.T) {
	_, err := New(ir.Pipeline{}, WithRequireStages()).Execute(context.Background(), ir.IntervalSet{ir.Unit(5)})
	require.Error(t, err)
	assert.True(t, IsPipelineError(err))
	assert.Contains(t, err.Error(), ErrCodeNoStages)
}

func TestExecutorStrictRejectsOverlap(t *testing.T) {
	p := ir.Pipeline{Stages: []ir.Stage{{Name: "bad", Rules: []ir.Rule{rule(0, 0, 10), rule(50, 5, 10)}}}}

	_, err := New(p).Execute(context.Background(), ir.IntervalSet{ir.Unit(1)})
	require.NoError(t, err, "non-strict executors trust the producer")

	_, err = New(p, WithStrict()).Execute(context.Background(), ir.IntervalSet{ir.Unit(1)})
	require.Error(t, err)
	assert.True(t, IsPreconditionError(err))
}

func TestExecutorCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := New(exampleAlmanac().Pipeline).Execute(ctx, seedSet(ir.ModeSingle))
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, res, "no partial result")
}

func TestExecutorCopiesStages(t *testing.T) {
	p := exampleAlmanac().Pipeline
	exec := New(p)
	p.Stages[0] = ir.Stage{Name: "replaced"}

	assert.Equal(t, "seed-to-soil", exec.Pipeline().Stages[0].Name)
}

func TestExecutorLogsStages(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := New(exampleAlmanac().Pipeline, WithLogger(logger)).Execute(context.Background(), seedSet(ir.ModeSingle))
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "stage applied")
	assert.Contains(t, buf.String(), "stage=humidity-to-location")
}
