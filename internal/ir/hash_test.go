package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipelineHashDeterminism(t *testing.T) {
	p := Pipeline{Stages: []Stage{seedToSoil()}}

	h1, err := PipelineHash(p)
	require.NoError(t, err)
	h2, err := PipelineHash(p)
	require.NoError(t, err)

	assert.Equal(t, h1, h2, "PipelineHash must be deterministic")
	assert.Len(t, h1, 64, "SHA-256 hex is 64 characters")
}

func TestPipelineHashOrderSensitive(t *testing.T) {
	a := Stage{Name: "a", Rules: []Rule{NewRule(1, 0, 1)}}
	b := Stage{Name: "b", Rules: []Rule{NewRule(5, 3, 2)}}

	ab := MustPipelineHash(Pipeline{Stages: []Stage{a, b}})
	ba := MustPipelineHash(Pipeline{Stages: []Stage{b, a}})

	assert.NotEqual(t, ab, ba, "stage order is part of pipeline identity")
}

func TestRunIDChangesWithInput(t *testing.T) {
	ph := MustPipelineHash(Pipeline{Stages: []Stage{seedToSoil()}})
	seeds := []int64{79, 14}

	id1, err := RunID(ph, ModeSingle, seeds)
	require.NoError(t, err)
	id2, err := RunID(ph, ModeRange, seeds)
	require.NoError(t, err)
	id3, err := RunID(ph, ModeSingle, []int64{79, 15})
	require.NoError(t, err)
	id4, err := RunID("other", ModeSingle, seeds)
	require.NoError(t, err)

	assert.NotEqual(t, id1, id2, "different mode")
	assert.NotEqual(t, id1, id3, "different seeds")
	assert.NotEqual(t, id1, id4, "different pipeline")
}

func TestDomainSeparation(t *testing.T) {
	data := []byte("same")
	assert.NotEqual(t, hashWithDomain(DomainPipeline, data), hashWithDomain(DomainRun, data))
}
