package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithGolden_Scenarios(t *testing.T) {
	for _, name := range []string{
		"example_single",
		"example_range",
		"example_cue_range",
		"seed_to_soil",
	} {
		t.Run(name, func(t *testing.T) {
			scenario, err := LoadScenario("testdata/scenarios/" + name + ".yaml")
			require.NoError(t, err)
			require.NoError(t, RunWithGolden(t, scenario))
		})
	}
}

func TestSnapshot_Canonical(t *testing.T) {
	scenario := &Scenario{Name: "identity", Mode: "single"}
	result := NewResult()
	result.Minimum = 4

	data, err := Snapshot(scenario, result)
	require.NoError(t, err)
	assert.Equal(t,
		`{"final":[],"minimum":4,"mode":"single","scenario_name":"identity","seed":[],"steps":[]}`,
		string(data))
}
