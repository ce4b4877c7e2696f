package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passingScenario = `name: tiny
description: one stage, one seed
mode: single
input: |
  seeds: 98

  a map:
  50 98 2
expect:
  minimum: 50
assertions:
  - type: stage_count
    stage: a
    count: 1
`

const failingScenario = `name: wrong
description: expects the wrong answer
mode: single
input: |
  seeds: 98
expect:
  minimum: 1
`

func TestTestCommand_MissingArgs(t *testing.T) {
	_, _, err := executeRoot(t, "test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestTestCommand_NonExistentDir(t *testing.T) {
	_, _, err := executeRoot(t, "test", "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "scenarios directory not found")
}

func TestTestCommand_EmptyDir(t *testing.T) {
	stdout, _, err := executeRoot(t, "test", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, stdout, "No scenarios found")
}

func TestTestCommand_EmptyDirJSON(t *testing.T) {
	stdout, _, err := executeRoot(t, "test", t.TempDir(), "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 0, resp.Data.Total)
	assert.NotNil(t, resp.Data.Scenarios)
}

func TestTestCommand_PassAndFail(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "tiny.yaml", passingScenario)
	writeFile(t, dir, "wrong.yaml", failingScenario)

	stdout, _, err := executeRoot(t, "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stdout, "✓ tiny")
	assert.Contains(t, stdout, "✗ wrong")
	assert.Contains(t, stdout, "minimum: expected 1, got 98")
	assert.Contains(t, stdout, "Test Summary: 1 passed, 1 failed, 2 total")
}

func TestTestCommand_Filter(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "tiny.yaml", passingScenario)
	writeFile(t, dir, "wrong.yaml", failingScenario)

	stdout, _, err := executeRoot(t, "test", dir, "--filter", "ti*")
	require.NoError(t, err)
	assert.Contains(t, stdout, "1 passed, 0 failed, 1 total")
}

func TestTestCommand_BadFilter(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "tiny.yaml", passingScenario)

	_, _, err := executeRoot(t, "test", dir, "--filter", "[")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTestCommand_LoadError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken.yaml", "name: broken\n")

	stdout, _, err := executeRoot(t, "test", dir, "--format", "json")
	require.Error(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
		Error  *CLIError  `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "E_TEST_FAILED", resp.Error.Code)
	require.Len(t, resp.Data.Scenarios, 1)
	assert.Equal(t, "broken.yaml", resp.Data.Scenarios[0].Name)
	assert.Contains(t, resp.Data.Scenarios[0].Errors[0], "failed to load scenario")
}

func TestTestCommand_GoldenUpdateThenCompare(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "tiny.yaml", passingScenario)

	stdout, _, err := executeRoot(t, "test", dir, "--update")
	require.NoError(t, err)
	assert.Contains(t, stdout, "✓ tiny (golden updated)")

	golden, err := os.ReadFile(filepath.Join(dir, "golden", "tiny.golden"))
	require.NoError(t, err)
	assert.Equal(t,
		`{"final":[{"end":51,"start":50}],"minimum":50,"mode":"single","scenario_name":"tiny","seed":[{"end":99,"start":98}],"steps":[{"input_count":1,"measure":1,"min_start":50,"output_count":1,"seq":1,"stage":"a"}]}`,
		string(golden))

	_, _, err = executeRoot(t, "test", dir)
	require.NoError(t, err)

	// A tampered golden file fails the run.
	writeFile(t, filepath.Join(dir, "golden"), "tiny.golden", "{}")
	stdout, _, err = executeRoot(t, "test", dir)
	require.Error(t, err)
	assert.Contains(t, stdout, "trace does not match golden file")
}

func TestTestCommand_HarnessTestdata(t *testing.T) {
	stdout, _, err := executeRoot(t, "test", filepath.Join("..", "harness", "testdata", "scenarios"))
	require.NoError(t, err)
	assert.Contains(t, stdout, "8 passed, 0 failed, 8 total")
}
