package compiler

import (
	"os"
	"path/filepath"
	"testing"

	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/almanac/internal/ir"
)

func TestLoadFileExample(t *testing.T) {
	alm, err := New().LoadFile("testdata/example.cue")
	require.NoError(t, err)

	assert.Equal(t, []int64{79, 14, 55, 13}, alm.Seeds)
	require.Len(t, alm.Pipeline.Stages, 7)
	assert.Equal(t, "seed-to-soil", alm.Pipeline.Stages[0].Name)
	assert.Equal(t, []ir.Rule{ir.NewRule(50, 98, 2), ir.NewRule(52, 50, 48)}, alm.Pipeline.Stages[0].Rules)
	assert.Equal(t, "humidity-to-location", alm.Pipeline.Stages[6].Name)
}

func TestCompileAlmanacFromValue(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		seeds: [1, 2]
		stages: [{name: "a", rules: [{dst: 10, src: 0, len: 5}]}]
	`)
	require.NoError(t, v.Err())

	alm, err := New().CompileAlmanac(v)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, alm.Seeds)
	assert.Equal(t, int64(10), alm.Pipeline.Stages[0].Rules[0].Offset)
}

func TestCompileNoStages(t *testing.T) {
	alm, err := New().CompileBytes("x.cue", []byte(`seeds: [3]`))
	require.NoError(t, err)
	assert.Empty(t, alm.Pipeline.Stages)
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"syntax", `seeds: [1,`, "cue"},
		{"missing seeds", `stages: []`, "seeds"},
		{"empty seeds", `seeds: []`, "seeds"},
		{"negative seed", `seeds: [-1]`, "seeds"},
		{"string seed", `seeds: ["x"]`, "seeds"},
		{"negative length", `seeds: [1], stages: [{name: "a", rules: [{dst: 1, src: 2, len: -3}]}]`, "len"},
		{"zero length", `seeds: [1], stages: [{name: "a", rules: [{dst: 1, src: 2, len: 0}]}]`, "len"},
		{"rule overflows", `seeds: [1], stages: [{name: "a", rules: [{dst: 1, src: 9223372036854775807, len: 1}]}]`, "overflows"},
		{"missing dst", `seeds: [1], stages: [{name: "a", rules: [{src: 2, len: 3}]}]`, "dst"},
		{"unknown field", `seeds: [1], mode: "range"`, "mode"},
		{"empty name", `seeds: [1], stages: [{name: "", rules: []}]`, "name"},
		{"duplicate stage", `seeds: [1], stages: [{name: "a", rules: []}, {name: "a", rules: []}]`, "declared twice"},
	}

	c := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.CompileBytes("bad.cue", []byte(tt.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			var ce *CompileError
			assert.ErrorAs(t, err, &ce)
		})
	}
}

func TestCompileErrorFormat(t *testing.T) {
	err := &CompileError{Field: "stages", Message: "boom"}
	assert.Equal(t, "stages: boom", err.Error())
}

func TestLoadFileMissing(t *testing.T) {
	_, err := New().LoadFile(filepath.Join(t.TempDir(), "none.cue"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
