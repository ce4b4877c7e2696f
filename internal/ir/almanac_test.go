package ir

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	m, err := ParseMode("single")
	require.NoError(t, err)
	assert.Equal(t, ModeSingle, m)

	m, err = ParseMode("range")
	require.NoError(t, err)
	assert.Equal(t, ModeRange, m)

	_, err = ParseMode("pairs")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid mode")
}

func TestSeedSetSingle(t *testing.T) {
	a := &Almanac{Seeds: []int64{79, 14, 55, 13}}

	set, err := a.SeedSet(ModeSingle)
	require.NoError(t, err)
	assert.Equal(t, IntervalSet{Unit(79), Unit(14), Unit(55), Unit(13)}, set)
}

func TestSeedSetRange(t *testing.T) {
	a := &Almanac{Seeds: []int64{79, 14, 55, 13}}

	set, err := a.SeedSet(ModeRange)
	require.NoError(t, err)
	assert.Equal(t, IntervalSet{NewInterval(79, 93), NewInterval(55, 68)}, set)
	assert.Equal(t, int64(27), set.Measure())
}

func TestSeedSetRangeDropsEmptyPairs(t *testing.T) {
	a := &Almanac{Seeds: []int64{10, 0, 20, 3}}

	set, err := a.SeedSet(ModeRange)
	require.NoError(t, err)
	assert.Equal(t, IntervalSet{NewInterval(20, 23)}, set)
}

func TestSeedSetRangeOddCount(t *testing.T) {
	a := &Almanac{Seeds: []int64{79, 14, 55}}

	_, err := a.SeedSet(ModeRange)
	require.Error(t, err)

	var sce *SeedCountError
	require.ErrorAs(t, err, &sce)
	assert.Equal(t, 3, sce.Count)
}

func TestSeedSetOverflow(t *testing.T) {
	tests := []struct {
		name  string
		seeds []int64
		mode  Mode
	}{
		{"single max", []int64{math.MaxInt64}, ModeSingle},
		{"range end overflows", []int64{math.MaxInt64 - 5, 10}, ModeRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := (&Almanac{Seeds: tt.seeds}).SeedSet(tt.mode)
			var sre *SeedRangeError
			require.ErrorAs(t, err, &sre)
			assert.Equal(t, tt.seeds[0], sre.Start)
		})
	}

	set, err := (&Almanac{Seeds: []int64{math.MaxInt64 - 1}}).SeedSet(ModeSingle)
	require.NoError(t, err)
	assert.Equal(t, IntervalSet{Interval{Start: math.MaxInt64 - 1, End: math.MaxInt64}}, set)
}

func TestSeedSetInvalidMode(t *testing.T) {
	a := &Almanac{Seeds: []int64{1}}
	_, err := a.SeedSet(Mode("bogus"))
	require.Error(t, err)
}
