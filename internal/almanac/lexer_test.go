package almanac

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	lx := NewLexer()

	tests := []struct {
		name     string
		text     string
		kind     lineKind
		heading  string
		numbers  []int64
		badToken string
	}{
		{"empty", "", lineBlank, "", nil, ""},
		{"whitespace", "  \t ", lineBlank, "", nil, ""},
		{"seeds", "seeds: 79 14 55 13", lineSeeds, "", []int64{79, 14, 55, 13}, ""},
		{"seeds bad value", "seeds: 79 x", lineSeeds, "", nil, "x"},
		{"heading", "seed-to-soil map:", lineHeading, "seed-to-soil", nil, ""},
		{"heading trailing space", "water-to-light map:  ", lineHeading, "water-to-light", nil, ""},
		{"rule", "50 98 2", lineNumbers, "", []int64{50, 98, 2}, ""},
		{"rule extra spaces", "  50   98 2 ", lineNumbers, "", []int64{50, 98, 2}, ""},
		{"negative", "50 -98 2", lineOther, "", nil, "-98"},
		{"word", "fifty 98 2", lineOther, "", nil, "fifty"},
		{"overflow", "99999999999999999999 1 1", lineOther, "", nil, "99999999999999999999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := lx.classify(3, tt.text)
			assert.Equal(t, tt.kind, l.kind)
			assert.Equal(t, 3, l.no)
			assert.Equal(t, tt.heading, l.name)
			assert.Equal(t, tt.badToken, l.badToken)
			if tt.numbers != nil {
				assert.Equal(t, tt.numbers, l.numbers)
			}
		})
	}
}

func TestLineKindString(t *testing.T) {
	assert.Equal(t, "map heading", lineHeading.String())
	assert.Equal(t, "text", lineOther.String())
	assert.Equal(t, "end of input", lineEOF.String())
}
