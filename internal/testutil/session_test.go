package testutil

import (
	"testing"

	"github.com/roach88/almanac/internal/engine"
	"github.com/roach88/almanac/internal/ir"
	"github.com/stretchr/testify/assert"
)

var _ engine.SessionGenerator = (*FixedSessionGenerator)(nil)

func TestFixedSessionGenerator(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want string
	}{
		{"custom", "01234567-89ab-cdef-0123-456789abcdef", "01234567-89ab-cdef-0123-456789abcdef"},
		{"empty falls back", "", "test-session"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := NewFixedSessionGenerator(tt.id)
			for i := 0; i < 3; i++ {
				assert.Equal(t, tt.want, gen.Generate())
			}
		})
	}
}

func TestFixedSessionGenerator_ThroughExecutor(t *testing.T) {
	exec := engine.New(ir.Pipeline{}, engine.WithSessionGenerator(NewFixedSessionGenerator("s-1")))
	assert.Equal(t, "s-1", exec.NewSession())
	assert.Equal(t, "s-1", exec.NewSession())
}
