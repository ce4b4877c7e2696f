package testutil

// FixedSessionGenerator returns the same session id on every call.
//
// engine.FixedGenerator hands out a list of ids and panics when it runs dry;
// this one never runs dry, so scenario runs that open any number of sessions
// still write byte-identical history.
type FixedSessionGenerator struct {
	id string
}

// NewFixedSessionGenerator creates a generator for id.
// An empty id becomes "test-session".
func NewFixedSessionGenerator(id string) *FixedSessionGenerator {
	if id == "" {
		id = "test-session"
	}
	return &FixedSessionGenerator{id: id}
}

// Generate returns the fixed session id.
func (g *FixedSessionGenerator) Generate() string {
	return g.id
}
