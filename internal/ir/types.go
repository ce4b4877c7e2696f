package ir

// Rule is one piecewise-translation entry of a Stage.
//
// Values in the domain [SourceStart, SourceStart+Length) are translated by
// Offset; Offset = destination start - source start.
type Rule struct {
	SourceStart int64 `json:"source_start"`
	Length      int64 `json:"length"` // always > 0
	Offset      int64 `json:"offset"`
}

// NewRule builds a Rule from an almanac triple (dst, src, length).
func NewRule(dst, src, length int64) Rule {
	return Rule{SourceStart: src, Length: length, Offset: dst - src}
}

// Domain returns the half-open source range the rule applies to.
func (r Rule) Domain() Interval {
	return Interval{Start: r.SourceStart, End: r.SourceStart + r.Length}
}

// DestinationStart returns the first value the domain maps onto.
func (r Rule) DestinationStart() int64 {
	return r.SourceStart + r.Offset
}

// Map translates v when it lies in the rule's domain.
func (r Rule) Map(v int64) (int64, bool) {
	if !r.Domain().Contains(v) {
		return v, false
	}
	return v + r.Offset, true
}

// Stage is one named layer of the pipeline.
//
// A Stage is a total function over the integers: v maps to v + offset of the
// first Rule whose domain contains v, else to v itself.
//
// PRECONDITION: Rule domains within a Stage are pairwise disjoint. The
// producer guarantees this; the engine's applier does not re-check it.
// Rule order is irrelevant to the result when the precondition holds, but is
// kept fixed for determinism.
type Stage struct {
	Name  string `json:"name"` // diagnostic only
	Rules []Rule `json:"rules"`
}

// Map applies the stage to a single value.
func (s Stage) Map(v int64) int64 {
	for _, r := range s.Rules {
		if out, ok := r.Map(v); ok {
			return out
		}
	}
	return v
}

// Pipeline is the ordered sequence of Stages.
// Built once from parsed input and read-only thereafter.
type Pipeline struct {
	Stages []Stage `json:"stages"`
}

// Map passes a single value through every stage in order.
func (p Pipeline) Map(v int64) int64 {
	for _, s := range p.Stages {
		v = s.Map(v)
	}
	return v
}

// StageNames returns the stage names in declaration order.
func (p Pipeline) StageNames() []string {
	names := make([]string, len(p.Stages))
	for i, s := range p.Stages {
		names[i] = s.Name
	}
	return names
}
