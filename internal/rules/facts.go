package rules

import "sort"

// Fact-keyed condition matching. Unlike task conditions, these match
// directly against the raw answer map, keyed by question id. They back
// the suggestion rules and the conclusion engine.

// MatchFacts reports whether every condition holds against the facts:
// the fact must be present and equal the expected value, or one of them
// when the expected value is a list.
func MatchFacts(conditions map[string]any, facts map[string]any) bool {
	for key, expected := range conditions {
		v, ok := facts[key]
		if !ok {
			return false
		}
		got := normalize(v)
		matched := false
		for _, a := range normalizeAll(expected) {
			if got == a {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

// FactRule pairs fact-keyed conditions with textual conclusions.
type FactRule struct {
	ID          string
	Priority    int
	Conditions  map[string]any
	Conclusions []string
}

// ConclusionEngine is the list-accumulating variant of the engine: it
// makes a single pass over rules sorted by descending priority and
// collects the conclusions of every rule whose conditions hold. It
// cannot chain, which keeps it suited to flat advisory output rather
// than requirement derivation.
type ConclusionEngine struct {
	rules []FactRule
}

// NewConclusionEngine sorts the rules by priority, highest first. The
// sort is stable so equal-priority rules keep catalog order.
func NewConclusionEngine(rules []FactRule) *ConclusionEngine {
	sorted := make([]FactRule, len(rules))
	copy(sorted, rules)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority > sorted[j].Priority
	})
	return &ConclusionEngine{rules: sorted}
}

// Run evaluates all rules against the facts and returns the accumulated
// conclusions in priority order.
func (e *ConclusionEngine) Run(facts map[string]any) []string {
	var out []string
	for _, r := range e.rules {
		if MatchFacts(r.Conditions, facts) {
			out = append(out, r.Conclusions...)
		}
	}
	return out
}
