// Package rules implements the forward-chaining inference engine.
//
// Rule specifications from the knowledge base are compiled once against
// the domain schema into closures; evaluation never resolves paths or
// parses symbols. A compiled rule set is immutable and shared by all
// sessions, while firing state lives in the per-session Engine.
package rules

import (
	"fmt"

	"github.com/jaspervw/fastrec/internal/domain"
	"github.com/jaspervw/fastrec/internal/kb"
)

// condition is one compiled condition: a field and the set of accepted
// values. A quantified field yields a slice of values and the condition
// holds if any of them is accepted.
type condition struct {
	field    domain.Field
	accepted []string
}

func (c condition) holds(t *domain.Task) bool {
	switch v := c.field.Get(t).(type) {
	case []any:
		for _, e := range v {
			if c.accepts(e) {
				return true
			}
		}
		return false
	default:
		return c.accepts(v)
	}
}

func (c condition) accepts(v any) bool {
	s := normalize(v)
	for _, a := range c.accepted {
		if s == a {
			return true
		}
	}
	return false
}

// effect is one compiled effect. Ordinal targets apply a monotonic
// maximum: the stored level is raised, never lowered. Set targets union
// and plain scalars assign.
type effect struct {
	field domain.Field
	value any

	// Pre-parsed levels for ordinal targets, so application compares
	// by scale index without re-parsing.
	strength   domain.StrengthLevel
	resistance domain.ResistanceLevel
}

func (e effect) apply(t *domain.Task) error {
	switch e.field.Kind {
	case domain.KindStrength:
		cur, _ := domain.ParseStrength(normalize(e.field.Get(t)))
		if e.strength.Index() <= cur.Index() {
			return nil
		}
		return e.field.Set(t, string(e.strength))
	case domain.KindResistance:
		cur, _ := domain.ParseResistance(normalize(e.field.Get(t)))
		if e.resistance.Index() <= cur.Index() {
			return nil
		}
		return e.field.Set(t, string(e.resistance))
	default:
		return e.field.Set(t, e.value)
	}
}

// Rule is a compiled inference rule. All conditions must hold (AND) for
// the rule to fire; Priority orders the fact-keyed conclusion variant
// and is ignored by the forward-chaining engine, which fires in catalog
// order.
type Rule struct {
	ID       string
	Priority int

	conditions []condition
	effects    []effect
}

// Matches reports whether every condition holds on the task.
func (r *Rule) Matches(t *domain.Task) bool {
	for _, c := range r.conditions {
		if !c.holds(t) {
			return false
		}
	}
	return true
}

// Apply runs all effects of the rule on the task.
func (r *Rule) Apply(t *domain.Task) error {
	for _, e := range r.effects {
		if err := e.apply(t); err != nil {
			return fmt.Errorf("rule %q: %w", r.ID, err)
		}
	}
	return nil
}

// Compile turns rule specifications into compiled rules, in catalog
// order. Effect values are validated by applying them to a scratch
// task, so a rule carrying an unknown symbol is rejected here rather
// than when it first fires.
func Compile(specs []kb.RuleSpec, schema domain.Schema) ([]*Rule, error) {
	rules := make([]*Rule, 0, len(specs))
	scratch := domain.NewTask()

	for _, spec := range specs {
		r := &Rule{ID: spec.ID, Priority: spec.Priority}

		for path, expected := range spec.Conditions {
			f, err := schema.Field(path)
			if err != nil {
				return nil, fmt.Errorf("rule %q: %w", spec.ID, err)
			}
			r.conditions = append(r.conditions, condition{
				field:    f,
				accepted: normalizeAll(expected),
			})
		}

		for path, value := range spec.Effects {
			f, err := schema.Field(path)
			if err != nil {
				return nil, fmt.Errorf("rule %q: %w", spec.ID, err)
			}
			e := effect{field: f, value: value}
			switch f.Kind {
			case domain.KindStrength:
				if e.strength, err = domain.ParseStrength(normalize(value)); err != nil {
					return nil, fmt.Errorf("rule %q effect %s: %w", spec.ID, path, err)
				}
			case domain.KindResistance:
				if e.resistance, err = domain.ParseResistance(normalize(value)); err != nil {
					return nil, fmt.Errorf("rule %q effect %s: %w", spec.ID, path, err)
				}
			default:
				if err := f.Set(scratch, value); err != nil {
					return nil, fmt.Errorf("rule %q effect %s: %w", spec.ID, path, err)
				}
			}
			r.effects = append(r.effects, e)
		}

		rules = append(rules, r)
	}
	return rules, nil
}

// normalize renders a condition or effect value as its symbolic form.
// Booleans become "true"/"false" so YAML booleans and their string
// spellings compare equal.
func normalize(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// normalizeAll expands a scalar-or-list expected value into the list of
// accepted symbols.
func normalizeAll(expected any) []string {
	if list, ok := expected.([]any); ok {
		out := make([]string, len(list))
		for i, e := range list {
			out[i] = normalize(e)
		}
		return out
	}
	return []string{normalize(expected)}
}
