package session

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/jaspervw/fastrec/internal/domain"
	"github.com/jaspervw/fastrec/internal/kb"
	"github.com/jaspervw/fastrec/internal/match"
	"github.com/jaspervw/fastrec/internal/rules"
)

// Session is one advisory conversation. It owns a Task, the raw answer
// facts and the per-session firing state of the engine. Sessions are
// not safe for concurrent use; callers serialize access per session.
type Session struct {
	ID string

	cat    *Catalog
	task   *domain.Task
	facts  map[string]any
	asked  map[string]bool
	engine *rules.Engine
}

// New starts an empty session over the shared catalog.
func New(cat *Catalog) *Session {
	return &Session{
		ID:     uuid.NewString(),
		cat:    cat,
		task:   domain.NewTask(),
		facts:  make(map[string]any),
		asked:  make(map[string]bool),
		engine: rules.NewEngine(cat.Rules, cat.log),
	}
}

// Answer records the answer to a question: the value is coerced, stored
// as a fact, and written to the question's task attribute. Answering a
// material question also fills the slot's intrinsic properties from the
// materials catalog. Re-answering overwrites the previous value.
func (s *Session) Answer(questionID string, raw any) error {
	q, err := s.cat.KB.Question(questionID)
	if err != nil {
		return err
	}
	v, err := q.CoerceAnswer(raw)
	if err != nil {
		return err
	}

	if q.Attribute != "" {
		f, err := s.cat.Schema.Field(q.Attribute)
		if err != nil {
			return fmt.Errorf("question %q: %w", questionID, err)
		}
		if err := f.Set(s.task, v); err != nil {
			return fmt.Errorf("question %q: %w", questionID, err)
		}
		s.enrichMaterial(q.Attribute)
	}

	s.facts[questionID] = v
	s.asked[questionID] = true
	return nil
}

// Skip marks a question as asked without recording a fact, so the
// selector does not offer it again.
func (s *Session) Skip(questionID string) error {
	if _, err := s.cat.KB.Question(questionID); err != nil {
		return err
	}
	s.asked[questionID] = true
	return nil
}

// enrichMaterial fills porosity, brittleness and base strength of a
// material slot from the materials catalog once its type is known.
func (s *Session) enrichMaterial(attribute string) {
	var slot *domain.Material
	switch attribute {
	case "materials.material_a.material_type":
		slot = &s.task.Materials.A
	case "materials.material_b.material_type":
		slot = &s.task.Materials.B
	default:
		return
	}
	spec, ok := s.cat.KB.Materials[string(slot.Type)]
	if !ok {
		return
	}
	slot.Porosity = spec.Porosity
	slot.Brittleness = spec.Brittleness
	slot.BaseStrength = domain.StrengthLevel(spec.BaseStrength)
}

// Infer runs forward chaining over the session task and returns the
// rules fired by this call.
func (s *Session) Infer() ([]string, error) {
	return s.engine.Infer(s.task)
}

// Candidates re-runs inference and returns the fasteners that satisfy
// the current requirements, in catalog order.
func (s *Session) Candidates() ([]domain.Fastener, error) {
	if _, err := s.Infer(); err != nil {
		return nil, err
	}
	return match.Filter(s.cat.KB.Fasteners, s.task), nil
}

// Recommendation pairs a surviving fastener with context-specific
// application advice.
type Recommendation struct {
	Fastener    domain.Fastener
	Suggestions []string
}

// Recommend returns the surviving fasteners with their suggestions. A
// suggestion rule contributes when its fact conditions hold and it
// applies to the fastener by category, by name, or to everything.
func (s *Session) Recommend() ([]Recommendation, error) {
	candidates, err := s.Candidates()
	if err != nil {
		return nil, err
	}

	recs := make([]Recommendation, 0, len(candidates))
	for _, f := range candidates {
		rec := Recommendation{Fastener: f}
		for _, sr := range s.cat.KB.SuggestionRules {
			if !appliesTo(sr, f) {
				continue
			}
			if rules.MatchFacts(sr.Conditions, s.facts) {
				rec.Suggestions = append(rec.Suggestions, sr.Suggestion)
			}
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func appliesTo(sr kb.SuggestionRule, f domain.Fastener) bool {
	for _, target := range sr.AppliesTo {
		if target == "all" || target == string(f.Category) || target == f.Name {
			return true
		}
	}
	return false
}

// Facts returns a copy of the recorded answers.
func (s *Session) Facts() map[string]any {
	out := make(map[string]any, len(s.facts))
	for k, v := range s.facts {
		out[k] = v
	}
	return out
}

// Task exposes the session task for inspection. Callers must not
// mutate it.
func (s *Session) Task() *domain.Task { return s.task }

// Reset discards all answers and derived knowledge, keeping the
// session id.
func (s *Session) Reset() {
	s.task = domain.NewTask()
	s.facts = make(map[string]any)
	s.asked = make(map[string]bool)
	s.engine.Reset()
}

// clone returns a deep copy for simulation. The copy shares the
// catalog but nothing mutable, so hypothetical answers never leak into
// the live session.
func (s *Session) clone() *Session {
	c := &Session{
		ID:     s.ID,
		cat:    s.cat,
		task:   s.task.Clone(),
		facts:  make(map[string]any, len(s.facts)),
		asked:  make(map[string]bool, len(s.asked)),
		engine: s.engine.Clone(),
	}
	for k, v := range s.facts {
		c.facts[k] = v
	}
	for k, v := range s.asked {
		c.asked[k] = v
	}
	return c
}
