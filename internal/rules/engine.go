package rules

import (
	"sort"

	"go.uber.org/zap"

	"github.com/jaspervw/fastrec/internal/domain"
)

// Engine runs forward chaining over a compiled rule set. The rule set
// is shared and read-only; the engine itself carries per-session state,
// namely which rules have already fired. A rule fires at most once per
// session, so re-running inference after new answers only adds
// conclusions.
type Engine struct {
	rules []*Rule
	fired map[string]bool
	log   *zap.Logger
}

// NewEngine returns an engine over the given rules. A nil logger
// disables logging.
func NewEngine(rules []*Rule, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		rules: rules,
		fired: make(map[string]bool),
		log:   log,
	}
}

// Infer runs rule passes over the task until a full pass fires nothing.
// Within a pass rules are tried in catalog order; a fired rule may
// enable others, which the next pass picks up. The ids of rules fired
// during this call are returned in firing order.
func (e *Engine) Infer(t *domain.Task) ([]string, error) {
	var firedNow []string
	for {
		progress := false
		for _, r := range e.rules {
			if e.fired[r.ID] || !r.Matches(t) {
				continue
			}
			if err := r.Apply(t); err != nil {
				return firedNow, err
			}
			e.fired[r.ID] = true
			firedNow = append(firedNow, r.ID)
			progress = true
			e.log.Debug("rule fired", zap.String("rule", r.ID))
		}
		if !progress {
			return firedNow, nil
		}
	}
}

// Fired returns the ids of all rules fired so far, sorted for stable
// snapshots.
func (e *Engine) Fired() []string {
	ids := make([]string, 0, len(e.fired))
	for id := range e.fired {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// RestoreFired marks rules as already fired, for session restore. Ids
// not in the rule set are ignored: a snapshot may predate a catalog
// change.
func (e *Engine) RestoreFired(ids []string) {
	known := make(map[string]bool, len(e.rules))
	for _, r := range e.rules {
		known[r.ID] = true
	}
	for _, id := range ids {
		if known[id] {
			e.fired[id] = true
		}
	}
}

// Reset clears the firing state.
func (e *Engine) Reset() {
	e.fired = make(map[string]bool)
}

// Clone returns an engine with copied firing state over the same shared
// rule set. Simulation uses clones so hypothetical inference never
// marks rules fired in the live session.
func (e *Engine) Clone() *Engine {
	c := &Engine{
		rules: e.rules,
		fired: make(map[string]bool, len(e.fired)),
		log:   e.log,
	}
	for id := range e.fired {
		c.fired[id] = true
	}
	return c
}
