// Package session ties the catalog, the inference engine and the
// matcher together into per-user advisory sessions: answers come in as
// facts, inference derives requirements, and the surviving fasteners
// drive both recommendations and the choice of the next question.
package session

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/jaspervw/fastrec/internal/domain"
	"github.com/jaspervw/fastrec/internal/kb"
	"github.com/jaspervw/fastrec/internal/rules"
)

// Catalog bundles the loaded knowledge base with its compiled rule set.
// It is immutable after construction and shared read-only by every
// session.
type Catalog struct {
	Schema domain.Schema
	KB     *kb.KnowledgeBase
	Rules  []*rules.Rule

	log *zap.Logger
}

// NewCatalog compiles the knowledge base rules against the schema. A
// nil logger disables logging.
func NewCatalog(k *kb.KnowledgeBase, schema domain.Schema, log *zap.Logger) (*Catalog, error) {
	if log == nil {
		log = zap.NewNop()
	}
	compiled, err := rules.Compile(k.Rules, schema)
	if err != nil {
		return nil, fmt.Errorf("compiling rules: %w", err)
	}
	log.Info("catalog loaded",
		zap.Int("questions", len(k.Questions)),
		zap.Int("rules", len(k.Rules)),
		zap.Int("fasteners", len(k.Fasteners)))
	return &Catalog{Schema: schema, KB: k, Rules: compiled, log: log}, nil
}
