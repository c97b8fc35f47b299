package kb

import (
	_ "embed"

	"github.com/jaspervw/fastrec/internal/domain"
)

//go:embed kb.yaml
var defaultKB []byte

// Default returns the built-in knowledge base. It fails only if the
// embedded catalog is inconsistent with the schema, which is a
// programming error rather than a user one.
func Default(schema domain.Schema) (*KnowledgeBase, error) {
	return Parse(defaultKB, schema)
}
