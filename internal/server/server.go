// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it builds the schema, knowledge base,
// rule catalog and session store, and injects them into the tools that
// depend on them. No business logic lives here.
package server

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/jaspervw/fastrec/internal/advisortools"
	"github.com/jaspervw/fastrec/internal/domain"
	"github.com/jaspervw/fastrec/internal/kb"
	"github.com/jaspervw/fastrec/internal/session"
	"github.com/jaspervw/fastrec/internal/store"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Options configures the server.
type Options struct {
	// KBPath points at a YAML knowledge base. Empty means the embedded
	// default catalog.
	KBPath string

	// DataDir holds the session database. Empty disables persistence.
	DataDir string

	Logger *zap.Logger
}

// New creates and configures the MCP server with all advisor tools
// registered. This is the single place where dependencies are resolved.
//
// The returned cleanup function closes the session store and must be
// called on shutdown (typically via defer). It is always non-nil and
// safe to call even if the store failed to open.
func New(opts Options) (*server.MCPServer, func(), error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	schema := domain.NewSchema()

	var (
		knowledge *kb.KnowledgeBase
		err       error
	)
	if opts.KBPath != "" {
		knowledge, err = kb.Load(opts.KBPath, schema)
	} else {
		knowledge, err = kb.Default(schema)
	}
	if err != nil {
		return nil, noop, fmt.Errorf("loading knowledge base: %w", err)
	}

	cat, err := session.NewCatalog(knowledge, schema, log)
	if err != nil {
		return nil, noop, fmt.Errorf("building catalog: %w", err)
	}

	// Persistence is an independent concern: if the store fails to open,
	// the advisor still works with in-memory sessions. We log a warning
	// and skip the store-backed tools.
	cleanup := noop
	var st *store.Store
	if opts.DataDir != "" {
		st, err = store.Open(opts.DataDir)
		if err != nil {
			log.Warn("session persistence disabled", zap.Error(err))
			st = nil
		} else {
			cleanup = func() {
				if err := st.Close(); err != nil {
					log.Warn("closing session store", zap.Error(err))
				}
			}
		}
	}

	var snapStore session.SnapshotStore
	if st != nil {
		snapStore = st
	}
	sessions := session.NewManager(cat, snapStore)

	s := server.NewMCPServer(
		"fastrec",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	startTool := advisortools.NewStartSessionTool(sessions)
	s.AddTool(startTool.Definition(), startTool.Handle)

	answerTool := advisortools.NewAnswerTool(sessions)
	s.AddTool(answerTool.Definition(), answerTool.Handle)

	nextTool := advisortools.NewNextQuestionTool(sessions)
	s.AddTool(nextTool.Definition(), nextTool.Handle)

	recommendTool := advisortools.NewRecommendTool(sessions)
	s.AddTool(recommendTool.Definition(), recommendTool.Handle)

	stateTool := advisortools.NewStateTool(sessions)
	s.AddTool(stateTool.Definition(), stateTool.Handle)

	resetTool := advisortools.NewResetSessionTool(sessions)
	s.AddTool(resetTool.Definition(), resetTool.Handle)

	deleteTool := advisortools.NewDeleteSessionTool(sessions)
	s.AddTool(deleteTool.Definition(), deleteTool.Handle)

	if st != nil {
		listTool := advisortools.NewListSessionsTool(st)
		s.AddTool(listTool.Definition(), listTool.Handle)
	}

	log.Info("server configured",
		zap.Int("fasteners", len(knowledge.Fasteners)),
		zap.Int("questions", len(knowledge.Questions)),
		zap.Bool("persistence", st != nil),
	)

	return s, cleanup, nil
}

// noop is the default cleanup when persistence is disabled.
func noop() {}

// serverInstructions tells the client how to drive an advisory session.
func serverInstructions() string {
	return `You have access to fastrec, a fastening method advisor.

fastrec recommends how to join two materials (screws, bolts, adhesives,
welding and so on) by asking a short series of questions about the
materials, the load and the environment, then filtering its fastener
catalog against the derived requirements.

## Workflow

1. Call fastrec_start_session. It returns a session id and the first
   question.
2. Relay each question to the user. Questions are either boolean
   (accept true/false or yes/no) or multiple choice (answer must be one
   of the listed choices).
3. Call fastrec_answer with the user's answer. The response carries the
   next question, or "done": true when enough is known. If the user
   cannot answer a question, set "skip": true instead of guessing.
4. When done, call fastrec_recommend. Each recommendation names a
   fastening method and may include application advice (surface
   preparation, locking hardware, safety notes). Present the advice
   together with the method.

## Rules

- Never invent an answer on the user's behalf. Skip instead.
- The question order is chosen by the engine to eliminate candidates
  quickly; do not reorder or batch questions.
- fastrec_state shows everything recorded so far, including which
  inference rules fired. Use it when the user asks why a method was
  ruled out.
- fastrec_reset clears a session's answers while keeping its id.
- Sessions survive restarts: fastrec_list_sessions shows stored
  sessions and fastrec_answer works on any of them.`
}
