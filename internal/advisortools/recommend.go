package advisortools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jaspervw/fastrec/internal/session"
	"github.com/jaspervw/fastrec/internal/store"
)

// RecommendTool handles the fastrec_recommend MCP tool.
type RecommendTool struct {
	sessions *session.Manager
}

// NewRecommendTool creates a RecommendTool.
func NewRecommendTool(sessions *session.Manager) *RecommendTool {
	return &RecommendTool{sessions: sessions}
}

// Definition returns the MCP tool definition for fastrec_recommend.
func (t *RecommendTool) Definition() mcp.Tool {
	return mcp.NewTool("fastrec_recommend",
		mcp.WithDescription(
			"Return the fastening methods that satisfy everything known in "+
				"the session, each with context-specific application advice.",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session identifier"),
		),
	)
}

// Handle processes the fastrec_recommend tool call.
func (t *RecommendTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := req.GetString("session_id", "")
	if sessionID == "" {
		return mcp.NewToolResultError("'session_id' is required"), nil
	}

	s, err := t.sessions.Get(sessionID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("session lookup: %v", err)), nil
	}
	recs, err := s.Recommend()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("building recommendations: %v", err)), nil
	}
	if err := t.sessions.Persist(s); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("persisting session: %v", err)), nil
	}

	return resultJSON(map[string]any{
		"session_id":      s.ID,
		"recommendations": toRecommendationPayloads(recs),
	}), nil
}

// ─── StateTool ──────────────────────────────────────────────────────────────

// StateTool handles the fastrec_state MCP tool.
type StateTool struct {
	sessions *session.Manager
}

// NewStateTool creates a StateTool.
func NewStateTool(sessions *session.Manager) *StateTool {
	return &StateTool{sessions: sessions}
}

// Definition returns the MCP tool definition for fastrec_state.
func (t *StateTool) Definition() mcp.Tool {
	return mcp.NewTool("fastrec_state",
		mcp.WithDescription(
			"Return the full state of a session: recorded answers, fired "+
				"rules and the requirements derived so far.",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session identifier"),
		),
	)
}

// Handle processes the fastrec_state tool call.
func (t *StateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := req.GetString("session_id", "")
	if sessionID == "" {
		return mcp.NewToolResultError("'session_id' is required"), nil
	}

	s, err := t.sessions.Get(sessionID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("session lookup: %v", err)), nil
	}
	if _, err := s.Infer(); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("running inference: %v", err)), nil
	}

	return resultJSON(s.Snapshot()), nil
}

// ─── ListSessionsTool ───────────────────────────────────────────────────────

// ListSessionsTool handles the fastrec_list_sessions MCP tool.
type ListSessionsTool struct {
	store *store.Store
}

// NewListSessionsTool creates a ListSessionsTool.
func NewListSessionsTool(st *store.Store) *ListSessionsTool {
	return &ListSessionsTool{store: st}
}

// Definition returns the MCP tool definition for fastrec_list_sessions.
func (t *ListSessionsTool) Definition() mcp.Tool {
	return mcp.NewTool("fastrec_list_sessions",
		mcp.WithDescription(
			"List stored advisory sessions, most recently updated first.",
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of sessions to return (default 20)"),
		),
	)
}

// Handle processes the fastrec_list_sessions tool call.
func (t *ListSessionsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if t.store == nil {
		return mcp.NewToolResultError("session persistence is disabled"), nil
	}
	limit := intArg(req, "limit", 20)
	infos, err := t.store.List(limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing sessions: %v", err)), nil
	}
	return resultJSON(map[string]any{"sessions": infos}), nil
}

// ─── DeleteSessionTool ──────────────────────────────────────────────────────

// DeleteSessionTool handles the fastrec_delete_session MCP tool.
type DeleteSessionTool struct {
	sessions *session.Manager
}

// NewDeleteSessionTool creates a DeleteSessionTool.
func NewDeleteSessionTool(sessions *session.Manager) *DeleteSessionTool {
	return &DeleteSessionTool{sessions: sessions}
}

// Definition returns the MCP tool definition for fastrec_delete_session.
func (t *DeleteSessionTool) Definition() mcp.Tool {
	return mcp.NewTool("fastrec_delete_session",
		mcp.WithDescription(
			"Delete a session from memory and from the session store.",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session identifier"),
		),
	)
}

// Handle processes the fastrec_delete_session tool call.
func (t *DeleteSessionTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := req.GetString("session_id", "")
	if sessionID == "" {
		return mcp.NewToolResultError("'session_id' is required"), nil
	}
	if err := t.sessions.Drop(sessionID); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("deleting session: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Session %q deleted", sessionID)), nil
}
