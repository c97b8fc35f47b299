package advisortools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jaspervw/fastrec/internal/session"
)

// StartSessionTool handles the fastrec_start_session MCP tool.
type StartSessionTool struct {
	sessions *session.Manager
}

// NewStartSessionTool creates a StartSessionTool.
func NewStartSessionTool(sessions *session.Manager) *StartSessionTool {
	return &StartSessionTool{sessions: sessions}
}

// Definition returns the MCP tool definition for fastrec_start_session.
func (t *StartSessionTool) Definition() mcp.Tool {
	return mcp.NewTool("fastrec_start_session",
		mcp.WithDescription(
			"Start a new fastening advisory session. Returns the session id "+
				"and the first question to ask.",
		),
	)
}

// Handle processes the fastrec_start_session tool call.
func (t *StartSessionTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s, err := t.sessions.Start()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to start session: %v", err)), nil
	}
	q, err := s.SelectNextQuestion()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("selecting first question: %v", err)), nil
	}

	return resultJSON(map[string]any{
		"session_id": s.ID,
		"question":   toQuestionPayload(q),
	}), nil
}

// ─── AnswerTool ─────────────────────────────────────────────────────────────

// AnswerTool handles the fastrec_answer MCP tool.
type AnswerTool struct {
	sessions *session.Manager
}

// NewAnswerTool creates an AnswerTool.
func NewAnswerTool(sessions *session.Manager) *AnswerTool {
	return &AnswerTool{sessions: sessions}
}

// Definition returns the MCP tool definition for fastrec_answer.
func (t *AnswerTool) Definition() mcp.Tool {
	return mcp.NewTool("fastrec_answer",
		mcp.WithDescription(
			"Record the answer to a question and return the next question. "+
				"A null question means the session has gathered enough "+
				"information; call fastrec_recommend for the results.",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session identifier"),
		),
		mcp.WithString("question_id",
			mcp.Required(),
			mcp.Description("Id of the question being answered"),
		),
		mcp.WithString("answer",
			mcp.Description("The answer value; booleans accept true/false or yes/no"),
		),
		mcp.WithBoolean("skip",
			mcp.Description("Skip this question instead of answering it"),
		),
	)
}

// Handle processes the fastrec_answer tool call.
func (t *AnswerTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := req.GetString("session_id", "")
	questionID := req.GetString("question_id", "")
	if sessionID == "" {
		return mcp.NewToolResultError("'session_id' is required"), nil
	}
	if questionID == "" {
		return mcp.NewToolResultError("'question_id' is required"), nil
	}

	s, err := t.sessions.Get(sessionID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("session lookup: %v", err)), nil
	}

	if boolArg(req, "skip", false) {
		if err := s.Skip(questionID); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("skipping question: %v", err)), nil
		}
	} else {
		answer, ok := req.GetArguments()["answer"]
		if !ok {
			return mcp.NewToolResultError("'answer' is required unless skipping"), nil
		}
		if err := s.Answer(questionID, answer); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("recording answer: %v", err)), nil
		}
	}

	q, err := s.SelectNextQuestion()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("selecting next question: %v", err)), nil
	}
	if err := t.sessions.Persist(s); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("persisting session: %v", err)), nil
	}

	return resultJSON(map[string]any{
		"session_id": s.ID,
		"question":   toQuestionPayload(q),
		"done":       q == nil,
	}), nil
}

// ─── NextQuestionTool ───────────────────────────────────────────────────────

// NextQuestionTool handles the fastrec_next_question MCP tool.
type NextQuestionTool struct {
	sessions *session.Manager
}

// NewNextQuestionTool creates a NextQuestionTool.
func NewNextQuestionTool(sessions *session.Manager) *NextQuestionTool {
	return &NextQuestionTool{sessions: sessions}
}

// Definition returns the MCP tool definition for fastrec_next_question.
func (t *NextQuestionTool) Definition() mcp.Tool {
	return mcp.NewTool("fastrec_next_question",
		mcp.WithDescription(
			"Return the most informative unanswered question for a session, "+
				"or null when no further question would narrow the candidates.",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session identifier"),
		),
	)
}

// Handle processes the fastrec_next_question tool call.
func (t *NextQuestionTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := req.GetString("session_id", "")
	if sessionID == "" {
		return mcp.NewToolResultError("'session_id' is required"), nil
	}

	s, err := t.sessions.Get(sessionID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("session lookup: %v", err)), nil
	}
	q, err := s.SelectNextQuestion()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("selecting next question: %v", err)), nil
	}

	return resultJSON(map[string]any{
		"question": toQuestionPayload(q),
		"done":     q == nil,
	}), nil
}

// ─── ResetSessionTool ───────────────────────────────────────────────────────

// ResetSessionTool handles the fastrec_reset MCP tool.
type ResetSessionTool struct {
	sessions *session.Manager
}

// NewResetSessionTool creates a ResetSessionTool.
func NewResetSessionTool(sessions *session.Manager) *ResetSessionTool {
	return &ResetSessionTool{sessions: sessions}
}

// Definition returns the MCP tool definition for fastrec_reset.
func (t *ResetSessionTool) Definition() mcp.Tool {
	return mcp.NewTool("fastrec_reset",
		mcp.WithDescription(
			"Discard all answers and derived conclusions of a session, "+
				"keeping its id.",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session identifier"),
		),
	)
}

// Handle processes the fastrec_reset tool call.
func (t *ResetSessionTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := req.GetString("session_id", "")
	if sessionID == "" {
		return mcp.NewToolResultError("'session_id' is required"), nil
	}

	s, err := t.sessions.Get(sessionID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("session lookup: %v", err)), nil
	}
	s.Reset()
	if err := t.sessions.Persist(s); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("persisting session: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Session %q reset", s.ID)), nil
}
