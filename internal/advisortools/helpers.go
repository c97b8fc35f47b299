// Package advisortools provides the MCP tool handlers of the fastening
// advisor.
//
// Each tool follows the same pattern:
// - A struct with dependencies (session.Manager) injected via constructor
// - Definition() returns the mcp.Tool schema
// - Handle() processes the request and returns a result
package advisortools

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jaspervw/fastrec/internal/kb"
	"github.com/jaspervw/fastrec/internal/session"
)

// questionPayload is the wire form of a question offered to the client.
type questionPayload struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Type    string   `json:"type"`
	Choices []string `json:"choices,omitempty"`
}

func toQuestionPayload(q *kb.Question) *questionPayload {
	if q == nil {
		return nil
	}
	return &questionPayload{
		ID:      q.ID,
		Text:    q.Text,
		Type:    string(q.Type),
		Choices: q.Choices,
	}
}

// recommendationPayload is the wire form of one recommendation.
type recommendationPayload struct {
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Permanence  string   `json:"permanence"`
	Suggestions []string `json:"suggestions,omitempty"`
}

func toRecommendationPayloads(recs []session.Recommendation) []recommendationPayload {
	out := make([]recommendationPayload, 0, len(recs))
	for _, r := range recs {
		out = append(out, recommendationPayload{
			Name:        r.Fastener.Name,
			Category:    string(r.Fastener.Category),
			Permanence:  string(r.Fastener.Permanence),
			Suggestions: r.Suggestions,
		})
	}
	return out
}

// intArg extracts an integer argument from a tool request, returning
// defaultVal if the key is missing or not a number (JSON numbers are float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// boolArg extracts a boolean argument from a tool request.
func boolArg(req mcp.CallToolRequest, key string, defaultVal bool) bool {
	v, ok := req.GetArguments()[key].(bool)
	if !ok {
		return defaultVal
	}
	return v
}

// resultJSON marshals a payload into a text tool result.
func resultJSON(v any) *mcp.CallToolResult {
	blob, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding response: %v", err))
	}
	return mcp.NewToolResultText(string(blob))
}
