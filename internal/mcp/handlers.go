// ABOUTME: MCP tool handler implementations for the knowledge-base server
// ABOUTME: Failures are returned as tool errors so one bad turn never stops the server
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/harper/newsbot/internal/core"
	"github.com/mark3labs/mcp-go/mcp"
	log "github.com/sirupsen/logrus"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	kb        *core.KnowledgeBase
	retriever *core.Retriever
	assistant *core.Assistant
	sessions  *core.SessionStore
}

// RetrieveKnowledge handles the retrieve_knowledge tool
func (h *Handlers) RetrieveKnowledge(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}

	maxResults := request.GetInt("max_results", core.DefaultTopK)
	if maxResults < 1 {
		return mcp.NewToolResultError(fmt.Sprintf("max_results must be positive, got %d", maxResults)), nil
	}

	results, err := h.retriever.Retrieve(ctx, query, maxResults)
	if err != nil {
		log.WithError(err).Warn("retrieve_knowledge failed")
		return mcp.NewToolResultError(fmt.Sprintf("retrieval failed: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"query":   query,
		"results": results,
	})
}

// AskKnowledgeBase handles the ask_knowledge_base tool
func (h *Handlers) AskKnowledgeBase(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("question argument is required and must be a string"), nil
	}

	session, err := h.sessions.Resolve(request.GetString("session_id", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	answer, err := session.Ask(ctx, h.assistant, question)
	if err != nil {
		log.WithError(err).WithField("session_id", session.ID).Warn("ask_knowledge_base failed")
		return mcp.NewToolResultError(fmt.Sprintf("answer failed: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"session_id": session.ID,
		"reply":      answer.Reply,
		"sources":    answer.Sources,
	})
}

// ListKnowledge handles the list_knowledge tool
func (h *Handlers) ListKnowledge(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	records := h.kb.Records()

	entries := make([]map[string]interface{}, 0, len(records))
	for _, r := range records {
		entries = append(entries, map[string]interface{}{
			"id":    r.ID,
			"title": r.Title,
		})
	}

	return jsonResult(map[string]interface{}{
		"source":  h.kb.Source,
		"count":   len(entries),
		"entries": entries,
	})
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	responseJSON, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}
