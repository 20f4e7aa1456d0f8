// ABOUTME: MCP tool definitions and registration for the knowledge-base server
// ABOUTME: Exposes retrieval, question answering, and record listing to LLM agents
package mcp

import (
	"github.com/harper/newsbot/internal/core"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// ServerName and ServerVersion identify the MCP server
const (
	ServerName    = "newsbot knowledge base"
	ServerVersion = "0.1.0"
)

// NewServer creates an MCP server with all tools registered
func NewServer(rt *core.Runtime) (*mcpserver.MCPServer, *Handlers) {
	server := mcpserver.NewMCPServer(ServerName, ServerVersion)
	return server, RegisterTools(server, rt)
}

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, rt *core.Runtime) *Handlers {
	handlers := &Handlers{
		kb:        rt.KB,
		retriever: rt.Retriever,
		assistant: rt.Assistant,
		sessions:  rt.Sessions,
	}

	// 1. retrieve_knowledge - cosine top-k over the knowledge base
	server.AddTool(mcp.Tool{
		Name:        "retrieve_knowledge",
		Description: "Retrieve the knowledge-base entries most similar to a query, ranked by cosine similarity.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query",
				},
				"max_results": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of entries to return (default: 3)",
					"default":     core.DefaultTopK,
				},
			},
			Required: []string{"query"},
		},
	}, handlers.RetrieveKnowledge)

	// 2. ask_knowledge_base - full retrieval-augmented answer
	server.AddTool(mcp.Tool{
		Name:        "ask_knowledge_base",
		Description: "Answer a question using only the knowledge base. Pass session_id to continue a conversation.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"question": map[string]interface{}{
					"type":        "string",
					"description": "The user's question",
				},
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Optional session to append this turn to; a new session is created when omitted",
				},
			},
			Required: []string{"question"},
		},
	}, handlers.AskKnowledgeBase)

	// 3. list_knowledge - titles of every indexed entry
	server.AddTool(mcp.Tool{
		Name:        "list_knowledge",
		Description: "List the IDs and titles of every knowledge-base entry.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.ListKnowledge)

	return handlers
}
