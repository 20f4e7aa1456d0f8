// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Lets LLM agents query the knowledge base via stdio
package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/harper/newsbot/internal/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs newsbot as an MCP (Model Context Protocol) server, enabling
LLM agents like Claude to search and question the knowledge base via stdio.

Tools: retrieve_knowledge, ask_knowledge_base, list_knowledge.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by Claude Desktop)
  newsbot mcp

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "newsbot": {
  #       "command": "newsbot",
  #       "args": ["mcp", "--kb", "/path/to/news.json"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	rt, err := runtimeLoader(cmd)
	if err != nil {
		return err
	}

	server, _ := mcp.NewServer(rt)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("MCP server starting on stdio")

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}
