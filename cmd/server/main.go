// ABOUTME: Main entry point for the standalone newsbot MCP server with stdio transport
// ABOUTME: Loads configuration, embeds the knowledge base, and serves MCP tools
package main

import (
	"context"
	"flag"
	"os"

	"github.com/harper/newsbot/internal/config"
	"github.com/harper/newsbot/internal/core"
	"github.com/harper/newsbot/internal/mcp"
	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
	log "github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config", "", "Path to secrets.toml")
	kbPath := flag.String("kb", "", "Knowledge base path")
	flag.Parse()

	log.SetOutput(os.Stderr)

	if err := godotenv.Load(); err != nil {
		log.WithError(err).Debug("no .env file loaded")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *kbPath != "" {
		cfg.KnowledgeBase = *kbPath
	}

	rt, err := core.NewRuntime(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to build knowledge base: %v", err)
	}

	server, _ := mcp.NewServer(rt)

	log.Info("newsbot MCP server starting on stdio")
	if err := mcpserver.ServeStdio(server); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
