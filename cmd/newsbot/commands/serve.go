// ABOUTME: Serve command starts the HTTP chat API
// ABOUTME: Shuts down gracefully on SIGINT or SIGTERM
package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/harper/newsbot/internal/server"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveAddr string

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP chat API",
		Long: `Start the HTTP chat API.

Routes:
  POST /api/chat           {"session_id"?, "message"} -> reply and sources
  GET  /api/sessions/:id   conversation history
  POST /api/retrieve       {"query", "k"?} -> ranked entries
  GET  /healthz            liveness and knowledge base size`,
		Args: cobra.NoArgs,
		RunE: runServe,
		Example: `  # Listen on the configured address (default :8080)
  newsbot serve

  # Override the address
  newsbot serve --addr 127.0.0.1:9000`,
	}

	cmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides server.addr)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := runtimeLoader(cmd)
	if err != nil {
		return err
	}

	addr := rt.Config.ServerAddr
	if serveAddr != "" {
		addr = serveAddr
	}

	if err := server.New(rt).Start(ctx, addr); err != nil {
		return err
	}
	log.Info("shutdown complete")
	return nil
}

