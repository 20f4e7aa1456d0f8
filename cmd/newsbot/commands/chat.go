// ABOUTME: Interactive chat command: a read-eval-print loop over one session
// ABOUTME: Failed turns print an error and the loop keeps going with history intact
package commands

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/harper/newsbot/internal/core"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var chatShowSources bool

// NewChatCmd creates the chat command
func NewChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start an interactive chat session.

Each line you type is answered from the knowledge base. The conversation
is kept for the whole session; type "exit" or "quit" (or send EOF) to leave.`,
		Args: cobra.NoArgs,
		RunE: runChat,
	}

	cmd.Flags().BoolVar(&chatShowSources, "sources", false, "Show retrieved sources after each reply")

	return cmd
}

func runChat(cmd *cobra.Command, args []string) error {
	rt, err := runtimeLoader(cmd)
	if err != nil {
		return err
	}

	return chatLoop(cmd, rt, cmd.InOrStdin(), cmd.OutOrStdout())
}

func chatLoop(cmd *cobra.Command, rt *core.Runtime, in io.Reader, out io.Writer) error {
	session := rt.Sessions.Create()
	log.WithField("session_id", session.ID).Debug("chat session started")

	if !quiet {
		fmt.Fprintf(out, "Loaded %d knowledge entries. Type \"exit\" to quit.\n", rt.KB.Store.Len())
	}

	scanner := bufio.NewScanner(in)
	for {
		if !quiet {
			fmt.Fprint(out, "> ")
		}
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}

		answer, err := session.Ask(cmd.Context(), rt.Assistant, line)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			continue
		}

		fmt.Fprintf(out, "%s\n", answer.Reply)
		if chatShowSources {
			printSources(out, answer.Sources)
		}
		fmt.Fprintln(out)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	return nil
}
