// ABOUTME: CLI command to ask a single question of the knowledge base
// ABOUTME: Prints the reply, or the reply with scored sources as JSON
package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewAskCmd creates the ask command
func NewAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask one question",
		Long: `Ask one question and print the answer.

The question is answered from the knowledge entries most similar to it.

Examples:
  newsbot ask "What happened in the markets today?"
  newsbot ask --format json "Who won the election?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runAsk,
	}

	return cmd
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.Join(args, " ")
	if strings.TrimSpace(question) == "" {
		return fmt.Errorf("question cannot be empty")
	}

	rt, err := runtimeLoader(cmd)
	if err != nil {
		return err
	}

	answer, err := rt.Sessions.Create().Ask(cmd.Context(), rt.Assistant, question)
	if err != nil {
		return err
	}

	if jsonOutput() {
		jsonData, err := json.MarshalIndent(answer, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s\n", answer.Reply)
	if verbose {
		printSources(cmd.OutOrStdout(), answer.Sources)
	}
	return nil
}
