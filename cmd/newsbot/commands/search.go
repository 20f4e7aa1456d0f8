// ABOUTME: CLI command to search the knowledge base without calling the chat model
// ABOUTME: Shows cosine-ranked entries as a table or JSON
package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	searchLimit int
)

// NewSearchCmd creates search command
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search knowledge entries",
		Long: `Search knowledge entries by semantic similarity.

Embeds the query and ranks every entry by cosine similarity. No chat
completion is requested.

Examples:
  newsbot search "interest rates"
  newsbot search --limit 10 "space launch"
  newsbot search --format json "elections"`,
		Args: cobra.ExactArgs(1),
		RunE: runSearch,
	}

	cmd.Flags().IntVar(&searchLimit, "limit", 5, "Maximum results to return")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
	if err := validatePositiveInt(searchLimit, "limit"); err != nil {
		return err
	}

	query := args[0]

	rt, err := runtimeLoader(cmd)
	if err != nil {
		return err
	}

	results, err := rt.Retriever.Retrieve(cmd.Context(), query, searchLimit)
	if err != nil {
		return fmt.Errorf("searching knowledge: %w", err)
	}

	if len(results) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No entries found for query: %s\n", query)
		}
		return nil
	}

	if jsonOutput() {
		jsonData, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "RANK\tSCORE\tTITLE\tPREVIEW\n")
	fmt.Fprintf(w, "----\t-----\t-----\t-------\n")
	for _, result := range results {
		fmt.Fprintf(w, "%d\t%.3f\t%s\t%s\n",
			result.Rank,
			result.Score,
			truncate(result.Title, 30),
			truncate(oneLine(result.Content), 60))
	}
	w.Flush()

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\nFound %d result(s)\n", len(results))
	}

	return nil
}
