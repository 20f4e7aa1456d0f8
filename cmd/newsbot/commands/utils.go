// ABOUTME: Shared utility functions for CLI commands
// ABOUTME: Text shortening, source listings, and flag validation
package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/harper/newsbot/internal/models"
)

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// oneLine collapses all whitespace runs into single spaces
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// printSources lists retrieved entries beneath a reply
func printSources(w io.Writer, sources []models.ScoredRecord) {
	if len(sources) == 0 {
		return
	}
	fmt.Fprintln(w, "Sources:")
	for _, src := range sources {
		fmt.Fprintf(w, "  %d. %s (%.3f)\n", src.Rank, src.Title, src.Score)
	}
}

// validatePositiveInt returns error if n is not positive
func validatePositiveInt(n int, name string) error {
	if n <= 0 {
		return fmt.Errorf("%s must be positive, got %d", name, n)
	}
	return nil
}
