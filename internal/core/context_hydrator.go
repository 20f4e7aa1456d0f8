// ABOUTME: ContextHydrator turns retrieved knowledge records into chat completion messages
// ABOUTME: Renders records as titled blocks and wraps them in the answer-only-from-context system prompt
package core

import (
	"fmt"
	"strings"

	"github.com/harper/newsbot/internal/models"
)

// ContextSeparator joins rendered records in the system prompt
const ContextSeparator = "\n\n---\n\n"

// OutOfScopeReply is the sentence the model is told to use when the knowledge base has no answer
const OutOfScopeReply = "Sorry, I don't have that information."

// DefaultInstructions follow the knowledge context in the system prompt
var DefaultInstructions = "If the question is outside this scope, answer: '" + OutOfScopeReply + "' " +
	"Economists, experts, specialists, lecturers, observers and practitioners quoted as sources are all referred to as experts. " +
	"At the end of the response, give the title of the source article together with its URL or link."

// ContextHydrator assembles the system prompt for a question
type ContextHydrator struct {
	instructions string
}

// NewContextHydrator creates a ContextHydrator. Empty instructions select DefaultInstructions.
func NewContextHydrator(instructions string) *ContextHydrator {
	if strings.TrimSpace(instructions) == "" {
		instructions = DefaultInstructions
	}
	return &ContextHydrator{instructions: instructions}
}

// FormatContext renders records as "**title**\ncontent" blocks
func (ch *ContextHydrator) FormatContext(records []models.ScoredRecord) string {
	blocks := make([]string, len(records))
	for i, r := range records {
		blocks[i] = fmt.Sprintf("**%s**\n%s", r.Title, r.Content)
	}
	return strings.Join(blocks, ContextSeparator)
}

// SystemPrompt builds the system message content for the given records
func (ch *ContextHydrator) SystemPrompt(records []models.ScoredRecord) string {
	var sb strings.Builder
	sb.WriteString("You are an assistant that answers only from the following knowledge base:\n\n")
	sb.WriteString(ch.FormatContext(records))
	sb.WriteString("\n\n")
	sb.WriteString(ch.instructions)
	return sb.String()
}

// Hydrate returns the [system, user] message pair for a chat completion
func (ch *ContextHydrator) Hydrate(query string, records []models.ScoredRecord) []models.Message {
	return []models.Message{
		{Role: models.RoleSystem, Content: ch.SystemPrompt(records)},
		{Role: models.RoleUser, Content: query},
	}
}
