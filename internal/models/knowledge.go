// ABOUTME: KnowledgeRecord is one normalized knowledge-base entry
// ABOUTME: Produced by the knowledge loader, immutable after load
package models

// KnowledgeRecord is a single retrievable entry. ID equals the record's
// position in the loaded sequence.
type KnowledgeRecord struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}
