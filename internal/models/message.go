// ABOUTME: Message is one role-tagged entry in a chat conversation
// ABOUTME: Used for session history and chat completion requests
package models

import (
	"errors"
	"strings"
)

// Chat roles
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single chat message
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// NewUserMessage creates a user message, rejecting blank input
func NewUserMessage(content string) (Message, error) {
	if strings.TrimSpace(content) == "" {
		return Message{}, errors.New("user message cannot be empty")
	}
	return Message{Role: RoleUser, Content: content}, nil
}
