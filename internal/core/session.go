// ABOUTME: Conversation sessions with append-only history and a concurrent session registry
// ABOUTME: A turn is recorded only after it succeeds, so failed turns leave history untouched
package core

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/harper/newsbot/internal/models"
)

// ErrSessionNotFound is returned for unknown session IDs
var ErrSessionNotFound = errors.New("session not found")

// Session is one user's conversation
type Session struct {
	ID        string
	CreatedAt time.Time

	mu      sync.Mutex
	history []models.Message
}

// NewSession creates an empty session with a fresh ID
func NewSession() *Session {
	return &Session{
		ID:        uuid.New().String(),
		CreatedAt: time.Now().UTC(),
	}
}

// Ask runs one turn through the assistant and records it on success
func (s *Session) Ask(ctx context.Context, assistant *Assistant, input string) (*Answer, error) {
	userMsg, err := models.NewUserMessage(input)
	if err != nil {
		return nil, err
	}

	answer, err := assistant.Answer(ctx, input)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.history = append(s.history, userMsg, models.Message{Role: models.RoleAssistant, Content: answer.Reply})
	s.mu.Unlock()

	return answer, nil
}

// History returns a copy of the conversation so far
func (s *Session) History() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Message, len(s.history))
	copy(out, s.history)
	return out
}

// SessionStore tracks sessions by ID
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionStore creates an empty store
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*Session)}
}

// Create registers and returns a new session
func (st *SessionStore) Create() *Session {
	s := NewSession()
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

// Get looks up a session
func (st *SessionStore) Get(id string) (*Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Resolve returns the session for id, creating one when id is empty
func (st *SessionStore) Resolve(id string) (*Session, error) {
	if id == "" {
		return st.Create(), nil
	}
	return st.Get(id)
}

// Len returns the number of sessions
func (st *SessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
