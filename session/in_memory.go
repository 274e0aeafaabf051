package session

import (
	"sync"

	"github.com/hupe1980/modelturn/core"
)

// InMemoryStore is a volatile HistoryStore keeping conversations in a
// process local map. It is safe for concurrent access and best suited for
// tests, the CLI and short-lived processes. Returned histories are copies so
// callers cannot mutate stored state.
type InMemoryStore struct {
	mu            sync.RWMutex
	conversations map[string]*core.Conversation
}

// NewInMemoryStore constructs an empty in-memory history store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{conversations: make(map[string]*core.Conversation)}
}

// Get returns a clone of the conversation, creating it lazily.
func (s *InMemoryStore) Get(conversationID string) (*core.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conversationLocked(conversationID).Clone(), nil
}

// Append adds items to the end of the conversation, creating it if needed.
func (s *InMemoryStore) Append(conversationID string, items ...core.ResponseItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversationLocked(conversationID).Append(items...)
	return nil
}

// History returns the conversation's items in order. Unknown conversations
// have an empty history.
func (s *InMemoryStore) History(conversationID string) ([]core.ResponseItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.conversations[conversationID]
	if !ok {
		return []core.ResponseItem{}, nil
	}
	return c.History(), nil
}

// Delete removes a conversation.
func (s *InMemoryStore) Delete(conversationID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conversations, conversationID)
}

// conversationLocked returns the stored conversation, allocating it when
// missing; caller must hold the write lock.
func (s *InMemoryStore) conversationLocked(conversationID string) *core.Conversation {
	c, ok := s.conversations[conversationID]
	if !ok {
		c = core.NewConversation(conversationID)
		s.conversations[conversationID] = c
	}
	return c
}
