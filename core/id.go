package core

import "github.com/google/uuid"

// NewID generates a new unique identifier for conversations.
//
// Conversation ids double as the prompt cache key and the session header of
// outbound requests, so every turn of a conversation must reuse the same id.
func NewID() string { return uuid.NewString() }
