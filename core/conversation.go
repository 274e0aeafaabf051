package core

import (
	"sync"
	"time"
)

// Conversation is an ordered, append-only history of response items. It is
// safe for concurrent access.
//
// Contract:
//   - Append updates the Updated timestamp
//   - Items returns a defensive copy to avoid external mutation
//   - Clone performs a deep copy of the slice for safe divergence.
type Conversation struct {
	ID      string         `json:"id"`
	Items   []ResponseItem `json:"items"`
	Created time.Time      `json:"created"`
	Updated time.Time      `json:"updated"`
	mu      sync.RWMutex
}

// NewConversation creates an empty conversation with the given ID.
func NewConversation(id string) *Conversation {
	now := time.Now()
	return &Conversation{ID: id, Items: []ResponseItem{}, Created: now, Updated: now}
}

// Append adds items to the end of the history.
func (c *Conversation) Append(items ...ResponseItem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Items = append(c.Items, items...)
	c.Updated = time.Now()
}

// History returns a copy of the full item slice in original order.
func (c *Conversation) History() []ResponseItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	items := make([]ResponseItem, len(c.Items))
	copy(items, c.Items)
	return items
}

// Clone returns a copy of the conversation safe for independent mutation.
func (c *Conversation) Clone() *Conversation {
	c.mu.RLock()
	defer c.mu.RUnlock()
	clone := &Conversation{ID: c.ID, Items: make([]ResponseItem, len(c.Items)), Created: c.Created, Updated: c.Updated}
	copy(clone.Items, c.Items)
	return clone
}

// HistoryStore supplies prior turns for a conversation and records new ones.
// Implementations never reorder or drop items.
type HistoryStore interface {
	Append(conversationID string, items ...ResponseItem) error
	History(conversationID string) ([]ResponseItem, error)
}
