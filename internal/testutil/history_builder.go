package testutil

import (
	"github.com/hupe1980/modelturn/core"
)

// HistoryBuilder helps construct conversation history with fluent chaining.
// Example:
//
//	items := NewHistoryBuilder().User("hi").Assistant("hello").Build()
type HistoryBuilder struct {
	items []core.ResponseItem
}

// NewHistoryBuilder creates an empty builder.
func NewHistoryBuilder() *HistoryBuilder { return &HistoryBuilder{} }

// User appends a user message (chainable).
func (b *HistoryBuilder) User(text string) *HistoryBuilder {
	b.items = append(b.items, core.NewUserMessage(text))
	return b
}

// Assistant appends an assistant message (chainable).
func (b *HistoryBuilder) Assistant(text string) *HistoryBuilder {
	b.items = append(b.items, core.NewAssistantMessage(text))
	return b
}

// Call appends a function call (chainable).
func (b *HistoryBuilder) Call(callID, name, args string) *HistoryBuilder {
	b.items = append(b.items, core.FunctionCall{Name: name, Arguments: args, CallID: callID})
	return b
}

// Output appends a function call output (chainable).
func (b *HistoryBuilder) Output(callID, output string) *HistoryBuilder {
	b.items = append(b.items, core.FunctionCallOutput{CallID: callID, Output: output})
	return b
}

// Reasoning appends a reasoning item with one summary part (chainable).
func (b *HistoryBuilder) Reasoning(summary string) *HistoryBuilder {
	b.items = append(b.items, core.Reasoning{Summary: []core.SummaryText{{Text: summary}}})
	return b
}

// Item appends an arbitrary item (chainable).
func (b *HistoryBuilder) Item(it core.ResponseItem) *HistoryBuilder {
	b.items = append(b.items, it)
	return b
}

// Build returns a copy of the accumulated items.
func (b *HistoryBuilder) Build() []core.ResponseItem {
	out := make([]core.ResponseItem, len(b.items))
	copy(out, b.items)
	return out
}
