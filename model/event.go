package model

import "github.com/hupe1980/modelturn/core"

// ResponseEvent is one incremental unit of a model reply. Concrete events
// implement the unexported isResponseEvent marker enabling a closed set.
type ResponseEvent interface{ isResponseEvent() }

// Created signals that the provider accepted the request.
type Created struct{}

func (Created) isResponseEvent() {}

// OutputItemDone carries a completed output item.
type OutputItemDone struct {
	Item core.ResponseItem
}

func (OutputItemDone) isResponseEvent() {}

// Completed is the last event of a successful reply.
type Completed struct {
	ResponseID string
	TokenUsage *core.TokenUsage // Nil when the provider reported none
}

func (Completed) isResponseEvent() {}

// OutputTextDelta is a fragment of assistant text.
type OutputTextDelta struct {
	Delta string
}

func (OutputTextDelta) isResponseEvent() {}

// ReasoningSummaryDelta is a fragment of the reasoning summary.
type ReasoningSummaryDelta struct {
	Delta string
}

func (ReasoningSummaryDelta) isResponseEvent() {}

// ReasoningContentDelta is a fragment of raw reasoning content.
type ReasoningContentDelta struct {
	Delta string
}

func (ReasoningContentDelta) isResponseEvent() {}

// ReasoningSummaryPartAdded marks the start of a new reasoning summary part.
type ReasoningSummaryPartAdded struct{}

func (ReasoningSummaryPartAdded) isResponseEvent() {}
