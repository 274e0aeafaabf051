package model

import (
	"fmt"

	"github.com/hupe1980/modelturn/config"
	"github.com/hupe1980/modelturn/core"
	"github.com/hupe1980/modelturn/logging"
	"github.com/hupe1980/modelturn/tool"
)

// IncludeEncryptedReasoning asks the provider to return reasoning state inline
// when it does not store the response.
const IncludeEncryptedReasoning = "reasoning.encrypted_content"

// Request is the provider-neutral envelope for one turn. Its JSON encoding is
// the Responses API request body.
type Request struct {
	Model             string              `json:"model"`
	Instructions      string              `json:"instructions"`
	Input             []core.ResponseItem `json:"input"`
	Tools             []map[string]any    `json:"tools"`
	ToolChoice        string              `json:"tool_choice"`
	ParallelToolCalls bool                `json:"parallel_tool_calls"`
	Reasoning         *Reasoning          `json:"reasoning,omitempty"`
	Store             bool                `json:"store"`
	Stream            bool                `json:"stream"`
	Include           []string            `json:"include"`
	PromptCacheKey    string              `json:"prompt_cache_key,omitempty"`
}

// RequestOptions carry the per-client settings BuildRequest needs beyond the
// Prompt.
type RequestOptions struct {
	ReasoningEffort  config.ReasoningEffort
	ReasoningSummary config.ReasoningSummary
	// PromptCacheKey groups requests of one conversation for provider caching.
	PromptCacheKey string
	Logger         logging.Logger
}

// BuildRequest assembles the request envelope for model. It fails only when
// the tool catalog cannot be projected.
func BuildRequest(model string, prompt Prompt, family ModelFamily, opts RequestOptions) (*Request, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NoOpLogger{}
	}

	tools, err := tool.ToResponsesTools(prompt.Tools)
	if err != nil {
		return nil, fmt.Errorf("failed to build tools: %w", err)
	}

	reasoning := SelectReasoning(family, opts.ReasoningEffort, opts.ReasoningSummary)

	include := []string{}
	if reasoning != nil && !prompt.Store {
		include = append(include, IncludeEncryptedReasoning)
	}

	return &Request{
		Model:        model,
		Instructions: prompt.FullInstructions(family),
		Input: prompt.FormattedInput(func(o *FormatOptions) {
			o.Logger = logger
		}),
		Tools:             tools,
		ToolChoice:        "auto",
		ParallelToolCalls: false,
		Reasoning:         reasoning,
		Store:             prompt.Store,
		Stream:            true,
		Include:           include,
		PromptCacheKey:    opts.PromptCacheKey,
	}, nil
}
