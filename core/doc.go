// Package core provides the foundational conversation types shared by the
// request builder, the provider transports and the history store:
//
//   - ResponseItem (message, reasoning, function call / output, local shell call)
//   - ContentItem (input_text, output_text, input_image)
//   - TokenUsage as reported by a provider
//   - Conversation and the HistoryStore contract
//
// Items are closed sum types. Each concrete type encodes itself with the
// "type" discriminator used by the Responses API, and UnmarshalResponseItem
// decodes the same shape, so history can round-trip through a provider.
package core
