package core

import (
	"encoding/json"
	"fmt"
)

// ResponseItem is a single conversation unit exchanged with the model: a
// message, a reasoning record, a tool call or a tool result. Concrete item
// types implement the unexported isResponseItem marker enabling a closed set.
type ResponseItem interface {
	isResponseItem()
	// ItemType returns the wire discriminator ("message", "function_call", ...).
	ItemType() string
}

// Message is a role-attributed list of content items.
type Message struct {
	ID      string // Optional server-assigned id
	Role    string // user, assistant, system, developer
	Content []ContentItem
}

func (Message) isResponseItem() {}

// ItemType implements ResponseItem.
func (Message) ItemType() string { return "message" }

type messageWire struct {
	Type    string            `json:"type"`
	ID      string            `json:"id,omitempty"`
	Role    string            `json:"role"`
	Content []json.RawMessage `json:"content"`
}

// MarshalJSON encodes the message with its type tag.
func (m Message) MarshalJSON() ([]byte, error) {
	content := make([]ContentItem, len(m.Content))
	copy(content, m.Content)
	return json.Marshal(struct {
		Type    string        `json:"type"`
		ID      string        `json:"id,omitempty"`
		Role    string        `json:"role"`
		Content []ContentItem `json:"content"`
	}{Type: m.ItemType(), ID: m.ID, Role: m.Role, Content: content})
}

// NewUserMessage builds a user message carrying one input_text item.
func NewUserMessage(text string) Message {
	return Message{Role: "user", Content: []ContentItem{InputText{Text: text}}}
}

// NewAssistantMessage builds an assistant message carrying one output_text item.
func NewAssistantMessage(text string) Message {
	return Message{Role: "assistant", Content: []ContentItem{OutputText{Text: text}}}
}

// SummaryText is one part of a reasoning summary.
type SummaryText struct {
	Text string `json:"text"`
}

// ReasoningText is one part of raw reasoning content.
type ReasoningText struct {
	Text string `json:"text"`
}

// Reasoning records the model's reasoning for a turn.
type Reasoning struct {
	ID               string
	Summary          []SummaryText
	Content          []ReasoningText // Raw reasoning, only some providers expose it
	EncryptedContent string          // Opaque state returned when store=false
}

func (Reasoning) isResponseItem() {}

// ItemType implements ResponseItem.
func (Reasoning) ItemType() string { return "reasoning" }

type taggedText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type reasoningWire struct {
	Type             string       `json:"type"`
	ID               string       `json:"id,omitempty"`
	Summary          []taggedText `json:"summary"`
	Content          []taggedText `json:"content,omitempty"`
	EncryptedContent string       `json:"encrypted_content,omitempty"`
}

// MarshalJSON encodes the reasoning item with its type tag.
func (r Reasoning) MarshalJSON() ([]byte, error) {
	w := reasoningWire{
		Type:             r.ItemType(),
		ID:               r.ID,
		Summary:          make([]taggedText, 0, len(r.Summary)),
		EncryptedContent: r.EncryptedContent,
	}
	for _, s := range r.Summary {
		w.Summary = append(w.Summary, taggedText{Type: "summary_text", Text: s.Text})
	}
	for _, c := range r.Content {
		w.Content = append(w.Content, taggedText{Type: "reasoning_text", Text: c.Text})
	}
	return json.Marshal(w)
}

// FunctionCall is a model request to invoke a named tool.
type FunctionCall struct {
	ID        string
	Name      string
	Arguments string // Serialized JSON arguments, passed through verbatim
	CallID    string
}

func (FunctionCall) isResponseItem() {}

// ItemType implements ResponseItem.
func (FunctionCall) ItemType() string { return "function_call" }

type functionCallWire struct {
	Type      string `json:"type"`
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
	CallID    string `json:"call_id"`
}

// MarshalJSON encodes the call with its type tag.
func (f FunctionCall) MarshalJSON() ([]byte, error) {
	return json.Marshal(functionCallWire{Type: f.ItemType(), ID: f.ID, Name: f.Name, Arguments: f.Arguments, CallID: f.CallID})
}

// FunctionCallOutput carries the result of a FunctionCall back to the model.
type FunctionCallOutput struct {
	CallID  string
	Output  string
	Success *bool // Local bookkeeping only, never sent on the wire
}

func (FunctionCallOutput) isResponseItem() {}

// ItemType implements ResponseItem.
func (FunctionCallOutput) ItemType() string { return "function_call_output" }

type functionCallOutputWire struct {
	Type   string `json:"type"`
	CallID string `json:"call_id"`
	Output string `json:"output"`
}

// MarshalJSON encodes the output with its type tag.
func (f FunctionCallOutput) MarshalJSON() ([]byte, error) {
	return json.Marshal(functionCallOutputWire{Type: f.ItemType(), CallID: f.CallID, Output: f.Output})
}

// LocalShellAction is the exec request carried by a LocalShellCall.
type LocalShellAction struct {
	Type             string            `json:"type"` // "exec"
	Command          []string          `json:"command"`
	TimeoutMS        *int64            `json:"timeout_ms,omitempty"`
	WorkingDirectory string            `json:"working_directory,omitempty"`
	Env              map[string]string `json:"env,omitempty"`
	User             string            `json:"user,omitempty"`
}

// LocalShellCall is emitted by model families that use the built-in local shell tool.
type LocalShellCall struct {
	ID     string
	CallID string
	Status string // completed, in_progress, incomplete
	Action LocalShellAction
}

func (LocalShellCall) isResponseItem() {}

// ItemType implements ResponseItem.
func (LocalShellCall) ItemType() string { return "local_shell_call" }

type localShellCallWire struct {
	Type   string           `json:"type"`
	ID     string           `json:"id,omitempty"`
	CallID string           `json:"call_id,omitempty"`
	Status string           `json:"status"`
	Action LocalShellAction `json:"action"`
}

// MarshalJSON encodes the call with its type tag.
func (l LocalShellCall) MarshalJSON() ([]byte, error) {
	return json.Marshal(localShellCallWire{Type: l.ItemType(), ID: l.ID, CallID: l.CallID, Status: l.Status, Action: l.Action})
}

// Other preserves an item of a type this package does not model.
type Other struct {
	Type string
	Raw  json.RawMessage
}

func (Other) isResponseItem() {}

// ItemType implements ResponseItem.
func (o Other) ItemType() string { return o.Type }

// MarshalJSON re-emits the original payload.
func (o Other) MarshalJSON() ([]byte, error) {
	if len(o.Raw) == 0 {
		return json.Marshal(struct {
			Type string `json:"type"`
		}{Type: o.Type})
	}
	return o.Raw, nil
}

// UnmarshalResponseItem decodes a single tagged item as produced by the
// Responses API (for example the payload of response.output_item.done).
func UnmarshalResponseItem(data []byte) (ResponseItem, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode response item: %w", err)
	}
	switch head.Type {
	case "message":
		var w messageWire
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("decode message: %w", err)
		}
		content, err := unmarshalContentItems(w.Content)
		if err != nil {
			return nil, fmt.Errorf("decode message content: %w", err)
		}
		return Message{ID: w.ID, Role: w.Role, Content: content}, nil
	case "reasoning":
		var w reasoningWire
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("decode reasoning: %w", err)
		}
		r := Reasoning{ID: w.ID, EncryptedContent: w.EncryptedContent}
		for _, s := range w.Summary {
			r.Summary = append(r.Summary, SummaryText{Text: s.Text})
		}
		for _, c := range w.Content {
			r.Content = append(r.Content, ReasoningText{Text: c.Text})
		}
		return r, nil
	case "function_call":
		var w functionCallWire
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("decode function call: %w", err)
		}
		return FunctionCall{ID: w.ID, Name: w.Name, Arguments: w.Arguments, CallID: w.CallID}, nil
	case "function_call_output":
		var w functionCallOutputWire
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("decode function call output: %w", err)
		}
		return FunctionCallOutput{CallID: w.CallID, Output: w.Output}, nil
	case "local_shell_call":
		var w localShellCallWire
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("decode local shell call: %w", err)
		}
		return LocalShellCall{ID: w.ID, CallID: w.CallID, Status: w.Status, Action: w.Action}, nil
	default:
		raw := make(json.RawMessage, len(data))
		copy(raw, data)
		return Other{Type: head.Type, Raw: raw}, nil
	}
}
