package testutil

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SSEBuilder assembles a text/event-stream body for httptest servers.
// Example:
//
//	body := NewSSEBuilder().Event("response.created", map[string]any{"type": "response.created"}).String()
type SSEBuilder struct {
	b strings.Builder
}

// NewSSEBuilder creates an empty builder.
func NewSSEBuilder() *SSEBuilder { return &SSEBuilder{} }

// Event appends one event whose data is the JSON encoding of payload
// (chainable). Strings and byte slices are written verbatim.
func (s *SSEBuilder) Event(name string, payload any) *SSEBuilder {
	var data string
	switch p := payload.(type) {
	case string:
		data = p
	case []byte:
		data = string(p)
	default:
		raw, err := json.Marshal(p)
		if err != nil {
			panic(fmt.Sprintf("testutil: encode sse payload: %v", err))
		}
		data = string(raw)
	}
	if name != "" {
		fmt.Fprintf(&s.b, "event: %s\n", name)
	}
	fmt.Fprintf(&s.b, "data: %s\n\n", data)
	return s
}

// Typed appends an event whose name is also injected as the "type" field of
// payload (chainable).
func (s *SSEBuilder) Typed(name string, payload map[string]any) *SSEBuilder {
	p := make(map[string]any, len(payload)+1)
	for k, v := range payload {
		p[k] = v
	}
	p["type"] = name
	return s.Event(name, p)
}

// String returns the body.
func (s *SSEBuilder) String() string { return s.b.String() }
