package model

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/hupe1980/modelturn/core"
)

// Info contains metadata about a model implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"` // "openai", "anthropic", "mock"
	SupportsTools bool   `json:"supports_tools"`
}

// Model is a provider transport. Stream sends req and returns the reply as a
// ResponseStream fed by a goroutine the implementation starts. Errors that
// occur before any event is produced may be returned directly; later errors
// arrive through the stream.
type Model interface {
	Stream(ctx context.Context, req *Request) (*ResponseStream, error)

	// Info returns information about the model implementation.
	Info() Info
}

// MockModel is a lightweight in-memory Model useful for tests and examples.
// It replays scripted turns in order and records every request it receives.
type MockModel struct {
	info       Info
	bufferSize int

	mu       sync.Mutex
	scripts  [][]ResponseEvent
	failures []error
	requests []*Request
}

// NewMockModel constructs a MockModel with tool support enabled.
func NewMockModel(name, provider string) *MockModel {
	return &MockModel{
		info: Info{
			Name:          name,
			Provider:      provider,
			SupportsTools: true,
		},
		bufferSize: 16,
	}
}

// AddResponse queues a turn that streams text word by word, then emits the
// assistant message and a completion carrying responseID.
func (m *MockModel) AddResponse(responseID, text string) {
	events := []ResponseEvent{Created{}}
	for _, w := range strings.SplitAfter(text, " ") {
		if w != "" {
			events = append(events, OutputTextDelta{Delta: w})
		}
	}
	events = append(events,
		OutputItemDone{Item: core.NewAssistantMessage(text)},
		Completed{ResponseID: responseID},
	)
	m.AddEvents(events...)
}

// AddEvents queues a turn that replays events verbatim.
func (m *MockModel) AddEvents(events ...ResponseEvent) {
	m.AddFailingEvents(nil, events...)
}

// AddFailingEvents queues a turn that replays events and then fails with err.
func (m *MockModel) AddFailingEvents(err error, events ...ResponseEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scripts = append(m.scripts, events)
	m.failures = append(m.failures, err)
}

// Requests returns the requests received so far.
func (m *MockModel) Requests() []*Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// Stream implements Model. Without a queued script it answers with a single
// message echoing the last user text.
func (m *MockModel) Stream(ctx context.Context, req *Request) (*ResponseStream, error) {
	if req == nil {
		return nil, fmt.Errorf("nil request")
	}

	m.mu.Lock()
	m.requests = append(m.requests, req)
	var (
		events []ResponseEvent
		fail   error
	)
	if len(m.scripts) > 0 {
		events, fail = m.scripts[0], m.failures[0]
		m.scripts, m.failures = m.scripts[1:], m.failures[1:]
	} else {
		text := fmt.Sprintf("Mock response to: %s", lastUserText(req.Input))
		events = []ResponseEvent{
			Created{},
			OutputItemDone{Item: core.NewAssistantMessage(text)},
			Completed{ResponseID: "mock"},
		}
	}
	m.mu.Unlock()

	stream, sender := NewResponseStream(m.bufferSize)
	go func() {
		defer sender.Close()
		for _, ev := range events {
			if err := sender.Send(ctx, ev); err != nil {
				return
			}
		}
		if fail != nil {
			_ = sender.Fail(ctx, fail)
		}
	}()
	return stream, nil
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }

func lastUserText(items []core.ResponseItem) string {
	for i := len(items) - 1; i >= 0; i-- {
		if msg, ok := items[i].(core.Message); ok && msg.Role == "user" {
			return core.Text(msg.Content)
		}
	}
	return ""
}
