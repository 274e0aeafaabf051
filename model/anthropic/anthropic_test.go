package anthropic

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/hupe1980/modelturn/config"
	"github.com/hupe1980/modelturn/core"
	"github.com/hupe1980/modelturn/internal/testutil"
	"github.com/hupe1980/modelturn/model"
	"github.com/hupe1980/modelturn/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captured struct {
	path string
	body map[string]any
}

func newServer(t *testing.T, status int, body string) (*httptest.Server, *captured) {
	t.Helper()
	c := &captured{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.path = r.URL.Path
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &c.body)

		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, c
}

func newTestModel(srv *httptest.Server) *Model {
	return NewModel([]option.RequestOption{
		option.WithBaseURL(srv.URL),
		option.WithAPIKey("test-key"),
	}, func(o *Options) {
		o.Model = "claude-sonnet-4-5"
		o.MaxTokens = 1000
		o.BufferSize = 4
	})
}

func replyBody() string {
	return testutil.NewSSEBuilder().
		Typed("message_start", map[string]any{"message": map[string]any{
			"id": "msg_1", "type": "message", "role": "assistant", "model": "claude-sonnet-4-5",
			"content": []any{},
			"usage":   map[string]any{"input_tokens": 20, "output_tokens": 1, "cache_read_input_tokens": 5},
		}}).
		Typed("content_block_start", map[string]any{"index": 0, "content_block": map[string]any{"type": "thinking", "thinking": "", "signature": ""}}).
		Typed("content_block_delta", map[string]any{"index": 0, "delta": map[string]any{"type": "thinking_delta", "thinking": "Let me look"}}).
		Typed("content_block_stop", map[string]any{"index": 0}).
		Typed("content_block_start", map[string]any{"index": 1, "content_block": map[string]any{"type": "text", "text": ""}}).
		Typed("content_block_delta", map[string]any{"index": 1, "delta": map[string]any{"type": "text_delta", "text": "Checking"}}).
		Typed("content_block_delta", map[string]any{"index": 1, "delta": map[string]any{"type": "text_delta", "text": " files"}}).
		Typed("content_block_stop", map[string]any{"index": 1}).
		Typed("content_block_start", map[string]any{"index": 2, "content_block": map[string]any{"type": "tool_use", "id": "toolu_1", "name": "read_file", "input": map[string]any{}}}).
		Typed("content_block_delta", map[string]any{"index": 2, "delta": map[string]any{"type": "input_json_delta", "partial_json": `{"path":`}}).
		Typed("content_block_delta", map[string]any{"index": 2, "delta": map[string]any{"type": "input_json_delta", "partial_json": `"main.go"}`}}).
		Typed("content_block_stop", map[string]any{"index": 2}).
		Typed("message_delta", map[string]any{"delta": map[string]any{"stop_reason": "tool_use"}, "usage": map[string]any{"output_tokens": 30}}).
		Typed("message_stop", map[string]any{}).
		String()
}

func TestModel_Stream(t *testing.T) {
	srv, c := newServer(t, http.StatusOK, replyBody())
	m := newTestModel(srv)

	client := model.NewClient(m, func(o *model.ClientOptions) {
		o.ReasoningEffort = config.ReasoningEffortMedium
		o.Family = &model.ModelFamily{Slug: "claude-sonnet-4-5", SupportsReasoningSummaries: true}
	})
	stream, err := client.Stream(context.Background(), model.Prompt{
		Input: testutil.NewHistoryBuilder().User("read main.go").Build(),
		Tools: []tool.Spec{tool.NewFunctionSpec("read_file", "Read a file", map[string]any{
			"type":       "object",
			"properties": map[string]any{"path": map[string]any{"type": "string"}},
			"required":   []string{"path"},
		})},
	})
	require.NoError(t, err)

	var events []model.ResponseEvent
	for ev, err := range stream.All(context.Background()) {
		require.NoError(t, err)
		events = append(events, ev)
	}

	assert.Equal(t, []model.ResponseEvent{
		model.Created{},
		model.ReasoningContentDelta{Delta: "Let me look"},
		model.OutputItemDone{Item: core.Reasoning{Content: []core.ReasoningText{{Text: "Let me look"}}}},
		model.OutputTextDelta{Delta: "Checking"},
		model.OutputTextDelta{Delta: " files"},
		model.OutputItemDone{Item: core.NewAssistantMessage("Checking files")},
		model.OutputItemDone{Item: core.FunctionCall{Name: "read_file", Arguments: `{"path":"main.go"}`, CallID: "toolu_1"}},
		model.Completed{ResponseID: "msg_1", TokenUsage: &core.TokenUsage{
			InputTokens: 20, CachedInputTokens: 5, OutputTokens: 30, TotalTokens: 50,
		}},
	}, events)

	assert.Equal(t, "/v1/messages", c.path)
	assert.Equal(t, "claude-sonnet-4-5", c.body["model"])
	assert.Equal(t, true, c.body["stream"])
	assert.Equal(t, float64(5096), c.body["max_tokens"])
	assert.Equal(t, map[string]any{"type": "enabled", "budget_tokens": float64(4096)}, c.body["thinking"])

	system := c.body["system"].([]any)
	require.Len(t, system, 1)
	assert.Equal(t, model.BaseInstructions(), system[0].(map[string]any)["text"])

	tools := c.body["tools"].([]any)
	require.Len(t, tools, 1)
	assert.Equal(t, "read_file", tools[0].(map[string]any)["name"])
	assert.Equal(t, "Read a file", tools[0].(map[string]any)["description"])
}

func TestModel_StreamIncomplete(t *testing.T) {
	body := testutil.NewSSEBuilder().
		Typed("message_start", map[string]any{"message": map[string]any{"id": "msg_2", "content": []any{}}}).
		String()
	srv, _ := newServer(t, http.StatusOK, body)
	m := newTestModel(srv)

	stream, err := m.Stream(context.Background(), &model.Request{Model: "claude-sonnet-4-5"})
	require.NoError(t, err)

	res, err := model.Collect(context.Background(), stream)
	assert.ErrorIs(t, err, model.ErrStreamIncomplete)
	assert.Equal(t, 1, res.Events)
}

func TestModel_HTTPError(t *testing.T) {
	srv, _ := newServer(t, http.StatusBadRequest, `{"type":"error","error":{"type":"invalid_request_error","message":"bad"}}`)
	m := newTestModel(srv)

	_, err := m.Stream(context.Background(), &model.Request{Model: "claude-sonnet-4-5"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "anthropic streaming error")
}

func TestBuildMessages(t *testing.T) {
	ok := false
	items := testutil.NewHistoryBuilder().
		Item(core.Message{Role: "developer", Content: []core.ContentItem{core.InputText{Text: "be terse"}}}).
		User("<environment_context/>").
		User("list files").
		Item(core.Reasoning{Summary: []core.SummaryText{{Text: "skip me"}}}).
		Assistant("Running ls").
		Call("call_1", "shell", `{"command":["ls"]}`).
		Item(core.FunctionCallOutput{CallID: "call_1", Output: "boom", Success: &ok}).
		Item(core.LocalShellCall{CallID: "call_2", Status: "completed", Action: core.LocalShellAction{Type: "exec", Command: []string{"pwd"}}}).
		Output("call_2", "/repo").
		Build()

	messages, system, err := buildMessages(items)
	require.NoError(t, err)

	require.Len(t, system, 1)
	assert.Equal(t, "be terse", system[0].Text)

	data, err := json.Marshal(messages)
	require.NoError(t, err)
	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	roles := []string{}
	for _, m := range decoded {
		roles = append(roles, m["role"].(string))
	}
	assert.Equal(t, []string{"user", "assistant", "user", "assistant", "user"}, roles)
	assert.Len(t, decoded[0]["content"], 2)
	assert.Len(t, decoded[1]["content"], 2)

	result := decoded[2]["content"].([]any)[0].(map[string]any)
	assert.Equal(t, "tool_result", result["type"])
	assert.Equal(t, "call_1", result["tool_use_id"])
	assert.Equal(t, true, result["is_error"])

	shell := decoded[3]["content"].([]any)[0].(map[string]any)
	assert.Equal(t, "tool_use", shell["type"])
	assert.Equal(t, tool.LocalShellName, shell["name"])
}

func TestBuildMessages_InvalidArguments(t *testing.T) {
	_, _, err := buildMessages(testutil.NewHistoryBuilder().Call("c", "shell", "{not json").Build())
	assert.Error(t, err)
}

func TestOutputItem_LocalShell(t *testing.T) {
	item, err := outputItem(contentBlock(t, `{"type":"tool_use","id":"toolu_9","name":"local_shell","input":{"command":["ls","-la"]}}`))
	require.NoError(t, err)
	assert.Equal(t, core.LocalShellCall{
		CallID: "toolu_9",
		Status: "completed",
		Action: core.LocalShellAction{Type: "exec", Command: []string{"ls", "-la"}},
	}, item)
}

func contentBlock(t *testing.T, raw string) anthropic.ContentBlockUnion {
	t.Helper()
	var block anthropic.ContentBlockUnion
	require.NoError(t, json.Unmarshal([]byte(raw), &block))
	return block
}

func TestModel_Info(t *testing.T) {
	m := NewModelFromClient(nil)
	assert.Equal(t, model.Info{Name: "claude-sonnet-4-5", Provider: "anthropic", SupportsTools: true}, m.Info())
}
