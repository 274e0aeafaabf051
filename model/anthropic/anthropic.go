// Package anthropic provides an implementation of model.Model using the
// Anthropic Messages API. The provider-neutral model.Request is translated to
// message parameters and the streamed reply is mapped onto
// model.ResponseEvent values.
package anthropic

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/ssestream"
	"github.com/anthropics/anthropic-sdk-go/shared/constant"
	"github.com/hupe1980/modelturn/config"
	"github.com/hupe1980/modelturn/core"
	"github.com/hupe1980/modelturn/logging"
	"github.com/hupe1980/modelturn/model"
	"github.com/hupe1980/modelturn/tool"
)

// Thinking budgets per reasoning effort.
var thinkingBudget = map[config.ReasoningEffort]int64{
	config.ReasoningEffortLow:    1024,
	config.ReasoningEffortMedium: 4096,
	config.ReasoningEffortHigh:   16384,
}

// Options configures the Anthropic model adapter.
type Options struct {
	Model     anthropic.Model
	MaxTokens int64
	// BufferSize is the capacity of each response stream.
	BufferSize int
	Logger     logging.Logger
}

// Model wraps the Anthropic Messages API behind the generic model.Model interface.
type Model struct {
	client *anthropic.Client
	opts   Options
}

// NewModel creates a new Anthropic model using the official client. The API
// key is read from the environment unless overridden by clientOpts.
func NewModel(clientOpts []option.RequestOption, optFns ...func(o *Options)) *Model {
	client := anthropic.NewClient(clientOpts...)
	return NewModelFromClient(&client, optFns...)
}

// NewModelFromClient creates a new Anthropic model from an existing client.
func NewModelFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Model {
	opts := Options{
		Model:      anthropic.ModelClaudeSonnet4_5,
		MaxTokens:  8192,
		BufferSize: 16,
		Logger:     logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Model{client: client, opts: opts}
}

// Stream implements model.Model.
func (m *Model) Stream(ctx context.Context, req *model.Request) (*model.ResponseStream, error) {
	params, err := m.buildParams(req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	sse := m.client.Messages.NewStreaming(ctx, params,
		option.WithMaxRetries(0),
		option.WithHeader("User-Agent", model.UserAgent()),
	)
	if err := sse.Err(); err != nil {
		_ = sse.Close()
		m.opts.Logger.Error("Model call failed", "model", req.Model, "provider", "anthropic", "duration", time.Since(start), "error", err)
		return nil, fmt.Errorf("anthropic streaming error: %w", err)
	}

	stream, sender := model.NewResponseStream(m.opts.BufferSize)
	go m.pump(ctx, sse, sender)
	return stream, nil
}

func (m *Model) buildParams(req *model.Request) (anthropic.MessageNewParams, error) {
	messages, system, err := buildMessages(req.Input)
	if err != nil {
		return anthropic.MessageNewParams{}, err
	}

	params := anthropic.MessageNewParams{
		Model:     m.opts.Model,
		MaxTokens: m.opts.MaxTokens,
		Messages:  messages,
	}
	if req.Model != "" {
		params.Model = anthropic.Model(req.Model)
	}

	if req.Instructions != "" {
		params.System = append(params.System, anthropic.TextBlockParam{Text: req.Instructions})
	}
	params.System = append(params.System, system...)

	params.Tools = buildTools(req.Tools)

	if req.Reasoning != nil {
		if budget, ok := thinkingBudget[req.Reasoning.Effort]; ok {
			params.Thinking = anthropic.ThinkingConfigParamOfEnabled(budget)
			if params.MaxTokens <= budget {
				params.MaxTokens = budget + m.opts.MaxTokens
			}
		}
	}
	return params, nil
}

// buildMessages converts history items to Anthropic messages. System and
// developer messages are returned separately; consecutive items of the same
// role are merged into one message.
func buildMessages(items []core.ResponseItem) ([]anthropic.MessageParam, []anthropic.TextBlockParam, error) {
	var (
		messages []anthropic.MessageParam
		system   []anthropic.TextBlockParam
	)
	add := func(role anthropic.MessageParamRole, block anthropic.ContentBlockParamUnion) {
		if n := len(messages); n > 0 && messages[n-1].Role == role {
			messages[n-1].Content = append(messages[n-1].Content, block)
			return
		}
		messages = append(messages, anthropic.MessageParam{Role: role, Content: []anthropic.ContentBlockParamUnion{block}})
	}

	for _, it := range items {
		switch item := it.(type) {
		case core.Message:
			text := core.Text(item.Content)
			if text == "" {
				continue
			}
			switch item.Role {
			case "system", "developer":
				system = append(system, anthropic.TextBlockParam{Text: text})
			case "assistant":
				add(anthropic.MessageParamRoleAssistant, anthropic.NewTextBlock(text))
			default:
				add(anthropic.MessageParamRoleUser, anthropic.NewTextBlock(text))
			}
		case core.FunctionCall:
			var input any = map[string]any{}
			if item.Arguments != "" {
				if err := json.Unmarshal([]byte(item.Arguments), &input); err != nil {
					return nil, nil, fmt.Errorf("failed to decode arguments of call %s: %w", item.CallID, err)
				}
			}
			add(anthropic.MessageParamRoleAssistant, anthropic.NewToolUseBlock(item.CallID, input, item.Name))
		case core.LocalShellCall:
			add(anthropic.MessageParamRoleAssistant, anthropic.NewToolUseBlock(item.CallID, item.Action, tool.LocalShellName))
		case core.FunctionCallOutput:
			isError := item.Success != nil && !*item.Success
			add(anthropic.MessageParamRoleUser, anthropic.NewToolResultBlock(item.CallID, item.Output, isError))
		}
	}
	return messages, system, nil
}

func buildTools(tools []map[string]any) []anthropic.ToolUnionParam {
	out := make([]anthropic.ToolUnionParam, 0, len(tools))
	for _, t := range tools {
		switch t["type"] {
		case "function":
			name, _ := t["name"].(string)
			params, _ := t["parameters"].(map[string]any)
			tp := anthropic.ToolUnionParamOfTool(inputSchema(params), name)
			if desc, _ := t["description"].(string); desc != "" {
				tp.OfTool.Description = anthropic.String(desc)
			}
			out = append(out, tp)
		case "local_shell":
			tp := anthropic.ToolUnionParamOfTool(inputSchema(localShellSchema), tool.LocalShellName)
			tp.OfTool.Description = anthropic.String("Run a command on the local machine.")
			out = append(out, tp)
		}
	}
	return out
}

var localShellSchema = map[string]any{
	"properties": map[string]any{
		"type":              map[string]any{"type": "string", "enum": []string{"exec"}},
		"command":           map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		"timeout_ms":        map[string]any{"type": "integer"},
		"working_directory": map[string]any{"type": "string"},
	},
	"required": []string{"type", "command"},
}

func inputSchema(params map[string]any) anthropic.ToolInputSchemaParam {
	schema := anthropic.ToolInputSchemaParam{Type: constant.Object("object")}
	if params == nil {
		return schema
	}
	if properties, ok := params["properties"]; ok {
		schema.Properties = properties
	}
	switch required := params["required"].(type) {
	case []string:
		schema.Required = required
	case []any:
		for _, r := range required {
			if s, ok := r.(string); ok {
				schema.Required = append(schema.Required, s)
			}
		}
	}
	return schema
}

func (m *Model) pump(ctx context.Context, sse *ssestream.Stream[anthropic.MessageStreamEventUnion], sender *model.StreamSender) {
	defer sender.Close()
	defer sse.Close()

	var (
		acc       anthropic.Message
		completed bool
	)
	for sse.Next() {
		ev := sse.Current()
		if err := acc.Accumulate(ev); err != nil {
			_ = sender.Fail(ctx, fmt.Errorf("anthropic streaming error: %w", err))
			return
		}

		out, err := mapEvent(ev, &acc)
		if err != nil {
			_ = sender.Fail(ctx, err)
			return
		}
		if out == nil {
			continue
		}
		if err := sender.Send(ctx, out); err != nil {
			m.opts.Logger.Debug("Response stream abandoned", "error", err)
			return
		}
		if _, ok := out.(model.Completed); ok {
			completed = true
		}
	}

	if err := sse.Err(); err != nil {
		_ = sender.Fail(ctx, fmt.Errorf("anthropic streaming error: %w", err))
		return
	}
	if !completed {
		_ = sender.Fail(ctx, model.ErrStreamIncomplete)
	}
}

// mapEvent converts one stream event given the message accumulated so far.
func mapEvent(ev anthropic.MessageStreamEventUnion, acc *anthropic.Message) (model.ResponseEvent, error) {
	switch ev.Type {
	case "message_start":
		return model.Created{}, nil
	case "content_block_delta":
		switch ev.Delta.Type {
		case "text_delta":
			return model.OutputTextDelta{Delta: ev.Delta.Text}, nil
		case "thinking_delta":
			return model.ReasoningContentDelta{Delta: ev.Delta.Thinking}, nil
		}
		return nil, nil
	case "content_block_stop":
		if len(acc.Content) == 0 {
			return nil, nil
		}
		item, err := outputItem(acc.Content[len(acc.Content)-1])
		if err != nil || item == nil {
			return nil, err
		}
		return model.OutputItemDone{Item: item}, nil
	case "message_stop":
		u := acc.Usage
		return model.Completed{
			ResponseID: acc.ID,
			TokenUsage: &core.TokenUsage{
				InputTokens:       u.InputTokens,
				CachedInputTokens: u.CacheReadInputTokens,
				OutputTokens:      u.OutputTokens,
				TotalTokens:       u.InputTokens + u.OutputTokens,
			},
		}, nil
	default:
		return nil, nil
	}
}

func outputItem(block anthropic.ContentBlockUnion) (core.ResponseItem, error) {
	switch block.Type {
	case "text":
		return core.NewAssistantMessage(block.Text), nil
	case "thinking":
		return core.Reasoning{Content: []core.ReasoningText{{Text: block.Thinking}}}, nil
	case "tool_use":
		args := strings.TrimSpace(string(block.Input))
		if args == "" {
			args = "{}"
		}
		if block.Name == tool.LocalShellName {
			var action core.LocalShellAction
			if err := json.Unmarshal([]byte(args), &action); err != nil {
				return nil, fmt.Errorf("anthropic streaming error: decode local shell action: %w", err)
			}
			if action.Type == "" {
				action.Type = "exec"
			}
			return core.LocalShellCall{CallID: block.ID, Status: "completed", Action: action}, nil
		}
		return core.FunctionCall{Name: block.Name, Arguments: args, CallID: block.ID}, nil
	default:
		return nil, nil
	}
}

// Info returns metadata describing this Anthropic model implementation.
func (m *Model) Info() model.Info {
	return model.Info{
		Name:          string(m.opts.Model),
		Provider:      "anthropic",
		SupportsTools: true,
	}
}
