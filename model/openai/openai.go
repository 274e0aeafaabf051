// Package openai provides an implementation of model.Model using the OpenAI
// Responses API. The provider-neutral model.Request is posted verbatim and
// the server-sent events are mapped onto model.ResponseEvent values.
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hupe1980/modelturn/core"
	"github.com/hupe1980/modelturn/logging"
	"github.com/hupe1980/modelturn/model"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/ssestream"
	"github.com/openai/openai-go/responses"
	"github.com/tidwall/gjson"
)

// Options configure the OpenAI model adapter.
type Options struct {
	Model string
	// BufferSize is the capacity of each response stream.
	BufferSize int
	Logger     logging.Logger
}

// Model wraps the OpenAI Responses API behind the generic model.Model interface.
type Model struct {
	client *openai.Client
	opts   Options
}

// NewModel creates a new OpenAI model using the official client. The API key
// and base URL are read from the environment unless overridden by clientOpts.
func NewModel(clientOpts []option.RequestOption, optFns ...func(o *Options)) *Model {
	client := openai.NewClient(clientOpts...)
	return NewModelFromClient(&client, optFns...)
}

// NewModelFromClient creates a new OpenAI model from an existing client.
func NewModelFromClient(client *openai.Client, optFns ...func(o *Options)) *Model {
	opts := Options{
		Model:      "codex-mini-latest",
		BufferSize: 16,
		Logger:     logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Model{client: client, opts: opts}
}

// Stream implements model.Model. HTTP and authentication failures are
// returned directly; everything after the first byte arrives through the
// stream.
func (m *Model) Stream(ctx context.Context, req *model.Request) (*model.ResponseStream, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	reqOpts := []option.RequestOption{
		option.WithRequestBody("application/json", body),
		option.WithMaxRetries(0),
		option.WithHeader("OpenAI-Beta", "responses=experimental"),
		option.WithHeader("originator", model.Originator),
		option.WithHeader("User-Agent", model.UserAgent()),
	}
	if req.PromptCacheKey != "" {
		reqOpts = append(reqOpts, option.WithHeader("session_id", req.PromptCacheKey))
	}

	start := time.Now()
	sse := m.client.Responses.NewStreaming(ctx, responses.ResponseNewParams{}, reqOpts...)
	if err := sse.Err(); err != nil {
		_ = sse.Close()
		m.opts.Logger.Error("Model call failed", "model", req.Model, "provider", "openai", "duration", time.Since(start), "error", err)
		return nil, fmt.Errorf("openai streaming error: %w", err)
	}

	stream, sender := model.NewResponseStream(m.opts.BufferSize)
	go m.pump(ctx, sse, sender)
	return stream, nil
}

func (m *Model) pump(ctx context.Context, sse *ssestream.Stream[responses.ResponseStreamEventUnion], sender *model.StreamSender) {
	defer sender.Close()
	defer sse.Close()

	completed := false
	for sse.Next() {
		ev := sse.Current()
		out, err := mapEvent(ev)
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
		_ = sender.Fail(ctx, fmt.Errorf("openai streaming error: %w", err))
		return
	}
	if !completed {
		_ = sender.Fail(ctx, model.ErrStreamIncomplete)
	}
}

// mapEvent converts one server-sent event. Unhandled event types map to nil.
func mapEvent(ev responses.ResponseStreamEventUnion) (model.ResponseEvent, error) {
	raw := ev.RawJSON()
	switch ev.Type {
	case "response.created":
		return model.Created{}, nil
	case "response.output_item.done":
		item, err := core.UnmarshalResponseItem([]byte(gjson.Get(raw, "item").Raw))
		if err != nil {
			return nil, fmt.Errorf("openai streaming error: %w", err)
		}
		return model.OutputItemDone{Item: item}, nil
	case "response.output_text.delta":
		return model.OutputTextDelta{Delta: gjson.Get(raw, "delta").String()}, nil
	case "response.reasoning_summary_text.delta":
		return model.ReasoningSummaryDelta{Delta: gjson.Get(raw, "delta").String()}, nil
	case "response.reasoning_text.delta":
		return model.ReasoningContentDelta{Delta: gjson.Get(raw, "delta").String()}, nil
	case "response.reasoning_summary_part.added":
		return model.ReasoningSummaryPartAdded{}, nil
	case "response.completed":
		return model.Completed{
			ResponseID: ev.Response.ID,
			TokenUsage: tokenUsage(raw, ev.Response.Usage),
		}, nil
	case "response.failed":
		return nil, &model.APIError{
			Code:    string(ev.Response.Error.Code),
			Message: ev.Response.Error.Message,
		}
	case "error":
		return nil, &model.APIError{Code: ev.Code, Message: ev.Message}
	default:
		return nil, nil
	}
}

func tokenUsage(raw string, u responses.ResponseUsage) *core.TokenUsage {
	if !gjson.Get(raw, "response.usage").IsObject() {
		return nil
	}
	return &core.TokenUsage{
		InputTokens:           u.InputTokens,
		CachedInputTokens:     u.InputTokensDetails.CachedTokens,
		OutputTokens:          u.OutputTokens,
		ReasoningOutputTokens: u.OutputTokensDetails.ReasoningTokens,
		TotalTokens:           u.TotalTokens,
	}
}

// Info returns metadata describing this OpenAI model implementation.
func (m *Model) Info() model.Info {
	return model.Info{
		Name:          m.opts.Model,
		Provider:      "openai",
		SupportsTools: true,
	}
}
