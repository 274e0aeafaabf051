package model

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/hupe1980/modelturn/config"
	"github.com/hupe1980/modelturn/core"
	"github.com/hupe1980/modelturn/logging"
)

// ClientOptions configure a Client.
type ClientOptions struct {
	ReasoningEffort  config.ReasoningEffort
	ReasoningSummary config.ReasoningSummary
	// ConversationID is sent as the prompt cache key. A random id is
	// generated when empty.
	ConversationID string
	// Family overrides the family derived from the model name.
	Family *ModelFamily
	Logger logging.Logger
}

// Client binds a transport to the per-conversation request settings.
type Client struct {
	model  Model
	family ModelFamily
	opts   ClientOptions
}

// NewClient creates a Client for m.
func NewClient(m Model, optFns ...func(o *ClientOptions)) *Client {
	opts := ClientOptions{
		ReasoningEffort:  config.ReasoningEffortMedium,
		ReasoningSummary: config.ReasoningSummaryAuto,
		Logger:           logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.ConversationID == "" {
		opts.ConversationID = core.NewID()
	}

	family := FamilyForModel(m.Info().Name)
	if opts.Family != nil {
		family = *opts.Family
	}

	return &Client{model: m, family: family, opts: opts}
}

// ConversationID returns the id used as prompt cache key.
func (c *Client) ConversationID() string { return c.opts.ConversationID }

// Family returns the model family requests are shaped for.
func (c *Client) Family() ModelFamily { return c.family }

// Info returns the transport's model info.
func (c *Client) Info() Info { return c.model.Info() }

// BuildRequest assembles the request for prompt without sending it.
func (c *Client) BuildRequest(prompt Prompt) (*Request, error) {
	return BuildRequest(c.model.Info().Name, prompt, c.family, RequestOptions{
		ReasoningEffort:  c.opts.ReasoningEffort,
		ReasoningSummary: c.opts.ReasoningSummary,
		PromptCacheKey:   c.opts.ConversationID,
		Logger:           c.opts.Logger,
	})
}

// Stream builds the request for prompt and opens the reply stream.
func (c *Client) Stream(ctx context.Context, prompt Prompt) (*ResponseStream, error) {
	req, err := c.BuildRequest(prompt)
	if err != nil {
		return nil, err
	}

	info := c.model.Info()
	start := time.Now()
	stream, err := c.model.Stream(ctx, req)
	if err != nil {
		c.opts.Logger.Error("Model call failed", "model", info.Name, "provider", info.Provider, "duration", time.Since(start), "error", err)
		return nil, fmt.Errorf("failed to open response stream: %w", err)
	}
	c.opts.Logger.Debug("Model call started", "model", info.Name, "provider", info.Provider, "input_items", len(req.Input), "tools", len(req.Tools))
	return stream, nil
}

// TurnResult is a fully drained reply.
type TurnResult struct {
	ResponseID       string
	Items            []core.ResponseItem
	Text             string // Assistant message text, in item order
	ReasoningSummary string // Summary parts joined by a blank line
	Usage            *core.TokenUsage
	Events           int
}

// Collect drains stream and closes it. The partial result is returned with
// any error; a stream that ends without Completed yields ErrStreamIncomplete.
func Collect(ctx context.Context, stream *ResponseStream) (*TurnResult, error) {
	defer stream.Close()

	res := &TurnResult{}
	var (
		text      strings.Builder
		summary   strings.Builder
		completed bool
	)
	for {
		ev, err := stream.Recv(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			res.Text, res.ReasoningSummary = text.String(), summary.String()
			return res, err
		}
		res.Events++

		switch e := ev.(type) {
		case OutputItemDone:
			res.Items = append(res.Items, e.Item)
			if msg, ok := e.Item.(core.Message); ok && msg.Role == "assistant" {
				text.WriteString(core.Text(msg.Content))
			}
		case ReasoningSummaryPartAdded:
			if summary.Len() > 0 {
				summary.WriteString("\n\n")
			}
		case ReasoningSummaryDelta:
			summary.WriteString(e.Delta)
		case Completed:
			completed = true
			res.ResponseID = e.ResponseID
			res.Usage = e.TokenUsage
		}
	}

	res.Text, res.ReasoningSummary = text.String(), summary.String()
	if !completed {
		return res, ErrStreamIncomplete
	}
	return res, nil
}
