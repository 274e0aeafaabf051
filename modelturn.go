// Package modelturn provides a high-level façade over request assembly and
// response streaming. Most applications interact with this package by:
//  1. Loading a config.Config (config.Load or config.Default)
//  2. Creating a Session via New, optionally overriding the transport, tools
//     or history store
//  3. Running turns with Run (drained result) or Stream (incremental events)
//
// The Session keeps the conversation history, snapshots the environment
// context once, and records both the user input and the model output of every
// completed turn.
package modelturn

import (
	"context"
	"fmt"
	"time"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/hupe1980/modelturn/config"
	"github.com/hupe1980/modelturn/core"
	"github.com/hupe1980/modelturn/logging"
	"github.com/hupe1980/modelturn/model"
	"github.com/hupe1980/modelturn/model/anthropic"
	"github.com/hupe1980/modelturn/model/openai"
	"github.com/hupe1980/modelturn/session"
	"github.com/hupe1980/modelturn/tool"
	openaioption "github.com/openai/openai-go/option"
)

// Options configures a Session.
type Options struct {
	// Model overrides the transport built from the configured provider.
	Model model.Model
	// Store defaults to an in-memory history store.
	Store core.HistoryStore
	// Tools defaults to DefaultTools for the model family.
	Tools []tool.Spec
	// Logger defaults to a TurnLogger built from the logging config.
	Logger *logging.TurnLogger
	// ConversationID defaults to a random id.
	ConversationID string
}

// Session runs turns of a single conversation.
type Session struct {
	cfg          *config.Config
	client       *model.Client
	store        core.HistoryStore
	tools        []tool.Spec
	env          *model.EnvironmentContext
	instructions *string
	baseOverride *string
	limiter      *core.TurnLimiter
	logger       *logging.TurnLogger
}

// New creates a Session from cfg.
func New(cfg *config.Config, optFns ...func(o *Options)) (*Session, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := Options{
		Store:          session.NewInMemoryStore(),
		ConversationID: core.NewID(),
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		level, err := logging.ParseLevel(cfg.Logging.Level)
		if err != nil {
			return nil, fmt.Errorf("failed to configure logging: %w", err)
		}
		opts.Logger = logging.NewLogger(&logging.LoggerConfig{
			Level:  level,
			Format: cfg.Logging.Format,
		})
	}
	logger := opts.Logger.WithComponent("session").WithConversation(opts.ConversationID)

	if opts.Model == nil {
		m, err := NewModel(cfg, logger)
		if err != nil {
			return nil, err
		}
		opts.Model = m
	}

	client := model.NewClient(opts.Model, func(o *model.ClientOptions) {
		o.ReasoningEffort = cfg.ReasoningEffort
		o.ReasoningSummary = cfg.ReasoningSummary
		o.ConversationID = opts.ConversationID
		o.Logger = logger.WithComponent("client")
	})

	if opts.Tools == nil {
		opts.Tools = DefaultTools(client.Family())
	}

	base, err := cfg.BaseInstructions()
	if err != nil {
		return nil, err
	}

	var instructions *string
	if cfg.UserInstructions != "" {
		ui := cfg.UserInstructions
		instructions = &ui
	}

	return &Session{
		cfg:          cfg,
		client:       client,
		store:        opts.Store,
		tools:        opts.Tools,
		env:          model.NewEnvironmentContext(cfg.Cwd, cfg.ApprovalPolicy, cfg.Sandbox),
		instructions: instructions,
		baseOverride: base,
		limiter:      core.NewTurnLimiter(cfg.MaxTurns),
		logger:       logger,
	}, nil
}

// NewModel builds the transport for the configured provider.
func NewModel(cfg *config.Config, logger logging.Logger) (model.Model, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		var clientOpts []openaioption.RequestOption
		if cfg.OpenAI.BaseURL != "" {
			clientOpts = append(clientOpts, openaioption.WithBaseURL(cfg.OpenAI.BaseURL))
		}
		if cfg.OpenAI.APIKey != "" {
			clientOpts = append(clientOpts, openaioption.WithAPIKey(cfg.OpenAI.APIKey))
		}
		return openai.NewModel(clientOpts, func(o *openai.Options) {
			o.Model = cfg.Model
			o.BufferSize = cfg.StreamBufferSize
			o.Logger = logger
		}), nil
	case config.ProviderAnthropic:
		var clientOpts []anthropicoption.RequestOption
		if cfg.Anthropic.BaseURL != "" {
			clientOpts = append(clientOpts, anthropicoption.WithBaseURL(cfg.Anthropic.BaseURL))
		}
		if cfg.Anthropic.APIKey != "" {
			clientOpts = append(clientOpts, anthropicoption.WithAPIKey(cfg.Anthropic.APIKey))
		}
		return anthropic.NewModel(clientOpts, func(o *anthropic.Options) {
			o.Model = anthropicsdk.Model(cfg.Model)
			o.MaxTokens = cfg.Anthropic.MaxTokens
			o.BufferSize = cfg.StreamBufferSize
			o.Logger = logger
		}), nil
	default:
		return nil, fmt.Errorf("unsupported provider %q", cfg.Provider)
	}
}

// ShellArgs are the arguments of the "shell" function tool.
type ShellArgs struct {
	Command   []string `json:"command" description:"The command to execute as an argv list"`
	Workdir   string   `json:"workdir,omitempty" description:"The working directory to execute the command in"`
	TimeoutMS *int64   `json:"timeout_ms" description:"The timeout for the command in milliseconds"`
}

// DefaultTools returns the tool catalog for family: the built-in local shell
// for families that use it, a "shell" function otherwise.
func DefaultTools(family model.ModelFamily) []tool.Spec {
	if family.UsesLocalShellTool {
		return []tool.Spec{tool.LocalShellSpec{}}
	}
	return []tool.Spec{
		tool.NewFunctionSpecFromStruct("shell", "Runs a shell command and returns its output.", ShellArgs{}),
	}
}

// ConversationID returns the id of the conversation.
func (s *Session) ConversationID() string { return s.client.ConversationID() }

// Client returns the underlying model client.
func (s *Session) Client() *model.Client { return s.client }

// EnvironmentContext returns the snapshot sent with every turn.
func (s *Session) EnvironmentContext() *model.EnvironmentContext { return s.env }

// Prompt assembles the prompt for a turn: the stored history followed by input.
func (s *Session) Prompt(input ...core.ResponseItem) (model.Prompt, error) {
	history, err := s.store.History(s.ConversationID())
	if err != nil {
		return model.Prompt{}, fmt.Errorf("failed to load history: %w", err)
	}
	items := make([]core.ResponseItem, 0, len(history)+len(input))
	items = append(items, history...)
	items = append(items, input...)

	return model.Prompt{
		Input:                    items,
		UserInstructions:         s.instructions,
		Store:                    s.cfg.Store(),
		EnvironmentContext:       s.env,
		Tools:                    s.tools,
		BaseInstructionsOverride: s.baseOverride,
	}, nil
}

// Stream starts a turn and returns its events. Nothing is recorded in the
// history store; use Run for that. Every call counts against max_turns.
func (s *Session) Stream(ctx context.Context, input ...core.ResponseItem) (*model.ResponseStream, error) {
	if err := s.limiter.Acquire(); err != nil {
		return nil, err
	}
	prompt, err := s.Prompt(input...)
	if err != nil {
		return nil, err
	}
	return s.client.Stream(ctx, prompt)
}

// Run executes a turn to completion. On success the input and the output
// items are appended to the history store.
func (s *Session) Run(ctx context.Context, input ...core.ResponseItem) (*model.TurnResult, error) {
	info := s.client.Info()
	start := time.Now()

	stream, err := s.Stream(ctx, input...)
	s.logger.LogModelCall(info.Name, info.Provider, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	res, err := model.Collect(ctx, stream)
	var total int64
	if res.Usage != nil {
		total = res.Usage.TotalTokens
	}
	s.logger.LogStreamClosed(res.ResponseID, res.Events, total, err)
	if err != nil {
		return res, err
	}

	if err := s.store.Append(s.ConversationID(), append(append([]core.ResponseItem{}, input...), res.Items...)...); err != nil {
		return res, fmt.Errorf("failed to record turn: %w", err)
	}
	return res, nil
}
