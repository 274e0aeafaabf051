// Package config loads the YAML configuration that drives request assembly:
// the target model and provider, reasoning settings, the approval and
// sandbox policy reported in the environment context, instruction overrides
// and logging.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Provider names a model transport.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// DefaultModel is used when the configuration does not name one.
const DefaultModel = "codex-mini-latest"

// DefaultStreamBufferSize is the capacity of the response event queue.
const DefaultStreamBufferSize = 16

// Config is the main configuration structure.
type Config struct {
	Model                  string           `yaml:"model"`
	Provider               Provider         `yaml:"provider"`
	ReasoningEffort        ReasoningEffort  `yaml:"model_reasoning_effort"`
	ReasoningSummary       ReasoningSummary `yaml:"model_reasoning_summary"`
	ApprovalPolicy         AskForApproval   `yaml:"approval_policy"`
	Sandbox                SandboxPolicy    `yaml:"sandbox"`
	Cwd                    string           `yaml:"cwd"`
	UserInstructions       string           `yaml:"user_instructions"`
	BaseInstructionsFile   string           `yaml:"base_instructions_file"`
	DisableResponseStorage bool             `yaml:"disable_response_storage"`
	StreamBufferSize       int              `yaml:"stream_buffer_size"`
	MaxTurns               int              `yaml:"max_turns"`
	Logging                LoggingConfig    `yaml:"logging"`
	OpenAI                 OpenAIConfig     `yaml:"openai"`
	Anthropic              AnthropicConfig  `yaml:"anthropic"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type OpenAIConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
}

type AnthropicConfig struct {
	BaseURL   string `yaml:"base_url"`
	APIKey    string `yaml:"api_key"`
	MaxTokens int64  `yaml:"max_tokens"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads and parses the configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration, expanding ${VAR} references first.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports configuration values that cannot be used.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderOpenAI, ProviderAnthropic:
	default:
		return fmt.Errorf("invalid provider %q (want openai or anthropic)", c.Provider)
	}
	if c.StreamBufferSize < 1 {
		return fmt.Errorf("stream_buffer_size must be positive, got %d", c.StreamBufferSize)
	}
	if c.MaxTurns < 0 {
		return fmt.Errorf("max_turns must not be negative, got %d", c.MaxTurns)
	}
	return nil
}

// Store reports whether responses may be stored server side.
func (c *Config) Store() bool { return !c.DisableResponseStorage }

// BaseInstructions returns the override loaded from BaseInstructionsFile,
// or nil when no override is configured. Relative paths resolve against Cwd.
func (c *Config) BaseInstructions() (*string, error) {
	if c.BaseInstructionsFile == "" {
		return nil, nil
	}
	path := c.BaseInstructionsFile
	if !filepath.IsAbs(path) {
		path = filepath.Join(c.Cwd, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read base instructions: %w", err)
	}
	s := string(data)
	return &s, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Provider == "" {
		cfg.Provider = ProviderOpenAI
	}
	if cfg.ReasoningEffort == "" {
		cfg.ReasoningEffort = ReasoningEffortMedium
	}
	if cfg.ReasoningSummary == "" {
		cfg.ReasoningSummary = ReasoningSummaryAuto
	}
	if cfg.ApprovalPolicy == "" {
		cfg.ApprovalPolicy = ApprovalOnRequest
	}
	if cfg.Sandbox.Mode == "" {
		cfg.Sandbox.Mode = SandboxReadOnly
	}
	if cfg.Cwd == "" {
		if wd, err := os.Getwd(); err == nil {
			cfg.Cwd = wd
		}
	}
	if cfg.StreamBufferSize == 0 {
		cfg.StreamBufferSize = DefaultStreamBufferSize
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Anthropic.MaxTokens == 0 {
		cfg.Anthropic.MaxTokens = 8192
	}
}
