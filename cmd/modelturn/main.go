// Package main provides the modelturn command line client.
//
// Print the request body a turn would send:
//
//	modelturn request "list the files in this directory"
//
// Stream a turn against the configured provider:
//
//	modelturn run --config modelturn.yaml "explain main.go"
//
// Print the identity sent to providers:
//
//	modelturn identity
//
// # Environment Variables
//
//   - MODELTURN_CONFIG: Path to the configuration file
//   - OPENAI_API_KEY: OpenAI API key
//   - ANTHROPIC_API_KEY: Anthropic API key
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/hupe1980/modelturn/config"
	"github.com/hupe1980/modelturn/model"
	"github.com/spf13/cobra"
)

var (
	configPath   string
	modelName    string
	providerName string
	logLevel     string
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	rootCmd := buildRootCmd()
	if err := rootCmd.Execute(); err != nil {
		slog.Error("command execution failed", "error", err)
		os.Exit(1)
	}
}

// buildRootCmd creates the root command with all subcommands attached.
func buildRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "modelturn",
		Short: "Assemble model requests and stream their replies",
		Long: `modelturn assembles a single model turn from configuration,
conversation input and the local environment, sends it to a provider
and streams the reply.

Supported providers: OpenAI (Responses API), Anthropic (Messages API)`,
		Version:      model.Version,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to YAML config file (or set MODELTURN_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&modelName, "model", "", "Override the configured model")
	rootCmd.PersistentFlags().StringVar(&providerName, "provider", "", "Override the configured provider (openai or anthropic)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the configured log level")

	rootCmd.AddCommand(
		buildRequestCmd(),
		buildRunCmd(),
		buildIdentityCmd(),
	)

	return rootCmd
}

// loadConfig reads the configuration file, falling back to defaults when no
// path is given, and applies flag overrides.
func loadConfig() (*config.Config, error) {
	path := strings.TrimSpace(configPath)
	if path == "" {
		path = strings.TrimSpace(os.Getenv("MODELTURN_CONFIG"))
	}

	cfg := config.Default()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if modelName != "" {
		cfg.Model = modelName
	}
	if providerName != "" {
		cfg.Provider = config.Provider(providerName)
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
