package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hupe1980/modelturn"
	"github.com/hupe1980/modelturn/core"
	"github.com/hupe1980/modelturn/model"
	"github.com/hupe1980/modelturn/terminal"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// =============================================================================
// Request Command
// =============================================================================

func buildRequestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "request <message>",
		Short: "Print the request body a turn would send",
		Long: `Assemble the request for a single user message and print it as JSON
without contacting a provider.

The output is the Responses API body: instructions, the environment
context, the input, the tool catalog and the reasoning settings.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRequest(cmd, strings.Join(args, " "))
		},
	}
	return cmd
}

func runRequest(cmd *cobra.Command, message string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	s, err := modelturn.New(cfg, func(o *modelturn.Options) {
		o.Model = model.NewMockModel(cfg.Model, string(cfg.Provider))
	})
	if err != nil {
		return err
	}

	prompt, err := s.Prompt(core.NewUserMessage(message))
	if err != nil {
		return err
	}
	req, err := s.Client().BuildRequest(prompt)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(req)
}

// =============================================================================
// Run Command
// =============================================================================

func buildRunCmd() *cobra.Command {
	var (
		jsonOutput bool
		mock       bool
	)

	cmd := &cobra.Command{
		Use:   "run <message>",
		Short: "Stream a turn against the configured provider",
		Long: `Send a single user message to the configured provider and print the
reply as it streams.

On a terminal text and reasoning deltas are printed as they arrive.
Otherwise, or with --json, every event is written as one JSON line.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTurn(cmd, strings.Join(args, " "), jsonOutput, mock)
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Write events as JSON lines")
	cmd.Flags().BoolVar(&mock, "mock", false, "Answer with an offline echo model")
	return cmd
}

func runTurn(cmd *cobra.Command, message string, jsonOutput, mock bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	s, err := modelturn.New(cfg, func(o *modelturn.Options) {
		if mock {
			o.Model = model.NewMockModel(cfg.Model, "mock")
		}
	})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	stream, err := s.Stream(ctx, core.NewUserMessage(message))
	if err != nil {
		return err
	}
	defer stream.Close()

	out := cmd.OutOrStdout()
	pretty := !jsonOutput && isTerminal(out)
	enc := json.NewEncoder(out)

	for ev, err := range stream.All(ctx) {
		if err != nil {
			return fmt.Errorf("stream failed: %w", err)
		}
		if pretty {
			printEvent(out, ev)
			continue
		}
		if err := enc.Encode(newEventRecord(ev)); err != nil {
			return err
		}
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// eventRecord is the JSON-lines form of a ResponseEvent.
type eventRecord struct {
	Type       string            `json:"type"`
	Delta      string            `json:"delta,omitempty"`
	Item       core.ResponseItem `json:"item,omitempty"`
	ResponseID string            `json:"response_id,omitempty"`
	Usage      *core.TokenUsage  `json:"usage,omitempty"`
}

func newEventRecord(ev model.ResponseEvent) eventRecord {
	switch e := ev.(type) {
	case model.Created:
		return eventRecord{Type: "created"}
	case model.OutputItemDone:
		return eventRecord{Type: "output_item_done", Item: e.Item}
	case model.Completed:
		return eventRecord{Type: "completed", ResponseID: e.ResponseID, Usage: e.TokenUsage}
	case model.OutputTextDelta:
		return eventRecord{Type: "output_text_delta", Delta: e.Delta}
	case model.ReasoningSummaryDelta:
		return eventRecord{Type: "reasoning_summary_delta", Delta: e.Delta}
	case model.ReasoningContentDelta:
		return eventRecord{Type: "reasoning_content_delta", Delta: e.Delta}
	case model.ReasoningSummaryPartAdded:
		return eventRecord{Type: "reasoning_summary_part_added"}
	default:
		return eventRecord{Type: fmt.Sprintf("%T", ev)}
	}
}

func printEvent(w io.Writer, ev model.ResponseEvent) {
	switch e := ev.(type) {
	case model.OutputTextDelta:
		fmt.Fprint(w, e.Delta)
	case model.ReasoningSummaryDelta:
		fmt.Fprint(w, e.Delta)
	case model.ReasoningSummaryPartAdded:
		fmt.Fprint(w, "\n[reasoning] ")
	case model.OutputItemDone:
		switch item := e.Item.(type) {
		case core.Message:
			fmt.Fprintln(w)
		case core.FunctionCall:
			fmt.Fprintf(w, "\n[call %s] %s(%s)\n", item.CallID, item.Name, item.Arguments)
		case core.LocalShellCall:
			fmt.Fprintf(w, "\n[shell %s] %s\n", item.CallID, strings.Join(item.Action.Command, " "))
		}
	case model.Completed:
		if e.TokenUsage != nil {
			fmt.Fprintf(w, "\n[%s] tokens: %d in, %d out, %d total\n",
				e.ResponseID, e.TokenUsage.InputTokens, e.TokenUsage.OutputTokens, e.TokenUsage.TotalTokens)
		}
	}
}

// =============================================================================
// Identity Command
// =============================================================================

func buildIdentityCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "identity",
		Short: "Print the client identity sent to providers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIdentity(cmd.OutOrStdout(), jsonOutput)
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

type identity struct {
	Originator string `json:"originator"`
	Version    string `json:"version"`
	Terminal   string `json:"terminal"`
	UserAgent  string `json:"user_agent"`
	Model      string `json:"model"`
	Family     string `json:"family"`
}

func runIdentity(w io.Writer, jsonOutput bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	id := identity{
		Originator: model.Originator,
		Version:    model.Version,
		Terminal:   terminal.UserAgent(),
		UserAgent:  model.UserAgent(),
		Model:      cfg.Model,
		Family:     model.FamilyForModel(cfg.Model).Family,
	}

	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(id)
	}

	fmt.Fprintf(w, "Originator: %s\n", id.Originator)
	fmt.Fprintf(w, "Version:    %s\n", id.Version)
	fmt.Fprintf(w, "Terminal:   %s\n", id.Terminal)
	fmt.Fprintf(w, "User-Agent: %s\n", id.UserAgent)
	fmt.Fprintf(w, "Model:      %s (%s)\n", id.Model, id.Family)
	return nil
}
