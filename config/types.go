package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ReasoningEffort is the configured reasoning effort. "none" suppresses the
// reasoning block entirely.
type ReasoningEffort string

const (
	ReasoningEffortLow    ReasoningEffort = "low"
	ReasoningEffortMedium ReasoningEffort = "medium"
	ReasoningEffortHigh   ReasoningEffort = "high"
	ReasoningEffortNone   ReasoningEffort = "none"
)

// ParseReasoningEffort validates s as a ReasoningEffort.
func ParseReasoningEffort(s string) (ReasoningEffort, error) {
	switch e := ReasoningEffort(s); e {
	case ReasoningEffortLow, ReasoningEffortMedium, ReasoningEffortHigh, ReasoningEffortNone:
		return e, nil
	default:
		return "", fmt.Errorf("invalid reasoning effort %q (want low, medium, high or none)", s)
	}
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (e *ReasoningEffort) UnmarshalYAML(value *yaml.Node) error {
	v, err := ParseReasoningEffort(value.Value)
	if err != nil {
		return err
	}
	*e = v
	return nil
}

// ReasoningSummary is the configured reasoning summary detail. "none" omits
// the summary while keeping the reasoning block.
type ReasoningSummary string

const (
	ReasoningSummaryAuto     ReasoningSummary = "auto"
	ReasoningSummaryConcise  ReasoningSummary = "concise"
	ReasoningSummaryDetailed ReasoningSummary = "detailed"
	ReasoningSummaryNone     ReasoningSummary = "none"
)

// ParseReasoningSummary validates s as a ReasoningSummary.
func ParseReasoningSummary(s string) (ReasoningSummary, error) {
	switch v := ReasoningSummary(s); v {
	case ReasoningSummaryAuto, ReasoningSummaryConcise, ReasoningSummaryDetailed, ReasoningSummaryNone:
		return v, nil
	default:
		return "", fmt.Errorf("invalid reasoning summary %q (want auto, concise, detailed or none)", s)
	}
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *ReasoningSummary) UnmarshalYAML(value *yaml.Node) error {
	v, err := ParseReasoningSummary(value.Value)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// AskForApproval determines when the user is consulted to approve operations.
type AskForApproval string

const (
	// ApprovalUntrusted requires approval for everything except known safe read-only commands.
	ApprovalUntrusted AskForApproval = "untrusted"
	// ApprovalOnFailure auto-approves commands but asks if they fail in the sandbox.
	ApprovalOnFailure AskForApproval = "on-failure"
	// ApprovalOnRequest lets the model decide when to ask.
	ApprovalOnRequest AskForApproval = "on-request"
	// ApprovalNever never asks; failures are returned to the model.
	ApprovalNever AskForApproval = "never"
)

// ParseAskForApproval validates s as an AskForApproval.
func ParseAskForApproval(s string) (AskForApproval, error) {
	switch v := AskForApproval(s); v {
	case ApprovalUntrusted, ApprovalOnFailure, ApprovalOnRequest, ApprovalNever:
		return v, nil
	default:
		return "", fmt.Errorf("invalid approval policy %q (want untrusted, on-failure, on-request or never)", s)
	}
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (a *AskForApproval) UnmarshalYAML(value *yaml.Node) error {
	v, err := ParseAskForApproval(value.Value)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// SandboxMode governs filesystem and network access for agent actions.
type SandboxMode string

const (
	SandboxDangerFullAccess SandboxMode = "danger-full-access"
	SandboxReadOnly         SandboxMode = "read-only"
	SandboxWorkspaceWrite   SandboxMode = "workspace-write"
)

// ParseSandboxMode validates s as a SandboxMode.
func ParseSandboxMode(s string) (SandboxMode, error) {
	switch v := SandboxMode(s); v {
	case SandboxDangerFullAccess, SandboxReadOnly, SandboxWorkspaceWrite:
		return v, nil
	default:
		return "", fmt.Errorf("invalid sandbox mode %q (want danger-full-access, read-only or workspace-write)", s)
	}
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (m *SandboxMode) UnmarshalYAML(value *yaml.Node) error {
	v, err := ParseSandboxMode(value.Value)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// SandboxPolicy is the active sandbox mode plus its mode-specific settings.
// NetworkAccess and WritableRoots only apply to workspace-write.
type SandboxPolicy struct {
	Mode          SandboxMode `yaml:"mode"`
	NetworkAccess bool        `yaml:"network_access"`
	WritableRoots []string    `yaml:"writable_roots"`
}

// HasNetworkAccess reports whether commands run under the policy may reach the network.
func (p SandboxPolicy) HasNetworkAccess() bool {
	switch p.Mode {
	case SandboxDangerFullAccess:
		return true
	case SandboxWorkspaceWrite:
		return p.NetworkAccess
	default:
		return false
	}
}
