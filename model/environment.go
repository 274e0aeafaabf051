package model

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/hupe1980/modelturn/config"
)

// NetworkAccess reports whether commands in the sandbox may reach the network.
type NetworkAccess string

const (
	NetworkAccessRestricted NetworkAccess = "restricted"
	NetworkAccessEnabled    NetworkAccess = "enabled"
)

// EnvironmentContext is the per-turn snapshot of where and under which policy
// the agent operates. It is built once and never mutated.
type EnvironmentContext struct {
	Cwd            string
	ApprovalPolicy config.AskForApproval
	SandboxMode    config.SandboxMode
	NetworkAccess  NetworkAccess
}

// NewEnvironmentContext snapshots the session state. Network access is
// derived from the sandbox policy and cannot be set independently.
func NewEnvironmentContext(cwd string, approval config.AskForApproval, policy config.SandboxPolicy) *EnvironmentContext {
	network := NetworkAccessRestricted
	if policy.HasNetworkAccess() {
		network = NetworkAccessEnabled
	}
	return &EnvironmentContext{
		Cwd:            cwd,
		ApprovalPolicy: approval,
		SandboxMode:    policy.Mode,
		NetworkAccess:  network,
	}
}

type environmentContextXML struct {
	XMLName        xml.Name `xml:"environment_context"`
	Cwd            string   `xml:"cwd"`
	ApprovalPolicy string   `xml:"approval_policy"`
	SandboxMode    string   `xml:"sandbox_mode"`
	NetworkAccess  string   `xml:"network_access"`
}

// Serialize renders the context as the indented <environment_context> block
// sent to the model.
func (e *EnvironmentContext) Serialize() (string, error) {
	out, err := xml.MarshalIndent(environmentContextXML{
		Cwd:            e.Cwd,
		ApprovalPolicy: string(e.ApprovalPolicy),
		SandboxMode:    string(e.SandboxMode),
		NetworkAccess:  string(e.NetworkAccess),
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize environment context: %w", err)
	}
	return string(out), nil
}

// String renders the context as human-readable lines.
func (e *EnvironmentContext) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Current working directory: %s\n", e.Cwd)
	fmt.Fprintf(&b, "Approval policy: %s\n", e.ApprovalPolicy)
	fmt.Fprintf(&b, "Sandbox mode: %s\n", e.SandboxMode)
	fmt.Fprintf(&b, "Network access: %s", e.NetworkAccess)
	return b.String()
}
