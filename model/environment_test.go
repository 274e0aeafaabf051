package model

import (
	"testing"

	"github.com/hupe1980/modelturn/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEnvironmentContext_NetworkAccess(t *testing.T) {
	tests := []struct {
		name   string
		policy config.SandboxPolicy
		want   NetworkAccess
	}{
		{"full access", config.SandboxPolicy{Mode: config.SandboxDangerFullAccess}, NetworkAccessEnabled},
		{"workspace write with network", config.SandboxPolicy{Mode: config.SandboxWorkspaceWrite, NetworkAccess: true}, NetworkAccessEnabled},
		{"workspace write without network", config.SandboxPolicy{Mode: config.SandboxWorkspaceWrite}, NetworkAccessRestricted},
		{"read only", config.SandboxPolicy{Mode: config.SandboxReadOnly}, NetworkAccessRestricted},
		{"read only ignores flag", config.SandboxPolicy{Mode: config.SandboxReadOnly, NetworkAccess: true}, NetworkAccessRestricted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ec := NewEnvironmentContext("/repo", config.ApprovalOnRequest, tt.policy)
			assert.Equal(t, tt.want, ec.NetworkAccess)
			assert.Equal(t, tt.policy.Mode, ec.SandboxMode)
		})
	}
}

func TestEnvironmentContext_Serialize(t *testing.T) {
	ec := NewEnvironmentContext("/home/dev/repo", config.ApprovalOnFailure,
		config.SandboxPolicy{Mode: config.SandboxWorkspaceWrite, NetworkAccess: true})

	out, err := ec.Serialize()
	require.NoError(t, err)
	assert.Equal(t, "<environment_context>\n"+
		"  <cwd>/home/dev/repo</cwd>\n"+
		"  <approval_policy>on-failure</approval_policy>\n"+
		"  <sandbox_mode>workspace-write</sandbox_mode>\n"+
		"  <network_access>enabled</network_access>\n"+
		"</environment_context>", out)
}

func TestEnvironmentContext_SerializeEscapes(t *testing.T) {
	ec := NewEnvironmentContext("/tmp/a&b<c>", config.ApprovalNever, config.SandboxPolicy{Mode: config.SandboxReadOnly})

	out, err := ec.Serialize()
	require.NoError(t, err)
	assert.Contains(t, out, "<cwd>/tmp/a&amp;b&lt;c&gt;</cwd>")
}

func TestEnvironmentContext_String(t *testing.T) {
	ec := NewEnvironmentContext("/repo", config.ApprovalUntrusted, config.SandboxPolicy{Mode: config.SandboxDangerFullAccess})

	assert.Equal(t, "Current working directory: /repo\n"+
		"Approval policy: untrusted\n"+
		"Sandbox mode: danger-full-access\n"+
		"Network access: enabled", ec.String())
}
