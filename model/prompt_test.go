package model

import (
	"errors"
	"testing"

	"github.com/hupe1980/modelturn/config"
	"github.com/hupe1980/modelturn/core"
	"github.com/hupe1980/modelturn/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockLogger struct{ mock.Mock }

func (m *mockLogger) Debug(msg string, args ...any) { m.Called(msg, args) }
func (m *mockLogger) Info(msg string, args ...any)  { m.Called(msg, args) }
func (m *mockLogger) Warn(msg string, args ...any)  { m.Called(msg, args) }
func (m *mockLogger) Error(msg string, args ...any) { m.Called(msg, args) }

func strPtr(s string) *string { return &s }

func userText(t *testing.T, item core.ResponseItem) string {
	t.Helper()
	msg, ok := item.(core.Message)
	require.True(t, ok, "expected message, got %T", item)
	assert.Equal(t, "user", msg.Role)
	require.Len(t, msg.Content, 1)
	in, ok := msg.Content[0].(core.InputText)
	require.True(t, ok, "expected input_text, got %T", msg.Content[0])
	return in.Text
}

func TestPrompt_FormattedInput_Ordering(t *testing.T) {
	history := testutil.NewHistoryBuilder().User("fix the bug").Assistant("on it").Build()
	env := NewEnvironmentContext("/repo", config.ApprovalOnRequest, config.SandboxPolicy{Mode: config.SandboxReadOnly})
	envText, err := env.Serialize()
	require.NoError(t, err)
	wrapped := "<user_instructions>\n\nbe brief\n\n</user_instructions>"

	tests := []struct {
		name    string
		env     *EnvironmentContext
		ui      *string
		history []core.ResponseItem
		prefix  []string
	}{
		{"nothing", nil, nil, nil, nil},
		{"history only", nil, nil, history, nil},
		{"env only", env, nil, nil, []string{envText}},
		{"instructions only", nil, strPtr("be brief"), nil, []string{wrapped}},
		{"empty instructions", nil, strPtr(""), history, nil},
		{"env and instructions", env, strPtr("be brief"), nil, []string{envText, wrapped}},
		{"all", env, strPtr("be brief"), history, []string{envText, wrapped}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Prompt{Input: tt.history, EnvironmentContext: tt.env, UserInstructions: tt.ui}

			got := p.FormattedInput()

			require.NotNil(t, got)
			require.Len(t, got, len(tt.prefix)+len(tt.history))
			for i, want := range tt.prefix {
				assert.Equal(t, want, userText(t, got[i]))
			}
			assert.Equal(t, tt.history, append([]core.ResponseItem(nil), got[len(tt.prefix):]...))
		})
	}
}

func TestPrompt_FormattedInput_SerializeFailure(t *testing.T) {
	logger := new(mockLogger)
	logger.On("Error", "Error serializing environment context", mock.Anything).Once()

	history := testutil.NewHistoryBuilder().User("hello").Build()
	p := Prompt{
		Input:              history,
		UserInstructions:   strPtr("be brief"),
		EnvironmentContext: &EnvironmentContext{Cwd: "/repo"},
	}

	got := p.FormattedInput(func(o *FormatOptions) {
		o.Logger = logger
		o.Serialize = func(*EnvironmentContext) (string, error) { return "", errors.New("boom") }
	})

	require.Len(t, got, 2)
	assert.Equal(t, "<user_instructions>\n\nbe brief\n\n</user_instructions>", userText(t, got[0]))
	assert.Equal(t, history[0], got[1])
	logger.AssertExpectations(t)
}

func TestPrompt_FormattedInput_DoesNotAliasInput(t *testing.T) {
	history := make([]core.ResponseItem, 1, 8)
	history[0] = core.NewUserMessage("a")
	p := Prompt{Input: history}

	got := p.FormattedInput()
	got = append(got, core.NewUserMessage("b"))
	got[0] = core.NewUserMessage("changed")

	assert.Equal(t, core.NewUserMessage("a"), p.Input[0])
	assert.Len(t, p.Input, 1)
	assert.Nil(t, history[:2][1])
}

func TestPrompt_FullInstructions(t *testing.T) {
	plain := ModelFamily{Slug: "o3"}
	patch := ModelFamily{Slug: "gpt-4.1", NeedsSpecialApplyPatchInstructions: true}

	t.Run("base", func(t *testing.T) {
		assert.Equal(t, BaseInstructions(), Prompt{}.FullInstructions(plain))
		assert.NotEmpty(t, BaseInstructions())
	})

	t.Run("base with apply patch", func(t *testing.T) {
		assert.Equal(t, BaseInstructions()+"\n"+ApplyPatchInstructions(), Prompt{}.FullInstructions(patch))
	})

	t.Run("override replaces base", func(t *testing.T) {
		p := Prompt{BaseInstructionsOverride: strPtr("custom")}
		assert.Equal(t, "custom", p.FullInstructions(plain))
		assert.Equal(t, "custom\n"+ApplyPatchInstructions(), p.FullInstructions(patch))
	})

	t.Run("empty override is used", func(t *testing.T) {
		p := Prompt{BaseInstructionsOverride: strPtr("")}
		assert.Equal(t, "", p.FullInstructions(plain))
	})
}
