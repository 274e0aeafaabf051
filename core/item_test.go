package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(NewUserMessage("hello"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"message","role":"user","content":[{"type":"input_text","text":"hello"}]}`, string(b))

	b, err = json.Marshal(Message{Role: "assistant"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"message","role":"assistant","content":[]}`, string(b))
}

func TestFunctionCallItems_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(FunctionCall{Name: "shell", Arguments: `{"command":["ls"]}`, CallID: "call_1"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"function_call","name":"shell","arguments":"{\"command\":[\"ls\"]}","call_id":"call_1"}`, string(b))

	ok := true
	b, err = json.Marshal(FunctionCallOutput{CallID: "call_1", Output: "done", Success: &ok})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"function_call_output","call_id":"call_1","output":"done"}`, string(b))
}

func TestUnmarshalResponseItem(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want ResponseItem
	}{
		{
			name: "assistant message",
			in:   `{"type":"message","id":"msg_1","role":"assistant","status":"completed","content":[{"type":"output_text","text":"hi","annotations":[]}]}`,
			want: Message{ID: "msg_1", Role: "assistant", Content: []ContentItem{OutputText{Text: "hi"}}},
		},
		{
			name: "reasoning",
			in:   `{"type":"reasoning","id":"rs_1","summary":[{"type":"summary_text","text":"thinking"}],"encrypted_content":"abc"}`,
			want: Reasoning{ID: "rs_1", Summary: []SummaryText{{Text: "thinking"}}, EncryptedContent: "abc"},
		},
		{
			name: "function call",
			in:   `{"type":"function_call","id":"fc_1","name":"shell","arguments":"{}","call_id":"call_9","status":"completed"}`,
			want: FunctionCall{ID: "fc_1", Name: "shell", Arguments: "{}", CallID: "call_9"},
		},
		{
			name: "local shell call",
			in:   `{"type":"local_shell_call","id":"ls_1","call_id":"call_2","status":"completed","action":{"type":"exec","command":["pwd"]}}`,
			want: LocalShellCall{ID: "ls_1", CallID: "call_2", Status: "completed", Action: LocalShellAction{Type: "exec", Command: []string{"pwd"}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := UnmarshalResponseItem([]byte(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUnmarshalResponseItem_UnknownTypeIsPreserved(t *testing.T) {
	in := `{"type":"web_search_call","id":"ws_1","status":"completed"}`
	item, err := UnmarshalResponseItem([]byte(in))
	require.NoError(t, err)

	other, ok := item.(Other)
	require.True(t, ok)
	assert.Equal(t, "web_search_call", other.ItemType())

	b, err := json.Marshal(other)
	require.NoError(t, err)
	assert.JSONEq(t, in, string(b))
}

func TestUnmarshalResponseItem_Errors(t *testing.T) {
	_, err := UnmarshalResponseItem([]byte(`not json`))
	assert.Error(t, err)

	_, err = UnmarshalResponseItem([]byte(`{"type":"message","role":"user","content":[{"type":"bogus"}]}`))
	assert.Error(t, err)
}

func TestText(t *testing.T) {
	items := []ContentItem{InputText{Text: "a"}, InputImage{ImageURL: "data:"}, OutputText{Text: "b"}}
	assert.Equal(t, "ab", Text(items))
}
