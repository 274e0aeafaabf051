package tool

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type readFileArgs struct {
	Path  string `json:"path" description:"file to read"`
	Limit int    `json:"limit,omitempty"`
}

func TestToResponsesTools(t *testing.T) {
	specs := []Spec{
		NewFunctionSpecFromStruct("read_file", "Read a file", readFileArgs{}, WithStrict()),
		LocalShellSpec{},
	}

	tools, err := ToResponsesTools(specs)
	require.NoError(t, err)
	require.Len(t, tools, 2)

	assert.Equal(t, "function", tools[0]["type"])
	assert.Equal(t, "read_file", tools[0]["name"])
	assert.Equal(t, "Read a file", tools[0]["description"])
	assert.Equal(t, true, tools[0]["strict"])
	assert.Equal(t, map[string]any{"type": "local_shell"}, tools[1])

	data, err := json.Marshal(tools)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"required":["path"]`)
}

func TestToResponsesTools_Empty(t *testing.T) {
	tools, err := ToResponsesTools(nil)
	require.NoError(t, err)
	require.NotNil(t, tools)

	data, err := json.Marshal(tools)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestToResponsesTools_Duplicate(t *testing.T) {
	_, err := ToResponsesTools([]Spec{
		NewFunctionSpec("a", "", nil),
		NewFunctionSpec("a", "", nil),
	})
	var terr *ToolError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "DUPLICATE_TOOL", terr.Code)
}

func TestFunctionSpec_UnencodableSchema(t *testing.T) {
	spec := NewFunctionSpec("bad", "", map[string]any{"default": make(chan int)})

	_, err := ToResponsesTools([]Spec{spec})
	var terr *ToolError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, "SCHEMA_ERROR", terr.Code)
	assert.Equal(t, "bad", terr.Tool)
}

func TestFunctionSpec_ValidateArguments(t *testing.T) {
	spec := NewFunctionSpecFromStruct("read_file", "Read a file", readFileArgs{})

	args, err := spec.ValidateArguments(`{"path":"main.go","limit":10}`)
	require.NoError(t, err)
	assert.Equal(t, "main.go", args["path"])

	_, err = spec.ValidateArguments(`{"limit":10}`)
	var terr *ToolError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "VALIDATION_ERROR", terr.Code)
	verr, ok := terr.Details.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, "path", verr.Field)

	_, err = spec.ValidateArguments(`{"path":"main.go","limit":"ten"}`)
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "VALIDATION_ERROR", terr.Code)
	verr, ok = terr.Details.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, "limit", verr.Field)

	_, err = spec.ValidateArguments(`{"path":"main.go","offset":3}`)
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "VALIDATION_ERROR", terr.Code)
	_, ok = terr.Details.(*jsonschema.ValidationError)
	assert.True(t, ok)

	_, err = spec.ValidateArguments(`not json`)
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "INVALID_ARGUMENTS", terr.Code)
}

func TestFunctionSpec_InvalidSchema(t *testing.T) {
	spec := NewFunctionSpec("bad", "", map[string]any{"type": 42})

	_, err := spec.ResponsesTool()
	var terr *ToolError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "SCHEMA_ERROR", terr.Code)

	_, err = spec.ValidateArguments(`{}`)
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "SCHEMA_ERROR", terr.Code)
}

func TestToolError_Error(t *testing.T) {
	assert.Equal(t, "tool error [X] in t: boom", NewToolError("t", "boom", "X").Error())
	assert.Equal(t, "tool error in t: boom", (&ToolError{Tool: "t", Message: "boom"}).Error())
}
