package tool

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/hupe1980/modelturn/internal/util"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// FunctionSpec exposes a named function with a JSON schema for its arguments.
//
// The schema follows the minimal JSON Schema subset used across the module
// (type, properties, required, enum, items). It is compiled once on first use.
// A FunctionSpec is safe for concurrent use.
type FunctionSpec struct {
	name        string
	description string
	parameters  map[string]any
	strict      bool
	schema      func() (*jsonschema.Schema, error)
}

// NewFunctionSpec constructs a FunctionSpec from an explicit schema.
//
// Example:
//
//	readFile := NewFunctionSpec(
//	  "read_file",
//	  "Read a file from the workspace",
//	  map[string]any{
//	    "type": "object",
//	    "properties": map[string]any{
//	      "path": map[string]any{"type": "string"},
//	    },
//	    "required": []string{"path"},
//	  },
//	)
func NewFunctionSpec(name, description string, parameters map[string]any, optFns ...func(o *FunctionSpec)) *FunctionSpec {
	if parameters == nil {
		parameters = map[string]any{"type": "object", "properties": map[string]any{}}
	}
	s := &FunctionSpec{
		name:        name,
		description: description,
		parameters:  parameters,
	}
	for _, fn := range optFns {
		fn(s)
	}
	s.schema = sync.OnceValues(s.compile)
	return s
}

func (s *FunctionSpec) compile() (*jsonschema.Schema, error) {
	data, err := json.Marshal(s.parameters)
	if err != nil {
		return nil, fmt.Errorf("parameters cannot be encoded: %w", err)
	}
	return jsonschema.CompileString(s.name+".schema.json", string(data))
}

// NewFunctionSpecFromStruct derives the parameter schema from a struct using
// reflection (see util.CreateSchema for the tag conventions).
//
// Example:
//
//	type ShellArgs struct {
//	  Command []string `json:"command" description:"argv to execute"`
//	  Workdir string   `json:"workdir,omitempty"`
//	}
//
//	shell := NewFunctionSpecFromStruct("shell", "Run a command", ShellArgs{})
func NewFunctionSpecFromStruct(name, description string, structType any, optFns ...func(o *FunctionSpec)) *FunctionSpec {
	return NewFunctionSpec(name, description, util.CreateSchema(structType), optFns...)
}

// WithStrict asks the model to follow the schema exactly.
func WithStrict() func(o *FunctionSpec) {
	return func(o *FunctionSpec) { o.strict = true }
}

// Name returns the function name.
func (s *FunctionSpec) Name() string { return s.name }

// Description returns the natural language description shown to the model.
func (s *FunctionSpec) Description() string { return s.description }

// Parameters returns the JSON schema describing expected arguments.
func (s *FunctionSpec) Parameters() map[string]any { return s.parameters }

// ResponsesTool implements Spec. It fails with a SCHEMA_ERROR ToolError when
// the parameter schema cannot be encoded or is not a valid JSON schema.
func (s *FunctionSpec) ResponsesTool() (map[string]any, error) {
	if s.name == "" {
		return nil, NewToolError(s.name, "function name is empty", "SCHEMA_ERROR")
	}
	if _, err := s.schema(); err != nil {
		return nil, schemaError(s.name, err)
	}
	return map[string]any{
		"type":        "function",
		"name":        s.name,
		"description": s.description,
		"strict":      s.strict,
		"parameters":  s.parameters,
	}, nil
}

// ValidateArguments decodes the serialized arguments of a function call and
// checks them against the schema.
//
// Error Semantics:
//
//	malformed JSON     -> *ToolError{Code: "INVALID_ARGUMENTS"}
//	missing field      -> *ToolError{Code: "VALIDATION_ERROR"}, Details holds the *ValidationError
//	schema mismatch    -> *ToolError{Code: "VALIDATION_ERROR"}, Details holds the *jsonschema.ValidationError
//	invalid schema     -> *ToolError{Code: "SCHEMA_ERROR"}
func (s *FunctionSpec) ValidateArguments(arguments string) (map[string]any, error) {
	args := map[string]any{}
	if arguments != "" {
		if err := json.Unmarshal([]byte(arguments), &args); err != nil {
			return nil, &ToolError{
				Tool:    s.name,
				Message: fmt.Sprintf("arguments are not a JSON object: %v", err),
				Code:    "INVALID_ARGUMENTS",
			}
		}
	}
	if err := util.ValidateParameters(args, s.parameters); err != nil {
		var verr *ValidationError
		errors.As(err, &verr)
		return nil, &ToolError{
			Tool:    s.name,
			Message: fmt.Sprintf("parameter validation failed: %v", err),
			Code:    "VALIDATION_ERROR",
			Details: verr,
		}
	}

	schema, err := s.schema()
	if err != nil {
		return nil, schemaError(s.name, err)
	}
	if err := schema.Validate(args); err != nil {
		return nil, &ToolError{
			Tool:    s.name,
			Message: fmt.Sprintf("parameter validation failed: %v", err),
			Code:    "VALIDATION_ERROR",
			Details: err,
		}
	}
	return args, nil
}

func schemaError(name string, err error) *ToolError {
	return &ToolError{
		Tool:    name,
		Message: fmt.Sprintf("invalid parameter schema: %v", err),
		Code:    "SCHEMA_ERROR",
		Details: err,
	}
}
