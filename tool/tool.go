// Package tool describes the tools offered to the model on each turn and
// projects them into the "tools" array of the outbound request.
package tool

import (
	"fmt"

	"github.com/hupe1980/modelturn/internal/util"
)

// Spec is one entry of the tool catalog sent with a request.
//
// Implementations must be safe for concurrent use; a catalog is typically
// shared by every turn of a conversation.
type Spec interface {
	// Name returns the identifier the model uses to call the tool.
	Name() string

	// ResponsesTool returns the wire representation of the tool as it appears
	// in the request's "tools" array.
	ResponsesTool() (map[string]any, error)
}

// ValidationError represents argument validation errors with detailed information.
type ValidationError = util.ValidationError

// ToolError reports a tool that cannot be offered to, or called by, the model.
type ToolError struct {
	Tool    string `json:"tool"`              // Name of the tool that failed
	Message string `json:"message"`           // Error message
	Code    string `json:"code"`              // Error code for categorization
	Details any    `json:"details,omitempty"` // Additional error details
}

func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// NewToolError creates a new ToolError with the specified details.
func NewToolError(tool, message, code string) *ToolError {
	return &ToolError{
		Tool:    tool,
		Message: message,
		Code:    code,
	}
}

// ToResponsesTools projects specs in order. The result is never nil so an
// empty catalog encodes as [].
func ToResponsesTools(specs []Spec) ([]map[string]any, error) {
	out := make([]map[string]any, 0, len(specs))
	seen := make(map[string]struct{}, len(specs))
	for _, s := range specs {
		if _, dup := seen[s.Name()]; dup {
			return nil, NewToolError(s.Name(), "duplicate tool name", "DUPLICATE_TOOL")
		}
		seen[s.Name()] = struct{}{}

		t, err := s.ResponsesTool()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}
