package model

import (
	"errors"
	"fmt"
)

var (
	// ErrStreamClosed is returned to a producer once the consumer closed the
	// stream, and to a consumer that reads after closing it.
	ErrStreamClosed = errors.New("response stream closed")

	// ErrStreamIncomplete reports a reply that ended before its completion event.
	ErrStreamIncomplete = errors.New("stream closed before response completed")
)

// APIError is an error reported by the provider inside the response stream.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("model api error [%s]: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("model api error: %s", e.Message)
}
