package client

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// NetworkError means the request never got a response.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServerError is a non-2xx response. Detail is what the server said, or the
// status text when it said nothing usable.
type ServerError struct {
	Status int
	Detail string

	fromBody bool
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Detail)
}

// ServerDetail returns the detail only when the server actually sent one.
func (e *ServerError) ServerDetail() (string, bool) {
	return e.Detail, e.fromBody
}

// NewServerError builds the error for a non-2xx response with the given body.
func NewServerError(status int, body []byte) *ServerError {
	var payload map[string]any
	if json.Unmarshal(body, &payload) == nil {
		if d, ok := payload["detail"].(string); ok && d != "" {
			return &ServerError{Status: status, Detail: d, fromBody: true}
		}
	}
	detail := http.StatusText(status)
	if detail == "" {
		detail = fmt.Sprintf("HTTP %d", status)
	}
	return &ServerError{Status: status, Detail: detail}
}
