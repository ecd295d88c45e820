package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrUnreachable marks requests that failed before any response arrived.
// Callers use errors.Is to tell a backend outage apart from a rejected
// request.
var ErrUnreachable = errors.New("backend unreachable")

// Error represents a non-2xx response from the backend
type Error struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *Error) Error() string {
	return e.Message
}

// errorEnvelope matches the backend's JSON error shape
type errorEnvelope struct {
	Message string `json:"message"`
	Err     string `json:"error"`
}

// newError extracts the backend's error message from a failed response.
// Non-JSON bodies fall back to a generic message carrying the status.
func newError(status int, contentType string, body []byte) *Error {
	apiErr := &Error{
		StatusCode: status,
		Message:    fmt.Sprintf("HTTP Error: %d", status),
		Body:       body,
	}

	if !strings.Contains(contentType, "application/json") {
		return apiErr
	}

	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		// Parse failures keep the generic message
		return apiErr
	}

	if envelope.Message != "" {
		apiErr.Message = envelope.Message
	} else if envelope.Err != "" {
		apiErr.Message = envelope.Err
	}

	return apiErr
}
