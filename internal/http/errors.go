package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedMethod is returned for any method the panel API does not use
var ErrUnsupportedMethod = errors.New("unsupported request method")

// MissingAuthError means the selected API surface has no url or key configured
type MissingAuthError struct {
	Surface string
	Field   string
}

func (e *MissingAuthError) Error() string {
	return fmt.Sprintf("missing %s %s in config", e.Surface, e.Field)
}

// ErrorInfo is one entry of the panel's error envelope
type ErrorInfo struct {
	Code   string `json:"code"`
	Status string `json:"status"`
	Detail string `json:"detail"`
}

// APIError is a 4xx response carrying the panel's error envelope
type APIError struct {
	StatusCode int
	Errors     []ErrorInfo
}

func (e *APIError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("panel returned status %d", e.StatusCode)
	}

	parts := make([]string, len(e.Errors))
	for i, info := range e.Errors {
		parts[i] = info.Code
		if info.Detail != "" {
			parts[i] += ": " + info.Detail
		}
	}
	return fmt.Sprintf("panel returned status %d (%s)", e.StatusCode, strings.Join(parts, "; "))
}

// Forbidden reports whether any sub-error carries status 403
func (e *APIError) Forbidden() bool {
	if e.StatusCode == 403 {
		return true
	}
	for _, info := range e.Errors {
		if info.Status == "403" {
			return true
		}
	}
	return false
}

func parseAPIError(status int, body []byte) *APIError {
	var envelope struct {
		Errors []ErrorInfo `json:"errors"`
	}
	// a body that is not an envelope still produces an error with no entries
	_ = json.Unmarshal(body, &envelope)

	return &APIError{StatusCode: status, Errors: envelope.Errors}
}

// StatusError is a response that could not be classified, usually a 5xx
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected response status %d", e.StatusCode)
}
