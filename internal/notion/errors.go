// Defines errors returned by the Notion API client.

package notion

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error represents a Notion API error response.
type Error struct {
	Object  string `json:"object"`
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("notion API error (status %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("notion API error (status %d, %s): %s", e.Status, e.Code, e.Message)
}

// StatusError is returned for non-2xx responses whose body is not a Notion
// error object.
type StatusError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Body)
}

// newAPIError builds the error for a non-2xx response.
func newAPIError(status int, body []byte) error {
	var apiErr Error
	if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Object != "error" {
		return &StatusError{StatusCode: status, Body: string(body)}
	}
	if apiErr.Status == 0 {
		apiErr.Status = status
	}
	return &apiErr
}

// StatusCode returns the HTTP status carried by err, or 0 if err is not an API
// error.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	var stErr *StatusError
	if errors.As(err, &stErr) {
		return stErr.StatusCode
	}
	return 0
}

// IsRetryable reports whether a response with this status may succeed when
// retried.
func IsRetryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}
