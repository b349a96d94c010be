package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnreachable wraps transport failures: no response was received
	ErrUnreachable = errors.New("backend unreachable")
	// ErrInvalidResponse wraps responses whose body could not be decoded
	ErrInvalidResponse = errors.New("invalid backend response")
)

// APIError is a non-2xx response from the backend
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
}

// errorPayload is the {success, message} body the backend sends with failures
type errorPayload struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// StatusCode returns the HTTP status carried by err, or 0 when err has no response
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsNotFound reports a 404 response
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsServerFault reports a 5xx response
func IsServerFault(err error) bool {
	return StatusCode(err) >= http.StatusInternalServerError
}

// IsBadRequest reports a 400 response
func IsBadRequest(err error) bool {
	return StatusCode(err) == http.StatusBadRequest
}

// Message returns the backend supplied message of an APIError, if any
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}
