package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound is matched (via errors.Is) by any error for a resource the
	// server reports as missing.
	ErrNotFound = errors.New("not found")

	// ErrInvalidCredentials is returned by Login when the server rejects
	// the username/password pair.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// APIError is a non-2xx response from the ticket API. Message carries the
// server's {msg} or {error} body when one was sent.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
}

// Is lets errors.Is(err, ErrNotFound) match 404 responses.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// ServerMessage extracts the server-provided message from err, if any.
func ServerMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}
