package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNoToken is returned before any request is sent when no API token is
// configured. Token absence is a local failure, not a network round-trip.
var ErrNoToken = errors.New("no API token configured")

// NetworkError wraps a transport failure: the request could not be sent or
// no response was received.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// HTTPError is a non-2xx response. Message carries the server-provided
// error text when the body had one.
type HTTPError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: server returned %d: %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: server returned %d", e.Op, e.StatusCode)
}

// IsAuthError reports whether err is a rejected-credentials response.
func IsAuthError(err error) bool {
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		return false
	}
	return httpErr.StatusCode == http.StatusUnauthorized || httpErr.StatusCode == http.StatusForbidden
}

// UserMessage returns the text to surface to the user: the server message
// when present, a generic fallback otherwise.
func UserMessage(err error) string {
	if IsAuthError(err) {
		return "The booking service rejected your credentials. Sign in again or update api.token."
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) && httpErr.Message != "" {
		return httpErr.Message
	}
	if errors.Is(err, ErrNoToken) {
		return "Not signed in: set TURNO_API_TOKEN or api.token in the config file"
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return "Could not reach the booking service. Check your connection and try again."
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
