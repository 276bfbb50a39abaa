package bridge

import (
	"errors"
	"fmt"
)

// ErrProxyUnreachable is returned when no HTTP exchange with the proxy was possible.
var ErrProxyUnreachable = errors.New("automation proxy is unreachable")

// StatusError is a reply that arrived intact but did not report SUCCESS.
type StatusError struct {
	Action   string
	Status   string
	Message  string
	Response *Response
}

func (e *StatusError) Error() string {
	status := e.Status
	if status == "" {
		status = "no status"
	}
	return fmt.Sprintf("%s failed (%s): %s", e.Action, status, e.Message)
}

// TransportError wraps failures below the command layer: HTTP errors,
// timeouts and undecodable bodies.
type TransportError struct {
	Action     string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("request failed for %s: proxy returned HTTP %d: %v", e.Action, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("request failed for %s: %v", e.Action, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsStatusError reports whether err carries a non-SUCCESS reply, and returns it.
func IsStatusError(err error) (*StatusError, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
