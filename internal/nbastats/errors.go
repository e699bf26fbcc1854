package nbastats

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// APIError captures a failed stats API call with enough detail to decide
// whether a retry can help.
type APIError struct {
	Endpoint   string
	StatusCode int
	Timeout    bool
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("nbastats %s: %s (status=%d)", e.Endpoint, msg, e.StatusCode)
	}
	return fmt.Sprintf("nbastats %s: %s", e.Endpoint, msg)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Transient reports whether a retry against the same endpoint can plausibly
// succeed: request timeouts, throttling, and upstream 5xx responses.
func (e *APIError) Transient() bool {
	if e.Timeout {
		return true
	}
	return e.StatusCode == 429 || e.StatusCode >= 500
}

// IsTransient classifies an arbitrary error for retry purposes. Errors it
// cannot classify are treated as non-transient so they surface immediately.
func IsTransient(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Transient()
	}
	return false
}

func wrapCallError(endpoint string, err error) *APIError {
	apiErr := &APIError{Endpoint: endpoint, Err: err}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		apiErr.Timeout = true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		apiErr.Timeout = true
	}
	return apiErr
}
