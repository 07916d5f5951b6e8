package httpx

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

type HTTPStatusCoder interface {
	HTTPStatusCode() int
}

// BackendCallError wraps a failed call to an external model provider so the
// HTTP status survives SDK-specific error types.
type BackendCallError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *BackendCallError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s call failed with status %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s call failed: %v", e.Provider, e.Err)
}

func (e *BackendCallError) Unwrap() error { return e.Err }

func (e *BackendCallError) HTTPStatusCode() int { return e.StatusCode }

func IsRetryableHTTPStatus(code int) bool {
	if code == 408 || code == 429 {
		return true
	}
	return code >= 500 && code <= 599
}

// IsRetryableError reports whether a provider error is worth another attempt.
// Context cancellation is not retryable: it means the caller gave up or
// another racer already won.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var sc HTTPStatusCoder
	if errors.As(err, &sc) {
		return IsRetryableHTTPStatus(sc.HTTPStatusCode())
	}
	msg := strings.ToLower(err.Error())
	for _, frag := range []string{
		"http status 5",
		"server_error",
		"rate limit",
		"overloaded",
		"unavailable",
		"connection reset",
		"connection refused",
		"unexpected eof",
		"deadline exceeded",
	} {
		if strings.Contains(msg, frag) {
			return true
		}
	}
	return false
}
