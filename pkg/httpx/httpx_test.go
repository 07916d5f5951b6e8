package httpx

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

// timeoutErr fakes a net.Error whose Timeout answer is under test control.
type timeoutErr struct {
	timeout bool
}

func (e *timeoutErr) Error() string   { return "dial tcp: i/o timeout" }
func (e *timeoutErr) Timeout() bool   { return e.timeout }
func (e *timeoutErr) Temporary() bool { return false }

func TestIsRetryableError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"canceled", context.Canceled, false},
		{"wrapped canceled", fmt.Errorf("call aborted: %w", context.Canceled), false},
		{"deadline exceeded", context.DeadlineExceeded, true},
		{"net timeout", &timeoutErr{timeout: true}, true},
		{"status 429", &BackendCallError{Provider: "gemini", StatusCode: 429, Err: errors.New("quota")}, true},
		{"status 503", &BackendCallError{Provider: "openai", StatusCode: 503, Err: errors.New("upstream")}, true},
		{"status 400", &BackendCallError{Provider: "gemini", StatusCode: 400, Err: errors.New("bad request")}, false},
		{"connection reset", errors.New("read tcp: connection reset by peer"), true},
		{"rate limited", errors.New("Rate limit exceeded, slow down"), true},
		{"bad credentials", errors.New("invalid api key"), false},
	}
	for _, tc := range cases {
		if got := IsRetryableError(tc.err); got != tc.want {
			t.Errorf("%s: IsRetryableError(%v) = %v, want %v", tc.name, tc.err, got, tc.want)
		}
	}
}

func TestIsRetryableHTTPStatus(t *testing.T) {
	for _, code := range []int{408, 429, 500, 502, 599} {
		if !IsRetryableHTTPStatus(code) {
			t.Errorf("status %d should be retryable", code)
		}
	}
	for _, code := range []int{200, 301, 400, 404, 600} {
		if IsRetryableHTTPStatus(code) {
			t.Errorf("status %d should not be retryable", code)
		}
	}
}

func TestBackendCallErrorWrapping(t *testing.T) {
	inner := errors.New("quota exhausted")
	err := &BackendCallError{Provider: "gemini", StatusCode: 429, Err: inner}

	if !errors.Is(err, inner) {
		t.Fatal("inner error lost through wrapping")
	}
	var sc HTTPStatusCoder
	if !errors.As(err, &sc) || sc.HTTPStatusCode() != 429 {
		t.Fatalf("status code not exposed, got %v", sc)
	}
	msg := err.Error()
	for _, want := range []string{"gemini", "429", "quota exhausted"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error message %q missing %q", msg, want)
		}
	}

	bare := &BackendCallError{Provider: "openai", Err: inner}
	if strings.Contains(bare.Error(), "status") {
		t.Errorf("statusless error should not mention a status: %q", bare.Error())
	}
}
