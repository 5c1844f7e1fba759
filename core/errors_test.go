package core

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind     ErrorKind
		expected string
	}{
		{KindConfig, "config"},
		{KindRateLimit, "rate_limit"},
		{KindTransport, "transport"},
		{KindAuth, "auth"},
		{KindBilling, "billing"},
		{KindNotFound, "not_found"},
		{KindAPI, "api"},
		{KindFormat, "format"},
		{ErrorKind(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.expected {
				t.Errorf("ErrorKind(%d).String() = %q, want %q", tt.kind, got, tt.expected)
			}
		})
	}
}

func TestErrorMessageIncludesAction(t *testing.T) {
	err := ErrMissingToken()
	msg := err.Error()
	if msg == "" {
		t.Fatal("expected non-empty error message")
	}
	if err.Action == "" {
		t.Fatal("config error should carry an actionable instruction")
	}
	if want := err.Message + ". " + err.Action; msg != want {
		t.Errorf("Error() = %q, want %q", msg, want)
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorKind
	}{
		{"missing token is config", ErrMissingToken(), KindConfig},
		{"rate limited", ErrRateLimited(30 * time.Second), KindRateLimit},
		{"transport", ErrTransport("connection refused"), KindTransport},
		{"auth", ErrAuth("invalid key"), KindAuth},
		{"billing", ErrBilling("insufficient_quota"), KindBilling},
		{"not found", ErrModelNotFound("gpt-9"), KindNotFound},
		{"api", ErrAPI(500, "internal"), KindAPI},
		{"format", ErrBadResponse("empty content"), KindFormat},
		{"wrapped error keeps kind", fmt.Errorf("caption failed: %w", ErrAuth("nope")), KindAuth},
		{"untagged error maps to api", errors.New("plain"), KindAPI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.expected {
				t.Errorf("KindOf() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIsKind(t *testing.T) {
	err := fmt.Errorf("outer: %w", ErrRateLimited(time.Minute))
	if !IsKind(err, KindRateLimit) {
		t.Error("expected wrapped rate limit error to match KindRateLimit")
	}
	if IsKind(err, KindAuth) {
		t.Error("rate limit error should not match KindAuth")
	}
	if IsKind(errors.New("plain"), KindAPI) {
		t.Error("untagged errors should not match any kind via IsKind")
	}
}

func TestErrRateLimitedCarriesRetryAfter(t *testing.T) {
	err := ErrRateLimited(42 * time.Second)
	if err.RetryAfter != 42*time.Second {
		t.Errorf("RetryAfter = %v, want 42s", err.RetryAfter)
	}
}

func TestErrAPICarriesStatus(t *testing.T) {
	err := ErrAPI(503, "overloaded")
	if err.Status != 503 {
		t.Errorf("Status = %d, want 503", err.Status)
	}
}
