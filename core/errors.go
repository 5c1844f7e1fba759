package core

import (
	"errors"
	"fmt"
	"time"
)

// ErrorKind is the closed enumeration of failure categories surfaced by the
// rename pipeline. Callers branch on kinds instead of matching error strings.
type ErrorKind int

const (
	// KindConfig indicates missing or invalid configuration (e.g. no API token).
	KindConfig ErrorKind = iota

	// KindRateLimit indicates the local request budget was exhausted.
	KindRateLimit

	// KindTransport indicates a fetch failure or an oversize/undersize file.
	KindTransport

	// KindAuth indicates the remote endpoint rejected the credential.
	KindAuth

	// KindBilling indicates the remote account has no usable quota.
	KindBilling

	// KindNotFound indicates the requested model or backend is unavailable.
	KindNotFound

	// KindAPI indicates any other non-2xx remote response.
	KindAPI

	// KindFormat indicates an unexpected response shape from the remote call.
	KindFormat
)

// String returns the kind's stable identifier used in logs and history entries.
func (k ErrorKind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindRateLimit:
		return "rate_limit"
	case KindTransport:
		return "transport"
	case KindAuth:
		return "auth"
	case KindBilling:
		return "billing"
	case KindNotFound:
		return "not_found"
	case KindAPI:
		return "api"
	case KindFormat:
		return "format"
	default:
		return "unknown"
	}
}

// Error is a tagged pipeline error with an actionable instruction for the user.
type Error struct {
	Kind    ErrorKind // Category for programmatic handling
	Message string    // Human-readable error message
	Action  string    // Actionable instruction for resolution

	// Status is the HTTP status for KindAPI errors (0 otherwise)
	Status int

	// RetryAfter is how long to wait for KindRateLimit errors (0 otherwise)
	RetryAfter time.Duration
}

func (e *Error) Error() string {
	if e.Action != "" {
		return fmt.Sprintf("%s. %s", e.Message, e.Action)
	}
	return e.Message
}

// Is reports kind equality, so errors.Is(err, &Error{Kind: k}) matches any
// error of kind k regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// ErrMissingToken returns a KindConfig error for an absent API token.
func ErrMissingToken() *Error {
	return &Error{
		Kind:    KindConfig,
		Message: "No API token configured",
		Action:  "Set RENAMER_API_TOKEN in your .env file or settings file",
	}
}

// ErrRateLimited returns a KindRateLimit error telling the user how long to wait.
func ErrRateLimited(retryAfter time.Duration) *Error {
	return &Error{
		Kind:       KindRateLimit,
		Message:    fmt.Sprintf("Request limit reached, retry in %s", retryAfter.Round(time.Second)),
		Action:     "Lower the download rate or raise RENAMER_REQUESTS_PER_MINUTE",
		RetryAfter: retryAfter,
	}
}

// ErrRemoteRateLimit returns a KindRateLimit error for a remote 429 response.
func ErrRemoteRateLimit(detail string) *Error {
	return &Error{
		Kind:    KindRateLimit,
		Message: fmt.Sprintf("Remote endpoint is rate limiting requests: %s", detail),
		Action:  "Wait a minute before retrying or lower RENAMER_REQUESTS_PER_MINUTE",
	}
}

// ErrTransport wraps a fetch or size failure as a KindTransport error.
func ErrTransport(reason string) *Error {
	return &Error{
		Kind:    KindTransport,
		Message: fmt.Sprintf("Could not fetch file: %s", reason),
	}
}

// ErrAuth returns a KindAuth error for a rejected credential.
func ErrAuth(detail string) *Error {
	return &Error{
		Kind:    KindAuth,
		Message: fmt.Sprintf("API token rejected: %s", detail),
		Action:  "Verify your API token is correct and has not expired",
	}
}

// ErrBilling returns a KindBilling error for exhausted remote quota.
func ErrBilling(detail string) *Error {
	return &Error{
		Kind:    KindBilling,
		Message: fmt.Sprintf("No usable quota on the selected backend: %s", detail),
		Action:  "Check your account billing status or switch models",
	}
}

// ErrModelNotFound returns a KindNotFound error for an unavailable model.
func ErrModelNotFound(model string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("Model or backend not available: %s", model),
		Action:  "Set RENAMER_MODEL to a model your account can access",
	}
}

// ErrAPI returns a generic KindAPI error carrying the HTTP status.
func ErrAPI(status int, message string) *Error {
	return &Error{
		Kind:    KindAPI,
		Message: fmt.Sprintf("API error (status %d): %s", status, message),
		Status:  status,
	}
}

// ErrBadResponse returns a KindFormat error for an unexpected response shape.
func ErrBadResponse(detail string) *Error {
	return &Error{
		Kind:    KindFormat,
		Message: fmt.Sprintf("Unexpected response from model: %s", detail),
	}
}

// KindOf extracts the ErrorKind from an error chain.
// Returns KindAPI for errors that are not tagged *Error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindAPI
}

// IsKind reports whether err carries the given kind anywhere in its chain.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
