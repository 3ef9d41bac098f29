package domain

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Domain errors represent the failure modes of a single run.
// None of them are retried internally; each one ends the current operation.
var (
	// ErrConfiguration indicates required credentials are missing or invalid.
	ErrConfiguration = errors.New("configuration error")

	// ErrBrowserLaunch indicates the browser could not be opened.
	// It is never returned by an operation; the authorization URL is printed instead.
	ErrBrowserLaunch = errors.New("browser launch failed")

	// Authorization Errors.

	// ErrListenerBind indicates the loopback callback listener could not bind.
	ErrListenerBind = errors.New("callback listener bind failed")

	// ErrAuthorizationTimeout indicates no callback arrived before the deadline.
	ErrAuthorizationTimeout = errors.New("timed out waiting for authorization callback")

	// ErrMalformedCallback indicates the callback lacked a code or state.
	ErrMalformedCallback = errors.New("malformed authorization callback")

	// ErrStateMismatch indicates the callback state did not match the request.
	// The authorization code carried by such a callback is discarded.
	ErrStateMismatch = errors.New("authorization state mismatch")

	// Transport Errors.

	// ErrTransport indicates the request never produced an HTTP response.
	ErrTransport = errors.New("network error")

	// ErrTokenExchangeHTTP indicates the token endpoint answered with a non-success status.
	ErrTokenExchangeHTTP = errors.New("token exchange failed")

	// ErrTokenDecode indicates the token response was not valid JSON or lacked an access token.
	ErrTokenDecode = errors.New("token response decode failed")

	// ErrPaginationHTTP indicates a page request answered with a non-success status.
	ErrPaginationHTTP = errors.New("page request failed")

	// ErrPaginationDecode indicates a page body could not be decoded.
	ErrPaginationDecode = errors.New("page decode failed")

	// ErrBulkMutationHTTP indicates a chunked mutation answered with a non-success status.
	ErrBulkMutationHTTP = errors.New("bulk mutation failed")

	// Storage Errors.

	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")
)

// APIError represents a non-success HTTP response from the provider.
// Kind is one of ErrTokenExchangeHTTP, ErrPaginationHTTP or ErrBulkMutationHTTP,
// so callers can match with errors.Is.
type APIError struct {
	Kind       error
	StatusCode int
	Message    string
	URL        string
	// RetryAfter is the provider's Retry-After hint for 429 responses.
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	kind := "API request failed"
	if e.Kind != nil {
		kind = e.Kind.Error()
	}
	msg := fmt.Sprintf("%s: status %d", kind, e.StatusCode)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.URL != "" {
		msg += " (URL: " + e.URL + ")"
	}
	return msg
}

// Unwrap returns the error kind.
func (e *APIError) Unwrap() error {
	return e.Kind
}

// IsUnauthorized checks if the error indicates an expired or rejected token.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized
	}
	return false
}

// IsRateLimited checks if the error indicates the provider throttled the request.
func IsRateLimited(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests
	}
	return false
}

// ConfigurationError wraps ErrConfiguration with the name of the missing setting.
func ConfigurationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}
