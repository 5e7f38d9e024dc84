// Package errors defines the typed failures produced by the AI orchestration
// layer and the classification logic that turns raw provider errors into
// retry decisions. Classification is the single branch point the retry
// controller consults, so it lives here, isolated from any network code.
package errors

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for terminal orchestration failures.
var (
	// ErrNoCredentials indicates that no usable provider credential was
	// configured for a request. Terminal and non-retryable; the fallback
	// orchestrator is never invoked when this is returned.
	ErrNoCredentials = errors.New("no AI provider credentials configured")

	// ErrProviderTimeout indicates a single provider attempt exceeded its
	// execution deadline. Counted as a provider failure for fallback
	// purposes; never retried against the same provider.
	ErrProviderTimeout = errors.New("provider attempt timed out")
)

// ProviderError captures a structured error response from an AI backend.
// Includes the HTTP status code, provider-specific error code, and retry
// timing to enable classification and diagnosis without exposing credentials.
type ProviderError struct {
	Provider    string `json:"provider"`     // Provider family name
	StatusCode  int    `json:"status_code"`  // HTTP status code
	Code        string `json:"code"`         // Provider error code, e.g. "RESOURCE_EXHAUSTED"
	Message     string `json:"message"`      // Error message
	RateLimited bool   `json:"rate_limited"` // Quota or rate-limit signature detected
	RetryAfter  int    `json:"retry_after"`  // Retry-After header value in seconds
}

// Error returns the formatted provider error with status code context.
func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s error (status %d): %s", e.Provider, e.StatusCode, e.Message)
}

// GetRetryAfter returns the provider-recommended wait before the next
// attempt, or zero when the provider gave no guidance.
func (e *ProviderError) GetRetryAfter() time.Duration {
	if e.RetryAfter > 0 {
		return time.Duration(e.RetryAfter) * time.Second
	}
	return 0
}

// ValidationError captures input validation failures detected before any
// provider is dispatched. Never retryable.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error returns the formatted validation error with field context.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// MalformedResponseError indicates a provider returned a payload that could
// not be parsed into the expected shape, even after one lenient
// re-extraction pass. Treated as a provider failure for fallback purposes
// and never retried against the same provider, since retrying could mask a
// genuinely malformed prompt as a transient issue.
type MalformedResponseError struct {
	Provider string // Provider family that produced the payload
	Snippet  string // Leading fragment of the unparseable content
	Cause    error  // Underlying decode error
}

// Error returns the formatted malformed-response error with a content snippet.
func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("%s returned malformed response: %v (content: %q)", e.Provider, e.Cause, e.Snippet)
}

func (e *MalformedResponseError) Unwrap() error { return e.Cause }

// ExhaustedError indicates every provider in a priority list failed or
// timed out for one logical request. Carries the last concrete error for
// diagnostics along with the feature name and providers attempted.
type ExhaustedError struct {
	Feature   string   // Caller-supplied feature name, e.g. "lesson-plan"
	Attempted []string // Provider labels in the order they were tried
	Last      error    // Last observed provider error, may be nil
}

// Error returns the aggregated failure message. A human-readable fallback
// is used when no concrete error was ever captured, which can only happen
// if a non-empty list was somehow never attempted.
func (e *ExhaustedError) Error() string {
	if e.Last == nil {
		return fmt.Sprintf("all AI providers exhausted for %s: no provider could be attempted", e.Feature)
	}
	return fmt.Sprintf("all AI providers exhausted for %s (tried %d): %v", e.Feature, len(e.Attempted), e.Last)
}

func (e *ExhaustedError) Unwrap() error { return e.Last }

// IsRateLimited reports whether err carries a quota or rate-limit signature
// anywhere in its chain.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	c := Classify(err)
	return c != nil && c.RateLimited
}

// IsTimeout reports whether err represents a provider attempt deadline
// expiry or a context deadline.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrProviderTimeout) || errors.Is(err, context.DeadlineExceeded)
}

// IsCancelled reports whether err represents caller-requested cancellation.
// Cancellation propagates through every layer and is never treated as a
// provider failure.
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled)
}
