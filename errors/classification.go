package errors

import (
	"errors"
	"net/http"
	"strings"
)

// ClassifiedError is the retryable/non-retryable verdict derived from a raw
// failure. RateLimited is the single flag the retry controller branches on.
type ClassifiedError struct {
	RateLimited bool   `json:"rate_limited"`
	StatusCode  int    `json:"status_code,omitempty"`
	Message     string `json:"message"`
}

// rateLimitSignatures are the message fragments that mark a quota or
// rate-limit failure. Checked lowercased, in this order.
var rateLimitSignatures = []string{
	"rate limit",
	"rate_limit",
	"too many requests",
	"resource_exhausted",
	"resource has been exhausted",
	"quota",
	"429",
}

// Classify derives a ClassifiedError from a raw error by probing, in fixed
// priority order: typed provider errors, HTTP status codes, symbolic status
// text, and finally message text for rate-limit signatures. Pure function;
// returns nil for a nil error.
func Classify(err error) *ClassifiedError {
	if err == nil {
		return nil
	}

	var provErr *ProviderError
	if errors.As(err, &provErr) {
		return &ClassifiedError{
			RateLimited: provErr.RateLimited || provErr.StatusCode == http.StatusTooManyRequests,
			StatusCode:  provErr.StatusCode,
			Message:     provErr.Message,
		}
	}

	type statusCoder interface {
		StatusCode() int
	}
	if sc, ok := err.(statusCoder); ok {
		return &ClassifiedError{
			RateLimited: sc.StatusCode() == http.StatusTooManyRequests,
			StatusCode:  sc.StatusCode(),
			Message:     err.Error(),
		}
	}

	msg := err.Error()
	lowered := strings.ToLower(msg)
	for _, sig := range rateLimitSignatures {
		if strings.Contains(lowered, sig) {
			return &ClassifiedError{RateLimited: true, Message: msg}
		}
	}

	return &ClassifiedError{Message: msg}
}
