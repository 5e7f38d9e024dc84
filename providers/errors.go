package providers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	aierrors "github.com/studyhall/aibridge/errors"
)

// Provider adapter errors.
var ErrUnsupportedOperation = errors.New("unsupported operation")

// isRateLimitSignature reports whether an HTTP status plus provider error
// code carry a quota or rate-limit signature.
func isRateLimitSignature(statusCode int, errorCode string) bool {
	if statusCode == http.StatusTooManyRequests {
		return true
	}
	lowered := strings.ToLower(errorCode)
	return strings.Contains(lowered, "rate") && strings.Contains(lowered, "limit") ||
		strings.Contains(lowered, "resource_exhausted") ||
		strings.Contains(lowered, "quota")
}

// retryAfterSeconds extracts the Retry-After header as whole seconds.
// Date-formatted values are ignored; classification only needs a hint.
func retryAfterSeconds(headers http.Header) int {
	raw := headers.Get("Retry-After")
	if raw == "" {
		return 0
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds < 0 {
		return 0
	}
	return seconds
}

// parseGeminiError converts a Gemini error payload to a ProviderError.
// Gemini reports a symbolic status such as "RESOURCE_EXHAUSTED" alongside
// the numeric code.
func parseGeminiError(statusCode int, body []byte, headers http.Header) error {
	var errResp struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
			Status  string `json:"status"`
		} `json:"error"`
	}

	perr := &aierrors.ProviderError{
		Provider:   FamilyGemini,
		StatusCode: statusCode,
		Message:    string(body),
		RetryAfter: retryAfterSeconds(headers),
	}
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		perr.Message = errResp.Error.Message
		perr.Code = errResp.Error.Status
	}
	perr.RateLimited = isRateLimitSignature(statusCode, perr.Code) ||
		isRateLimitSignature(statusCode, perr.Message)
	return perr
}

// parseOpenAIError converts an OpenAI-format error payload to a ProviderError.
func parseOpenAIError(statusCode int, body []byte, headers http.Header) error {
	var errResp struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
			Code    string `json:"code"`
		} `json:"error"`
	}

	perr := &aierrors.ProviderError{
		Provider:   FamilyOpenAI,
		StatusCode: statusCode,
		Message:    string(body),
		RetryAfter: retryAfterSeconds(headers),
	}
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		perr.Message = errResp.Error.Message
		perr.Code = errResp.Error.Code
		if perr.Code == "" {
			perr.Code = errResp.Error.Type
		}
	}
	perr.RateLimited = isRateLimitSignature(statusCode, perr.Code) ||
		isRateLimitSignature(statusCode, perr.Message)
	return perr
}
