// Package transport defines the normalized request/response contract between
// the orchestration layer and AI provider backends, along with the
// middleware pipeline used to dispatch requests over HTTP.
package transport

import (
	"net/http"
	"time"
)

// OperationType differentiates the units of work the layer performs.
// Affects prompt construction, response decoding, and cache key namespacing.
type OperationType string

const (
	// OpGenerate indicates free-text or structured content generation.
	OpGenerate OperationType = "generate"

	// OpClassify indicates assigning one of a fixed set of labels to input.
	OpClassify OperationType = "classify"

	// OpExtract indicates pulling schema-shaped data out of input content.
	OpExtract OperationType = "extract"
)

// Request is a normalized unit of work across all provider families.
// Contains everything a provider adapter needs to construct its
// family-specific HTTP request.
type Request struct {
	// Operation affects routing and response handling.
	Operation OperationType `json:"operation"`

	// Provider identifies the backend family, e.g. "gemini" or "openai".
	Provider string `json:"provider"`

	// Model is the exact model identifier for the family.
	Model string `json:"model"`

	// Credential authenticates this specific attempt. Supplied per call by
	// the fallback orchestrator from the active provider descriptor, never
	// from ambient process state. Excluded from serialization.
	Credential string `json:"-"`

	// Prompt is the user-facing unit of work.
	Prompt string `json:"prompt"`

	// SystemPrompt carries instructions to the model.
	SystemPrompt string `json:"system_prompt,omitempty"`

	// Schema optionally constrains the output shape. When set, adapters
	// request provider-native structured output and the response content is
	// expected to decode as JSON matching it.
	Schema map[string]any `json:"schema,omitempty"`

	// Generation parameters.
	MaxTokens   int64   `json:"max_tokens"`
	Temperature float64 `json:"temperature"`

	// Control fields for resilience and correlation.
	Timeout   time.Duration     `json:"timeout"`
	RequestID string            `json:"request_id"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Response is the normalized output from any provider family.
type Response struct {
	// Content is the generated text, or JSON when a schema was requested.
	Content string `json:"content"`

	// FinishReason indicates why generation stopped, normalized across
	// families ("stop", "length", "safety", ...).
	FinishReason string `json:"finish_reason"`

	// ProviderRequestIDs enables cross-system correlation.
	ProviderRequestIDs []string `json:"provider_request_ids"`

	// Usage tracks resource consumption.
	Usage NormalizedUsage `json:"usage"`

	// Headers preserves raw response headers for debugging.
	Headers http.Header `json:"-"`

	// RawBody preserves the original payload for lenient re-extraction.
	RawBody []byte `json:"raw_body"`
}

// NormalizedUsage provides consistent usage metrics across families.
type NormalizedUsage struct {
	PromptTokens     int64 `json:"prompt_tokens"`
	CompletionTokens int64 `json:"completion_tokens"`
	TotalTokens      int64 `json:"total_tokens"`
	LatencyMs        int64 `json:"latency_ms"`
}
