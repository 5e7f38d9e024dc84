package aibridge

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	aierrors "github.com/studyhall/aibridge/errors"
	"github.com/studyhall/aibridge/fallback"
	"github.com/studyhall/aibridge/providers"
	"github.com/studyhall/aibridge/transport"
)

const defaultMaxTokens = 4096

// TextParams describe one free-text generation call.
type TextParams struct {
	// Feature names the calling feature for diagnostics, e.g. "lesson-plan".
	Feature string

	Prompt       string
	SystemPrompt string

	// MaxAttempts overrides the per-provider retry bound; zero uses the
	// configured default.
	MaxAttempts int

	// LongDocument switches to the extended per-provider deadline for
	// large-document processing.
	LongDocument bool

	MaxTokens   int64
	Temperature float64
}

// ObjectParams describe one schema-shaped generation or extraction call.
type ObjectParams struct {
	Feature      string
	Prompt       string
	SystemPrompt string

	// Schema constrains the output shape, forwarded provider-natively.
	Schema map[string]any

	MaxAttempts  int
	LongDocument bool
	MaxTokens    int64
	Temperature  float64
}

// ClassifyParams describe one label-assignment call.
type ClassifyParams struct {
	Feature      string
	Input        string
	SystemPrompt string

	// Labels are the allowed classification outcomes. A response outside
	// this set counts as a malformed response for that provider.
	Labels []string

	MaxAttempts int
}

// GenerateText satisfies a free-text request, falling back across the
// caller's providers in priority order. ctx is the cancellation token: once
// it fires, no further retries or providers are attempted.
func (c *Client) GenerateText(ctx context.Context, p TextParams, creds CallCredentials) (string, error) {
	if err := validatePrompt(p.Prompt); err != nil {
		return "", err
	}
	list, err := c.priorityList(creds)
	if err != nil {
		return "", err
	}

	cfg := c.fallbackConfig(p.LongDocument, p.MaxAttempts)
	return fallback.Run(ctx, cfg, list, p.Feature, func(d providers.Descriptor) func(context.Context) (string, error) {
		return func(workCtx context.Context) (string, error) {
			resp, err := c.handler.Handle(workCtx, c.newRequest(transport.OpGenerate, d, requestParams{
				prompt:       p.Prompt,
				systemPrompt: p.SystemPrompt,
				maxTokens:    p.MaxTokens,
				temperature:  p.Temperature,
				longDocument: p.LongDocument,
			}))
			if err != nil {
				return "", err
			}
			return resp.Content, nil
		}
	})
}

// GenerateObject satisfies a structured request and decodes the response
// into T. A payload that fails strict decoding gets one lenient
// re-extraction pass; if it still does not decode it is a malformed
// response, counted as that provider's failure.
func GenerateObject[T any](ctx context.Context, c *Client, p ObjectParams, creds CallCredentials) (T, error) {
	return runObject[T](ctx, c, transport.OpGenerate, p, creds)
}

// Extract pulls schema-shaped data out of input content. Identical
// resilience semantics to GenerateObject under the extract operation.
func Extract[T any](ctx context.Context, c *Client, p ObjectParams, creds CallCredentials) (T, error) {
	return runObject[T](ctx, c, transport.OpExtract, p, creds)
}

// Classify assigns one of the allowed labels to the input. The matched
// label is returned in its declared casing.
func (c *Client) Classify(ctx context.Context, p ClassifyParams, creds CallCredentials) (string, error) {
	if err := validatePrompt(p.Input); err != nil {
		return "", err
	}
	if len(p.Labels) == 0 {
		return "", &aierrors.ValidationError{Field: "labels", Message: "at least one label is required"}
	}
	list, err := c.priorityList(creds)
	if err != nil {
		return "", err
	}

	prompt := fmt.Sprintf("Classify the following input as exactly one of: %s.\nRespond with the label only.\n\nInput:\n%s",
		strings.Join(p.Labels, ", "), p.Input)

	cfg := c.fallbackConfig(false, p.MaxAttempts)
	return fallback.Run(ctx, cfg, list, p.Feature, func(d providers.Descriptor) func(context.Context) (string, error) {
		return func(workCtx context.Context) (string, error) {
			resp, err := c.handler.Handle(workCtx, c.newRequest(transport.OpClassify, d, requestParams{
				prompt:       prompt,
				systemPrompt: p.SystemPrompt,
			}))
			if err != nil {
				return "", err
			}
			label := strings.TrimSpace(resp.Content)
			for _, allowed := range p.Labels {
				if strings.EqualFold(label, allowed) {
					return allowed, nil
				}
			}
			return "", &aierrors.MalformedResponseError{
				Provider: d.Family,
				Snippet:  snippet(resp.Content),
				Cause:    fmt.Errorf("label %q not in allowed set", label),
			}
		}
	})
}

// runObject is the shared structured-output path for generation and
// extraction.
func runObject[T any](ctx context.Context, c *Client, op transport.OperationType, p ObjectParams, creds CallCredentials) (T, error) {
	var zero T
	if err := validatePrompt(p.Prompt); err != nil {
		return zero, err
	}
	list, err := c.priorityList(creds)
	if err != nil {
		return zero, err
	}

	cfg := c.fallbackConfig(p.LongDocument, p.MaxAttempts)
	return fallback.Run(ctx, cfg, list, p.Feature, func(d providers.Descriptor) func(context.Context) (T, error) {
		return func(workCtx context.Context) (T, error) {
			var empty T
			resp, err := c.handler.Handle(workCtx, c.newRequest(op, d, requestParams{
				prompt:       p.Prompt,
				systemPrompt: p.SystemPrompt,
				schema:       p.Schema,
				maxTokens:    p.MaxTokens,
				temperature:  p.Temperature,
				longDocument: p.LongDocument,
			}))
			if err != nil {
				return empty, err
			}
			return decodeObject[T](d.Family, resp.Content)
		}
	})
}

// decodeObject decodes content into T strictly, then once more after the
// lenient re-extraction pass.
func decodeObject[T any](family, content string) (T, error) {
	var value T
	if err := json.Unmarshal([]byte(content), &value); err == nil {
		return value, nil
	}

	repaired, ok := extractJSON(content)
	if ok {
		var retried T
		if err := json.Unmarshal([]byte(repaired), &retried); err == nil {
			return retried, nil
		}
	}

	var zero T
	return zero, &aierrors.MalformedResponseError{
		Provider: family,
		Snippet:  snippet(content),
		Cause:    fmt.Errorf("response does not match expected shape"),
	}
}

// requestParams carry the per-call fields into newRequest.
type requestParams struct {
	prompt       string
	systemPrompt string
	schema       map[string]any
	maxTokens    int64
	temperature  float64
	longDocument bool
}

// newRequest assembles the normalized transport request for one provider
// attempt. The descriptor's credential travels with the request, never with
// the adapter.
func (c *Client) newRequest(op transport.OperationType, d providers.Descriptor, p requestParams) *transport.Request {
	maxTokens := p.maxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return &transport.Request{
		Operation:    op,
		Provider:     d.Family,
		Model:        c.cfg.Providers[d.Family].Model,
		Credential:   d.Credential,
		Prompt:       p.prompt,
		SystemPrompt: p.systemPrompt,
		Schema:       p.schema,
		MaxTokens:    maxTokens,
		Temperature:  p.temperature,
		Timeout:      c.requestTimeout(p.longDocument),
	}
}

func validatePrompt(prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		return &aierrors.ValidationError{Field: "prompt", Message: "prompt must not be empty"}
	}
	return nil
}

const snippetLen = 120

// snippet truncates content for inclusion in error messages.
func snippet(content string) string {
	s := strings.TrimSpace(content)
	if len(s) > snippetLen {
		return s[:snippetLen] + "..."
	}
	return s
}
