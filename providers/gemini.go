package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/studyhall/aibridge/configuration"
	"github.com/studyhall/aibridge/transport"
)

// GeminiAdapter implements ProviderAdapter for the Google generative
// language API. It handles the generateContent format with per-request API
// key authentication, system instructions, and native structured output via
// responseSchema.
type GeminiAdapter struct {
	config configuration.ProviderConfig
}

// NewGeminiAdapter creates a Gemini adapter with the production endpoint as
// default.
func NewGeminiAdapter(cfg configuration.ProviderConfig) *GeminiAdapter {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "https://generativelanguage.googleapis.com/v1beta"
	}
	return &GeminiAdapter{config: cfg}
}

// Name returns the provider family name.
func (a *GeminiAdapter) Name() string {
	return FamilyGemini
}

// Build constructs a generateContent request from a normalized request.
// The credential travels in the x-goog-api-key header rather than the URL
// so it never appears in logs or traces.
func (a *GeminiAdapter) Build(ctx context.Context, req *transport.Request) (*http.Request, error) {
	switch req.Operation {
	case transport.OpGenerate, transport.OpClassify, transport.OpExtract:
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedOperation, req.Operation)
	}

	model := req.Model
	if model == "" {
		model = a.config.Model
	}
	endpoint := fmt.Sprintf("%s/models/%s:generateContent", a.config.Endpoint, model)

	generationConfig := map[string]any{
		"temperature":     req.Temperature,
		"maxOutputTokens": req.MaxTokens,
	}
	if req.Schema != nil {
		generationConfig["responseMimeType"] = "application/json"
		generationConfig["responseSchema"] = req.Schema
	}

	body := map[string]any{
		"contents": []map[string]any{
			{
				"parts": []map[string]any{
					{"text": req.Prompt},
				},
			},
		},
		"generationConfig": generationConfig,
	}

	if req.SystemPrompt != "" {
		body["systemInstruction"] = map[string]any{
			"parts": []map[string]any{
				{"text": req.SystemPrompt},
			},
		}
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", req.Credential)

	for k, v := range a.config.Headers {
		httpReq.Header.Set(k, v)
	}

	return httpReq, nil
}

// Parse extracts a normalized response from a Gemini API response.
func (a *GeminiAdapter) Parse(httpResp *http.Response) (*transport.Response, error) {
	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, parseGeminiError(httpResp.StatusCode, body, httpResp.Header)
	}

	var resp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
			FinishReason string `json:"finishReason"`
		} `json:"candidates"`
		UsageMetadata struct {
			PromptTokenCount     int `json:"promptTokenCount"`
			CandidatesTokenCount int `json:"candidatesTokenCount"`
			TotalTokenCount      int `json:"totalTokenCount"`
		} `json:"usageMetadata"`
	}

	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	var content string
	var finishReason string

	if len(resp.Candidates) > 0 {
		c := resp.Candidates[0]
		for _, part := range c.Content.Parts {
			content += part.Text
		}
		finishReason = mapGeminiFinishReason(c.FinishReason)
	}

	requestIDs := []string{}
	if reqID := httpResp.Header.Get("x-request-id"); reqID != "" {
		requestIDs = append(requestIDs, reqID)
	}

	return &transport.Response{
		Content:            content,
		FinishReason:       finishReason,
		ProviderRequestIDs: requestIDs,
		Usage: transport.NormalizedUsage{
			PromptTokens:     int64(resp.UsageMetadata.PromptTokenCount),
			CompletionTokens: int64(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int64(resp.UsageMetadata.TotalTokenCount),
		},
		Headers: httpResp.Header,
		RawBody: body,
	}, nil
}

// mapGeminiFinishReason normalizes Gemini finish reasons.
func mapGeminiFinishReason(reason string) string {
	switch reason {
	case "STOP":
		return "stop"
	case "MAX_TOKENS":
		return "length"
	case "SAFETY", "RECITATION":
		return "safety"
	default:
		return "stop"
	}
}
