package providers_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyhall/aibridge/configuration"
	aierrors "github.com/studyhall/aibridge/errors"
	"github.com/studyhall/aibridge/providers"
	"github.com/studyhall/aibridge/transport"
)

// TestGeminiAdapter_Build validates request construction: endpoint shape,
// credential placement in the header, and native structured output.
func TestGeminiAdapter_Build(t *testing.T) {
	adapter := providers.NewGeminiAdapter(configuration.ProviderConfig{
		Endpoint: "https://example.test/v1beta",
		Model:    "gemini-2.0-flash",
	})

	req := &transport.Request{
		Operation:    transport.OpExtract,
		Provider:     providers.FamilyGemini,
		Credential:   "secret-key",
		Prompt:       "list subjects",
		SystemPrompt: "be terse",
		Schema:       map[string]any{"type": "array"},
		MaxTokens:    256,
		Temperature:  0.2,
	}

	httpReq, err := adapter.Build(context.Background(), req)
	require.NoError(t, err)

	assert.Contains(t, httpReq.URL.String(), "models/gemini-2.0-flash:generateContent")
	assert.NotContains(t, httpReq.URL.String(), "secret-key", "credential must not appear in the URL")
	assert.Equal(t, "secret-key", httpReq.Header.Get("x-goog-api-key"))

	body, err := io.ReadAll(httpReq.Body)
	require.NoError(t, err)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(body, &payload))
	genCfg, ok := payload["generationConfig"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "application/json", genCfg["responseMimeType"])
	assert.NotNil(t, genCfg["responseSchema"])
	assert.NotNil(t, payload["systemInstruction"])
}

// TestGeminiAdapter_Parse validates response normalization against a fake
// Gemini backend.
func TestGeminiAdapter_Parse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("x-request-id", "req-123")
		_, _ = w.Write([]byte(`{
			"candidates": [{
				"content": {"parts": [{"text": "hello "}, {"text": "world"}]},
				"finishReason": "STOP"
			}],
			"usageMetadata": {"promptTokenCount": 7, "candidatesTokenCount": 2, "totalTokenCount": 9}
		}`))
	}))
	defer server.Close()

	httpResp, err := http.Get(server.URL)
	require.NoError(t, err)

	adapter := providers.NewGeminiAdapter(configuration.ProviderConfig{})
	resp, err := adapter.Parse(httpResp)
	require.NoError(t, err)

	assert.Equal(t, "hello world", resp.Content)
	assert.Equal(t, "stop", resp.FinishReason)
	assert.Equal(t, []string{"req-123"}, resp.ProviderRequestIDs)
	assert.Equal(t, int64(9), resp.Usage.TotalTokens)
}

// TestGeminiAdapter_ParseRateLimit validates that a 429 with Gemini's
// symbolic status surfaces as a rate-limited provider error carrying the
// Retry-After hint.
func TestGeminiAdapter_ParseRateLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"code": 429, "message": "Quota exceeded", "status": "RESOURCE_EXHAUSTED"}}`))
	}))
	defer server.Close()

	httpResp, err := http.Get(server.URL)
	require.NoError(t, err)

	adapter := providers.NewGeminiAdapter(configuration.ProviderConfig{})
	_, err = adapter.Parse(httpResp)
	require.Error(t, err)

	var perr *aierrors.ProviderError
	require.ErrorAs(t, err, &perr)
	assert.True(t, perr.RateLimited)
	assert.Equal(t, http.StatusTooManyRequests, perr.StatusCode)
	assert.Equal(t, "RESOURCE_EXHAUSTED", perr.Code)
	assert.Equal(t, 30, perr.RetryAfter)
}

// TestOpenAIAdapter_Build validates bearer authentication and the
// response_format schema envelope.
func TestOpenAIAdapter_Build(t *testing.T) {
	adapter := providers.NewOpenAIAdapter(configuration.ProviderConfig{
		Endpoint: "https://example.test/v1",
		Model:    "gpt-4o-mini",
	})

	req := &transport.Request{
		Operation:  transport.OpGenerate,
		Provider:   providers.FamilyOpenAI,
		Credential: "sk-test",
		Prompt:     "write a quiz",
		Schema:     map[string]any{"type": "object"},
		MaxTokens:  512,
	}

	httpReq, err := adapter.Build(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "Bearer sk-test", httpReq.Header.Get("Authorization"))
	assert.Contains(t, httpReq.URL.String(), "/chat/completions")

	body, err := io.ReadAll(httpReq.Body)
	require.NoError(t, err)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, "gpt-4o-mini", payload["model"])
	assert.NotNil(t, payload["response_format"])
}

// TestOpenAIAdapter_ParseError validates typed error extraction from the
// OpenAI error envelope.
func TestOpenAIAdapter_ParseError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "Rate limit reached", "type": "rate_limit_error", "code": "rate_limit_exceeded"}}`))
	}))
	defer server.Close()

	httpResp, err := http.Get(server.URL)
	require.NoError(t, err)

	adapter := providers.NewOpenAIAdapter(configuration.ProviderConfig{})
	_, err = adapter.Parse(httpResp)
	require.Error(t, err)

	var perr *aierrors.ProviderError
	require.ErrorAs(t, err, &perr)
	assert.True(t, perr.RateLimited)
	assert.Equal(t, "Rate limit reached", perr.Message)
}

// TestRouter_Pick validates family routing and the unknown-family error.
func TestRouter_Pick(t *testing.T) {
	router, err := providers.NewRouter(map[string]configuration.ProviderConfig{
		providers.FamilyGemini: {Model: "gemini-2.0-flash"},
		providers.FamilyOpenAI: {Model: "gpt-4o-mini"},
	})
	require.NoError(t, err)

	gemini, err := router.Pick(providers.FamilyGemini)
	require.NoError(t, err)
	assert.Equal(t, providers.FamilyGemini, gemini.Name())

	_, err = router.Pick("anthropic")
	require.ErrorIs(t, err, providers.ErrUnknownProvider)
}

// TestNewRouter_UnknownFamily validates construction-time rejection of
// unsupported families.
func TestNewRouter_UnknownFamily(t *testing.T) {
	_, err := providers.NewRouter(map[string]configuration.ProviderConfig{
		"mystery": {Model: "x"},
	})
	require.ErrorIs(t, err, providers.ErrUnknownProvider)
}
