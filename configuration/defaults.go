package configuration

import (
	"time"
)

// Timeout defaults.
const (
	DefaultHTTPTimeout         = 30 * time.Second
	DefaultAttemptTimeout      = 120 * time.Second
	DefaultLongDocumentTimeout = 300 * time.Second
)

// Retry defaults.
const (
	DefaultMaxAttempts = 3
	DefaultBackoffUnit = time.Second
)

// Cache defaults. The ephemeral tier stays fresh for a week; the durable
// tier is accepted until it is a quarter old.
const (
	DefaultEphemeralTTL      = 7 * 24 * time.Hour
	DefaultDurableStaleAfter = 90 * 24 * time.Hour
)

// Notification defaults.
const DefaultQuotaCooldown = 10 * time.Second

// Default model identifiers per family.
const (
	DefaultGeminiModel = "gemini-2.0-flash"
	DefaultOpenAIModel = "gpt-4o-mini"
)

// DefaultConfig returns a production-ready configuration with both provider
// families enabled and resilience settings suitable for interactive callers.
func DefaultConfig() *Config {
	return &Config{
		HTTPTimeout: DefaultHTTPTimeout,
		Providers: map[string]ProviderConfig{
			"gemini": {Model: DefaultGeminiModel},
			"openai": {Model: DefaultOpenAIModel},
		},
		AttemptTimeout:      DefaultAttemptTimeout,
		LongDocumentTimeout: DefaultLongDocumentTimeout,
		Retry: RetryConfig{
			MaxAttempts: DefaultMaxAttempts,
			BackoffUnit: DefaultBackoffUnit,
		},
		Cache: CacheConfig{
			Enabled:           true,
			EphemeralTTL:      DefaultEphemeralTTL,
			DurableStaleAfter: DefaultDurableStaleAfter,
		},
		Notify: NotifyConfig{
			QuotaCooldown: DefaultQuotaCooldown,
		},
	}
}
