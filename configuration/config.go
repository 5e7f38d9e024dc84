// Package configuration holds the injectable settings for the AI
// orchestration layer. Everything here is explicit construction-time state;
// in particular the operator fallback credential is a configuration value,
// never read from the process environment, so the layer is testable with
// fabricated credentials.
package configuration

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Config holds the complete configuration for the orchestration layer.
type Config struct {
	// HTTP client configuration.
	HTTPTimeout time.Duration `yaml:"http_timeout" json:"http_timeout"`
	HTTPClient  *http.Client  `yaml:"-" json:"-"`

	// Providers maps family name to family-specific settings.
	Providers map[string]ProviderConfig `yaml:"providers" json:"providers"`

	// Fallback is the operator-wide credential appended to every priority
	// list after caller-supplied credentials.
	Fallback FallbackCredential `yaml:"fallback" json:"fallback"`

	// AttemptTimeout bounds one provider's attempt set, retries included.
	AttemptTimeout time.Duration `yaml:"attempt_timeout" json:"attempt_timeout"`

	// LongDocumentTimeout replaces AttemptTimeout for call sites processing
	// large documents.
	LongDocumentTimeout time.Duration `yaml:"long_document_timeout" json:"long_document_timeout"`

	// Retry controls in-provider retry behavior.
	Retry RetryConfig `yaml:"retry" json:"retry"`

	// Cache controls the two-tier result cache.
	Cache CacheConfig `yaml:"cache" json:"cache"`

	// Notify controls user-facing failure notification throttling.
	Notify NotifyConfig `yaml:"notify" json:"notify"`
}

// ProviderConfig holds family-specific endpoint settings. Credentials are
// deliberately absent: they travel with each request's provider descriptor.
type ProviderConfig struct {
	Endpoint string            `yaml:"endpoint" json:"endpoint"`
	Model    string            `yaml:"model" json:"model"`
	Headers  map[string]string `yaml:"headers" json:"headers"`
}

// FallbackCredential is the operator-wide last-resort credential.
type FallbackCredential struct {
	Family string `yaml:"family" json:"family"`
	Key    string `yaml:"-" json:"-"` // Sensitive, not serialized
	Label  string `yaml:"label" json:"label"`
}

// RetryConfig controls classified-error-driven retries within one provider.
type RetryConfig struct {
	// MaxAttempts bounds attempts per provider. Call sites override this
	// per operation; observed values are 3 and 5.
	MaxAttempts int `yaml:"max_attempts" json:"max_attempts"`

	// BackoffUnit is the base of the exponential backoff formula
	// 2^attempt * unit + jitter(0..unit). Production keeps the default of
	// one second; tests shrink it.
	BackoffUnit time.Duration `yaml:"backoff_unit" json:"backoff_unit"`
}

// CacheConfig controls the two-tier result cache.
type CacheConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`

	// EphemeralTTL is the freshness window of the in-memory tier.
	EphemeralTTL time.Duration `yaml:"ephemeral_ttl" json:"ephemeral_ttl"`

	// DurableStaleAfter is the staleness window of the shared tier.
	DurableStaleAfter time.Duration `yaml:"durable_stale_after" json:"durable_stale_after"`

	RedisAddr     string `yaml:"redis_addr" json:"redis_addr"`
	RedisPassword string `yaml:"-" json:"-"` // Sensitive
	RedisDB       int    `yaml:"redis_db" json:"redis_db"`
}

// NotifyConfig controls the notification throttle.
type NotifyConfig struct {
	// QuotaCooldown suppresses repeated quota-class error notifications
	// fired within this window.
	QuotaCooldown time.Duration `yaml:"quota_cooldown" json:"quota_cooldown"`
}

var (
	errNoProviders          = errors.New("at least one provider family must be configured")
	errAttemptTimeout       = errors.New("attempt_timeout must be positive")
	errRetryAttemptsInvalid = errors.New("retry max_attempts must be greater than 0")
	errBackoffUnitInvalid   = errors.New("retry backoff_unit must be positive")
	errCacheWindowsInvalid  = errors.New("cache durable_stale_after must be >= ephemeral_ttl")
)

// Validate checks the configuration for internally inconsistent or unusable
// values. Returns the first problem found.
func (c *Config) Validate() error {
	if len(c.Providers) == 0 {
		return errNoProviders
	}
	for name, p := range c.Providers {
		if p.Model == "" {
			return fmt.Errorf("provider %s: model must be set", name)
		}
	}
	if c.AttemptTimeout <= 0 {
		return errAttemptTimeout
	}
	if c.Retry.MaxAttempts <= 0 {
		return errRetryAttemptsInvalid
	}
	if c.Retry.BackoffUnit <= 0 {
		return errBackoffUnitInvalid
	}
	if c.Cache.Enabled && c.Cache.DurableStaleAfter < c.Cache.EphemeralTTL {
		return errCacheWindowsInvalid
	}
	return nil
}
