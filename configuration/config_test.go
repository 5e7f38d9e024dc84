package configuration

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 120*time.Second, cfg.AttemptTimeout)
	assert.Equal(t, 300*time.Second, cfg.LongDocumentTimeout)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
	assert.Equal(t, 7*24*time.Hour, cfg.Cache.EphemeralTTL)
	assert.Equal(t, 90*24*time.Hour, cfg.Cache.DurableStaleAfter)
	assert.Equal(t, 10*time.Second, cfg.Notify.QuotaCooldown)
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "no providers",
			mutate:  func(c *Config) { c.Providers = nil },
			wantErr: "at least one provider family",
		},
		{
			name: "provider without model",
			mutate: func(c *Config) {
				c.Providers["gemini"] = ProviderConfig{}
			},
			wantErr: "model must be set",
		},
		{
			name:    "non-positive attempt timeout",
			mutate:  func(c *Config) { c.AttemptTimeout = 0 },
			wantErr: "attempt_timeout",
		},
		{
			name:    "zero retry attempts",
			mutate:  func(c *Config) { c.Retry.MaxAttempts = 0 },
			wantErr: "max_attempts",
		},
		{
			name:    "negative backoff unit",
			mutate:  func(c *Config) { c.Retry.BackoffUnit = -time.Second },
			wantErr: "backoff_unit",
		},
		{
			name: "stale window shorter than ephemeral ttl",
			mutate: func(c *Config) {
				c.Cache.DurableStaleAfter = time.Hour
			},
			wantErr: "durable_stale_after",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

// TestValidate_CacheWindowsIgnoredWhenDisabled: the window relation only
// matters when the cache is on.
func TestValidate_CacheWindowsIgnoredWhenDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Cache.Enabled = false
	cfg.Cache.DurableStaleAfter = time.Hour
	assert.NoError(t, cfg.Validate())
}

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "aibridge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

// TestLoad_OverlaysOnDefaults validates that file values override defaults
// while unspecified fields keep them.
func TestLoad_OverlaysOnDefaults(t *testing.T) {
	path := writeConfigFile(t, `
attempt_timeout: 60s
retry:
  max_attempts: 5
fallback:
  family: gemini
  label: operator fallback
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 60*time.Second, cfg.AttemptTimeout)
	assert.Equal(t, 5, cfg.Retry.MaxAttempts)
	assert.Equal(t, "gemini", cfg.Fallback.Family)

	// Untouched fields keep their defaults.
	assert.Equal(t, DefaultLongDocumentTimeout, cfg.LongDocumentTimeout)
	assert.Equal(t, DefaultBackoffUnit, cfg.Retry.BackoffUnit)
	assert.Equal(t, DefaultGeminiModel, cfg.Providers["gemini"].Model)
}

// TestLoad_ProviderModelBackfill: a providers block naming a family without
// a model gets the family default instead of failing validation.
func TestLoad_ProviderModelBackfill(t *testing.T) {
	path := writeConfigFile(t, `
providers:
  gemini:
    endpoint: https://localhost:8443
  openai: {}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://localhost:8443", cfg.Providers["gemini"].Endpoint)
	assert.Equal(t, DefaultGeminiModel, cfg.Providers["gemini"].Model)
	assert.Equal(t, DefaultOpenAIModel, cfg.Providers["openai"].Model)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfigFile(t, "retry: [not a mapping")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}
