package configuration

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors Config for YAML decoding. Durations are strings in the
// file ("60s", "2m") and scalars are pointers so an absent field can be told
// apart from a zero one when overlaying on the defaults.
type fileConfig struct {
	HTTPTimeout         *string                   `yaml:"http_timeout"`
	Providers           map[string]ProviderConfig `yaml:"providers"`
	Fallback            *FallbackCredential       `yaml:"fallback"`
	AttemptTimeout      *string                   `yaml:"attempt_timeout"`
	LongDocumentTimeout *string                   `yaml:"long_document_timeout"`

	Retry struct {
		MaxAttempts *int    `yaml:"max_attempts"`
		BackoffUnit *string `yaml:"backoff_unit"`
	} `yaml:"retry"`

	Cache struct {
		Enabled           *bool   `yaml:"enabled"`
		EphemeralTTL      *string `yaml:"ephemeral_ttl"`
		DurableStaleAfter *string `yaml:"durable_stale_after"`
		RedisAddr         *string `yaml:"redis_addr"`
		RedisDB           *int    `yaml:"redis_db"`
	} `yaml:"cache"`

	Notify struct {
		QuotaCooldown *string `yaml:"quota_cooldown"`
	} `yaml:"notify"`
}

// Load reads a YAML configuration file and overlays it on DefaultConfig.
// Fields absent from the file keep their defaults. The loaded configuration
// is validated before being returned.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var file fileConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := overlay(cfg, &file); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func overlay(cfg *Config, file *fileConfig) error {
	if err := setDuration(&cfg.HTTPTimeout, file.HTTPTimeout, "http_timeout"); err != nil {
		return err
	}
	if file.Providers != nil {
		cfg.Providers = file.Providers
	}
	if file.Fallback != nil {
		cfg.Fallback = *file.Fallback
	}
	if err := setDuration(&cfg.AttemptTimeout, file.AttemptTimeout, "attempt_timeout"); err != nil {
		return err
	}
	if err := setDuration(&cfg.LongDocumentTimeout, file.LongDocumentTimeout, "long_document_timeout"); err != nil {
		return err
	}

	if file.Retry.MaxAttempts != nil {
		cfg.Retry.MaxAttempts = *file.Retry.MaxAttempts
	}
	if err := setDuration(&cfg.Retry.BackoffUnit, file.Retry.BackoffUnit, "retry.backoff_unit"); err != nil {
		return err
	}

	if file.Cache.Enabled != nil {
		cfg.Cache.Enabled = *file.Cache.Enabled
	}
	if err := setDuration(&cfg.Cache.EphemeralTTL, file.Cache.EphemeralTTL, "cache.ephemeral_ttl"); err != nil {
		return err
	}
	if err := setDuration(&cfg.Cache.DurableStaleAfter, file.Cache.DurableStaleAfter, "cache.durable_stale_after"); err != nil {
		return err
	}
	if file.Cache.RedisAddr != nil {
		cfg.Cache.RedisAddr = *file.Cache.RedisAddr
	}
	if file.Cache.RedisDB != nil {
		cfg.Cache.RedisDB = *file.Cache.RedisDB
	}

	return setDuration(&cfg.Notify.QuotaCooldown, file.Notify.QuotaCooldown, "notify.quota_cooldown")
}

func setDuration(dst *time.Duration, raw *string, field string) error {
	if raw == nil {
		return nil
	}
	d, err := time.ParseDuration(*raw)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	*dst = d
	return nil
}

// applyDefaults backfills zero values that YAML overlays may have cleared,
// e.g. a providers block that lists a family without a model.
func applyDefaults(cfg *Config) {
	if cfg.AttemptTimeout == 0 {
		cfg.AttemptTimeout = DefaultAttemptTimeout
	}
	if cfg.LongDocumentTimeout == 0 {
		cfg.LongDocumentTimeout = DefaultLongDocumentTimeout
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.Retry.BackoffUnit == 0 {
		cfg.Retry.BackoffUnit = DefaultBackoffUnit
	}
	if cfg.Cache.EphemeralTTL == 0 {
		cfg.Cache.EphemeralTTL = DefaultEphemeralTTL
	}
	if cfg.Cache.DurableStaleAfter == 0 {
		cfg.Cache.DurableStaleAfter = DefaultDurableStaleAfter
	}
	if cfg.Notify.QuotaCooldown == 0 {
		cfg.Notify.QuotaCooldown = DefaultQuotaCooldown
	}
	if p, ok := cfg.Providers["gemini"]; ok && p.Model == "" {
		p.Model = DefaultGeminiModel
		cfg.Providers["gemini"] = p
	}
	if p, ok := cfg.Providers["openai"]; ok && p.Model == "" {
		p.Model = DefaultOpenAIModel
		cfg.Providers["openai"] = p
	}
}
