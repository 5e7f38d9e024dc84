// Package aibridge is the AI provider orchestration and resilience layer.
// It invokes interchangeable LLM backends to satisfy application requests
// while tolerating transient failures, enforcing deadlines, supporting
// cancellation, and avoiding redundant cost through two-tier caching of
// deterministic-enough results.
//
// Architecture:
//   - Provider-agnostic transport with one adapter per backend family
//   - Per-request provider priority list built from caller credentials
//   - Execution envelope racing work against deadline and cancellation
//   - Rate-limit-driven retries inside a provider, ordered fallback across
//     providers, first success wins
//   - Read-through/write-back caching for slowly-changing lookups
//   - Quota-aware throttling of user-facing failure notifications
package aibridge

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/studyhall/aibridge/cache"
	"github.com/studyhall/aibridge/configuration"
	aierrors "github.com/studyhall/aibridge/errors"
	"github.com/studyhall/aibridge/fallback"
	"github.com/studyhall/aibridge/notify"
	"github.com/studyhall/aibridge/providers"
	"github.com/studyhall/aibridge/retry"
	"github.com/studyhall/aibridge/transport"
)

// CallCredentials are the caller-supplied API keys for one request.
// Primary belongs to the Gemini family, Secondary to the OpenAI family.
// Either may be empty; the operator fallback credential from configuration
// completes the priority list.
type CallCredentials struct {
	Primary   string
	Secondary string
}

// Client is the inbound boundary of the orchestration layer. Safe for
// concurrent use; each call owns its provider list and cancellation scope.
type Client struct {
	cfg      *configuration.Config
	handler  transport.Handler
	tiers    *cache.TwoTier
	notifier *notify.Throttle
	logger   *slog.Logger
}

// Option customizes client construction.
type Option func(*Client)

// WithHandler replaces the transport handler. Intended for tests that fake
// provider behavior without a network.
func WithHandler(h transport.Handler) Option {
	return func(c *Client) { c.handler = h }
}

// WithDurableStore replaces the durable cache tier.
func WithDurableStore(store cache.DurableStore) Option {
	return func(c *Client) {
		c.tiers = cache.NewTwoTier(store, c.cfg.Cache.EphemeralTTL, c.cfg.Cache.DurableStaleAfter)
	}
}

// WithLogger replaces the default logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithNotificationSink routes user-facing failure notifications through the
// quota-aware throttle into sink.
func WithNotificationSink(sink notify.Sink) Option {
	return func(c *Client) { c.notifier = notify.New(sink, c.cfg.Notify.QuotaCooldown) }
}

// NewClient constructs the orchestration layer from explicit configuration.
// When the durable cache tier is enabled but unreachable, the client logs a
// warning and degrades to ephemeral-only caching rather than failing.
func NewClient(ctx context.Context, cfg *configuration.Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		cfg:    cfg,
		logger: slog.Default().With("component", "aibridge"),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.handler == nil {
		router, err := providers.NewRouter(cfg.Providers)
		if err != nil {
			return nil, err
		}
		httpClient := cfg.HTTPClient
		if httpClient == nil {
			httpClient = &http.Client{Timeout: cfg.HTTPTimeout}
		}
		c.handler = transport.Chain(
			transport.NewHTTPHandler(httpClient, router),
			c.loggingMiddleware(),
		)
	}

	if c.tiers == nil && cfg.Cache.Enabled {
		var durable cache.DurableStore
		if cfg.Cache.RedisAddr != "" {
			store, err := cache.NewRedisStore(ctx, cfg.Cache, nil)
			if err != nil {
				c.logger.Warn("durable cache tier unavailable, degrading to ephemeral only", "error", err)
			} else {
				durable = store
			}
		}
		c.tiers = cache.NewTwoTier(durable, cfg.Cache.EphemeralTTL, cfg.Cache.DurableStaleAfter)
	}

	return c, nil
}

// priorityList builds the per-request provider list from caller credentials
// plus the operator fallback. Returns ErrNoCredentials when the list would
// be empty; the orchestrator is never invoked in that case.
func (c *Client) priorityList(creds CallCredentials) ([]providers.Descriptor, error) {
	caller := make([]providers.Credential, 0, 2)
	if creds.Primary != "" {
		caller = append(caller, providers.Credential{
			Family: providers.FamilyGemini,
			Key:    creds.Primary,
			Label:  "primary Gemini credential",
		})
	}
	if creds.Secondary != "" {
		caller = append(caller, providers.Credential{
			Family: providers.FamilyOpenAI,
			Key:    creds.Secondary,
			Label:  "secondary OpenAI credential",
		})
	}

	fb := providers.Credential{
		Family: c.cfg.Fallback.Family,
		Key:    c.cfg.Fallback.Key,
		Label:  c.cfg.Fallback.Label,
	}
	if fb.Key != "" && fb.Label == "" {
		fb.Label = "operator fallback credential"
	}

	return providers.BuildPriorityList(caller, fb)
}

// fallbackConfig assembles the orchestrator settings for one call site.
func (c *Client) fallbackConfig(longDocument bool, maxAttempts int) fallback.Config {
	timeout := c.cfg.AttemptTimeout
	if longDocument {
		timeout = c.cfg.LongDocumentTimeout
	}
	if maxAttempts <= 0 {
		maxAttempts = c.cfg.Retry.MaxAttempts
	}
	return fallback.Config{
		AttemptTimeout: timeout,
		Retry: retry.Config{
			MaxAttempts: maxAttempts,
			BackoffUnit: c.cfg.Retry.BackoffUnit,
		},
	}
}

// ReportFailure routes a failure toward the user through the notification
// throttle, when one is configured. Cancellation is the caller's own doing
// and is never surfaced.
func (c *Client) ReportFailure(feature string, err error) {
	if c.notifier == nil || err == nil || aierrors.IsCancelled(err) {
		return
	}
	c.notifier.Notify(err.Error(), notify.SeverityError)
}

// CacheStats returns a snapshot of two-tier cache activity, or zero stats
// when caching is disabled.
func (c *Client) CacheStats() cache.Stats {
	if c.tiers == nil {
		return cache.Stats{}
	}
	return c.tiers.Stats()
}

// requestTimeout bounds the single HTTP exchange under the envelope's
// per-provider deadline so one slow response cannot absorb the entire
// attempt set.
func (c *Client) requestTimeout(longDocument bool) time.Duration {
	if longDocument {
		return c.cfg.LongDocumentTimeout
	}
	return c.cfg.HTTPTimeout
}
