package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// recordingSink captures everything shown for assertions.
type recordingSink struct {
	messages   []string
	severities []Severity
}

func (r *recordingSink) Show(message string, severity Severity) {
	r.messages = append(r.messages, message)
	r.severities = append(r.severities, severity)
}

func newTestThrottle(cooldown time.Duration) (*Throttle, *recordingSink, *time.Time) {
	sink := &recordingSink{}
	throttle := New(sink, cooldown)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := &now
	throttle.now = func() time.Time { return *clock }
	return throttle, sink, clock
}

// TestNotify_QuotaCooldownSuppresses validates the headline behavior: two
// quota errors inside the cooldown produce exactly one notification.
func TestNotify_QuotaCooldownSuppresses(t *testing.T) {
	throttle, sink, clock := newTestThrottle(10 * time.Second)

	throttle.Notify("rate limit exceeded, try later", SeverityError)
	*clock = clock.Add(2 * time.Second)
	throttle.Notify("429 too many requests", SeverityError)

	assert.Len(t, sink.messages, 1)
}

// TestNotify_QuotaShownAgainAfterCooldown validates that the window is a
// cooldown, not a permanent mute.
func TestNotify_QuotaShownAgainAfterCooldown(t *testing.T) {
	throttle, sink, clock := newTestThrottle(10 * time.Second)

	throttle.Notify("quota exhausted", SeverityError)
	*clock = clock.Add(11 * time.Second)
	throttle.Notify("quota exhausted", SeverityError)

	assert.Len(t, sink.messages, 2)
}

// TestNotify_ShowResetsCooldownClock validates that each shown quota error
// restarts the window rather than measuring from the first one.
func TestNotify_ShowResetsCooldownClock(t *testing.T) {
	throttle, sink, clock := newTestThrottle(10 * time.Second)

	throttle.Notify("quota exhausted", SeverityError) // shown, clock starts
	*clock = clock.Add(11 * time.Second)
	throttle.Notify("quota exhausted", SeverityError) // shown, clock restarts
	*clock = clock.Add(5 * time.Second)
	throttle.Notify("quota exhausted", SeverityError) // inside the new window

	assert.Len(t, sink.messages, 2)
}

// TestNotify_SuppressionDoesNotResetClock validates that a suppressed error
// leaves the window anchored at the last shown one.
func TestNotify_SuppressionDoesNotResetClock(t *testing.T) {
	throttle, sink, clock := newTestThrottle(10 * time.Second)

	throttle.Notify("quota exhausted", SeverityError) // shown at t=0
	*clock = clock.Add(8 * time.Second)
	throttle.Notify("quota exhausted", SeverityError) // suppressed
	*clock = clock.Add(3 * time.Second)               // t=11, past the window
	throttle.Notify("quota exhausted", SeverityError) // shown

	assert.Len(t, sink.messages, 2)
}

// TestNotify_NonQuotaErrorsNotThrottled validates that the cooldown is
// specific to quota-class errors.
func TestNotify_NonQuotaErrorsNotThrottled(t *testing.T) {
	throttle, sink, _ := newTestThrottle(10 * time.Second)

	throttle.Notify("invalid request", SeverityError)
	throttle.Notify("invalid request", SeverityError)

	assert.Len(t, sink.messages, 2)
}

// TestNotify_NonErrorSeverityNotThrottled validates that severity gates the
// cooldown: a quota-flavored warning is not subject to it.
func TestNotify_NonErrorSeverityNotThrottled(t *testing.T) {
	throttle, sink, _ := newTestThrottle(10 * time.Second)

	throttle.Notify("approaching quota", SeverityWarning)
	throttle.Notify("approaching quota", SeverityWarning)

	assert.Len(t, sink.messages, 2)
}

// TestNotify_ConnectivityRewrite validates the user-facing rewrite of raw
// network errors.
func TestNotify_ConnectivityRewrite(t *testing.T) {
	tests := []struct {
		name    string
		message string
	}{
		{name: "connection refused", message: "dial tcp 142.250.0.1:443: connection refused"},
		{name: "dns failure", message: "lookup api.openai.com: no such host"},
		{name: "io timeout", message: "read tcp: i/o timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			throttle, sink, _ := newTestThrottle(10 * time.Second)
			throttle.Notify(tt.message, SeverityError)
			assert.Equal(t, []string{connectivityMessage}, sink.messages)
		})
	}
}

// TestNotify_RewriteLeavesOtherMessagesAlone ensures ordinary messages pass
// through untouched.
func TestNotify_RewriteLeavesOtherMessagesAlone(t *testing.T) {
	throttle, sink, _ := newTestThrottle(10 * time.Second)
	throttle.Notify("model returned an empty response", SeverityError)
	assert.Equal(t, []string{"model returned an empty response"}, sink.messages)
	assert.Equal(t, []Severity{SeverityError}, sink.severities)
}
