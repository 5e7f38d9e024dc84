// Package notify deduplicates and rate-limits user-facing failure
// notifications so repeated transient errors, especially quota errors, do
// not flood the UI. It also rewrites low-level connectivity failures into
// actionable text before display.
package notify

import (
	"strings"
	"sync"
	"time"
)

// Severity classifies a notification for display.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Sink receives the notifications that survive throttling. Implemented by
// the UI layer.
type Sink interface {
	Show(message string, severity Severity)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(message string, severity Severity)

// Show implements Sink.
func (f SinkFunc) Show(message string, severity Severity) { f(message, severity) }

// quotaSignatures mark quota-class error messages subject to the cooldown.
var quotaSignatures = []string{
	"rate limit",
	"rate_limit",
	"too many requests",
	"resource_exhausted",
	"quota",
	"429",
}

// connectivitySignatures mark generic low-level network failures that get
// rewritten before display.
var connectivitySignatures = []string{
	"connection refused",
	"connection reset",
	"no such host",
	"network is unreachable",
	"i/o timeout",
	"failed to connect",
	"dial tcp",
}

// connectivityMessage replaces raw connectivity errors with something a
// human can act on.
const connectivityMessage = "Could not reach the AI service. Check your internet connection and try again."

// Throttle wraps a Sink with a quota-class cooldown. Safe for concurrent
// use by independent logical requests.
type Throttle struct {
	sink     Sink
	cooldown time.Duration

	mu        sync.Mutex
	lastQuota time.Time
	now       func() time.Time
}

// New creates a throttle in front of sink with the given quota cooldown.
func New(sink Sink, cooldown time.Duration) *Throttle {
	return &Throttle{
		sink:     sink,
		cooldown: cooldown,
		now:      time.Now,
	}
}

// Notify forwards the message to the sink unless it is a quota-class error
// inside the cooldown window. Showing a quota-class error resets the
// cooldown clock. Connectivity rewriting applies to every message that is
// shown, independent of the throttling verdict.
func (t *Throttle) Notify(message string, severity Severity) {
	if severity == SeverityError && matchesAny(message, quotaSignatures) {
		t.mu.Lock()
		now := t.now()
		if !t.lastQuota.IsZero() && now.Sub(t.lastQuota) < t.cooldown {
			t.mu.Unlock()
			return
		}
		t.lastQuota = now
		t.mu.Unlock()
	}

	if matchesAny(message, connectivitySignatures) {
		message = connectivityMessage
	}

	t.sink.Show(message, severity)
}

func matchesAny(message string, signatures []string) bool {
	lowered := strings.ToLower(message)
	for _, sig := range signatures {
		if strings.Contains(lowered, sig) {
			return true
		}
	}
	return false
}
