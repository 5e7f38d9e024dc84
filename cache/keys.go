// Package cache implements the two-tier result cache for cacheable,
// slowly-changing AI lookups: a fast in-memory ephemeral tier pruned by
// TTL-on-read, and a durable shared Redis tier pruned by staleness-on-read.
// Both tiers are read-through and write-back; a stale durable value is
// never served as a fallback when the compute step fails.
package cache

import (
	"strings"
)

// keyNamespace prefixes every composite key so tier storage can be shared
// with other subsystems.
const keyNamespace = "curriculum"

// Key is the composite cache key built from the semantically relevant
// request dimensions. Subject is optional.
type Key struct {
	Board    string
	Grade    string
	Language string
	Subject  string
}

// String renders the namespaced composite key. Dimensions are lowercased so
// "CBSE" and "cbse" resolve to the same entry.
func (k Key) String() string {
	parts := []string{keyNamespace, k.Board, k.Grade, k.Language}
	if k.Subject != "" {
		parts = append(parts, k.Subject)
	}
	return strings.ToLower(strings.Join(parts, ":"))
}
