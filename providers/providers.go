// Package providers implements the callable AI backend families, the
// per-request provider priority list, and the adapters that translate
// normalized requests into family-specific HTTP exchanges.
package providers

import (
	"github.com/studyhall/aibridge/errors"
)

// Supported provider family identifiers. These constants must match the
// family names used in configuration.
const (
	// FamilyGemini is the primary family (Google generative language API).
	FamilyGemini = "gemini"

	// FamilyOpenAI is the secondary family (OpenAI-compatible chat API).
	FamilyOpenAI = "openai"
)

// Credential pairs a provider family with an API key supplied by a caller
// or by operator configuration.
type Credential struct {
	Family string // FamilyGemini or FamilyOpenAI
	Key    string // Opaque API key
	Label  string // Human label for diagnostics, e.g. "your Gemini key"
}

// Descriptor identifies one callable backend configuration for a single
// request. Immutable; constructed fresh per request from current credential
// state and never persisted.
type Descriptor struct {
	Family     string
	Credential string
	Label      string
}

// BuildPriorityList assembles the ordered provider list for one request.
// Caller-supplied credentials come first in declared order, the operator
// fallback last. No two entries share a (family, credential) pair, so the
// fallback is omitted when it is textually identical to a caller credential
// of its own family. An empty result is a terminal condition: the
// orchestrator must not be invoked.
func BuildPriorityList(caller []Credential, fallback Credential) ([]Descriptor, error) {
	seen := make(map[string]struct{}, len(caller)+1)
	list := make([]Descriptor, 0, len(caller)+1)

	add := func(c Credential) {
		if c.Key == "" || c.Family == "" {
			return
		}
		id := c.Family + "\x00" + c.Key
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}
		list = append(list, Descriptor{Family: c.Family, Credential: c.Key, Label: c.Label})
	}

	for _, c := range caller {
		add(c)
	}
	add(fallback)

	if len(list) == 0 {
		return nil, errors.ErrNoCredentials
	}
	return list, nil
}
