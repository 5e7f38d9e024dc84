package providers

import (
	"errors"
	"fmt"

	"github.com/studyhall/aibridge/configuration"
	"github.com/studyhall/aibridge/transport"
)

// ErrUnknownProvider indicates an unknown or unconfigured provider family.
var ErrUnknownProvider = errors.New("unknown provider family")

// Router selects the adapter for a provider family.
type Router interface {
	// Pick returns the adapter for the named family, or an error if the
	// family is unknown or unconfigured.
	Pick(family string) (transport.ProviderAdapter, error)
}

// NewRouter creates a router with one adapter per configured family.
func NewRouter(configs map[string]configuration.ProviderConfig) (Router, error) {
	adapters := make(map[string]transport.ProviderAdapter, len(configs))

	for name, cfg := range configs {
		var adapter transport.ProviderAdapter
		switch name {
		case FamilyGemini:
			adapter = NewGeminiAdapter(cfg)
		case FamilyOpenAI:
			adapter = NewOpenAIAdapter(cfg)
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
		}
		adapters[name] = adapter
	}

	return &router{adapters: adapters}, nil
}

type router struct {
	adapters map[string]transport.ProviderAdapter
}

// Pick selects the adapter for the given family name.
func (r *router) Pick(family string) (transport.ProviderAdapter, error) {
	adapter, ok := r.adapters[family]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, family)
	}
	return adapter, nil
}
