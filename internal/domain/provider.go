package domain

import (
	"fmt"
	"strings"
)

// ProviderID identifies one of the supported LLM backends.
type ProviderID string

const (
	// ProviderOpenAI is the primary provider and the default when none is requested.
	ProviderOpenAI ProviderID = "openai"
	// ProviderMistral is the Mistral chat completions backend.
	ProviderMistral ProviderID = "mistral"
	// ProviderGemini is Google's Gemini backend.
	ProviderGemini ProviderID = "gemini"

	// DefaultProvider is used when a request does not name a provider.
	DefaultProvider = ProviderOpenAI
)

var knownProviders = []ProviderID{ProviderOpenAI, ProviderMistral, ProviderGemini}

// KnownProviders returns the enumerated provider set in display order.
func KnownProviders() []ProviderID {
	out := make([]ProviderID, len(knownProviders))
	copy(out, knownProviders)
	return out
}

// IsKnown reports whether p belongs to the enumerated provider set.
func (p ProviderID) IsKnown() bool {
	for _, k := range knownProviders {
		if p == k {
			return true
		}
	}
	return false
}

func (p ProviderID) String() string {
	return string(p)
}

// ParseProviderID converts raw input into a ProviderID. Empty input selects
// DefaultProvider; matching is case-insensitive and ignores surrounding spaces.
func ParseProviderID(raw string) (ProviderID, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return DefaultProvider, nil
	}
	p := ProviderID(s)
	if !p.IsKnown() {
		return "", fmt.Errorf("%w: %q", ErrUnknownProvider, raw)
	}
	return p, nil
}
