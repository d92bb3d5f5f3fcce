// Package review sends a document to an AI reviewer and turns the loosely
// structured answer into issues.
package review

import (
	"time"
)

// Provider IDs.
const (
	ProviderGoogle       = "google"
	ProviderGroq         = "groq"
	ProviderOllama       = "ollama"
	ProviderCustomOpenAI = "custom-openai"
	ProviderOpenAI       = "openai"
	ProviderAnthropic    = "anthropic"
)

// ---------------------------------------------------------------------------
// Provider configuration
// ---------------------------------------------------------------------------

// Provider holds the configuration for an AI review service.
type Provider struct {
	// ID is the provider identifier (google, groq, anthropic, etc.).
	ID string
	// Name is the display name.
	Name string
	// BaseURL is the API base URL.
	BaseURL string
	// APIKey is the authentication key (empty for local services).
	APIKey string
	// Model is the model identifier.
	Model string
	// Proxy is an optional HTTP/HTTPS proxy URL.
	Proxy string
	// Timeout is the request timeout.
	Timeout time.Duration
	// NeedsKey reports whether the provider rejects anonymous calls.
	NeedsKey bool
}

// DefaultProviders returns the pre-configured provider definitions.
func DefaultProviders() map[string]Provider {
	return map[string]Provider{
		ProviderGoogle: {
			ID:       ProviderGoogle,
			Name:     "Google AI (Gemini)",
			BaseURL:  "https://generativelanguage.googleapis.com",
			Model:    "gemini-2.5-flash",
			Timeout:  120 * time.Second,
			NeedsKey: true,
		},
		ProviderGroq: {
			ID:       ProviderGroq,
			Name:     "Groq",
			BaseURL:  "https://api.groq.com/openai/v1",
			Model:    "llama-3.3-70b-versatile",
			Timeout:  60 * time.Second,
			NeedsKey: true,
		},
		ProviderOllama: {
			ID:      ProviderOllama,
			Name:    "Ollama",
			BaseURL: "http://localhost:11434/v1",
			Model:   "llama3.1",
			Timeout: 120 * time.Second,
		},
		ProviderCustomOpenAI: {
			ID:       ProviderCustomOpenAI,
			Name:     "Custom OpenAI",
			Timeout:  60 * time.Second,
			NeedsKey: true,
		},
		ProviderOpenAI: {
			ID:       ProviderOpenAI,
			Name:     "OpenAI",
			Model:    "gpt-4o-mini",
			Timeout:  120 * time.Second,
			NeedsKey: true,
		},
		ProviderAnthropic: {
			ID:       ProviderAnthropic,
			Name:     "Anthropic",
			Model:    "claude-haiku-4-5-20251001",
			Timeout:  120 * time.Second,
			NeedsKey: true,
		},
	}
}

// LookupProvider returns the default definition of id with overrides
// applied; empty overrides keep the defaults.
func LookupProvider(id, apiKey, model, baseURL, proxy string, timeout time.Duration) (Provider, bool) {
	prov, ok := DefaultProviders()[id]
	if !ok {
		return Provider{}, false
	}
	prov.APIKey = apiKey
	prov.Proxy = proxy
	if model != "" {
		prov.Model = model
	}
	if baseURL != "" {
		prov.BaseURL = baseURL
	}
	if timeout > 0 {
		prov.Timeout = timeout
	}
	return prov, true
}

// usesSDK reports whether the provider is served by a vendor SDK rather
// than the built-in HTTP transport.
func (p Provider) usesSDK() bool {
	return p.ID == ProviderOpenAI || p.ID == ProviderAnthropic
}

func (p Provider) effectiveTimeout() time.Duration {
	if p.Timeout > 0 {
		return p.Timeout
	}
	return 120 * time.Second
}
