package review

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Client performs review calls and returns the raw answer text.
type Client interface {
	Review(ctx context.Context, req Request) (string, error)
}

// ClientFunc adapts a function to the Client interface.
type ClientFunc func(ctx context.Context, req Request) (string, error)

// Review calls f.
func (f ClientFunc) Review(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// ErrNoAPIKey is returned when a provider that needs a key has none.
var ErrNoAPIKey = errors.New("no API key configured")

// ErrEmptyResponse is returned when the reviewer answers with no text.
var ErrEmptyResponse = errors.New("empty response from AI")

// Options tunes a client.
type Options struct {
	// MaxRetries is the maximum number of retries on transport errors,
	// 5xx answers and rate limits (default 3).
	MaxRetries int
	// MaxOutputTokens bounds the answer length (default 4096).
	MaxOutputTokens int
	// Logger receives request diagnostics.
	Logger *zap.Logger
}

func (o *Options) effectiveMaxRetries() int {
	if o.MaxRetries > 0 {
		return o.MaxRetries
	}
	return 3
}

func (o *Options) effectiveMaxOutputTokens() int {
	if o.MaxOutputTokens > 0 {
		return o.MaxOutputTokens
	}
	return 4096
}

func (o *Options) logger() *zap.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return zap.NewNop()
}

// NewClient picks the transport of prov: the vendor SDK for openai and
// anthropic, the built-in HTTP transport for every other provider.
func NewClient(prov Provider, opts Options) (Client, error) {
	if prov.NeedsKey && prov.APIKey == "" {
		return nil, fmt.Errorf("%s: %w", prov.Name, ErrNoAPIKey)
	}
	if prov.Model == "" {
		return nil, fmt.Errorf("%s: no model configured", prov.Name)
	}
	if prov.usesSDK() {
		return newSDKClient(prov, opts)
	}
	if prov.BaseURL == "" {
		return nil, fmt.Errorf("%s: no base URL configured", prov.Name)
	}
	return newHTTPClient(prov, opts), nil
}
