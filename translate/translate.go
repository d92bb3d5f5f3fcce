// Package translate turns short English texts (issue descriptions, code
// comments) into a secondary language.
//
// The package has three layers:
//   - Translator: a backend that calls an online service (MyMemory).
//   - Cache: a memoizing front for one language pair that never surfaces
//     failures; a failed lookup yields the original text.
//   - Store: an optional second-level cache shared across runs (yaml file
//     or redis).
package translate

import (
	"context"
	"crypto/md5"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Translator translates a single text between two languages.
type Translator interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// TranslatorFunc adapts a function to the Translator interface.
type TranslatorFunc func(ctx context.Context, text, source, target string) (string, error)

// Translate calls f.
func (f TranslatorFunc) Translate(ctx context.Context, text, source, target string) (string, error) {
	return f(ctx, text, source, target)
}

// Pair is a source/target language pair such as en|si.
type Pair struct {
	Source string
	Target string
}

// String returns the pair in MyMemory "langpair" notation.
func (p Pair) String() string { return p.Source + "|" + p.Target }

// ErrEmptyTranslation is returned when a backend answers with no text.
var ErrEmptyTranslation = errors.New("empty translation")

// Hash computes the MD5 hex digest of a string.
func Hash(s string) string {
	return fmt.Sprintf("%x", md5.Sum([]byte(s)))
}

// storeKey builds the second-level cache key of text under pair.
func storeKey(pair Pair, text string) string {
	return pair.String() + ":" + Hash(text)
}

// ---------------------------------------------------------------------------
// HTTP client with real proxy support
// ---------------------------------------------------------------------------

func makeHTTPClient(proxyURL string, timeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	if proxyURL != "" {
		if parsed, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(parsed)
		}
	} else {
		transport.Proxy = http.ProxyFromEnvironment
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
