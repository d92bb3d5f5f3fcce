package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// MyMemoryURL is the public MyMemory endpoint.
const MyMemoryURL = "https://api.mymemory.translated.net/get"

// MyMemory is a Translator backed by the MyMemory translation API.
type MyMemory struct {
	// BaseURL overrides MyMemoryURL (tests).
	BaseURL string
	// Email raises the anonymous daily quota when set ("de" parameter).
	Email string
	// Proxy is an optional HTTP/HTTPS proxy URL.
	Proxy string
	// Timeout is the per-request timeout (default 15s).
	Timeout time.Duration
	// MaxRetries bounds retries of transport errors and 5xx answers (default 2).
	MaxRetries int
	// Logger receives retry diagnostics.
	Logger *zap.Logger

	once   sync.Once
	client *http.Client
}

func (m *MyMemory) effectiveTimeout() time.Duration {
	if m.Timeout > 0 {
		return m.Timeout
	}
	return 15 * time.Second
}

func (m *MyMemory) effectiveMaxRetries() int {
	if m.MaxRetries > 0 {
		return m.MaxRetries
	}
	return 2
}

func (m *MyMemory) logger() *zap.Logger {
	if m.Logger != nil {
		return m.Logger
	}
	return zap.NewNop()
}

func (m *MyMemory) httpClient() *http.Client {
	m.once.Do(func() {
		m.client = makeHTTPClient(m.Proxy, m.effectiveTimeout())
	})
	return m.client
}

// myMemoryResponse is the subset of the MyMemory answer we read.
// responseStatus is a number on success and sometimes a string on errors.
type myMemoryResponse struct {
	ResponseData struct {
		TranslatedText string `json:"translatedText"`
	} `json:"responseData"`
	ResponseStatus  json.RawMessage `json:"responseStatus"`
	ResponseDetails string          `json:"responseDetails"`
}

func (r *myMemoryResponse) status() int {
	s := strings.Trim(string(r.ResponseStatus), `"`)
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// Translate implements Translator.
func (m *MyMemory) Translate(ctx context.Context, text, source, target string) (string, error) {
	base := m.BaseURL
	if base == "" {
		base = MyMemoryURL
	}
	q := url.Values{}
	q.Set("q", text)
	q.Set("langpair", Pair{Source: source, Target: target}.String())
	if m.Email != "" {
		q.Set("de", m.Email)
	}
	endpoint := base + "?" + q.Encode()

	maxRetries := m.effectiveMaxRetries()
	for attempt := 0; attempt <= maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return "", fmt.Errorf("creating request: %w", err)
		}

		resp, err := m.httpClient().Do(req)
		if err != nil {
			if attempt < maxRetries && ctx.Err() == nil {
				m.logger().Debug("mymemory request failed, retrying", zap.Int("attempt", attempt+1), zap.Error(err))
				if err := sleep(ctx, backoff(attempt)); err != nil {
					return "", err
				}
				continue
			}
			return "", fmt.Errorf("translation request failed: %w", err)
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode >= 500 && attempt < maxRetries {
			m.logger().Debug("mymemory server error, retrying", zap.Int("status", resp.StatusCode))
			if err := sleep(ctx, backoff(attempt)); err != nil {
				return "", err
			}
			continue
		}
		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("translation API returned status %d: %s", resp.StatusCode, truncate(string(body), 200))
		}

		var parsed myMemoryResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			return "", fmt.Errorf("invalid translation response: %w", err)
		}
		if st := parsed.status(); st != 0 && st != http.StatusOK {
			return "", fmt.Errorf("translation API status %d: %s", st, parsed.ResponseDetails)
		}
		out := strings.TrimSpace(parsed.ResponseData.TranslatedText)
		if out == "" {
			return "", ErrEmptyTranslation
		}
		return out, nil
	}
	return "", fmt.Errorf("exhausted all %d retries", maxRetries)
}

func backoff(attempt int) time.Duration {
	return time.Duration(math.Pow(2, float64(attempt))) * 250 * time.Millisecond
}

func sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
