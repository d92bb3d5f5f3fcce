package review

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ---------------------------------------------------------------------------
// HTTP client with real proxy support
// ---------------------------------------------------------------------------

func makeHTTPClient(proxyURL string, timeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	// Support both the proxy setting and HTTP_PROXY/HTTPS_PROXY env vars
	if proxyURL != "" {
		parsed, err := url.Parse(proxyURL)
		if err == nil {
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

// ---------------------------------------------------------------------------
// API format types
// ---------------------------------------------------------------------------

type apiFormat int

const (
	formatOpenAIChat   apiFormat = iota // OpenAI chat/completions
	formatGeminiNative                  // Google Gemini generateContent
)

func formatFor(id string) apiFormat {
	if id == ProviderGoogle {
		return formatGeminiNative
	}
	return formatOpenAIChat
}

// ---------------------------------------------------------------------------
// Request builders
// ---------------------------------------------------------------------------

func buildOpenAIChatRequest(model, systemPrompt, userPrompt string, maxTokens int) ([]byte, error) {
	type msg struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	req := struct {
		Model       string  `json:"model"`
		Messages    []msg   `json:"messages"`
		Temperature float64 `json:"temperature"`
		MaxTokens   int     `json:"max_tokens,omitempty"`
		Stream      bool    `json:"stream"`
	}{
		Model: model,
		Messages: []msg{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: 0.2,
		MaxTokens:   maxTokens,
	}
	return json.Marshal(req)
}

func buildGeminiRequest(systemPrompt, userPrompt string, maxTokens int) ([]byte, error) {
	type part struct {
		Text string `json:"text"`
	}
	type content struct {
		Role  string `json:"role,omitempty"`
		Parts []part `json:"parts"`
	}
	type genConfig struct {
		Temperature     float64 `json:"temperature"`
		MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
	}
	req := struct {
		Contents          []content `json:"contents"`
		GenerationConfig  genConfig `json:"generationConfig"`
		SystemInstruction *content  `json:"systemInstruction,omitempty"`
	}{
		Contents: []content{
			{Role: "user", Parts: []part{{Text: userPrompt}}},
		},
		GenerationConfig: genConfig{Temperature: 0.2, MaxOutputTokens: maxTokens},
	}
	if systemPrompt != "" {
		req.SystemInstruction = &content{Parts: []part{{Text: systemPrompt}}}
	}
	return json.Marshal(req)
}

// buildHTTPRequest constructs the endpoint, headers, and body for a provider.
func buildHTTPRequest(prov Provider, systemPrompt, userPrompt string, maxTokens int) (string, map[string]string, []byte, error) {
	headers := map[string]string{
		"Content-Type": "application/json",
	}

	var endpoint string
	var body []byte
	var err error

	switch formatFor(prov.ID) {
	case formatGeminiNative:
		// Google AI: POST /v1beta/models/{model}:generateContent
		endpoint = fmt.Sprintf("%s/v1beta/models/%s:generateContent",
			strings.TrimRight(prov.BaseURL, "/"), prov.Model)
		if prov.APIKey != "" {
			headers["x-goog-api-key"] = prov.APIKey
		}
		body, err = buildGeminiRequest(systemPrompt, userPrompt, maxTokens)

	default: // formatOpenAIChat
		baseURL := strings.TrimRight(prov.BaseURL, "/")
		if !strings.HasSuffix(baseURL, "/chat/completions") {
			endpoint = baseURL + "/chat/completions"
		} else {
			endpoint = baseURL
		}
		if prov.APIKey != "" {
			headers["Authorization"] = "Bearer " + prov.APIKey
		}
		body, err = buildOpenAIChatRequest(prov.Model, systemPrompt, userPrompt, maxTokens)
	}

	if err != nil {
		return "", nil, nil, err
	}
	return endpoint, headers, body, nil
}

// ---------------------------------------------------------------------------
// Response parsing (multi-format)
// ---------------------------------------------------------------------------

// extractResponseText tries all known response formats and returns the text.
func extractResponseText(body []byte) (string, error) {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return "", fmt.Errorf("invalid JSON response: %w", err)
	}

	if errObj, ok := raw["error"]; ok {
		if errMap, ok := errObj.(map[string]any); ok {
			if msg, ok := errMap["message"].(string); ok {
				return "", fmt.Errorf("API error: %s", msg)
			}
		}
		return "", fmt.Errorf("API error: %v", errObj)
	}

	// 1. OpenAI chat format: choices[0].message.content
	if choices, ok := raw["choices"].([]any); ok && len(choices) > 0 {
		if choice, ok := choices[0].(map[string]any); ok {
			if message, ok := choice["message"].(map[string]any); ok {
				if content, ok := message["content"].(string); ok {
					return content, nil
				}
			}
		}
	}

	// 2. Gemini format: candidates[0].content.parts[].text
	if candidates, ok := raw["candidates"].([]any); ok && len(candidates) > 0 {
		if candidate, ok := candidates[0].(map[string]any); ok {
			if content, ok := candidate["content"].(map[string]any); ok {
				if parts, ok := content["parts"].([]any); ok {
					var b strings.Builder
					for _, p := range parts {
						if part, ok := p.(map[string]any); ok {
							if text, ok := part["text"].(string); ok {
								b.WriteString(text)
							}
						}
					}
					if b.Len() > 0 {
						return b.String(), nil
					}
				}
			}
		}
	}

	// 3. Anthropic format: content[].type=="text" -> .text
	if contentArr, ok := raw["content"].([]any); ok {
		for _, c := range contentArr {
			if block, ok := c.(map[string]any); ok && block["type"] == "text" {
				if text, ok := block["text"].(string); ok {
					return text, nil
				}
			}
		}
	}

	// 4. Ollama native format: message.content
	if message, ok := raw["message"].(map[string]any); ok {
		if content, ok := message["content"].(string); ok {
			return content, nil
		}
	}

	return "", fmt.Errorf("could not extract text from response: %s", truncate(string(body), 500))
}

// parseRetryDelay extracts the retry delay from a 429 response: the
// Retry-After header first, then Google's RetryInfo detail. Defaults to
// 60s plus a 5s buffer.
func parseRetryDelay(header http.Header, body []byte) time.Duration {
	const defaultDelay = 65 * time.Second

	if ra := header.Get("Retry-After"); ra != "" {
		if secs, err := strconv.Atoi(strings.TrimSpace(ra)); err == nil && secs >= 0 {
			return time.Duration(secs) * time.Second
		}
	}

	var errResp struct {
		Error struct {
			Details []struct {
				Type       string `json:"@type"`
				RetryDelay string `json:"retryDelay"`
			} `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &errResp); err != nil {
		return defaultDelay
	}

	for _, detail := range errResp.Error.Details {
		if strings.Contains(detail.Type, "RetryInfo") && detail.RetryDelay != "" {
			d := strings.TrimSuffix(detail.RetryDelay, "s")
			if secs, err := strconv.ParseFloat(d, 64); err == nil {
				return time.Duration(secs*1000)*time.Millisecond + 5*time.Second
			}
		}
	}
	return defaultDelay
}

// ---------------------------------------------------------------------------
// HTTP transport
// ---------------------------------------------------------------------------

type httpClient struct {
	prov   Provider
	opts   Options
	client *http.Client
	// backoff returns the wait before retry attempt+1 of a transport
	// error or 5xx answer.
	backoff func(attempt int) time.Duration
}

func newHTTPClient(prov Provider, opts Options) *httpClient {
	return &httpClient{
		prov:   prov,
		opts:   opts,
		client: makeHTTPClient(prov.Proxy, prov.effectiveTimeout()),
		backoff: func(attempt int) time.Duration {
			return time.Duration(math.Pow(2, float64(attempt))) * time.Second
		},
	}
}

func (c *httpClient) Review(ctx context.Context, req Request) (string, error) {
	endpoint, headers, body, err := buildHTTPRequest(c.prov, req.systemPrompt(), req.userPrompt(), c.opts.effectiveMaxOutputTokens())
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}

	log := c.opts.logger().With(zap.String("provider", c.prov.ID))
	maxRetries := c.opts.effectiveMaxRetries()

	for attempt := 0; attempt <= maxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return "", fmt.Errorf("creating request: %w", err)
		}
		for k, v := range headers {
			httpReq.Header.Set(k, v)
		}

		log.Debug("review request", zap.Int("attempt", attempt+1), zap.String("endpoint", endpoint))

		resp, err := c.client.Do(httpReq)
		if err != nil {
			if attempt < maxRetries {
				if err := wait(ctx, c.backoff(attempt)); err != nil {
					return "", err
				}
				continue
			}
			return "", fmt.Errorf("API request failed: %w", err)
		}

		respBody, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests {
			retryDelay := parseRetryDelay(resp.Header, respBody)
			log.Warn("rate limited", zap.Duration("retry_in", retryDelay), zap.Int("attempt", attempt+1))
			if attempt < maxRetries {
				if err := wait(ctx, retryDelay); err != nil {
					return "", err
				}
				continue
			}
			return "", fmt.Errorf("rate limited after %d retries: %s", maxRetries, truncate(string(respBody), 500))
		}

		if resp.StatusCode != http.StatusOK {
			if attempt < maxRetries && resp.StatusCode >= 500 {
				if err := wait(ctx, c.backoff(attempt)); err != nil {
					return "", err
				}
				continue
			}
			return "", fmt.Errorf("API returned status %d: %s", resp.StatusCode, truncate(string(respBody), 500))
		}

		text, err := extractResponseText(respBody)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(text) == "" {
			return "", ErrEmptyResponse
		}
		return text, nil
	}

	return "", fmt.Errorf("exhausted all %d retries", maxRetries)
}

func wait(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
