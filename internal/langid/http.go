package langid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// HTTPIdentifier calls a language identification server that answers
// {"languages": [label, score], "source": ..., "voting": ...}
type HTTPIdentifier struct {
	endpoint   string
	apiKey     string
	k          int
	httpClient *http.Client
}

type httpRequest struct {
	Text string `json:"text"`
	K    int    `json:"k"`
}

type httpResponse struct {
	Languages []json.RawMessage `json:"languages"`
	Source    json.RawMessage   `json:"source"`
	Voting    json.RawMessage   `json:"voting"`
}

type httpError struct {
	Error string `json:"error"`
}

// HTTPConfig holds the settings of an HTTPIdentifier
type HTTPConfig struct {
	Endpoint   string
	APIKey     string
	K          int
	Timeout    time.Duration
	HTTPProxy  string
	HTTPSProxy string
}

// NewHTTPIdentifier creates a new HTTP identifier
func NewHTTPIdentifier(config HTTPConfig) (*HTTPIdentifier, error) {
	if config.Endpoint == "" {
		return nil, fmt.Errorf("language identification endpoint is required")
	}
	if _, err := url.Parse(config.Endpoint); err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	k := config.K
	if k <= 0 {
		k = 1
	}

	return &HTTPIdentifier{
		endpoint: config.Endpoint,
		apiKey:   config.APIKey,
		k:        k,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: newProxyFunc(config.HTTPProxy, config.HTTPSProxy),
			},
		},
	}, nil
}

// Name returns the identifier name
func (p *HTTPIdentifier) Name() string {
	return "http"
}

// Identify posts text to the server. An empty languages list is an abstention.
func (p *HTTPIdentifier) Identify(ctx context.Context, text string) (*Result, error) {
	body, err := json.Marshal(httpRequest{Text: text, K: p.k})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr httpError
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("langid error (HTTP %d): %s", resp.StatusCode, apiErr.Error)
		}
		return nil, fmt.Errorf("langid error (HTTP %d): %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var parsed httpResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	if len(parsed.Languages) == 0 {
		return nil, nil
	}
	if len(parsed.Languages) < 2 {
		return nil, fmt.Errorf("malformed languages field: want [label, score], got %d elements", len(parsed.Languages))
	}

	var result Result
	if err := json.Unmarshal(parsed.Languages[0], &result.Label); err != nil {
		return nil, fmt.Errorf("decode label: %w", err)
	}
	if err := json.Unmarshal(parsed.Languages[1], &result.Score); err != nil {
		return nil, fmt.Errorf("decode score: %w", err)
	}
	if result.Label == "" {
		return nil, nil
	}
	result.Source = rawString(parsed.Source)
	result.Voting = rawString(parsed.Voting)

	return &result, nil
}

// rawString renders a JSON value as text: strings are unquoted, anything
// else keeps its JSON form
func rawString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// newProxyFunc returns a proxy function for the given proxy URLs, falling
// back to the environment when both are empty
func newProxyFunc(httpProxy, httpsProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	return func(req *http.Request) (*url.URL, error) {
		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}
