// Package openrouter is a minimal client for OpenRouter's OpenAI-compatible
// chat completions API, covering blocking and streamed calls.
package openrouter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/pwellner/go-ai-researcher/internal/util"
)

const (
	// DefaultBaseURL is OpenRouter's API root.
	DefaultBaseURL = "https://openrouter.ai/api/v1"

	// DefaultTimeout bounds a whole blocking request. Streamed requests
	// are bounded by their context instead.
	DefaultTimeout = 120 * time.Second

	// EnvAPIKey names the environment variable holding the credential.
	EnvAPIKey = "OPENROUTER_API_KEY"

	// EnvSiteURL and EnvSiteName feed OpenRouter's optional attribution
	// headers.
	EnvSiteURL  = "YOUR_SITE_URL"
	EnvSiteName = "YOUR_SITE_NAME"
)

// Config configures a Client. Unset fields fall back to environment
// variables and defaults.
type Config struct {
	APIKey     string
	BaseURL    string
	SiteURL    string
	SiteName   string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client issues chat completion requests. It holds no mutable state across
// requests beyond the credential and the underlying HTTP client.
type Client struct {
	apiKey     string
	baseURL    string
	siteURL    string
	siteName   string
	httpClient *http.Client
}

// NewClient creates a Client. It fails with *ConfigError when no API key
// is configured, before any network activity.
func NewClient(cfg Config) (*Client, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv(EnvAPIKey)
	}
	if apiKey == "" {
		return nil, &ConfigError{
			Reason: fmt.Sprintf("API key is required: set %s or pass Config.APIKey", EnvAPIKey),
		}
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	siteURL := cfg.SiteURL
	if siteURL == "" {
		siteURL = os.Getenv(EnvSiteURL)
	}
	siteName := cfg.SiteName
	if siteName == "" {
		siteName = os.Getenv(EnvSiteName)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		siteURL:    siteURL,
		siteName:   siteName,
		httpClient: httpClient,
	}, nil
}

// CreateChatCompletion issues a blocking completion request and returns
// the full response.
func (c *Client) CreateChatCompletion(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	req.Stream = false

	resp, err := c.post(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, parseAPIError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	var out ChatResponse
	if err := sonic.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("openrouter: decoding response: %w", err)
	}

	util.LogDebugf("Completion finished: model=%s choices=%d", out.Model, len(out.Choices))
	return &out, nil
}

// CreateChatCompletionStream issues a streamed completion request and
// returns an iterator over its text fragments. The caller must Close the
// stream; abandoning it early releases the connection.
func (c *Client) CreateChatCompletionStream(ctx context.Context, req ChatRequest) (*ChatStream, error) {
	req.Stream = true

	resp, err := c.post(ctx, req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, parseAPIError(resp)
	}

	return newChatStream(resp.Body), nil
}

func (c *Client) post(ctx context.Context, req ChatRequest) (*http.Response, error) {
	body, err := sonic.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("openrouter: encoding request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("openrouter: building request: %w", err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	if c.siteURL != "" {
		httpReq.Header.Set("HTTP-Referer", c.siteURL)
	}
	if c.siteName != "" {
		httpReq.Header.Set("X-Title", c.siteName)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	return resp, nil
}

// parseAPIError turns a non-2xx response into an *APIError, preserving the
// provider's message when the body carries the standard error envelope.
func parseAPIError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	apiErr := &APIError{StatusCode: resp.StatusCode}

	var body apiErrorBody
	if err := sonic.Unmarshal(data, &body); err == nil && body.Error.Message != "" {
		apiErr.Message = body.Error.Message
		apiErr.Type = body.Error.Type
	} else {
		apiErr.Message = strings.TrimSpace(string(data))
	}

	return apiErr
}
