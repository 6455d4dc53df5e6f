// Package openai implements the enrichment client. It talks to the
// OpenAI Responses API over plain HTTP with the web search tool enabled
// so the model can consult public company registries.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"lead-bridge/internal/common/errors"
	commonhttp "lead-bridge/internal/common/http"
	"lead-bridge/internal/common/logging"
	"lead-bridge/internal/prompt"
)

const defaultBaseURL = "https://api.openai.com/v1"

// Config holds the enrichment client configuration.
type Config struct {
	// APIKey authenticates against the provider. Required.
	APIKey string

	// BaseURL is the API root, without a trailing slash.
	BaseURL string

	// Model is the model name used for every enrichment call.
	Model string

	// Timeout bounds each enrichment call.
	Timeout time.Duration

	// MaxOutputTokens caps generated output length per call.
	MaxOutputTokens int

	// MaxAttempts is the number of attempts per call. 1 disables retries.
	MaxAttempts int
}

// Client calls the enrichment provider. A single instance is shared
// across concurrent requests; it holds no per-request state.
type Client struct {
	config Config
	http   *commonhttp.HTTPClientWrapper
	logger logging.Logger
}

// NewClient creates an enrichment client. The underlying HTTP client is
// wrapped with the retry policy from config and a circuit breaker so a
// degraded provider fails fast instead of tying up request handlers.
func NewClient(config Config, logger logging.Logger) *Client {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	config.BaseURL = strings.TrimSuffix(config.BaseURL, "/")

	if config.MaxAttempts < 1 {
		config.MaxAttempts = 1
	}

	retryConfig := commonhttp.SingleAttemptRetryConfig()
	retryConfig.MaxAttempts = config.MaxAttempts

	wrapper := commonhttp.NewHTTPClientWrapper(
		commonhttp.WithTimeout(config.Timeout),
	).WithRetryConfig(retryConfig).WithCircuitBreaker("openai")

	return &Client{
		config: config,
		http:   wrapper,
		logger: logger,
	}
}

// Enrich runs one enrichment call and returns the trimmed text output.
// An empty string is a valid result. Every failure mode, transport,
// authentication, rate limiting, or a malformed response, comes back as
// an upstream-typed error; callers log the detail and report a generic
// upstream failure to their own clients.
func (c *Client) Enrich(ctx context.Context, p prompt.Prompt) (string, error) {
	request := &ResponsesRequest{
		Model:           c.config.Model,
		Input:           p.User,
		Instructions:    p.System,
		Tools:           []ResponsesTool{{Type: "web_search"}},
		ToolChoice:      "auto",
		MaxOutputTokens: c.config.MaxOutputTokens,
	}

	body, err := json.Marshal(request)
	if err != nil {
		return "", errors.InternalError("failed to marshal enrichment request", err)
	}

	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	headers := map[string]string{
		"Authorization": "Bearer " + c.config.APIKey,
		"Content-Type":  "application/json",
	}

	start := time.Now()
	resp, err := c.http.Post(ctx, c.config.BaseURL+"/responses", bytes.NewReader(body), headers)
	if err != nil {
		return "", c.upstreamError(resp, err)
	}

	var result ResponsesResponse
	if err := json.Unmarshal(resp.RawBody, &result); err != nil {
		return "", errors.UpstreamError("failed to decode enrichment response", err)
	}

	if result.Error != nil {
		return "", errors.UpstreamError(
			fmt.Sprintf("enrichment call failed: %s", result.Error.Message), nil).
			WithContext("error_type", result.Error.Type).
			WithContext("error_code", result.Error.Code)
	}

	if result.Status == "failed" {
		return "", errors.UpstreamError("enrichment call reported failed status", nil)
	}

	text, ok := result.FirstOutputText()
	if !ok {
		return "", errors.UpstreamError("enrichment response contains no text output", nil)
	}

	c.logger.Debug("enrichment call completed",
		logging.String("model", c.config.Model),
		logging.Duration("duration", time.Since(start)),
		logging.Int("output_chars", len(text)),
	)

	return strings.TrimSpace(text), nil
}

// upstreamError maps transport and HTTP-status failures onto a single
// upstream error type. The provider's structured error detail, when
// present, is attached as context for server-side logging only.
func (c *Client) upstreamError(resp *commonhttp.Response, err error) error {
	if errors.IsType(err, errors.ErrTypeTimeout) {
		return errors.UpstreamError("enrichment call timed out", err)
	}

	upstream := errors.UpstreamError("enrichment request failed", err)

	if resp != nil {
		upstream = upstream.WithContext("status_code", resp.StatusCode)
		if apiErr := ParseErrorResponse(resp.RawBody); apiErr != nil {
			upstream = upstream.
				WithContext("provider_error", apiErr.Error()).
				WithCode(apiErr.Code)
		}
	}

	return upstream
}
