// Package relay delivers enrichment results to the downstream Sensei
// CRM callback endpoint. Delivery is a single GET with the correlation
// token and the result text as percent-encoded query parameters.
package relay

import (
	"context"
	"net/url"
	"time"

	"lead-bridge/internal/common/errors"
	commonhttp "lead-bridge/internal/common/http"
	"lead-bridge/internal/common/logging"
)

// Config holds the relay client configuration.
type Config struct {
	// BaseURL is the downstream webhook endpoint. Required, must be an
	// absolute http(s) URL.
	BaseURL string

	// Timeout bounds each delivery attempt.
	Timeout time.Duration

	// MaxAttempts is the number of attempts per delivery. 1 disables retries.
	MaxAttempts int
}

// Outcome captures the downstream response for logging.
type Outcome struct {
	StatusCode int
	Body       string
	Duration   time.Duration
}

// Client delivers results to the downstream endpoint. A single instance
// is shared across concurrent requests.
type Client struct {
	baseURL *url.URL
	http    *commonhttp.HTTPClientWrapper
	logger  logging.Logger
}

// NewClient creates a relay client. The base URL is validated here so a
// misconfigured endpoint fails at startup instead of on the first
// delivery.
func NewClient(config Config, logger logging.Logger) (*Client, error) {
	parsed, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, errors.ConfigError("invalid relay URL: " + config.BaseURL)
	}
	if !parsed.IsAbs() || parsed.Host == "" {
		return nil, errors.ConfigError("relay URL must be absolute: " + config.BaseURL)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, errors.ConfigError("relay URL must use http or https: " + config.BaseURL)
	}

	if config.MaxAttempts < 1 {
		config.MaxAttempts = 1
	}

	retryConfig := commonhttp.SingleAttemptRetryConfig()
	retryConfig.MaxAttempts = config.MaxAttempts

	wrapper := commonhttp.NewHTTPClientWrapper(
		commonhttp.WithTimeout(config.Timeout),
	).WithRetryConfig(retryConfig).WithCircuitBreaker("sensei")

	return &Client{
		baseURL: parsed,
		http:    wrapper,
		logger:  logger,
	}, nil
}

// Deliver sends the enrichment text to the downstream endpoint with the
// correlation token round-tripped unchanged. The text is free-form model
// output, so both values go through url.Values encoding.
//
// A non-nil Outcome is returned whenever the downstream was actually
// reached, even on a non-2xx response, so callers can log what the
// downstream said.
func (c *Client) Deliver(ctx context.Context, token, text string) (*Outcome, error) {
	if token == "" {
		return nil, errors.RelayError("correlation token is empty", nil)
	}

	target := *c.baseURL
	query := target.Query()
	query.Set("hash", token)
	query.Set("message", text)
	target.RawQuery = query.Encode()

	start := time.Now()
	resp, err := c.http.Get(ctx, target.String(), nil)
	duration := time.Since(start)

	if resp == nil {
		return nil, errors.RelayError("failed to reach downstream endpoint", err)
	}

	outcome := &Outcome{
		StatusCode: resp.StatusCode,
		Body:       string(resp.RawBody),
		Duration:   duration,
	}

	if err != nil {
		return outcome, errors.RelayError("downstream endpoint rejected delivery", err).
			WithContext("status_code", resp.StatusCode)
	}

	c.logger.Debug("relay delivery completed",
		logging.Int("status_code", resp.StatusCode),
		logging.Duration("duration", duration),
	)

	return outcome, nil
}
