package http

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"lead-bridge/internal/circuitbreaker"
	"lead-bridge/internal/common/errors"
	"lead-bridge/internal/common/utils"
)

// ClientConfig holds HTTP client configuration
type ClientConfig struct {
	Timeout             time.Duration
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	IdleConnTimeout     time.Duration
	Transport           http.RoundTripper
}

// DefaultClientConfig returns default HTTP client configuration
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Timeout:             30 * time.Second,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
}

// ClientOption is a function that modifies ClientConfig
type ClientOption func(*ClientConfig)

// WithTimeout sets the client timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *ClientConfig) {
		c.Timeout = timeout
	}
}

// WithTransport sets a custom transport
func WithTransport(transport http.RoundTripper) ClientOption {
	return func(c *ClientConfig) {
		c.Transport = transport
	}
}

// NewHTTPClient creates a new HTTP client with the given options
func NewHTTPClient(opts ...ClientOption) *http.Client {
	cfg := DefaultClientConfig()

	for _, opt := range opts {
		opt(&cfg)
	}

	var transport http.RoundTripper
	if cfg.Transport != nil {
		transport = cfg.Transport
	} else {
		transport = &http.Transport{
			MaxIdleConns:        cfg.MaxIdleConns,
			MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
			IdleConnTimeout:     cfg.IdleConnTimeout,
		}
	}

	return &http.Client{
		Timeout:   cfg.Timeout,
		Transport: transport,
	}
}

// RetryConfig for HTTP client retry logic
type RetryConfig struct {
	MaxAttempts          int
	InitialDelay         time.Duration
	MaxDelay             time.Duration
	BackoffFactor        float64
	JitterFactor         float64
	RetryableStatusCodes []int
}

// DefaultRetryConfig returns sensible defaults for HTTP retries
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  1 * time.Second,
		MaxDelay:      30 * time.Second,
		BackoffFactor: 2.0,
		JitterFactor:  0.1,
		RetryableStatusCodes: []int{
			429, // Too Many Requests
			408, // Request Timeout
			502, // Bad Gateway
			503, // Service Unavailable
			504, // Gateway Timeout
		},
	}
}

// SingleAttemptRetryConfig returns a policy that performs exactly one attempt.
// This is the default for enrichment and relay calls.
func SingleAttemptRetryConfig() *RetryConfig {
	cfg := DefaultRetryConfig()
	cfg.MaxAttempts = 1
	return cfg
}

// RequestOptions for outbound HTTP requests
type RequestOptions struct {
	Method      string
	URL         string
	Body        io.Reader
	Headers     map[string]string
	RetryConfig *RetryConfig
}

// Response represents an HTTP response with its raw body
type Response struct {
	StatusCode int
	Headers    map[string]string
	RawBody    []byte
	Duration   time.Duration
}

// HTTPClientWrapper wraps http.Client with retry and circuit breaker support
type HTTPClientWrapper struct {
	client         *http.Client
	circuitBreaker *circuitbreaker.GoBreakerAdapter
	retryConfig    *RetryConfig
}

// NewHTTPClientWrapper creates a wrapped HTTP client
func NewHTTPClientWrapper(opts ...ClientOption) *HTTPClientWrapper {
	return &HTTPClientWrapper{
		client:      NewHTTPClient(opts...),
		retryConfig: DefaultRetryConfig(),
	}
}

// WithCircuitBreaker adds circuit breaker integration
func (w *HTTPClientWrapper) WithCircuitBreaker(name string) *HTTPClientWrapper {
	w.circuitBreaker = circuitbreaker.NewGoBreaker(name, circuitbreaker.HTTPConfig, nil)
	return w
}

// WithRetryConfig sets custom retry configuration
func (w *HTTPClientWrapper) WithRetryConfig(config *RetryConfig) *HTTPClientWrapper {
	w.retryConfig = config
	return w
}

// Get performs a GET request
func (w *HTTPClientWrapper) Get(ctx context.Context, url string, headers map[string]string) (*Response, error) {
	return w.Request(ctx, &RequestOptions{
		Method:  http.MethodGet,
		URL:     url,
		Headers: headers,
	})
}

// Post performs a POST request
func (w *HTTPClientWrapper) Post(ctx context.Context, url string, body io.Reader, headers map[string]string) (*Response, error) {
	return w.Request(ctx, &RequestOptions{
		Method:  http.MethodPost,
		URL:     url,
		Body:    body,
		Headers: headers,
	})
}

// Request performs an HTTP request with retry and circuit breaker protection
func (w *HTTPClientWrapper) Request(ctx context.Context, opts *RequestOptions) (*Response, error) {
	retryConfig := opts.RetryConfig
	if retryConfig == nil {
		retryConfig = w.retryConfig
	}

	// Read the body once so retries can replay it
	bodyBytes, err := w.readRequestBody(opts.Body)
	if err != nil {
		return nil, errors.InternalError("failed to read request body", err)
	}

	utilsRetryConfig := utils.RetryConfig{
		MaxAttempts:   retryConfig.MaxAttempts,
		InitialDelay:  retryConfig.InitialDelay,
		MaxDelay:      retryConfig.MaxDelay,
		BackoffFactor: retryConfig.BackoffFactor,
		JitterFactor:  retryConfig.JitterFactor,
		RetryableErrors: func(err error) bool {
			return isRetryableError(err)
		},
	}

	var response *Response
	err = utils.RetryWithBackoff(ctx, utilsRetryConfig, func() error {
		var reqErr error
		response, reqErr = w.executeRequest(ctx, opts, bodyBytes, retryConfig)
		return reqErr
	})

	return response, err
}

func (w *HTTPClientWrapper) readRequestBody(body io.Reader) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	return io.ReadAll(body)
}

// executeRequest executes a single HTTP request attempt
func (w *HTTPClientWrapper) executeRequest(ctx context.Context, opts *RequestOptions, bodyBytes []byte, retryConfig *RetryConfig) (*Response, error) {
	start := time.Now()

	var bodyReader io.Reader
	if bodyBytes != nil {
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, opts.Method, opts.URL, bodyReader)
	if err != nil {
		return nil, errors.InternalError("failed to create request", err)
	}

	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	var resp *http.Response
	if w.circuitBreaker != nil {
		err = w.circuitBreaker.Execute(ctx, func() error {
			var httpErr error
			resp, httpErr = w.client.Do(req)
			return httpErr
		})
	} else {
		resp, err = w.client.Do(req)
	}

	duration := time.Since(start)

	if err != nil {
		if isTimeoutError(err) {
			timeoutErr := errors.TimeoutError("outbound request")
			timeoutErr.Cause = err
			return nil, timeoutErr
		}
		return nil, errors.ConnectionError("request failed", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.InternalError("failed to read response body", err)
	}

	headers := make(map[string]string)
	for name, values := range resp.Header {
		if len(values) > 0 {
			headers[name] = values[0]
		}
	}

	response := &Response{
		StatusCode: resp.StatusCode,
		Headers:    headers,
		RawBody:    responseBody,
		Duration:   duration,
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return response, nil
	}

	// Retryable HTTP errors are surfaced as internal errors so the retry
	// policy picks them up; everything else fails fast.
	if shouldRetryStatusCode(resp.StatusCode, retryConfig.RetryableStatusCodes) {
		return response, errors.InternalError(fmt.Sprintf("HTTP %d: %s", resp.StatusCode, resp.Status), nil)
	}

	return response, errors.ValidationError(fmt.Sprintf("HTTP %d: %s", resp.StatusCode, string(responseBody)))
}

// shouldRetryStatusCode checks if a status code should trigger a retry
func shouldRetryStatusCode(statusCode int, retryableStatusCodes []int) bool {
	if statusCode >= 500 {
		return true
	}

	for _, code := range retryableStatusCodes {
		if statusCode == code {
			return true
		}
	}

	return false
}

// isTimeoutError reports whether a transport failure was a deadline or
// timeout rather than a connectivity problem. Timeouts are not retried:
// the request context is already exhausted.
func isTimeoutError(err error) bool {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	return stderrors.As(err, &netErr) && netErr.Timeout()
}

// isRetryableError determines if an error should trigger a retry
func isRetryableError(err error) bool {
	if errors.IsType(err, errors.ErrTypeConnection) {
		return true
	}

	if errors.IsType(err, errors.ErrTypeInternal) {
		return true
	}

	return false
}
