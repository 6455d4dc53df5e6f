// Package app wires the application together: configuration, the
// shared service clients, routing, and lifecycle.
package app

import (
	"lead-bridge/internal/common/logging"
	"lead-bridge/internal/common/ratelimit"
	"lead-bridge/internal/config"
	"lead-bridge/internal/openai"
	"lead-bridge/internal/relay"
)

// App holds all the application dependencies
type App struct {
	Config      *config.Config
	Enricher    *openai.Client
	Relay       *relay.Client
	RateLimiter ratelimit.Limiter
	Logger      logging.Logger
}

// New creates a new application instance with all dependencies. The
// enrichment and relay clients are constructed once here and shared
// across all requests; they hold no per-request state.
func New(cfg *config.Config) (*App, error) {
	logger := logging.GetGlobalLogger().WithFields(logging.Field{Key: "component", Value: "app"})

	enricher := openai.NewClient(openai.Config{
		APIKey:          cfg.OpenAIAPIKey,
		BaseURL:         cfg.OpenAIBaseURL,
		Model:           cfg.OpenAIModel,
		Timeout:         cfg.OpenAITimeout,
		MaxOutputTokens: cfg.OpenAIMaxOutputTokens,
		MaxAttempts:     cfg.RetryMaxAttempts,
	}, logger.WithFields(logging.Field{Key: "component", Value: "openai"}))

	relayClient, err := relay.NewClient(relay.Config{
		BaseURL:     cfg.SenseiWebhookURL,
		Timeout:     cfg.SenseiTimeout,
		MaxAttempts: cfg.RetryMaxAttempts,
	}, logger.WithFields(logging.Field{Key: "component", Value: "relay"}))
	if err != nil {
		return nil, err
	}

	limiterConfig := ratelimit.DefaultConfig()
	limiterConfig.Enabled = cfg.RateLimitEnabled
	limiterConfig.RequestsPerSecond = cfg.RateLimitRPS
	limiterConfig.BurstSize = cfg.RateLimitBurst

	rateLimiter, err := ratelimit.NewLocalLimiter(limiterConfig)
	if err != nil {
		return nil, err
	}

	return &App{
		Config:      cfg,
		Enricher:    enricher,
		Relay:       relayClient,
		RateLimiter: rateLimiter,
		Logger:      logger,
	}, nil
}
