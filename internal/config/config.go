// Package config provides configuration management for the lead bridge
// application. It handles loading configuration from environment variables
// with sensible defaults and validates the configuration to ensure the
// application starts safely.
//
// Environment Variables:
//
// Application Settings:
//   - PORT: Server port (default: 8080)
//   - LOG_LEVEL: Logging level (default: info)
//   - DEBUG: Enable debug behavior such as verbose logging (default: false)
//
// Enrichment (OpenAI) Configuration:
//   - OPENAI_API_KEY: API key for the enrichment provider (required)
//   - OPENAI_BASE_URL: API base URL (default: https://api.openai.com/v1)
//   - OPENAI_MODEL: Model name (default: gpt-4o-mini)
//   - OPENAI_TIMEOUT: Per-request timeout for enrichment calls (default: 90s)
//   - OPENAI_MAX_OUTPUT_TOKENS: Output token cap per enrichment call (default: 1200)
//
// Relay (Sensei CRM) Configuration:
//   - SENSEI_WEBHOOK_URL: Base URL of the downstream CRM webhook (required)
//   - SENSEI_TIMEOUT: Per-request timeout for relay calls (default: 15s)
//
// Outbound Call Policy:
//   - RETRY_MAX_ATTEMPTS: Attempts per outbound call, 1 disables retries (default: 1)
//
// Rate Limiting:
//   - RATE_LIMIT_ENABLED: Enable inbound rate limiting (default: true)
//   - RATE_LIMIT_RPS: Sustained requests per second per client (default: 10)
//   - RATE_LIMIT_BURST: Burst allowance above the sustained rate (default: 20)
//
// Example usage:
//
//	// Load configuration from environment
//	config := config.Load()
//
//	// Validate configuration
//	if err := config.Validate(); err != nil {
//		log.Fatalf("Invalid configuration: %v", err)
//	}
//
//	// Use configuration
//	server := &http.Server{
//		Addr: ":" + config.Port,
//	}
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values for the lead bridge application.
// All fields correspond to environment variables that can be set to
// override the default values.
//
// The configuration is loaded using the Load() function and should be
// validated using the Validate() method before use.
type Config struct {
	// Application settings
	Port     string // Server port number
	LogLevel string // Logging level (debug, info, warn, error)
	Debug    bool   // Debug mode for verbose request logging

	// Enrichment provider configuration
	OpenAIAPIKey          string        // API key for the enrichment provider (required)
	OpenAIBaseURL         string        // Base URL of the enrichment API
	OpenAIModel           string        // Model used to build company profiles
	OpenAITimeout         time.Duration // Per-request timeout for enrichment calls
	OpenAIMaxOutputTokens int           // Output token cap per enrichment call

	// Relay configuration for the downstream CRM
	SenseiWebhookURL string        // Base URL of the Sensei CRM webhook (required)
	SenseiTimeout    time.Duration // Per-request timeout for relay calls

	// Outbound call policy
	RetryMaxAttempts int // Attempts per outbound call; 1 means no retries

	// Rate limiting configuration
	RateLimitEnabled bool // Whether inbound rate limiting is enabled
	RateLimitRPS     int  // Sustained requests per second per client
	RateLimitBurst   int  // Burst allowance above the sustained rate
}

// Load creates a new Config instance with values loaded from environment variables.
// If an environment variable is not set, the corresponding default value is used.
//
// This function does not validate the configuration - call Validate() on the
// returned Config to ensure all required values are properly set and valid.
//
// Returns:
//   - *Config: A new configuration instance with values from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Debug:    getBoolEnv("DEBUG", false),

		// Enrichment provider configuration
		OpenAIAPIKey:          getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:         getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:           getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAITimeout:         getDurationEnv("OPENAI_TIMEOUT", 90*time.Second),
		OpenAIMaxOutputTokens: getIntEnv("OPENAI_MAX_OUTPUT_TOKENS", 1200),

		// Relay configuration
		SenseiWebhookURL: getEnv("SENSEI_WEBHOOK_URL", ""),
		SenseiTimeout:    getDurationEnv("SENSEI_TIMEOUT", 15*time.Second),

		// Outbound call policy
		RetryMaxAttempts: getIntEnv("RETRY_MAX_ATTEMPTS", 1),

		// Rate limiting configuration
		RateLimitEnabled: getBoolEnv("RATE_LIMIT_ENABLED", true),
		RateLimitRPS:     getIntEnv("RATE_LIMIT_RPS", 10),
		RateLimitBurst:   getIntEnv("RATE_LIMIT_BURST", 20),
	}
}

// getEnv retrieves an environment variable value or returns a default value if not set.
//
// Parameters:
//   - key: The environment variable name to look up
//   - defaultValue: The value to return if the environment variable is not set or empty
//
// Returns:
//   - string: The environment variable value or the default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getBoolEnv retrieves a boolean environment variable value or returns a default value.
//
// This function accepts common boolean representations:
//   - "true", "1", "t", "TRUE", "True" -> true
//   - "false", "0", "f", "FALSE", "False" -> false
//   - Any other value or parsing error -> returns defaultValue
//
// Parameters:
//   - key: The environment variable name to look up
//   - defaultValue: The value to return if the environment variable is not set, empty, or invalid
//
// Returns:
//   - bool: The parsed boolean value or the default value
func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getIntEnv retrieves an integer environment variable value or returns a
// default value if the variable is not set or cannot be parsed.
//
// Parameters:
//   - key: The environment variable name to look up
//   - defaultValue: The value to return if the environment variable is not set, empty, or invalid
//
// Returns:
//   - int: The parsed integer value or the default value
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getDurationEnv retrieves a duration environment variable value or returns a
// default value. Values use Go duration syntax such as "90s" or "2m".
//
// Parameters:
//   - key: The environment variable name to look up
//   - defaultValue: The value to return if the environment variable is not set, empty, or invalid
//
// Returns:
//   - time.Duration: The parsed duration value or the default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// Validate performs comprehensive validation on the configuration to ensure
// all required fields are present and all values are valid.
//
// This method checks:
//   - Required fields (OPENAI_API_KEY, SENSEI_WEBHOOK_URL)
//   - Field format validation (port range, absolute relay URL, log level)
//   - Value ranges (positive timeouts, token budgets, retry attempts)
//
// The application should call this method after loading configuration and
// before starting to ensure safe operation.
//
// Returns:
//   - error: A descriptive error if validation fails, nil if configuration is valid
func (c *Config) Validate() error {
	// Validate required fields
	if c.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY environment variable is required")
	}

	if c.SenseiWebhookURL == "" {
		return fmt.Errorf("SENSEI_WEBHOOK_URL environment variable is required")
	}

	// The relay URL must be absolute so query parameters can be appended safely
	parsed, err := url.Parse(c.SenseiWebhookURL)
	if err != nil || !parsed.IsAbs() || parsed.Host == "" {
		return fmt.Errorf("SENSEI_WEBHOOK_URL must be an absolute http(s) URL")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("SENSEI_WEBHOOK_URL must use http or https, got %q", parsed.Scheme)
	}

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("PORT must be a valid port number between 1 and 65535")
	}

	// Validate log level
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
		// Valid log levels
	default:
		return fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error")
	}

	if c.OpenAIBaseURL == "" {
		return fmt.Errorf("OPENAI_BASE_URL must not be empty")
	}

	if c.OpenAIModel == "" {
		return fmt.Errorf("OPENAI_MODEL must not be empty")
	}

	if c.OpenAITimeout <= 0 {
		return fmt.Errorf("OPENAI_TIMEOUT must be positive")
	}

	if c.OpenAIMaxOutputTokens <= 0 {
		return fmt.Errorf("OPENAI_MAX_OUTPUT_TOKENS must be positive")
	}

	if c.SenseiTimeout <= 0 {
		return fmt.Errorf("SENSEI_TIMEOUT must be positive")
	}

	if c.RetryMaxAttempts < 1 {
		return fmt.Errorf("RETRY_MAX_ATTEMPTS must be at least 1")
	}

	// Validate rate limiting settings only when enabled
	if c.RateLimitEnabled {
		if c.RateLimitRPS <= 0 {
			return fmt.Errorf("RATE_LIMIT_RPS must be positive when rate limiting is enabled")
		}
		if c.RateLimitBurst <= 0 {
			return fmt.Errorf("RATE_LIMIT_BURST must be positive when rate limiting is enabled")
		}
	}

	return nil
}
