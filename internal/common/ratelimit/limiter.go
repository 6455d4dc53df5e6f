// Package ratelimit provides token bucket rate limiting for inbound
// webhook traffic, built on golang.org/x/time/rate. A shared global
// bucket caps overall throughput while per-key buckets (keyed by client
// IP) keep a single noisy caller from starving everyone else.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Config holds rate limiter configuration
type Config struct {
	// Enabled controls whether rate limiting is active
	Enabled bool

	// RequestsPerSecond is the sustained request rate per bucket
	RequestsPerSecond int

	// BurstSize is the maximum burst allowed above the sustained rate
	BurstSize int

	// MaxKeys caps the number of tracked per-key buckets
	MaxKeys int

	// CleanupPeriod controls how often idle per-key buckets are evicted
	CleanupPeriod time.Duration
}

// DefaultConfig returns sensible defaults for the webhook endpoint
func DefaultConfig() Config {
	return Config{
		Enabled:           true,
		RequestsPerSecond: 10,
		BurstSize:         20,
		MaxKeys:           10000,
		CleanupPeriod:     10 * time.Minute,
	}
}

// Validate checks the configuration for invalid values
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.RequestsPerSecond <= 0 {
		return fmt.Errorf("requests per second must be positive, got %d", c.RequestsPerSecond)
	}
	if c.BurstSize <= 0 {
		return fmt.Errorf("burst size must be positive, got %d", c.BurstSize)
	}
	if c.MaxKeys <= 0 {
		return fmt.Errorf("max keys must be positive, got %d", c.MaxKeys)
	}
	if c.CleanupPeriod <= 0 {
		return fmt.Errorf("cleanup period must be positive, got %v", c.CleanupPeriod)
	}
	return nil
}

// Limiter defines the rate limiting interface used by HTTP middleware
type Limiter interface {
	Wait(ctx context.Context) error
	TryAcquire() bool
	TryAcquireForKey(key string) bool
	Stats() map[string]interface{}
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastUsed time.Time
}

type localLimiter struct {
	mu       sync.Mutex
	config   Config
	limiters map[string]*limiterEntry

	// Global limiter for overall throughput
	globalLimiter *rate.Limiter

	lastCleanup time.Time
}

// NewLocalLimiter creates a new in-process rate limiter
func NewLocalLimiter(config Config) (Limiter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &localLimiter{
		config:        config,
		limiters:      make(map[string]*limiterEntry),
		globalLimiter: rate.NewLimiter(rate.Limit(config.RequestsPerSecond), config.BurstSize),
		lastCleanup:   time.Now(),
	}, nil
}

// Wait blocks until a request can be made under the global limit
func (rl *localLimiter) Wait(ctx context.Context) error {
	if !rl.config.Enabled {
		return nil
	}
	return rl.globalLimiter.Wait(ctx)
}

// TryAcquire attempts to take a token from the global bucket without blocking
func (rl *localLimiter) TryAcquire() bool {
	if !rl.config.Enabled {
		return true
	}
	return rl.globalLimiter.Allow()
}

// TryAcquireForKey attempts to take a token from the per-key bucket
// without blocking. The global bucket is consulted first so per-key
// allowances can never exceed overall capacity.
func (rl *localLimiter) TryAcquireForKey(key string) bool {
	if !rl.config.Enabled {
		return true
	}
	if !rl.globalLimiter.Allow() {
		return false
	}
	return rl.getLimiterForKey(key).Allow()
}

func (rl *localLimiter) getLimiterForKey(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if time.Since(rl.lastCleanup) > rl.config.CleanupPeriod {
		rl.cleanup()
	}

	entry, exists := rl.limiters[key]
	if !exists {
		entry = &limiterEntry{
			limiter:  rate.NewLimiter(rate.Limit(rl.config.RequestsPerSecond), rl.config.BurstSize),
			lastUsed: time.Now(),
		}
		rl.limiters[key] = entry

		if len(rl.limiters) > rl.config.MaxKeys {
			rl.cleanup()
		}
	} else {
		entry.lastUsed = time.Now()
	}

	return entry.limiter
}

// cleanup removes per-key buckets that have been idle for a full
// cleanup period. Caller must hold rl.mu.
func (rl *localLimiter) cleanup() {
	cutoff := time.Now().Add(-rl.config.CleanupPeriod)

	for key, entry := range rl.limiters {
		if entry.lastUsed.Before(cutoff) {
			delete(rl.limiters, key)
		}
	}

	rl.lastCleanup = time.Now()
}

// Stats returns rate limiter statistics for diagnostics
func (rl *localLimiter) Stats() map[string]interface{} {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	return map[string]interface{}{
		"enabled":             rl.config.Enabled,
		"requests_per_second": rl.config.RequestsPerSecond,
		"burst_size":          rl.config.BurstSize,
		"available_tokens":    rl.globalLimiter.Tokens(),
		"active_keys":         len(rl.limiters),
		"max_keys":            rl.config.MaxKeys,
	}
}

var _ Limiter = (*localLimiter)(nil)
