package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"defaults are valid", DefaultConfig(), false},
		{"disabled skips validation", Config{Enabled: false}, false},
		{"zero rps", Config{Enabled: true, RequestsPerSecond: 0, BurstSize: 1, MaxKeys: 1, CleanupPeriod: time.Minute}, true},
		{"zero burst", Config{Enabled: true, RequestsPerSecond: 1, BurstSize: 0, MaxKeys: 1, CleanupPeriod: time.Minute}, true},
		{"zero max keys", Config{Enabled: true, RequestsPerSecond: 1, BurstSize: 1, MaxKeys: 0, CleanupPeriod: time.Minute}, true},
		{"zero cleanup period", Config{Enabled: true, RequestsPerSecond: 1, BurstSize: 1, MaxKeys: 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewLocalLimiter_InvalidConfig(t *testing.T) {
	_, err := NewLocalLimiter(Config{Enabled: true, RequestsPerSecond: -1})
	assert.Error(t, err)
}

func TestTryAcquire_BurstThenDeny(t *testing.T) {
	config := DefaultConfig()
	config.RequestsPerSecond = 1
	config.BurstSize = 3

	limiter, err := NewLocalLimiter(config)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.TryAcquire(), "request %d within burst should pass", i)
	}
	assert.False(t, limiter.TryAcquire(), "request beyond burst should be denied")
}

func TestTryAcquire_DisabledAlwaysAllows(t *testing.T) {
	limiter, err := NewLocalLimiter(Config{Enabled: false})
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		assert.True(t, limiter.TryAcquire())
	}
	assert.True(t, limiter.TryAcquireForKey("10.0.0.1"))
}

func TestTryAcquireForKey_IsolatesKeys(t *testing.T) {
	// Generous global bucket so only the per-key buckets bind
	limiter := &localLimiter{
		config: Config{
			Enabled:           true,
			RequestsPerSecond: 1,
			BurstSize:         2,
			MaxKeys:           100,
			CleanupPeriod:     time.Minute,
		},
		limiters:      make(map[string]*limiterEntry),
		globalLimiter: rate.NewLimiter(100, 100),
		lastCleanup:   time.Now(),
	}

	assert.True(t, limiter.TryAcquireForKey("a"))
	assert.True(t, limiter.TryAcquireForKey("a"))
	assert.False(t, limiter.TryAcquireForKey("a"), "key a exhausted its burst")

	assert.True(t, limiter.TryAcquireForKey("b"), "key b has its own bucket")
}

func TestWait_RespectsContext(t *testing.T) {
	limiter, err := NewLocalLimiter(Config{
		Enabled:           true,
		RequestsPerSecond: 1,
		BurstSize:         1,
		MaxKeys:           10,
		CleanupPeriod:     time.Minute,
	})
	require.NoError(t, err)

	// Drain the bucket
	require.NoError(t, limiter.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err = limiter.Wait(ctx)
	assert.Error(t, err)
}

func TestStats(t *testing.T) {
	limiter, err := NewLocalLimiter(DefaultConfig())
	require.NoError(t, err)

	limiter.TryAcquireForKey("203.0.113.7")

	stats := limiter.Stats()
	assert.Equal(t, true, stats["enabled"])
	assert.Equal(t, 10, stats["requests_per_second"])
	assert.Equal(t, 1, stats["active_keys"])
}
