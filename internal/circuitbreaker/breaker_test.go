package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	apperrors "lead-bridge/internal/common/errors"
	"lead-bridge/internal/common/logging"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"valid", DefaultConfig(), false},
		{"zero failures", Config{MaxFailures: 0, Timeout: time.Second, MaxConcurrentRequests: 1}, true},
		{"zero timeout", Config{MaxFailures: 1, Timeout: 0, MaxConcurrentRequests: 1}, true},
		{"zero concurrent", Config{MaxFailures: 1, Timeout: time.Second, MaxConcurrentRequests: 0}, true},
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

func TestState_String(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "half-open", StateHalfOpen.String())
	assert.Equal(t, "unknown", State(99).String())
}

func TestGoBreaker_ExecuteSuccess(t *testing.T) {
	cb := NewGoBreaker("test", DefaultConfig(), logging.NewDefaultLogger())

	err := cb.Execute(context.Background(), func() error {
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, StateClosed, cb.State())
}

func TestGoBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	config := Config{
		MaxFailures:           3,
		Timeout:               time.Minute,
		MaxConcurrentRequests: 1,
	}
	cb := NewGoBreaker("test", config, logging.NewDefaultLogger())

	boom := errors.New("connection refused")
	for i := 0; i < 3; i++ {
		_ = cb.Execute(context.Background(), func() error {
			return boom
		})
	}

	assert.True(t, cb.IsOpen())

	// Further calls are rejected without invoking fn
	calls := 0
	err := cb.Execute(context.Background(), func() error {
		calls++
		return nil
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "is open")
	assert.Equal(t, 0, calls)
}

func TestGoBreaker_ValidationErrorsDoNotTrip(t *testing.T) {
	config := Config{
		MaxFailures:           2,
		Timeout:               time.Minute,
		MaxConcurrentRequests: 1,
	}
	cb := NewGoBreaker("test", config, logging.NewDefaultLogger())

	for i := 0; i < 5; i++ {
		_ = cb.Execute(context.Background(), func() error {
			return apperrors.ValidationError("bad request")
		})
	}

	assert.False(t, cb.IsOpen())
}

func TestGoBreaker_InvalidConfigFallsBackToDefaults(t *testing.T) {
	cb := NewGoBreaker("test", Config{}, logging.NewDefaultLogger())

	err := cb.Execute(context.Background(), func() error {
		return nil
	})

	assert.NoError(t, err)
}
