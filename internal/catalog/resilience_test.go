package catalog

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestCircuitBreaker(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker("test", &CircuitBreakerConfig{
		MaxFailures:       2,
		ResetTimeout:      time.Minute,
		HalfOpenSuccesses: 1,
	}, zerolog.Nop())
	cb.now = func() time.Time { return now }
	boom := errors.New("boom")

	assert.True(t, cb.Allow())
	cb.RecordFailure(boom)
	assert.Equal(t, CircuitClosed, cb.State())
	cb.RecordFailure(boom)
	assert.Equal(t, CircuitOpen, cb.State())
	assert.False(t, cb.Allow())

	now = now.Add(time.Minute)
	assert.True(t, cb.Allow())
	assert.Equal(t, CircuitHalfOpen, cb.State())

	cb.RecordFailure(boom)
	assert.Equal(t, CircuitOpen, cb.State())

	now = now.Add(2 * time.Minute)
	assert.True(t, cb.Allow())
	cb.RecordSuccess()
	assert.Equal(t, CircuitClosed, cb.State())
	assert.Equal(t, "closed", cb.State().String())
}

func TestCircuitBreaker_SuccessResetsFailures(t *testing.T) {
	cb := NewCircuitBreaker("test", &CircuitBreakerConfig{MaxFailures: 2, ResetTimeout: time.Minute, HalfOpenSuccesses: 1}, zerolog.Nop())

	cb.RecordFailure(errors.New("one"))
	cb.RecordSuccess()
	cb.RecordFailure(errors.New("two"))
	assert.Equal(t, CircuitClosed, cb.State())
}
