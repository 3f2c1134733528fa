package catalog

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// CircuitBreakerState represents the state of the circuit breaker.
type CircuitBreakerState int

const (
	// CircuitClosed allows loads to pass through.
	CircuitClosed CircuitBreakerState = iota

	// CircuitOpen rejects loads immediately.
	CircuitOpen

	// CircuitHalfOpen allows trial loads to check if the source has recovered.
	CircuitHalfOpen
)

// String returns the string representation of the circuit breaker state.
func (s CircuitBreakerState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreakerConfig holds configuration for the circuit breaker.
type CircuitBreakerConfig struct {
	// MaxFailures is the number of consecutive failures before opening the circuit.
	MaxFailures int

	// ResetTimeout is how long to wait before allowing a trial load.
	ResetTimeout time.Duration

	// HalfOpenSuccesses is the number of successful trial loads needed to close again.
	HalfOpenSuccesses int
}

// DefaultCircuitBreakerConfig returns the default circuit breaker configuration.
func DefaultCircuitBreakerConfig() *CircuitBreakerConfig {
	return &CircuitBreakerConfig{
		MaxFailures:       5,
		ResetTimeout:      30 * time.Second,
		HalfOpenSuccesses: 1,
	}
}

// CircuitBreaker stops hammering a failing catalog source.
type CircuitBreaker struct {
	mu          sync.Mutex
	name        string
	state       CircuitBreakerState
	failures    int
	successes   int
	lastFailure time.Time
	config      *CircuitBreakerConfig
	logger      zerolog.Logger
	now         func() time.Time
}

// NewCircuitBreaker creates a new circuit breaker.
func NewCircuitBreaker(name string, config *CircuitBreakerConfig, logger zerolog.Logger) *CircuitBreaker {
	if config == nil {
		config = DefaultCircuitBreakerConfig()
	}
	return &CircuitBreaker{
		name:   name,
		state:  CircuitClosed,
		config: config,
		logger: logger,
		now:    time.Now,
	}
}

// Allow reports whether a load may proceed.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case CircuitClosed, CircuitHalfOpen:
		return true
	case CircuitOpen:
		if cb.now().Sub(cb.lastFailure) >= cb.config.ResetTimeout {
			cb.state = CircuitHalfOpen
			cb.successes = 0
			cb.logger.Info().Str("circuit_breaker", cb.name).Msg("Circuit breaker transitioning to half-open")
			return true
		}
		return false
	default:
		return false
	}
}

// RecordSuccess records a successful load.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case CircuitClosed:
		cb.failures = 0
	case CircuitHalfOpen:
		cb.successes++
		if cb.successes >= cb.config.HalfOpenSuccesses {
			cb.state = CircuitClosed
			cb.failures = 0
			cb.successes = 0
			cb.logger.Info().Str("circuit_breaker", cb.name).Msg("Circuit breaker closing after successful recovery")
		}
	}
}

// RecordFailure records a failed load.
func (cb *CircuitBreaker) RecordFailure(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures++
	cb.lastFailure = cb.now()

	switch cb.state {
	case CircuitClosed:
		if cb.failures >= cb.config.MaxFailures {
			cb.state = CircuitOpen
			cb.logger.Warn().
				Err(err).
				Str("circuit_breaker", cb.name).
				Int("failure_count", cb.failures).
				Dur("reset_timeout", cb.config.ResetTimeout).
				Msg("Circuit breaker opening after max failures")
		}
	case CircuitHalfOpen:
		cb.state = CircuitOpen
		cb.successes = 0
		cb.logger.Warn().Err(err).Str("circuit_breaker", cb.name).Msg("Circuit breaker re-opening after failure in half-open state")
	}
}

// State returns the current state.
func (cb *CircuitBreaker) State() CircuitBreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}
