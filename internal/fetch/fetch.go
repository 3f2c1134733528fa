// Package fetch downloads remote price lists with throttling and retries.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Config holds throttling and retry settings
type Config struct {
	RequestsPerSecond float64
	MaxRetries        int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	Timeout           time.Duration
	MaxBodySize       int64
	UserAgent         string
}

// DefaultConfig returns the default fetch configuration
func DefaultConfig() Config {
	return Config{
		RequestsPerSecond: 2,
		MaxRetries:        3,
		InitialBackoff:    100 * time.Millisecond,
		MaxBackoff:        30 * time.Second,
		Timeout:           30 * time.Second,
		MaxBodySize:       200 << 20,
		UserAgent:         "Kosarica-BasketService/1.0",
	}
}

// RetryError is returned when all attempts are exhausted or the server
// answered with a status that is not worth retrying.
type RetryError struct {
	URL        string
	Attempts   int
	LastStatus int
	LastError  error
}

func (e *RetryError) Error() string {
	msg := "failed to fetch " + e.URL + " after " + strconv.Itoa(e.Attempts) + " attempts"
	if e.LastStatus != 0 {
		msg += " (HTTP " + strconv.Itoa(e.LastStatus) + ")"
	}
	if e.LastError != nil {
		msg += ": " + e.LastError.Error()
	}
	return msg
}

func (e *RetryError) Unwrap() error { return e.LastError }

// IsRetryableStatus reports whether a status is worth retrying: 429 and 5xx.
func IsRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || (status >= 500 && status < 600)
}

// Backoff returns the delay before retry attempt+1: exponential from
// InitialBackoff, capped at MaxBackoff, plus up to 25% jitter. Rate-limited
// responses back off with factor 3 and honour Retry-After seconds.
func Backoff(attempt int, cfg Config, status int, retryAfter string) time.Duration {
	if status == http.StatusTooManyRequests && retryAfter != "" {
		if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds > 0 {
			return time.Duration(seconds)*time.Second + time.Duration(rand.Int63n(int64(time.Second)))
		}
	}
	factor := 2.0
	if status == http.StatusTooManyRequests {
		factor = 3.0
	}
	delay := math.Min(float64(cfg.InitialBackoff)*math.Pow(factor, float64(attempt)), float64(cfg.MaxBackoff))
	return time.Duration(delay + rand.Float64()*0.25*delay)
}

// Client is an HTTP client with rate limiting and retry logic
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	config     Config
	logger     zerolog.Logger
	sleep      func(ctx context.Context, d time.Duration) error
}

// NewClient creates a client. Zero fields in config take their defaults.
func NewClient(config Config) *Client {
	def := DefaultConfig()
	if config.RequestsPerSecond <= 0 {
		config.RequestsPerSecond = def.RequestsPerSecond
	}
	if config.InitialBackoff <= 0 {
		config.InitialBackoff = def.InitialBackoff
	}
	if config.MaxBackoff <= 0 {
		config.MaxBackoff = def.MaxBackoff
	}
	if config.Timeout <= 0 {
		config.Timeout = def.Timeout
	}
	if config.MaxBodySize <= 0 {
		config.MaxBodySize = def.MaxBodySize
	}
	if config.UserAgent == "" {
		config.UserAgent = def.UserAgent
	}
	return &Client{
		httpClient: &http.Client{Timeout: config.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(config.RequestsPerSecond), 1),
		config:     config,
		logger:     log.With().Str("component", "fetch").Logger(),
		sleep:      sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// ErrTooLarge is returned when a body exceeds Config.MaxBodySize.
var ErrTooLarge = errors.New("response body too large")

// Get downloads url and returns the body.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	var (
		attempts   int
		lastStatus int
		lastErr    error
	)
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		attempts++

		body, status, retryAfter, err := c.do(ctx, url)
		if err == nil {
			return body, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastStatus, lastErr = status, nil
		if status == 0 {
			lastErr = err
		}
		if errors.Is(err, ErrTooLarge) || (status != 0 && !IsRetryableStatus(status)) || attempt == c.config.MaxRetries {
			break
		}

		delay := Backoff(attempt, c.config, status, retryAfter)
		c.logger.Debug().
			Str("url", url).
			Int("attempt", attempts).
			Int("status", status).
			Dur("backoff", delay).
			Msg("Retrying fetch")
		if err := c.sleep(ctx, delay); err != nil {
			return nil, err
		}
	}
	return nil, &RetryError{URL: url, Attempts: attempts, LastStatus: lastStatus, LastError: lastErr}
}

func (c *Client) do(ctx context.Context, url string) ([]byte, int, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, "", fmt.Errorf("invalid request: %w", err)
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "*/*")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, resp.StatusCode, resp.Header.Get("Retry-After"), fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.config.MaxBodySize+1))
	if err != nil {
		return nil, 0, "", fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(data)) > c.config.MaxBodySize {
		return nil, 0, "", fmt.Errorf("%w: limit %d bytes", ErrTooLarge, c.config.MaxBodySize)
	}
	return data, 0, "", nil
}
