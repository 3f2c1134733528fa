package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(cfg Config) (*Client, *[]time.Duration) {
	c := NewClient(cfg)
	var slept []time.Duration
	c.sleep = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		return ctx.Err()
	}
	return c, &slept
}

func TestGet_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Kosarica-BasketService/1.0", r.Header.Get("User-Agent"))
		w.Write([]byte("store_id,product_id,price\n"))
	}))
	defer srv.Close()

	c, _ := testClient(Config{RequestsPerSecond: 100})
	body, err := c.Get(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "store_id,product_id,price\n", string(body))
}

func TestGet_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c, slept := testClient(Config{RequestsPerSecond: 100, MaxRetries: 3})
	body, err := c.Get(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
	assert.Equal(t, int32(3), calls.Load())
	assert.Len(t, *slept, 2)
}

func TestGet_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c, _ := testClient(Config{RequestsPerSecond: 100, MaxRetries: 3})
	_, err := c.Get(context.Background(), srv.URL)

	var retryErr *RetryError
	require.True(t, errors.As(err, &retryErr))
	assert.Equal(t, http.StatusNotFound, retryErr.LastStatus)
	assert.Equal(t, 1, retryErr.Attempts)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGet_GivesUp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c, slept := testClient(Config{RequestsPerSecond: 100, MaxRetries: 2})
	_, err := c.Get(context.Background(), srv.URL)

	var retryErr *RetryError
	require.True(t, errors.As(err, &retryErr))
	assert.Equal(t, 3, retryErr.Attempts)
	assert.Contains(t, err.Error(), "HTTP 429")
	require.Len(t, *slept, 2)
	assert.GreaterOrEqual(t, (*slept)[0], 7*time.Second)
}

func TestGet_BodyLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(make([]byte, 64))
	}))
	defer srv.Close()

	c, slept := testClient(Config{RequestsPerSecond: 100, MaxRetries: 2, MaxBodySize: 10})
	_, err := c.Get(context.Background(), srv.URL)
	assert.ErrorIs(t, err, ErrTooLarge)
	assert.Empty(t, *slept)
}

func TestGet_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c, _ := testClient(Config{})
	_, err := c.Get(ctx, "http://127.0.0.1:1/")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBackoff(t *testing.T) {
	cfg := Config{InitialBackoff: 100 * time.Millisecond, MaxBackoff: time.Second}

	d := Backoff(0, cfg, http.StatusBadGateway, "")
	assert.GreaterOrEqual(t, d, 100*time.Millisecond)
	assert.LessOrEqual(t, d, 125*time.Millisecond)

	d = Backoff(10, cfg, http.StatusBadGateway, "")
	assert.GreaterOrEqual(t, d, time.Second)
	assert.LessOrEqual(t, d, 1250*time.Millisecond)

	d = Backoff(1, cfg, http.StatusTooManyRequests, "")
	assert.GreaterOrEqual(t, d, 300*time.Millisecond)

	d = Backoff(0, cfg, http.StatusTooManyRequests, "2")
	assert.GreaterOrEqual(t, d, 2*time.Second)
	assert.Less(t, d, 3*time.Second)
}

func TestIsRetryableStatus(t *testing.T) {
	assert.True(t, IsRetryableStatus(429))
	assert.True(t, IsRetryableStatus(503))
	assert.False(t, IsRetryableStatus(404))
	assert.False(t, IsRetryableStatus(200))
}
