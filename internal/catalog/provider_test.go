package catalog

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_NotLoaded(t *testing.T) {
	p := NewProvider(nil, DefaultProviderOptions())

	_, err := p.Snapshot()
	assert.ErrorIs(t, err, ErrNotLoaded)
	assert.False(t, p.IsHealthy())
	assert.True(t, p.IsStale())
	assert.True(t, p.LoadedAt().IsZero())

	_, err = p.Refresh(context.Background())
	assert.Error(t, err)
}

func TestProvider_Refresh(t *testing.T) {
	snap := sampleSnapshot(t)
	var calls atomic.Int32
	p := NewProvider(LoaderFunc(func(ctx context.Context) (*Snapshot, error) {
		calls.Add(1)
		return snap, nil
	}), DefaultProviderOptions())

	got, err := p.Refresh(context.Background())
	require.NoError(t, err)
	assert.Same(t, snap, got)

	cur, err := p.Snapshot()
	require.NoError(t, err)
	assert.Same(t, snap, cur)
	assert.True(t, p.IsHealthy())
	assert.False(t, p.IsStale())
	assert.Equal(t, int32(1), calls.Load())
}

func TestProvider_ConcurrentRefreshSharesLoad(t *testing.T) {
	snap := sampleSnapshot(t)
	release := make(chan struct{})
	var calls atomic.Int32
	p := NewProvider(LoaderFunc(func(ctx context.Context) (*Snapshot, error) {
		calls.Add(1)
		<-release
		return snap, nil
	}), DefaultProviderOptions())

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := p.Refresh(context.Background())
			assert.NoError(t, err)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
}

func TestProvider_FailureKeepsPreviousSnapshot(t *testing.T) {
	snap := sampleSnapshot(t)
	fail := false
	opts := DefaultProviderOptions()
	opts.Breaker = &CircuitBreakerConfig{MaxFailures: 1, ResetTimeout: time.Hour, HalfOpenSuccesses: 1}
	p := NewProvider(LoaderFunc(func(ctx context.Context) (*Snapshot, error) {
		if fail {
			return nil, errors.New("source down")
		}
		return snap, nil
	}), opts)

	_, err := p.Refresh(context.Background())
	require.NoError(t, err)

	fail = true
	_, err = p.Refresh(context.Background())
	assert.ErrorContains(t, err, "source down")

	cur, err := p.Snapshot()
	require.NoError(t, err)
	assert.Same(t, snap, cur)
	assert.False(t, p.IsHealthy(), "open circuit reports unhealthy")

	_, err = p.Refresh(context.Background())
	assert.ErrorContains(t, err, "circuit open")
}

func TestProvider_CallerCancellation(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	p := NewProvider(LoaderFunc(func(ctx context.Context) (*Snapshot, error) {
		<-release
		return nil, errors.New("late")
	}), DefaultProviderOptions())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := p.Refresh(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestProvider_Stale(t *testing.T) {
	p := NewProvider(nil, ProviderOptions{TTL: time.Millisecond})
	p.Set(sampleSnapshot(t))
	time.Sleep(5 * time.Millisecond)
	assert.True(t, p.IsStale())

	p = NewProvider(nil, ProviderOptions{})
	p.Set(sampleSnapshot(t))
	assert.False(t, p.IsStale(), "zero TTL never goes stale")
}
