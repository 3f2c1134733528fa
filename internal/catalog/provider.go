package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

var (
	snapshotLoadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "catalog_snapshot_load_duration_seconds",
		Help:    "Time taken to load a catalog snapshot",
		Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
	})

	snapshotLoadErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_snapshot_load_errors_total",
		Help: "Total number of failed catalog snapshot loads",
	})

	snapshotEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_snapshot_price_entries",
		Help: "Number of price entries in the current catalog snapshot",
	})
)

// ErrNotLoaded is returned when no snapshot has been loaded yet.
var ErrNotLoaded = errors.New("catalog snapshot not loaded")

// Loader builds a fresh snapshot from a backing source.
type Loader interface {
	Load(ctx context.Context) (*Snapshot, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context) (*Snapshot, error)

// Load calls f(ctx).
func (f LoaderFunc) Load(ctx context.Context) (*Snapshot, error) {
	return f(ctx)
}

// ProviderOptions configures a Provider.
type ProviderOptions struct {
	LoadTimeout time.Duration // Maximum time for one load
	TTL         time.Duration // Age after which the snapshot is reported stale
	Breaker     *CircuitBreakerConfig
}

// DefaultProviderOptions returns the default provider options.
func DefaultProviderOptions() ProviderOptions {
	return ProviderOptions{
		LoadTimeout: 30 * time.Second,
		TTL:         1 * time.Hour,
		Breaker:     DefaultCircuitBreakerConfig(),
	}
}

// Provider hands out the current catalog snapshot and refreshes it from a
// Loader. Snapshots are swapped atomically, so callers that grabbed one keep
// a consistent view for the whole computation.
type Provider struct {
	loader   Loader
	opts     ProviderOptions
	current  atomic.Pointer[Snapshot]
	loadedAt atomic.Int64 // unix nanos
	sf       singleflight.Group
	breaker  *CircuitBreaker
	logger   zerolog.Logger
}

// NewProvider creates a provider. loader may be nil for providers that are
// only ever fed through Set.
func NewProvider(loader Loader, opts ProviderOptions) *Provider {
	if opts.LoadTimeout <= 0 {
		opts.LoadTimeout = DefaultProviderOptions().LoadTimeout
	}
	logger := log.With().Str("component", "catalog_provider").Logger()
	return &Provider{
		loader:  loader,
		opts:    opts,
		breaker: NewCircuitBreaker("catalog_loader", opts.Breaker, logger),
		logger:  logger,
	}
}

// Snapshot returns the current snapshot.
func (p *Provider) Snapshot() (*Snapshot, error) {
	s := p.current.Load()
	if s == nil {
		return nil, ErrNotLoaded
	}
	return s, nil
}

// Set installs a snapshot directly, bypassing the loader.
func (p *Provider) Set(s *Snapshot) {
	p.current.Store(s)
	p.loadedAt.Store(time.Now().UnixNano())
	snapshotEntries.Set(float64(s.Stats().EntryCount))
}

// Refresh loads a new snapshot. Concurrent callers share one load; the load
// runs on its own timeout so a cancelled request does not fail the others.
func (p *Provider) Refresh(ctx context.Context) (*Snapshot, error) {
	if p.loader == nil {
		return nil, fmt.Errorf("catalog provider has no loader")
	}
	if !p.breaker.Allow() {
		return nil, fmt.Errorf("catalog load rejected: circuit %s", p.breaker.State())
	}

	ch := p.sf.DoChan("snapshot", func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(context.Background(), p.opts.LoadTimeout)
		defer cancel()

		start := time.Now()
		s, err := p.loader.Load(loadCtx)
		snapshotLoadDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			snapshotLoadErrors.Inc()
			p.breaker.RecordFailure(err)
			return nil, err
		}
		p.breaker.RecordSuccess()
		prev := p.current.Load()
		p.Set(s)

		stats := s.Stats()
		p.logger.Info().
			Int("stores", stats.StoreCount).
			Int("products", stats.ProductCount).
			Int("entries", stats.EntryCount).
			Str("fingerprint", stats.Fingerprint).
			Bool("changed", prev == nil || prev.Fingerprint() != stats.Fingerprint).
			Dur("duration", time.Since(start)).
			Msg("Catalog snapshot loaded")
		return s, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("failed to load catalog: %w", res.Err)
		}
		return res.Val.(*Snapshot), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Run refreshes the snapshot every interval until ctx is cancelled.
func (p *Provider) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := p.Refresh(ctx); err != nil {
				p.logger.Warn().Err(err).Msg("Periodic catalog refresh failed")
			}
		}
	}
}

// LoadedAt returns when the current snapshot was installed.
func (p *Provider) LoadedAt() time.Time {
	ns := p.loadedAt.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}

// IsStale reports whether the snapshot is older than the configured TTL.
func (p *Provider) IsStale() bool {
	if p.opts.TTL <= 0 {
		return false
	}
	loaded := p.LoadedAt()
	return loaded.IsZero() || time.Since(loaded) > p.opts.TTL
}

// IsHealthy reports whether a snapshot is loaded and the loader circuit is closed.
func (p *Provider) IsHealthy() bool {
	return p.current.Load() != nil && p.breaker.State() != CircuitOpen
}
