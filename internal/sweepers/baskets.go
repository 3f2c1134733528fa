// Package sweepers runs periodic maintenance in the background.
package sweepers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/kosarica/basket-service/internal/basket"
)

// BasketRepository is the subset of basket.Repository the sweeper needs.
type BasketRepository interface {
	List(ctx context.Context) ([]string, error)
	Get(ctx context.Context, id string) (*basket.Basket, error)
	Delete(ctx context.Context, id string) error
}

// BasketSweeper periodically removes baskets that have not been touched
// for longer than the TTL.
type BasketSweeper struct {
	repo     BasketRepository
	logger   *zerolog.Logger
	ttl      time.Duration
	interval time.Duration
	stopChan chan struct{}
	now      func() time.Time
}

// NewBasketSweeper creates a new sweeper for abandoned baskets
func NewBasketSweeper(repo BasketRepository, logger *zerolog.Logger, ttl, interval time.Duration) *BasketSweeper {
	return &BasketSweeper{
		repo:     repo,
		logger:   logger,
		ttl:      ttl,
		interval: interval,
		stopChan: make(chan struct{}),
		now:      time.Now,
	}
}

// Start begins the periodic sweep. It blocks until ctx is cancelled or Stop
// is called.
func (s *BasketSweeper) Start(ctx context.Context) {
	s.logger.Info().
		Dur("interval", s.interval).
		Dur("ttl", s.ttl).
		Msg("Starting basket sweeper")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Basket sweeper stopping (context cancelled)")
			return
		case <-s.stopChan:
			s.logger.Info().Msg("Basket sweeper stopping (stop signal)")
			return
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil {
				s.logger.Error().Err(err).Msg("Failed to sweep expired baskets")
			}
		}
	}
}

// Stop signals the sweeper to stop
func (s *BasketSweeper) Stop() {
	close(s.stopChan)
}

// Sweep deletes every basket last updated before now-ttl and returns how
// many were removed. Baskets that disappear mid-sweep are ignored.
func (s *BasketSweeper) Sweep(ctx context.Context) (int, error) {
	s.logger.Debug().Msg("Running basket sweep")

	ids, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}

	cutoff := s.now().Add(-s.ttl)
	removed, failed := 0, 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		b, err := s.repo.Get(ctx, id)
		if err != nil {
			if errors.Is(err, basket.ErrNotFound) {
				continue
			}
			failed++
			s.logger.Warn().Err(err).Str("basket_id", id).Msg("Failed to read basket during sweep")
			continue
		}
		if !b.UpdatedAt.Before(cutoff) {
			continue
		}
		if err := s.repo.Delete(ctx, id); err != nil && !errors.Is(err, basket.ErrNotFound) {
			failed++
			s.logger.Warn().Err(err).Str("basket_id", id).Msg("Failed to delete expired basket")
			continue
		}
		removed++
	}

	if removed > 0 || failed > 0 {
		s.logger.Info().
			Int("removed", removed).
			Int("failed", failed).
			Msg("Swept expired baskets")
	}
	if failed > 0 {
		return removed, fmt.Errorf("%d baskets could not be swept", failed)
	}
	return removed, nil
}
