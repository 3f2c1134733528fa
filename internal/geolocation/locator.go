// Package geolocation turns position lookups into pricing origins. Lookups
// may be slow, refused or never answered; none of that blocks pricing.
package geolocation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/kosarica/basket-service/internal/catalog"
	"github.com/kosarica/basket-service/internal/optimizer"
)

var (
	// ErrPermissionDenied is returned by a Locator when the user refused access.
	ErrPermissionDenied = errors.New("location permission denied")
	// ErrUnavailable is returned by a Locator that has no fix to give.
	ErrUnavailable = errors.New("position unavailable")
)

// DefaultTimeout bounds a single position lookup.
const DefaultTimeout = 5 * time.Second

// Fix is a position reported by a device.
type Fix struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	AccuracyM float64 `json:"accuracyM,omitempty"`
}

// Valid reports whether the fix is a usable WGS84 coordinate.
func (f Fix) Valid() bool {
	return catalog.Location{Latitude: f.Latitude, Longitude: f.Longitude}.Valid()
}

// Locator produces a position fix.
type Locator interface {
	Locate(ctx context.Context) (Fix, error)
}

// LocatorFunc adapts a function to the Locator interface.
type LocatorFunc func(ctx context.Context) (Fix, error)

// Locate calls f(ctx).
func (f LocatorFunc) Locate(ctx context.Context) (Fix, error) {
	return f(ctx)
}

// StaticLocator answers with a fixed result after an optional delay.
type StaticLocator struct {
	Fix   Fix
	Err   error
	Delay time.Duration
}

// Locate implements Locator.
func (s StaticLocator) Locate(ctx context.Context) (Fix, error) {
	if s.Delay > 0 {
		t := time.NewTimer(s.Delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return Fix{}, ctx.Err()
		case <-t.C:
		}
	}
	if s.Err != nil {
		return Fix{}, s.Err
	}
	return s.Fix, nil
}

// OriginFromFix maps a lookup outcome onto an origin. Denial is kept apart
// from every other failure so callers can explain it to the user.
func OriginFromFix(fix Fix, err error) optimizer.Origin {
	switch {
	case errors.Is(err, ErrPermissionDenied):
		return optimizer.Origin{Status: optimizer.OriginDenied}
	case err != nil:
		return optimizer.Origin{Status: optimizer.OriginUnresolved}
	case !fix.Valid():
		return optimizer.Origin{Status: optimizer.OriginUnresolved}
	default:
		return optimizer.ResolvedOrigin(fix.Latitude, fix.Longitude)
	}
}

// Resolve asks loc for a position and waits at most timeout. A late or
// failed lookup yields an unresolved origin rather than an error.
func Resolve(ctx context.Context, loc Locator, timeout time.Duration) optimizer.Origin {
	if loc == nil {
		return optimizer.Origin{Status: optimizer.OriginUnresolved}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		fix Fix
		err error
	}
	ch := make(chan result, 1)
	go func() {
		fix, err := loc.Locate(ctx)
		ch <- result{fix, err}
	}()

	select {
	case res := <-ch:
		return OriginFromFix(res.fix, res.err)
	case <-ctx.Done():
		log.Debug().Dur("timeout", timeout).Msg("Position lookup timed out")
		return optimizer.Origin{Status: optimizer.OriginUnresolved}
	}
}

// Tracker holds the latest known origin. Lookups run in the background and
// Current never waits for them, so a fix that arrives late simply shows up
// on the next read.
type Tracker struct {
	mu       sync.RWMutex
	origin   optimizer.Origin
	updated  time.Time
	fallback *float64
	logger   zerolog.Logger
}

// NewTracker creates a tracker with an unresolved origin. fallbackKm, when
// non-nil, is attached to every origin it hands out.
func NewTracker(fallbackKm *float64) *Tracker {
	return &Tracker{
		origin:   optimizer.Origin{Status: optimizer.OriginUnresolved},
		fallback: fallbackKm,
		logger:   log.With().Str("component", "geolocation").Logger(),
	}
}

// Current returns the latest origin.
func (t *Tracker) Current() optimizer.Origin {
	t.mu.RLock()
	defer t.mu.RUnlock()
	o := t.origin
	if t.fallback != nil {
		o = o.WithFallback(*t.fallback)
	}
	return o
}

// UpdatedAt returns when the origin last changed.
func (t *Tracker) UpdatedAt() time.Time {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.updated
}

// Set records a lookup outcome. A failed lookup does not discard a
// previously resolved position, but a denial always does.
func (t *Tracker) Set(fix Fix, err error) {
	next := OriginFromFix(fix, err)

	t.mu.Lock()
	defer t.mu.Unlock()
	if next.Status == optimizer.OriginUnresolved && t.origin.Status == optimizer.OriginResolved {
		t.logger.Debug().Err(err).Msg("Keeping last known position")
		return
	}
	t.origin = next
	t.updated = time.Now()
	t.logger.Debug().Str("status", string(next.Status)).Msg("Origin updated")
}

// Refresh starts a background lookup and returns immediately. The returned
// channel is closed once the lookup has been recorded.
func (t *Tracker) Refresh(ctx context.Context, loc Locator, timeout time.Duration) <-chan struct{} {
	done := make(chan struct{})
	if loc == nil {
		close(done)
		return done
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	go func() {
		defer close(done)
		lctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		fix, err := loc.Locate(lctx)
		if err != nil && !errors.Is(err, ErrPermissionDenied) {
			err = fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		t.Set(fix, err)
	}()
	return done
}
