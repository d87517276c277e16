package repository

import (
	"context"
	"sync/atomic"
	"time"

	"roomdesk/internal/domain"
	"roomdesk/internal/models"

	"github.com/rs/zerolog"
)

type FailoverAvailabilityCache struct {
	primary   domain.AvailabilityCache
	fallback  domain.AvailabilityCache
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck time.Time
}

func NewFailoverAvailabilityCache(primary, fallback domain.AvailabilityCache, logger *zerolog.Logger) *FailoverAvailabilityCache {
	return &FailoverAvailabilityCache{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (r *FailoverAvailabilityCache) markDown(err error) {
	r.logger.Error().Err(err).Msg("Primary availability cache failed, falling back to memory")
	r.isDown.Store(true)
	r.lastCheck = time.Now()
}

func (r *FailoverAvailabilityCache) Get(ctx context.Context, roomID int64, day time.Time) ([]*models.Booking, bool, error) {
	if !r.isDown.Load() {
		bookings, ok, err := r.primary.Get(ctx, roomID, day)
		if err == nil {
			return bookings, ok, nil
		}
		r.markDown(err)
	}

	// Try to recover after 1 minute
	if r.isDown.Load() && time.Since(r.lastCheck) > time.Minute {
		bookings, ok, err := r.primary.Get(ctx, roomID, day)
		if err == nil {
			r.isDown.Store(false)
			return bookings, ok, nil
		}
		r.lastCheck = time.Now()
	}

	return r.fallback.Get(ctx, roomID, day)
}

func (r *FailoverAvailabilityCache) Set(ctx context.Context, roomID int64, day time.Time, bookings []*models.Booking) error {
	if !r.isDown.Load() {
		err := r.primary.Set(ctx, roomID, day, bookings)
		if err == nil {
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.Set(ctx, roomID, day, bookings)
}

func (r *FailoverAvailabilityCache) Invalidate(ctx context.Context, roomID int64, day time.Time) error {
	if !r.isDown.Load() {
		err := r.primary.Invalidate(ctx, roomID, day)
		if err == nil {
			return nil
		}
		r.markDown(err)
	}

	return r.fallback.Invalidate(ctx, roomID, day)
}
