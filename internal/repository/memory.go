package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"roomdesk/internal/models"
)

type MemoryAvailabilityCache struct {
	entries sync.Map
	ttl     time.Duration
}

type memoryEntry struct {
	bookings  []*models.Booking
	expiresAt time.Time
}

func NewMemoryAvailabilityCache(ttl time.Duration) *MemoryAvailabilityCache {
	return &MemoryAvailabilityCache{
		ttl: ttl,
	}
}

func cacheKey(roomID int64, day time.Time) string {
	return fmt.Sprintf("availability:%d:%s", roomID, day.UTC().Format("2006-01-02"))
}

func (r *MemoryAvailabilityCache) Get(ctx context.Context, roomID int64, day time.Time) ([]*models.Booking, bool, error) {
	val, ok := r.entries.Load(cacheKey(roomID, day))
	if !ok {
		return nil, false, nil
	}
	entry := val.(*memoryEntry)
	if time.Now().After(entry.expiresAt) {
		r.entries.Delete(cacheKey(roomID, day))
		return nil, false, nil
	}
	return entry.bookings, true, nil
}

func (r *MemoryAvailabilityCache) Set(ctx context.Context, roomID int64, day time.Time, bookings []*models.Booking) error {
	r.entries.Store(cacheKey(roomID, day), &memoryEntry{
		bookings:  bookings,
		expiresAt: time.Now().Add(r.ttl),
	})
	return nil
}

func (r *MemoryAvailabilityCache) Invalidate(ctx context.Context, roomID int64, day time.Time) error {
	r.entries.Delete(cacheKey(roomID, day))
	return nil
}
