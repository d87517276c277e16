package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"roomdesk/internal/database"
	"roomdesk/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingCache struct {
	mu      sync.Mutex
	store   map[string][]*models.Booking
	gets    int
	sets    int
	deletes int
}

func newCountingCache() *countingCache {
	return &countingCache{store: make(map[string][]*models.Booking)}
}

func (c *countingCache) key(roomID int64, day time.Time) string {
	return fmt.Sprintf("%d/%s", roomID, day.UTC().Format("2006-01-02"))
}

func (c *countingCache) Get(ctx context.Context, roomID int64, day time.Time) ([]*models.Booking, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	bookings, ok := c.store[c.key(roomID, day)]
	return bookings, ok, nil
}

func (c *countingCache) Set(ctx context.Context, roomID int64, day time.Time, bookings []*models.Booking) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.store[c.key(roomID, day)] = bookings
	return nil
}

func (c *countingCache) Invalidate(ctx context.Context, roomID int64, day time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deletes++
	delete(c.store, c.key(roomID, day))
	return nil
}

func TestAvailabilityFor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cache := newCountingCache()
	env.svc.cache = cache

	booking := env.propose(t, env.alice, 10, 11, "Standup")
	day := env.now

	t.Run("first read fills the cache", func(t *testing.T) {
		bookings, err := env.svc.AvailabilityFor(ctx, env.room.ID, day)
		require.NoError(t, err)
		require.Len(t, bookings, 1)
		assert.Equal(t, booking.ID, bookings[0].ID)
		assert.Equal(t, 1, cache.sets)
	})

	t.Run("second read is served from cache", func(t *testing.T) {
		sets := cache.sets
		_, err := env.svc.AvailabilityFor(ctx, env.room.ID, day)
		require.NoError(t, err)
		assert.Equal(t, sets, cache.sets)
	})

	t.Run("mutation invalidates the day", func(t *testing.T) {
		env.propose(t, env.bob, 12, 13, "Later")
		assert.NotZero(t, cache.deletes)

		bookings, err := env.svc.AvailabilityFor(ctx, env.room.ID, day)
		require.NoError(t, err)
		assert.Len(t, bookings, 2)
	})

	t.Run("unknown room", func(t *testing.T) {
		_, err := env.svc.AvailabilityFor(ctx, 999, day)
		assert.ErrorIs(t, err, database.ErrRoomNotFound)
	})
}

func TestRoomLocks_Independent(t *testing.T) {
	var locks roomLocks

	unlockA := locks.lock(1)
	// A different room locks without blocking
	done := make(chan struct{})
	go func() {
		unlockB := locks.lock(2)
		unlockB()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on a different room blocked")
	}
	unlockA()
}
