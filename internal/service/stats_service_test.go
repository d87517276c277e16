package service

import (
	"context"
	"testing"

	"roomdesk/internal/database"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsService(t *testing.T) {
	env := newTestEnv(t)
	logger := zerolog.Nop()
	svc := NewStatsService(env.db, &logger)
	ctx := context.Background()

	env.propose(t, env.alice, 10, 11, "Keep")
	dropped := env.propose(t, env.alice, 12, 13, "Drop")
	require.NoError(t, env.svc.Cancel(ctx, dropped.ID, env.alice.ID))

	t.Run("member is forbidden", func(t *testing.T) {
		_, err := svc.Overview(ctx, env.alice.ID)
		assert.ErrorIs(t, err, database.ErrForbidden)
	})

	t.Run("overview counts", func(t *testing.T) {
		overview, err := svc.Overview(ctx, env.admin.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), overview.TotalRooms)
		assert.Equal(t, int64(3), overview.TotalUsers)
		assert.Equal(t, int64(2), overview.TotalBookings)
		assert.Equal(t, int64(1), overview.TotalCancelled)
	})

	t.Run("weekday counts skip cancelled", func(t *testing.T) {
		counts, err := svc.WeekdayCounts(ctx, env.admin.ID)
		require.NoError(t, err)
		require.Len(t, counts, 1)
		// 2026-09-14 is a Monday
		assert.Equal(t, 1, counts[0].Weekday)
		assert.Equal(t, int64(1), counts[0].Count)
	})

	t.Run("occupancy rate", func(t *testing.T) {
		rates, err := svc.OccupancyRates(ctx, env.admin.ID)
		require.NoError(t, err)
		require.Len(t, rates, 1)
		assert.Equal(t, int64(2), rates[0].Total)
		assert.Equal(t, int64(1), rates[0].Active)
		assert.InDelta(t, 0.5, rates[0].Rate, 1e-9)
	})

	t.Run("member cannot read occupancy", func(t *testing.T) {
		_, err := svc.OccupancyRates(ctx, env.bob.ID)
		assert.ErrorIs(t, err, database.ErrForbidden)
	})
}
