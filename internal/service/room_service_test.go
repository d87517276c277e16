package service

import (
	"context"
	"testing"
	"time"

	"roomdesk/internal/database"
	"roomdesk/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomService_AdminOnlyMutations(t *testing.T) {
	env := newTestEnv(t)
	logger := zerolog.Nop()
	svc := NewRoomService(env.db, fixedClock{now: env.now}, &logger)
	ctx := context.Background()

	t.Run("member cannot create", func(t *testing.T) {
		err := svc.CreateRoom(ctx, env.alice.ID, &models.Room{Name: "Salle X", Capacity: 2})
		assert.ErrorIs(t, err, database.ErrForbidden)
	})

	t.Run("admin creates", func(t *testing.T) {
		room := &models.Room{Name: "Salle X", Capacity: 2}
		require.NoError(t, svc.CreateRoom(ctx, env.admin.ID, room))
		assert.NotZero(t, room.ID)
	})

	t.Run("duplicate name", func(t *testing.T) {
		err := svc.CreateRoom(ctx, env.admin.ID, &models.Room{Name: "Salle X", Capacity: 2})
		assert.ErrorIs(t, err, database.ErrDuplicateRoomName)
	})

	t.Run("member cannot delete", func(t *testing.T) {
		err := svc.DeleteRoom(ctx, env.bob.ID, env.room.ID)
		assert.ErrorIs(t, err, database.ErrForbidden)
	})
}

func TestRoomService_DeleteGuard(t *testing.T) {
	env := newTestEnv(t)
	logger := zerolog.Nop()
	svc := NewRoomService(env.db, fixedClock{now: env.now}, &logger)
	ctx := context.Background()

	booking := env.propose(t, env.alice, 10, 11, "Standup")

	t.Run("blocked while bookings have not ended", func(t *testing.T) {
		err := svc.DeleteRoom(ctx, env.admin.ID, env.room.ID)
		assert.ErrorIs(t, err, database.ErrRoomHasUpcoming)
	})

	t.Run("cancelled bookings still block", func(t *testing.T) {
		require.NoError(t, env.svc.Cancel(ctx, booking.ID, env.alice.ID))
		err := svc.DeleteRoom(ctx, env.admin.ID, env.room.ID)
		assert.ErrorIs(t, err, database.ErrRoomHasUpcoming)
	})

	t.Run("deletable once the ledger is quiet", func(t *testing.T) {
		late := NewRoomService(env.db, fixedClock{now: env.now.Add(24 * time.Hour)}, &logger)
		require.NoError(t, late.DeleteRoom(ctx, env.admin.ID, env.room.ID))

		_, err := svc.GetRoom(ctx, env.room.ID)
		assert.ErrorIs(t, err, database.ErrRoomNotFound)
	})
}

func TestRoomService_UpdatePropagatesName(t *testing.T) {
	env := newTestEnv(t)
	logger := zerolog.Nop()
	svc := NewRoomService(env.db, fixedClock{now: env.now}, &logger)
	ctx := context.Background()

	booking := env.propose(t, env.alice, 10, 11, "Standup")

	env.room.Name = "Salle Alpha"
	require.NoError(t, svc.UpdateRoom(ctx, env.admin.ID, env.room))

	got, err := env.svc.GetBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, "Salle Alpha", got.RoomName)
}
