package database

import (
	"context"
	"testing"
	"time"

	"roomdesk/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRoom_DuplicateName(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	seedRoom(t, db, "Salle A")
	err := db.CreateRoom(ctx, &models.Room{Name: "Salle A", Capacity: 2})
	assert.ErrorIs(t, err, ErrDuplicateRoomName)
}

func TestUpdateRoom_PropagatesName(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	room := seedRoom(t, db, "Salle A")
	user := seedUser(t, db, "Alice", models.RoleMember)
	booking := seedBooking(t, db, room, user,
		mustInterval(t, time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC), time.Date(2026, 9, 14, 11, 0, 0, 0, time.UTC)),
		"Standup")

	room.Name = "Salle Alpha"
	require.NoError(t, db.UpdateRoom(ctx, room))

	got, err := db.GetBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, "Salle Alpha", got.RoomName)
}

func TestUpdateRoom_NotFound(t *testing.T) {
	db := setupTestDB(t)
	err := db.UpdateRoom(context.Background(), &models.Room{ID: 999, Name: "Ghost", Capacity: 1})
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestDeleteRoom(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	room := seedRoom(t, db, "Salle A")
	user := seedUser(t, db, "Alice", models.RoleMember)

	start := time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC)
	booking := seedBooking(t, db, room, user, mustInterval(t, start, start.Add(time.Hour)), "Standup")

	t.Run("blocked while a booking has not ended", func(t *testing.T) {
		err := db.DeleteRoom(ctx, room.ID, start)
		assert.ErrorIs(t, err, ErrRoomHasUpcoming)
	})

	t.Run("cancelled bookings still block", func(t *testing.T) {
		require.NoError(t, db.CancelBooking(ctx, booking.ID, booking.Version))
		err := db.DeleteRoom(ctx, room.ID, start)
		assert.ErrorIs(t, err, ErrRoomHasUpcoming)
	})

	t.Run("deletable once everything ended", func(t *testing.T) {
		require.NoError(t, db.DeleteRoom(ctx, room.ID, start.Add(2*time.Hour)))
		_, err := db.GetRoom(ctx, room.ID)
		assert.ErrorIs(t, err, ErrRoomNotFound)
	})

	t.Run("missing room", func(t *testing.T) {
		err := db.DeleteRoom(ctx, 12345, start)
		assert.ErrorIs(t, err, ErrRoomNotFound)
	})
}

func TestSeedRooms_UpsertByName(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	rooms := []models.Room{
		{Name: "Salle A", Capacity: 4},
		{Name: "Salle B", Capacity: 8},
	}
	require.NoError(t, db.SeedRooms(ctx, rooms))

	// Re-seeding with changed capacity updates in place
	rooms[0].Capacity = 6
	require.NoError(t, db.SeedRooms(ctx, rooms))

	got, err := db.GetRoomByName(ctx, "Salle A")
	require.NoError(t, err)
	assert.Equal(t, int64(6), got.Capacity)

	count, err := db.CountRooms(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestListRooms_SortedByName(t *testing.T) {
	db := setupTestDB(t)
	seedRoom(t, db, "Zulu")
	seedRoom(t, db, "Alpha")

	rooms, err := db.ListRooms(context.Background())
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, "Alpha", rooms[0].Name)
	assert.Equal(t, "Zulu", rooms[1].Name)
}
