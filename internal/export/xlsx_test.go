package export

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"roomdesk/internal/database"
	"roomdesk/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupExportDB(t *testing.T) *database.DB {
	t.Helper()
	logger := zerolog.Nop()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "export.db"), &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestBookingsWorkbook(t *testing.T) {
	db := setupExportDB(t)
	ctx := context.Background()

	room := &models.Room{Name: "Salle A", Capacity: 4}
	require.NoError(t, db.CreateRoom(ctx, room))
	user := &models.User{Name: "Alice", Role: models.RoleMember}
	require.NoError(t, db.CreateOrUpdateUser(ctx, user))

	day := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	iv, err := models.NewInterval(day.Add(10*time.Hour), day.Add(11*time.Hour))
	require.NoError(t, err)

	booking := &models.Booking{
		RoomID:   room.ID,
		RoomName: room.Name,
		UserID:   user.ID,
		UserName: user.Name,
		Start:    iv.Start,
		End:      iv.End,
		Title:    "Standup",
	}
	require.NoError(t, db.CreateBookingWithLock(ctx, booking))

	cancelled := &models.Booking{
		RoomID:   room.ID,
		RoomName: room.Name,
		UserID:   user.ID,
		UserName: user.Name,
		Start:    iv.Start.Add(2 * time.Hour),
		End:      iv.End.Add(2 * time.Hour),
		Title:    "Dropped",
	}
	require.NoError(t, db.CreateBookingWithLock(ctx, cancelled))
	require.NoError(t, db.CancelBooking(ctx, cancelled.ID, cancelled.Version))

	exporter := NewExporter(db)
	f, err := exporter.BookingsWorkbook(ctx, day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	defer f.Close()

	t.Run("sheets", func(t *testing.T) {
		assert.ElementsMatch(t, []string{"Bookings", "Occupancy"}, f.GetSheetList())
	})

	t.Run("bookings sheet", func(t *testing.T) {
		header, err := f.GetCellValue("Bookings", "B1")
		require.NoError(t, err)
		assert.Equal(t, "Room", header)

		roomName, err := f.GetCellValue("Bookings", "B2")
		require.NoError(t, err)
		assert.Equal(t, "Salle A", roomName)

		title, err := f.GetCellValue("Bookings", "F2")
		require.NoError(t, err)
		assert.Equal(t, "Standup", title)

		start, err := f.GetCellValue("Bookings", "D2")
		require.NoError(t, err)
		assert.Equal(t, "2026-09-14 10:00", start)

		flag, err := f.GetCellValue("Bookings", "G3")
		require.NoError(t, err)
		assert.Equal(t, "TRUE", flag)
	})

	t.Run("occupancy sheet", func(t *testing.T) {
		roomName, err := f.GetCellValue("Occupancy", "A2")
		require.NoError(t, err)
		assert.Equal(t, "Salle A", roomName)

		total, err := f.GetCellValue("Occupancy", "B2")
		require.NoError(t, err)
		assert.Equal(t, "2", total)

		active, err := f.GetCellValue("Occupancy", "C2")
		require.NoError(t, err)
		assert.Equal(t, "1", active)
	})
}

func TestBookingsWorkbook_Empty(t *testing.T) {
	db := setupExportDB(t)

	exporter := NewExporter(db)
	f, err := exporter.BookingsWorkbook(context.Background(), time.Now(), time.Now().Add(24*time.Hour))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Bookings")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "ID", rows[0][0])
}
