package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"roomdesk/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	logger := zerolog.Nop()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := NewDB(dbPath, &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func seedRoom(t *testing.T, db *DB, name string) *models.Room {
	t.Helper()
	room := &models.Room{Name: name, Capacity: 4}
	require.NoError(t, db.CreateRoom(context.Background(), room))
	return room
}

func seedUser(t *testing.T, db *DB, name, role string) *models.User {
	t.Helper()
	user := &models.User{Name: name, Role: role}
	require.NoError(t, db.CreateOrUpdateUser(context.Background(), user))
	return user
}

func mustInterval(t *testing.T, start, end time.Time) models.Interval {
	t.Helper()
	iv, err := models.NewInterval(start, end)
	require.NoError(t, err)
	return iv
}

func seedBooking(t *testing.T, db *DB, room *models.Room, user *models.User, iv models.Interval, title string) *models.Booking {
	t.Helper()
	booking := &models.Booking{
		RoomID:   room.ID,
		RoomName: room.Name,
		UserID:   user.ID,
		UserName: user.Name,
		Start:    iv.Start,
		End:      iv.End,
		Title:    title,
	}
	require.NoError(t, db.CreateBookingWithLock(context.Background(), booking))
	return booking
}

func TestNewDB_DirectoryCreation(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "db_test_dir")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	dbPath := filepath.Join(tempDir, "nested", "dir", "test.db")
	logger := zerolog.Nop()

	db, err := NewDB(dbPath, &logger)
	require.NoError(t, err)
	defer db.Close()

	assert.FileExists(t, dbPath)
}

func TestDB_Ping(t *testing.T) {
	db := setupTestDB(t)

	err := db.PingContext(context.Background())
	assert.NoError(t, err)
}
