package database

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"roomdesk/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConcurrentAdmission_SingleWinner(t *testing.T) {
	logger := zerolog.Nop()
	dbPath := filepath.Join(t.TempDir(), "concurrency.db")
	db, err := NewDB(dbPath, &logger)
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	room := seedRoom(t, db, "Salle A")
	user := seedUser(t, db, "Alice", models.RoleMember)

	start := time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	const numGoroutines = 10
	var wg sync.WaitGroup
	wg.Add(numGoroutines)
	results := make(chan error, numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			booking := &models.Booking{
				RoomID:   room.ID,
				RoomName: room.Name,
				UserID:   user.ID,
				UserName: user.Name,
				Start:    start,
				End:      end,
				Title:    "Race",
			}
			results <- db.CreateBookingWithLock(ctx, booking)
		}(i)
	}

	wg.Wait()
	close(results)

	var admitted, conflicts, busy int
	for err := range results {
		switch {
		case err == nil:
			admitted++
		case IsConflict(err):
			conflicts++
		default:
			// SQLITE_BUSY under contention counts as a rejection too
			busy++
		}
	}

	assert.Equal(t, 1, admitted, "exactly one proposal must win the slot")
	assert.Equal(t, numGoroutines-1, conflicts+busy)

	overlapping, err := db.GetOverlapping(ctx, room.ID, models.Interval{Start: start, End: end}, 0)
	require.NoError(t, err)
	assert.Len(t, overlapping, 1)
}

func TestConcurrentCancel_SingleWinner(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	room := seedRoom(t, db, "Salle A")
	user := seedUser(t, db, "Alice", models.RoleMember)
	booking := seedBooking(t, db, room, user,
		mustInterval(t, time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC), time.Date(2026, 9, 14, 11, 0, 0, 0, time.UTC)),
		"Standup")

	const numGoroutines = 5
	var wg sync.WaitGroup
	wg.Add(numGoroutines)
	results := make(chan error, numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			results <- db.CancelBooking(ctx, booking.ID, booking.Version)
		}()
	}

	wg.Wait()
	close(results)

	var ok, stale int
	for err := range results {
		if err == nil {
			ok++
		} else if errors.Is(err, ErrConcurrentModification) {
			stale++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, numGoroutines-1, stale)
}
