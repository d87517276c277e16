package scheduler

import (
	"testing"
	"time"

	"roomdesk/internal/models"

	"github.com/stretchr/testify/assert"
)

func at(t *testing.T, hour, minute int) time.Time {
	t.Helper()
	return time.Date(2025, 3, 10, hour, minute, 0, 0, time.UTC)
}

func interval(t *testing.T, fromHour, toHour int) models.Interval {
	t.Helper()
	iv, err := models.NewInterval(at(t, fromHour, 0), at(t, toHour, 0))
	assert.NoError(t, err)
	return iv
}

func booking(t *testing.T, id int64, fromHour, toHour int) *models.Booking {
	t.Helper()
	return &models.Booking{ID: id, Start: at(t, fromHour, 0), End: at(t, toHour, 0)}
}

func TestCheckAdmitsEmptyLedger(t *testing.T) {
	d := Check(interval(t, 10, 11), nil, 0)
	assert.True(t, d.Admitted)
	assert.Nil(t, d.Conflicting)
}

func TestCheckAdmitsAdjacent(t *testing.T) {
	existing := []*models.Booking{booking(t, 1, 10, 11)}

	d := Check(interval(t, 11, 12), existing, 0)
	assert.True(t, d.Admitted)

	d = Check(interval(t, 9, 10), existing, 0)
	assert.True(t, d.Admitted)
}

func TestCheckRejectsOverlap(t *testing.T) {
	existing := []*models.Booking{booking(t, 1, 9, 11)}

	d := Check(interval(t, 10, 12), existing, 0)
	assert.False(t, d.Admitted)
	assert.Equal(t, int64(1), d.Conflicting.ID)
}

func TestCheckRejectsContained(t *testing.T) {
	existing := []*models.Booking{booking(t, 1, 9, 17)}

	d := Check(interval(t, 10, 11), existing, 0)
	assert.False(t, d.Admitted)
	assert.Equal(t, int64(1), d.Conflicting.ID)
}

func TestCheckReturnsFirstConflict(t *testing.T) {
	existing := []*models.Booking{
		booking(t, 1, 9, 10),
		booking(t, 2, 10, 11),
		booking(t, 3, 11, 12),
	}

	d := Check(interval(t, 9, 12), existing, 0)
	assert.False(t, d.Admitted)
	assert.Equal(t, int64(1), d.Conflicting.ID)
}

func TestCheckExcludesSelf(t *testing.T) {
	existing := []*models.Booking{
		booking(t, 1, 10, 11),
		booking(t, 2, 14, 15),
	}

	// Moving booking 1 to a slot overlapping its own prior interval is fine
	d := Check(interval(t, 10, 12), existing, 1)
	assert.True(t, d.Admitted)

	// But it still collides with other bookings
	d = Check(interval(t, 14, 16), existing, 1)
	assert.False(t, d.Admitted)
	assert.Equal(t, int64(2), d.Conflicting.ID)
}

func TestCheckIgnoresCancelled(t *testing.T) {
	cancelled := booking(t, 1, 10, 11)
	cancelled.IsCancelled = true

	d := Check(interval(t, 10, 11), []*models.Booking{cancelled}, 0)
	assert.True(t, d.Admitted)
}
