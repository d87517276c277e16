package domain

import (
	"context"
	"time"

	"roomdesk/internal/models"
)

// Repository is the persistence boundary for the scheduling core.
type Repository interface {
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	CreateBookingWithLock(ctx context.Context, booking *models.Booking) error
	UpdateBookingWithLock(ctx context.Context, booking *models.Booking, fromVersion int64) error
	CancelBooking(ctx context.Context, id, fromVersion int64) error
	GetOverlapping(ctx context.Context, roomID int64, iv models.Interval, excludeID int64) ([]*models.Booking, error)
	GetRoomBookingsForDay(ctx context.Context, roomID int64, date time.Time) ([]*models.Booking, error)
	ListUpcoming(ctx context.Context, userID int64, now time.Time) ([]*models.Booking, error)
	ListPast(ctx context.Context, userID int64, now time.Time) ([]*models.Booking, error)
	ListCancelled(ctx context.Context, userID int64) ([]*models.Booking, error)
	GetBookingsByDateRange(ctx context.Context, start, end time.Time) ([]*models.Booking, error)

	GetRoom(ctx context.Context, id int64) (*models.Room, error)
	GetRoomByName(ctx context.Context, name string) (*models.Room, error)
	ListRooms(ctx context.Context) ([]*models.Room, error)
	CreateRoom(ctx context.Context, room *models.Room) error
	UpdateRoom(ctx context.Context, room *models.Room) error
	DeleteRoom(ctx context.Context, id int64, now time.Time) error
	RoomHasUnfinishedBookings(ctx context.Context, roomID int64, now time.Time) (bool, error)

	GetUser(ctx context.Context, id int64) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	CreateOrUpdateUser(ctx context.Context, user *models.User) error

	CountRooms(ctx context.Context) (int64, error)
	CountUsers(ctx context.Context) (int64, error)
	CountBookings(ctx context.Context) (int64, error)
	CountCancelledBookings(ctx context.Context) (int64, error)
	WeekdayCounts(ctx context.Context) ([]*models.RoomWeekdayCount, error)
	OccupancyRates(ctx context.Context) ([]*models.RoomOccupancy, error)
}

// EventPublisher fans out lifecycle events to in-process subscribers.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// NotifyWorker accepts notification jobs for asynchronous delivery.
type NotifyWorker interface {
	EnqueueEvent(ctx context.Context, eventType string, booking *models.Booking) error
}

// AvailabilityCache caches per-(room, day) listings of active bookings.
type AvailabilityCache interface {
	Get(ctx context.Context, roomID int64, day time.Time) ([]*models.Booking, bool, error)
	Set(ctx context.Context, roomID int64, day time.Time, bookings []*models.Booking) error
	Invalidate(ctx context.Context, roomID int64, day time.Time) error
}

// Clock supplies the current instant so services never read the wall clock
// directly.
type Clock interface {
	Now() time.Time
}
