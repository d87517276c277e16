package database

import (
	"errors"
	"fmt"

	"roomdesk/internal/models"
)

var (
	ErrNotFound               = errors.New("record not found")
	ErrRoomNotFound           = errors.New("room not found")
	ErrUserNotFound           = errors.New("user not found")
	ErrDuplicateRoomName      = errors.New("room name already taken")
	ErrRoomHasUpcoming        = errors.New("room has bookings that have not ended yet")
	ErrForbidden              = errors.New("caller may not manage this booking")
	ErrPastBooking            = errors.New("booking has already started")
	ErrDateTooFar             = errors.New("booking starts beyond the allowed horizon")
	ErrInvalidTitle           = errors.New("booking title is missing or too long")
	ErrConcurrentModification = errors.New("booking was modified concurrently")
)

// ConflictError reports an admission rejection. It carries the first
// conflicting active booking for user-facing diagnostics.
type ConflictError struct {
	Conflicting *models.Booking
}

func (e *ConflictError) Error() string {
	if e.Conflicting == nil {
		return "slot conflicts with an existing booking"
	}
	return fmt.Sprintf("slot conflicts with booking %d on room %q [%s, %s)",
		e.Conflicting.ID, e.Conflicting.RoomName,
		e.Conflicting.Start.Format("2006-01-02 15:04"),
		e.Conflicting.End.Format("2006-01-02 15:04"))
}

// IsConflict reports whether err is an admission rejection.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}
