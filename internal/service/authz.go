package service

import (
	"roomdesk/internal/database"
	"roomdesk/internal/models"
)

// authorizeBookingAccess is the single mutation guard: admins may manage any
// booking, everyone else only their own.
func authorizeBookingAccess(caller *models.User, booking *models.Booking) error {
	if caller.IsAdmin() {
		return nil
	}
	if caller.ID == booking.UserID {
		return nil
	}
	return database.ErrForbidden
}
