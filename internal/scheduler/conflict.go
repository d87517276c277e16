package scheduler

import "roomdesk/internal/models"

// Decision is the outcome of an admission check. When the candidate is
// rejected, Conflicting holds the first active booking it overlaps so
// callers can surface it to the user.
type Decision struct {
	Admitted    bool
	Conflicting *models.Booking
}

// Check evaluates a candidate interval against a room's active bookings.
// Bookings whose id equals excludeID are skipped, which lets an edit be
// re-checked against the room without colliding with its own prior slot.
// Cancelled bookings never participate.
func Check(candidate models.Interval, existing []*models.Booking, excludeID int64) Decision {
	for _, b := range existing {
		if b.IsCancelled {
			continue
		}
		if excludeID != 0 && b.ID == excludeID {
			continue
		}
		if candidate.Overlaps(b.Interval()) {
			return Decision{Admitted: false, Conflicting: b}
		}
	}
	return Decision{Admitted: true}
}
