package models

import "time"

// Booking is a confirmed reservation of a room for a half-open interval.
// Room and user names are denormalized so readers get a fully populated
// value without extra lookups.
type Booking struct {
	ID          int64     `json:"id"`
	RoomID      int64     `json:"room_id"`
	RoomName    string    `json:"room_name"`
	UserID      int64     `json:"user_id"`
	UserName    string    `json:"user_name"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	IsCancelled bool      `json:"is_cancelled"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Version     int64     `json:"version"`
}

// Interval returns the booking's [Start, End) range.
func (b *Booking) Interval() Interval {
	return Interval{Start: b.Start, End: b.End}
}

// IsActive reports whether the booking participates in conflict checks.
func (b *Booking) IsActive() bool {
	return !b.IsCancelled
}

// IsUpcoming reports whether the booking starts after now.
func (b *Booking) IsUpcoming(now time.Time) bool {
	return b.Start.After(now)
}

// IsInProgress reports whether now falls inside the booking's interval.
func (b *Booking) IsInProgress(now time.Time) bool {
	return b.Interval().Contains(now)
}

// IsPast reports whether the booking ended before now.
func (b *Booking) IsPast(now time.Time) bool {
	return b.End.Before(now)
}
