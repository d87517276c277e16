package models

// StatsOverview carries the global counters shown on the admin dashboard.
type StatsOverview struct {
	TotalRooms     int64 `json:"total_rooms"`
	TotalUsers     int64 `json:"total_users"`
	TotalBookings  int64 `json:"total_bookings"`
	TotalCancelled int64 `json:"total_cancelled"`
}

// RoomWeekdayCount is the number of active bookings for a room starting on
// a given weekday (0 = Sunday, matching SQLite's strftime('%w')).
type RoomWeekdayCount struct {
	RoomID   int64  `json:"room_id"`
	RoomName string `json:"room_name"`
	Weekday  int    `json:"weekday"`
	Count    int64  `json:"count"`
}

// RoomOccupancy is the active/total booking ratio for a room.
type RoomOccupancy struct {
	RoomID   int64   `json:"room_id"`
	RoomName string  `json:"room_name"`
	Total    int64   `json:"total"`
	Active   int64   `json:"active"`
	Rate     float64 `json:"rate"`
}
