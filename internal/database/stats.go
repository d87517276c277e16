package database

import (
	"context"
	"fmt"

	"roomdesk/internal/models"
)

func (db *DB) CountBookings(ctx context.Context) (int64, error) {
	var count int64
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

func (db *DB) CountCancelledBookings(ctx context.Context) (int64, error) {
	var count int64
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings WHERE is_cancelled = 1`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count cancelled bookings: %w", err)
	}
	return count, nil
}

// WeekdayCounts returns active-booking counts per room and weekday of the
// start instant. Weekday 0 is Sunday, matching strftime('%w').
func (db *DB) WeekdayCounts(ctx context.Context) ([]*models.RoomWeekdayCount, error) {
	query := `SELECT room_id, room_name, CAST(strftime('%w', debut) AS INTEGER) AS dow, COUNT(*)
              FROM bookings
              WHERE is_cancelled = 0
              GROUP BY room_id, room_name, dow
              ORDER BY room_id ASC, dow ASC`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get weekday counts: %w", err)
	}
	defer rows.Close()

	var counts []*models.RoomWeekdayCount
	for rows.Next() {
		c := &models.RoomWeekdayCount{}
		if err := rows.Scan(&c.RoomID, &c.RoomName, &c.Weekday, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan weekday count: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

// OccupancyRates returns, per room that owns bookings, the ratio of active
// bookings to total bookings.
func (db *DB) OccupancyRates(ctx context.Context) ([]*models.RoomOccupancy, error) {
	query := `SELECT room_id, room_name, COUNT(*),
                     SUM(CASE WHEN is_cancelled = 0 THEN 1 ELSE 0 END)
              FROM bookings
              GROUP BY room_id, room_name
              ORDER BY room_id ASC`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get occupancy rates: %w", err)
	}
	defer rows.Close()

	var occupancies []*models.RoomOccupancy
	for rows.Next() {
		o := &models.RoomOccupancy{}
		if err := rows.Scan(&o.RoomID, &o.RoomName, &o.Total, &o.Active); err != nil {
			return nil, fmt.Errorf("failed to scan occupancy: %w", err)
		}
		if o.Total > 0 {
			o.Rate = float64(o.Active) / float64(o.Total)
		}
		occupancies = append(occupancies, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return occupancies, nil
}
