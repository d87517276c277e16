package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"roomdesk/internal/models"
)

const roomColumns = `id, name, capacity, surface, equipment, created_at, updated_at`

func scanRoom(row rowScanner) (*models.Room, error) {
	r := &models.Room{}
	var surface sql.NullFloat64
	var equipment sql.NullString
	err := row.Scan(&r.ID, &r.Name, &r.Capacity, &surface, &equipment, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	r.Surface = surface.Float64
	r.Equipment = equipment.String
	return r, nil
}

func (db *DB) CreateRoom(ctx context.Context, room *models.Room) error {
	query := `INSERT INTO rooms (name, capacity, surface, equipment, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?)`
	now := time.Now().UTC()
	result, err := db.ExecContext(ctx, query, room.Name, room.Capacity, room.Surface, room.Equipment, now, now)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateRoomName
		}
		return fmt.Errorf("failed to create room: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	room.ID = id
	room.CreatedAt = now
	room.UpdatedAt = now
	return nil
}

func (db *DB) UpdateRoom(ctx context.Context, room *models.Room) error {
	query := `UPDATE rooms SET name = ?, capacity = ?, surface = ?, equipment = ?, updated_at = ? WHERE id = ?`
	result, err := db.ExecContext(ctx, query, room.Name, room.Capacity, room.Surface, room.Equipment, time.Now().UTC(), room.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateRoomName
		}
		return fmt.Errorf("failed to update room: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrRoomNotFound
	}

	// Имя комнаты денормализовано в бронированиях
	_, err = db.ExecContext(ctx, `UPDATE bookings SET room_name = ? WHERE room_id = ?`, room.Name, room.ID)
	if err != nil {
		return fmt.Errorf("failed to propagate room name: %w", err)
	}
	return nil
}

// DeleteRoom removes a room unless it owns any booking, cancelled or not,
// that has not ended yet.
func (db *DB) DeleteRoom(ctx context.Context, id int64, now time.Time) error {
	busy, err := db.RoomHasUnfinishedBookings(ctx, id, now)
	if err != nil {
		return err
	}
	if busy {
		return ErrRoomHasUpcoming
	}

	result, err := db.ExecContext(ctx, `DELETE FROM rooms WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrRoomNotFound
	}
	return nil
}

func (db *DB) GetRoom(ctx context.Context, id int64) (*models.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE id = ?`
	room, err := scanRoom(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	return room, nil
}

func (db *DB) GetRoomByName(ctx context.Context, name string) (*models.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE name = ?`
	room, err := scanRoom(db.QueryRowContext(ctx, query, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get room by name: %w", err)
	}
	return room, nil
}

func (db *DB) ListRooms(ctx context.Context) ([]*models.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms ORDER BY name ASC`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	defer rows.Close()

	var rooms []*models.Room
	for rows.Next() {
		r, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}
		rooms = append(rooms, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rooms, nil
}

// SeedRooms upserts the configured room list by name at startup.
func (db *DB) SeedRooms(ctx context.Context, rooms []models.Room) error {
	query := `INSERT INTO rooms (name, capacity, surface, equipment, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?)
              ON CONFLICT(name) DO UPDATE SET
                  capacity = excluded.capacity,
                  surface = excluded.surface,
                  equipment = excluded.equipment,
                  updated_at = excluded.updated_at`
	now := time.Now().UTC()
	for _, room := range rooms {
		if _, err := db.ExecContext(ctx, query, room.Name, room.Capacity, room.Surface, room.Equipment, now, now); err != nil {
			return fmt.Errorf("failed to seed room %q: %w", room.Name, err)
		}
	}
	return nil
}

func (db *DB) CountRooms(ctx context.Context) (int64, error) {
	var count int64
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM rooms`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count rooms: %w", err)
	}
	return count, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
