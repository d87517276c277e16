package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"roomdesk/internal/models"
	"roomdesk/internal/scheduler"
)

const bookingColumns = `id, room_id, room_name, user_id, user_name, debut, fin,
                 titre, description, is_cancelled, created_at, updated_at, version`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*models.Booking, error) {
	b := &models.Booking{}
	var description sql.NullString
	err := row.Scan(
		&b.ID, &b.RoomID, &b.RoomName, &b.UserID, &b.UserName,
		&b.Start, &b.End, &b.Title, &description, &b.IsCancelled,
		&b.CreatedAt, &b.UpdatedAt, &b.Version,
	)
	if err != nil {
		return nil, err
	}
	b.Description = description.String
	b.Start = b.Start.UTC()
	b.End = b.End.UTC()
	return b, nil
}

func scanBookings(rows *sql.Rows) ([]*models.Booking, error) {
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	b, err := scanBooking(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return b, nil
}

// GetOverlapping returns the active bookings of a room whose interval
// shares any instant with iv, ordered by start. Half-open semantics: a
// booking ending exactly at iv.Start is not returned.
func (db *DB) GetOverlapping(ctx context.Context, roomID int64, iv models.Interval, excludeID int64) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + `
              FROM bookings
              WHERE room_id = ? AND is_cancelled = 0 AND debut < ? AND fin > ? AND id != ?
              ORDER BY debut ASC`
	rows, err := db.QueryContext(ctx, query, roomID, iv.End, iv.Start, excludeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get overlapping bookings: %w", err)
	}
	return scanBookings(rows)
}

func overlappingTx(ctx context.Context, tx *sql.Tx, roomID int64, iv models.Interval, excludeID int64) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + `
              FROM bookings
              WHERE room_id = ? AND is_cancelled = 0 AND debut < ? AND fin > ? AND id != ?
              ORDER BY debut ASC`
	rows, err := tx.QueryContext(ctx, query, roomID, iv.End, iv.Start, excludeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get overlapping bookings in tx: %w", err)
	}
	return scanBookings(rows)
}

// CreateBookingWithLock runs the admission check and the insert inside one
// transaction, so two racing proposals for the same room cannot both pass.
// On rejection it returns a *ConflictError and leaves the ledger untouched.
func (db *DB) CreateBookingWithLock(ctx context.Context, booking *models.Booking) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	existing, err := overlappingTx(ctx, tx, booking.RoomID, booking.Interval(), 0)
	if err != nil {
		return err
	}
	if decision := scheduler.Check(booking.Interval(), existing, 0); !decision.Admitted {
		return &ConflictError{Conflicting: decision.Conflicting}
	}

	query := `INSERT INTO bookings (
				room_id, room_name, user_id, user_name, debut, fin,
				titre, description, is_cancelled, created_at, updated_at, version
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?, 1)`
	now := time.Now().UTC()
	result, err := tx.ExecContext(ctx, query,
		booking.RoomID,
		booking.RoomName,
		booking.UserID,
		booking.UserName,
		booking.Start,
		booking.End,
		booking.Title,
		booking.Description,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert booking in tx: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id in tx: %w", err)
	}
	booking.ID = id
	booking.IsCancelled = false
	booking.CreatedAt = now
	booking.UpdatedAt = now
	booking.Version = 1

	return tx.Commit()
}

// UpdateBookingWithLock re-runs the admission check for the booking's
// (possibly new) room, excluding the booking itself, and applies a
// versioned update in the same transaction.
func (db *DB) UpdateBookingWithLock(ctx context.Context, booking *models.Booking, fromVersion int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	existing, err := overlappingTx(ctx, tx, booking.RoomID, booking.Interval(), booking.ID)
	if err != nil {
		return err
	}
	if decision := scheduler.Check(booking.Interval(), existing, booking.ID); !decision.Admitted {
		return &ConflictError{Conflicting: decision.Conflicting}
	}

	query := `UPDATE bookings
              SET room_id = ?, room_name = ?, debut = ?, fin = ?, titre = ?, description = ?,
                  version = version + 1, updated_at = ?
              WHERE id = ? AND version = ? AND is_cancelled = 0`
	now := time.Now().UTC()
	result, err := tx.ExecContext(ctx, query,
		booking.RoomID,
		booking.RoomName,
		booking.Start,
		booking.End,
		booking.Title,
		booking.Description,
		now,
		booking.ID,
		fromVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to update booking in tx: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrConcurrentModification
	}

	booking.UpdatedAt = now
	booking.Version = fromVersion + 1

	return tx.Commit()
}

// CancelBooking flips the cancellation flag. The row is kept for history.
func (db *DB) CancelBooking(ctx context.Context, id, fromVersion int64) error {
	query := `UPDATE bookings SET is_cancelled = 1, version = version + 1, updated_at = ?
              WHERE id = ? AND version = ? AND is_cancelled = 0`
	result, err := db.ExecContext(ctx, query, time.Now().UTC(), id, fromVersion)
	if err != nil {
		return fmt.Errorf("failed to cancel booking: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrConcurrentModification
	}
	return nil
}

// GetRoomBookingsForDay returns the active bookings overlapping the
// calendar day containing date, ordered by start.
func (db *DB) GetRoomBookingsForDay(ctx context.Context, roomID int64, date time.Time) ([]*models.Booking, error) {
	return db.GetOverlapping(ctx, roomID, models.Day(date), 0)
}

// ListUpcoming returns active bookings starting at or after now. A zero
// userID lists every user's bookings (admin view).
func (db *DB) ListUpcoming(ctx context.Context, userID int64, now time.Time) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + `
              FROM bookings
              WHERE is_cancelled = 0 AND debut >= ? AND (? = 0 OR user_id = ?)
              ORDER BY debut ASC`
	rows, err := db.QueryContext(ctx, query, now.UTC(), userID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming bookings: %w", err)
	}
	return scanBookings(rows)
}

// ListPast returns bookings that have started or were cancelled, newest
// first. The two conditions deliberately overlap: a future-dated cancelled
// booking appears here as well as in ListCancelled.
func (db *DB) ListPast(ctx context.Context, userID int64, now time.Time) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + `
              FROM bookings
              WHERE (debut < ? OR is_cancelled = 1) AND (? = 0 OR user_id = ?)
              ORDER BY debut DESC`
	rows, err := db.QueryContext(ctx, query, now.UTC(), userID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list past bookings: %w", err)
	}
	return scanBookings(rows)
}

// ListCancelled returns soft-deleted bookings, newest first.
func (db *DB) ListCancelled(ctx context.Context, userID int64) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + `
              FROM bookings
              WHERE is_cancelled = 1 AND (? = 0 OR user_id = ?)
              ORDER BY debut DESC`
	rows, err := db.QueryContext(ctx, query, userID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cancelled bookings: %w", err)
	}
	return scanBookings(rows)
}

// GetBookingsByDateRange returns all bookings (any state) starting within
// [start, end), ordered by start. Used by exports and reporting.
func (db *DB) GetBookingsByDateRange(ctx context.Context, start, end time.Time) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + `
              FROM bookings
              WHERE debut >= ? AND debut < ?
              ORDER BY debut ASC, created_at ASC`
	rows, err := db.QueryContext(ctx, query, start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings by date range: %w", err)
	}
	return scanBookings(rows)
}

// RoomHasUnfinishedBookings reports whether the room owns any booking,
// cancelled or not, whose end instant is still in the future.
func (db *DB) RoomHasUnfinishedBookings(ctx context.Context, roomID int64, now time.Time) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM bookings WHERE room_id = ? AND fin > ?)`
	var exists bool
	if err := db.QueryRowContext(ctx, query, roomID, now.UTC()).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check room bookings: %w", err)
	}
	return exists, nil
}
