package service

import (
	"context"

	"roomdesk/internal/database"
	"roomdesk/internal/domain"
	"roomdesk/internal/models"

	"github.com/rs/zerolog"
)

// RoomService manages the room directory. Mutations are admin-only.
type RoomService struct {
	repo   domain.Repository
	clock  domain.Clock
	logger *zerolog.Logger
}

func NewRoomService(repo domain.Repository, clock domain.Clock, logger *zerolog.Logger) *RoomService {
	if clock == nil {
		clock = SystemClock{}
	}
	return &RoomService{repo: repo, clock: clock, logger: logger}
}

func (s *RoomService) requireAdmin(ctx context.Context, callerID int64) (*models.User, error) {
	caller, err := s.repo.GetUser(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() {
		return nil, database.ErrForbidden
	}
	return caller, nil
}

func (s *RoomService) CreateRoom(ctx context.Context, callerID int64, room *models.Room) error {
	if _, err := s.requireAdmin(ctx, callerID); err != nil {
		return err
	}
	if err := s.repo.CreateRoom(ctx, room); err != nil {
		return err
	}
	s.logger.Info().Int64("room_id", room.ID).Str("name", room.Name).Msg("room created")
	return nil
}

// UpdateRoom also propagates the new name to existing bookings.
func (s *RoomService) UpdateRoom(ctx context.Context, callerID int64, room *models.Room) error {
	if _, err := s.requireAdmin(ctx, callerID); err != nil {
		return err
	}
	if err := s.repo.UpdateRoom(ctx, room); err != nil {
		return err
	}
	s.logger.Info().Int64("room_id", room.ID).Str("name", room.Name).Msg("room updated")
	return nil
}

// DeleteRoom refuses while the room still has bookings that have not ended,
// whatever their cancellation state.
func (s *RoomService) DeleteRoom(ctx context.Context, callerID, roomID int64) error {
	if _, err := s.requireAdmin(ctx, callerID); err != nil {
		return err
	}
	if err := s.repo.DeleteRoom(ctx, roomID, s.clock.Now()); err != nil {
		return err
	}
	s.logger.Info().Int64("room_id", roomID).Msg("room deleted")
	return nil
}

func (s *RoomService) GetRoom(ctx context.Context, id int64) (*models.Room, error) {
	return s.repo.GetRoom(ctx, id)
}

func (s *RoomService) ListRooms(ctx context.Context) ([]*models.Room, error) {
	return s.repo.ListRooms(ctx)
}
