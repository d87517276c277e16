package service

import (
	"context"

	"roomdesk/internal/database"
	"roomdesk/internal/domain"
	"roomdesk/internal/models"

	"github.com/rs/zerolog"
)

// StatsService aggregates admin dashboards. All methods are admin-only.
type StatsService struct {
	repo   domain.Repository
	logger *zerolog.Logger
}

func NewStatsService(repo domain.Repository, logger *zerolog.Logger) *StatsService {
	return &StatsService{repo: repo, logger: logger}
}

func (s *StatsService) requireAdmin(ctx context.Context, callerID int64) error {
	caller, err := s.repo.GetUser(ctx, callerID)
	if err != nil {
		return err
	}
	if !caller.IsAdmin() {
		return database.ErrForbidden
	}
	return nil
}

// Overview returns global entity counts.
func (s *StatsService) Overview(ctx context.Context, callerID int64) (*models.StatsOverview, error) {
	if err := s.requireAdmin(ctx, callerID); err != nil {
		return nil, err
	}

	rooms, err := s.repo.CountRooms(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.repo.CountUsers(ctx)
	if err != nil {
		return nil, err
	}
	bookings, err := s.repo.CountBookings(ctx)
	if err != nil {
		return nil, err
	}
	cancelled, err := s.repo.CountCancelledBookings(ctx)
	if err != nil {
		return nil, err
	}

	return &models.StatsOverview{
		TotalRooms:     rooms,
		TotalUsers:     users,
		TotalBookings:  bookings,
		TotalCancelled: cancelled,
	}, nil
}

// WeekdayCounts returns active booking counts per room and weekday.
func (s *StatsService) WeekdayCounts(ctx context.Context, callerID int64) ([]*models.RoomWeekdayCount, error) {
	if err := s.requireAdmin(ctx, callerID); err != nil {
		return nil, err
	}
	return s.repo.WeekdayCounts(ctx)
}

// OccupancyRates returns per-room active/total ratios.
func (s *StatsService) OccupancyRates(ctx context.Context, callerID int64) ([]*models.RoomOccupancy, error) {
	if err := s.requireAdmin(ctx, callerID); err != nil {
		return nil, err
	}
	return s.repo.OccupancyRates(ctx)
}
