package service

import (
	"context"

	"roomdesk/internal/domain"
	"roomdesk/internal/models"

	"github.com/rs/zerolog"
)

// UserService keeps the user directory.
type UserService struct {
	repo   domain.Repository
	logger *zerolog.Logger
}

func NewUserService(repo domain.Repository, logger *zerolog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

// RegisterUser inserts or refreshes a user record.
func (s *UserService) RegisterUser(ctx context.Context, user *models.User) error {
	if err := s.repo.CreateOrUpdateUser(ctx, user); err != nil {
		return err
	}
	s.logger.Debug().Int64("user_id", user.ID).Str("role", user.Role).Msg("user registered")
	return nil
}

func (s *UserService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.repo.GetUser(ctx, id)
}

func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.repo.ListUsers(ctx)
}
