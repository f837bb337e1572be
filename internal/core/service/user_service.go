package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/credjud/marketplace/internal/core/domain"
	"github.com/credjud/marketplace/internal/core/ports"
)

// UserService implements the admin-only user operations.
type UserService struct {
	users    ports.UserRepository
	listings ports.ListingRepository
	logger   zerolog.Logger
}

func NewUserService(users ports.UserRepository, listings ports.ListingRepository, logger zerolog.Logger) *UserService {
	return &UserService{users: users, listings: listings, logger: logger}
}

func (s *UserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

// Promote grants the admin role to the user registered under email.
func (s *UserService) Promote(ctx context.Context, email string) (*domain.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", domain.ErrValidation)
	}

	user, err := s.users.UpdateRole(ctx, email, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("user promoted to admin")
	return user, nil
}

func (s *UserService) Dashboard(ctx context.Context) (*ports.Dashboard, error) {
	users, err := s.users.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	listings, err := s.listings.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count listings: %w", err)
	}
	reservations, err := s.listings.CountReservations(ctx)
	if err != nil {
		return nil, fmt.Errorf("count reservations: %w", err)
	}

	return &ports.Dashboard{Users: users, Listings: listings, Reservations: reservations}, nil
}
