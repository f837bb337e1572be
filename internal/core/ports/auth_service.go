package ports

import (
	"context"

	"github.com/credjud/marketplace/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}

// Dashboard holds the headline counts shown to administrators.
type Dashboard struct {
	Users        int64
	Listings     int64
	Reservations int64
}

// UserService covers the admin-only user management operations.
type UserService interface {
	ListUsers(ctx context.Context) ([]*domain.User, error)
	Promote(ctx context.Context, email string) (*domain.User, error)
	Dashboard(ctx context.Context) (*Dashboard, error)
}
