package ports

import (
	"context"

	"github.com/credjud/marketplace/internal/core/domain"
)

// UserRepository defines the persistence operations for marketplace users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	// UpdateRole sets the role of the user registered under email and returns
	// the updated user.
	UpdateRole(ctx context.Context, email, role string) (*domain.User, error)
	Count(ctx context.Context) (int64, error)
}
