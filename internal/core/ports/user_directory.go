package ports

import (
	"context"

	"github.com/adminhub/identity-service/internal/core/domain"
)

// UserDirectory is the persistence boundary for user records. The directory
// owns the uniqueness constraint on usernames: Create is atomic-or-fails and
// reports a taken username as domain.ErrUserExists. Lookups that miss return
// domain.ErrUserNotFound; any other failure wraps
// domain.ErrDirectoryUnavailable.
type UserDirectory interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
}
