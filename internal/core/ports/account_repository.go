package ports

import (
	"context"

	"github.com/inkpress/blog-platform/internal/core/domain"
)

// AccountRepository defines the persistence interface for user accounts.
// FindByEmail returns the record including the password hash (needed for
// login verification); FindByID is used for profile reads.
type AccountRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}
