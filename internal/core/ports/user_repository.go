// internal/core/ports/user_repository.go
package ports

import (
	"context"

	"github.com/acrelle/supplytrack-be/internal/core/domain"
	"github.com/google/uuid"
)

// UserListParams holds filters for listing users
type UserListParams struct {
	Search string // matches name or email
	Role   string
}

// UserRepository defines the persistence port for user accounts.
type UserRepository interface {
	Save(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindAll(ctx context.Context, params UserListParams) ([]domain.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountActiveAdmins(ctx context.Context) (int64, error)
}
