// internal/core/services/user.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/acrelle/supplytrack-be/internal/core/domain"
	"github.com/acrelle/supplytrack-be/internal/core/ports"
	"github.com/acrelle/supplytrack-be/internal/pkg/auth"
)

// UserService handles employee account management and credential checks
type UserService struct {
	repo   ports.UserRepository
	logger *slog.Logger
}

// Statically assert that *UserService implements the UserService interface.
var _ ports.UserService = (*UserService)(nil)

// NewUserService creates a new user service
func NewUserService(repo ports.UserRepository, logger *slog.Logger) *UserService {
	return &UserService{
		repo:   repo,
		logger: logger.With(slog.String("service", "user")),
	}
}

// Register validates and stores a new user account with a hashed password
func (s *UserService) Register(ctx context.Context, user *domain.User, password string) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	email := strings.ToLower(strings.TrimSpace(user.Email))
	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return fmt.Errorf("%s: %w", email, ErrEmailTaken)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	user.PasswordHash = hash
	user.IsActive = true
	user.PrepareForStorage()

	if err := s.repo.Save(ctx, user); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", user.ID.String()),
		slog.String("role", string(user.Role)))
	return nil
}

// Authenticate verifies the credentials and returns the matching account.
// The same error comes back for a missing account and a wrong password.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountSuspended
	}

	s.logger.InfoContext(ctx, "user authenticated",
		slog.String("user_id", user.ID.String()))
	return user, nil
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	return user, nil
}

// List retrieves users matching the given filters
func (s *UserService) List(ctx context.Context, params ports.UserListParams) ([]domain.User, error) {
	users, err := s.repo.FindAll(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Update validates and stores changes to an existing user. An empty password
// leaves the stored hash untouched.
func (s *UserService) Update(ctx context.Context, id uuid.UUID, user *domain.User, password string) error {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	user.ID = id
	if err := user.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if password != "" {
		hash, err := auth.HashPassword(password)
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		user.PasswordHash = hash
	} else {
		user.PasswordHash = current.PasswordHash
	}

	// Demoting or suspending the only admin would lock everyone out.
	if current.Role == domain.RoleAdmin && (user.Role != domain.RoleAdmin || !user.IsActive) {
		admins, err := s.repo.CountActiveAdmins(ctx)
		if err != nil {
			return fmt.Errorf("failed to count admins: %w", err)
		}
		if admins <= 1 {
			return ErrLastAdmin
		}
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.InfoContext(ctx, "user updated",
		slog.String("user_id", id.String()))
	return nil
}

// Delete removes a user account. Actors cannot delete themselves, and the
// last active admin cannot be removed.
func (s *UserService) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	if actorID == id {
		return ErrSelfDelete
	}

	user, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if user.Role == domain.RoleAdmin && user.IsActive {
		admins, err := s.repo.CountActiveAdmins(ctx)
		if err != nil {
			return fmt.Errorf("failed to count admins: %w", err)
		}
		if admins <= 1 {
			return ErrLastAdmin
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.logger.InfoContext(ctx, "user deleted",
		slog.String("user_id", id.String()),
		slog.String("actor_id", actorID.String()))
	return nil
}
