// internal/core/services/user_service_test.go
package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/acrelle/supplytrack-be/internal/core/domain"
	"github.com/acrelle/supplytrack-be/internal/core/services"
	"github.com/acrelle/supplytrack-be/internal/pkg/auth"
	"github.com/acrelle/supplytrack-be/test/helpers"
	"github.com/acrelle/supplytrack-be/test/mocks"
)

func newUserService(t *testing.T) (*services.UserService, *mocks.MockUserRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockUserRepository(ctrl)
	return services.NewUserService(repo, helpers.TestLogger()), repo
}

func TestUserService_Register(t *testing.T) {
	tests := []struct {
		name          string
		user          *domain.User
		password      string
		setupMocks    func(*mocks.MockUserRepository)
		expectedError bool
		sentinel      error
		errorContains string
	}{
		{
			name:     "successful_registration_hashes_password",
			user:     helpers.CreateTestUser(),
			password: "secret-password-1",
			setupMocks: func(m *mocks.MockUserRepository) {
				m.EXPECT().FindByEmail(gomock.Any(), "worker@supplytrack.test").Return(nil, nil)
				m.EXPECT().
					Save(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, u *domain.User) error {
						assert.NotEmpty(t, u.PasswordHash)
						assert.NotEqual(t, "secret-password-1", u.PasswordHash)
						assert.True(t, auth.CheckPassword(u.PasswordHash, "secret-password-1"))
						assert.True(t, u.IsActive)
						return nil
					})
			},
		},
		{
			name: "email_is_normalized_before_lookup",
			user: helpers.CreateTestUser(func(u *domain.User) {
				u.Email = "  Worker@SupplyTrack.Test "
			}),
			password: "secret-password-1",
			setupMocks: func(m *mocks.MockUserRepository) {
				m.EXPECT().FindByEmail(gomock.Any(), "worker@supplytrack.test").Return(nil, nil)
				m.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:     "duplicate_email_refused",
			user:     helpers.CreateTestUser(),
			password: "secret-password-1",
			setupMocks: func(m *mocks.MockUserRepository) {
				m.EXPECT().FindByEmail(gomock.Any(), "worker@supplytrack.test").
					Return(helpers.CreateTestUser(), nil)
			},
			expectedError: true,
			sentinel:      services.ErrEmailTaken,
		},
		{
			name: "invalid_email_rejected",
			user: helpers.CreateTestUser(func(u *domain.User) {
				u.Email = "not-an-email"
			}),
			password:      "secret-password-1",
			setupMocks:    func(m *mocks.MockUserRepository) {},
			expectedError: true,
			errorContains: "invalid email address",
		},
		{
			name: "unknown_role_rejected",
			user: helpers.CreateTestUser(func(u *domain.User) {
				u.Role = "superuser"
			}),
			password:      "secret-password-1",
			setupMocks:    func(m *mocks.MockUserRepository) {},
			expectedError: true,
			errorContains: "invalid role",
		},
		{
			name:     "short_password_rejected",
			user:     helpers.CreateTestUser(),
			password: "short",
			setupMocks: func(m *mocks.MockUserRepository) {
				m.EXPECT().FindByEmail(gomock.Any(), "worker@supplytrack.test").Return(nil, nil)
			},
			expectedError: true,
			errorContains: "validation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repo := newUserService(t)
			tt.setupMocks(repo)

			err := service.Register(context.Background(), tt.user, tt.password)

			if tt.expectedError {
				require.Error(t, err)
				if tt.sentinel != nil {
					assert.ErrorIs(t, err, tt.sentinel)
				}
				if tt.errorContains != "" {
					assert.Contains(t, err.Error(), tt.errorContains)
				}
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestUserService_Authenticate(t *testing.T) {
	password := "correct-horse-battery"
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)

	tests := []struct {
		name       string
		email      string
		password   string
		setupMocks func(*mocks.MockUserRepository)
		wantErr    error
	}{
		{
			name:     "valid_credentials",
			email:    "worker@supplytrack.test",
			password: password,
			setupMocks: func(m *mocks.MockUserRepository) {
				m.EXPECT().FindByEmail(gomock.Any(), "worker@supplytrack.test").
					Return(helpers.CreateTestUser(func(u *domain.User) {
						u.PasswordHash = hash
					}), nil)
			},
		},
		{
			name:     "unknown_account_and_wrong_password_share_an_error",
			email:    "ghost@supplytrack.test",
			password: password,
			setupMocks: func(m *mocks.MockUserRepository) {
				m.EXPECT().FindByEmail(gomock.Any(), "ghost@supplytrack.test").Return(nil, nil)
			},
			wantErr: services.ErrInvalidCredentials,
		},
		{
			name:     "wrong_password",
			email:    "worker@supplytrack.test",
			password: "wrong-password-123",
			setupMocks: func(m *mocks.MockUserRepository) {
				m.EXPECT().FindByEmail(gomock.Any(), "worker@supplytrack.test").
					Return(helpers.CreateTestUser(func(u *domain.User) {
						u.PasswordHash = hash
					}), nil)
			},
			wantErr: services.ErrInvalidCredentials,
		},
		{
			name:     "suspended_account_refused_after_password_check",
			email:    "worker@supplytrack.test",
			password: password,
			setupMocks: func(m *mocks.MockUserRepository) {
				m.EXPECT().FindByEmail(gomock.Any(), "worker@supplytrack.test").
					Return(helpers.CreateTestUser(func(u *domain.User) {
						u.PasswordHash = hash
						u.IsActive = false
					}), nil)
			},
			wantErr: services.ErrAccountSuspended,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repo := newUserService(t)
			tt.setupMocks(repo)

			user, err := service.Authenticate(context.Background(), tt.email, tt.password)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				require.NotNil(t, user)
			}
		})
	}
}

func TestUserService_Update(t *testing.T) {
	t.Run("demoting_last_admin_is_refused", func(t *testing.T) {
		service, repo := newUserService(t)
		admin := helpers.CreateTestUser(func(u *domain.User) {
			u.Role = domain.RoleAdmin
		})
		repo.EXPECT().FindByID(gomock.Any(), admin.ID).Return(admin, nil)
		repo.EXPECT().CountActiveAdmins(gomock.Any()).Return(int64(1), nil)

		update := helpers.CreateTestUser(func(u *domain.User) {
			u.Role = domain.RoleWorker
		})
		err := service.Update(context.Background(), admin.ID, update, "")
		require.Error(t, err)
		assert.ErrorIs(t, err, services.ErrLastAdmin)
	})

	t.Run("demotion_allowed_with_another_admin_left", func(t *testing.T) {
		service, repo := newUserService(t)
		admin := helpers.CreateTestUser(func(u *domain.User) {
			u.Role = domain.RoleAdmin
			u.PasswordHash = "stored-hash"
		})
		repo.EXPECT().FindByID(gomock.Any(), admin.ID).Return(admin, nil)
		repo.EXPECT().CountActiveAdmins(gomock.Any()).Return(int64(2), nil)
		repo.EXPECT().
			Update(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, u *domain.User) error {
				// Empty password keeps the stored hash.
				assert.Equal(t, "stored-hash", u.PasswordHash)
				assert.Equal(t, domain.RoleQAWorker, u.Role)
				return nil
			})

		update := helpers.CreateTestUser(func(u *domain.User) {
			u.Role = domain.RoleQAWorker
		})
		err := service.Update(context.Background(), admin.ID, update, "")
		require.NoError(t, err)
	})

	t.Run("new_password_is_rehashed", func(t *testing.T) {
		service, repo := newUserService(t)
		worker := helpers.CreateTestUser(func(u *domain.User) {
			u.PasswordHash = "old-hash"
		})
		repo.EXPECT().FindByID(gomock.Any(), worker.ID).Return(worker, nil)
		repo.EXPECT().
			Update(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, u *domain.User) error {
				assert.True(t, auth.CheckPassword(u.PasswordHash, "brand-new-password"))
				return nil
			})

		err := service.Update(context.Background(), worker.ID, helpers.CreateTestUser(), "brand-new-password")
		require.NoError(t, err)
	})
}

func TestUserService_Delete(t *testing.T) {
	t.Run("self_delete_is_refused", func(t *testing.T) {
		service, _ := newUserService(t)
		id := uuid.New()

		err := service.Delete(context.Background(), id, id)
		require.Error(t, err)
		assert.ErrorIs(t, err, services.ErrSelfDelete)
	})

	t.Run("last_active_admin_cannot_be_deleted", func(t *testing.T) {
		service, repo := newUserService(t)
		admin := helpers.CreateTestUser(func(u *domain.User) {
			u.Role = domain.RoleAdmin
		})
		repo.EXPECT().FindByID(gomock.Any(), admin.ID).Return(admin, nil)
		repo.EXPECT().CountActiveAdmins(gomock.Any()).Return(int64(1), nil)

		err := service.Delete(context.Background(), uuid.New(), admin.ID)
		require.Error(t, err)
		assert.ErrorIs(t, err, services.ErrLastAdmin)
	})

	t.Run("inactive_admin_is_deletable", func(t *testing.T) {
		service, repo := newUserService(t)
		admin := helpers.CreateTestUser(func(u *domain.User) {
			u.Role = domain.RoleAdmin
			u.IsActive = false
		})
		repo.EXPECT().FindByID(gomock.Any(), admin.ID).Return(admin, nil)
		repo.EXPECT().Delete(gomock.Any(), admin.ID).Return(nil)

		err := service.Delete(context.Background(), uuid.New(), admin.ID)
		require.NoError(t, err)
	})

	t.Run("missing_user_is_not_found", func(t *testing.T) {
		service, repo := newUserService(t)
		id := uuid.New()
		repo.EXPECT().FindByID(gomock.Any(), id).Return(nil, nil)

		err := service.Delete(context.Background(), uuid.New(), id)
		require.Error(t, err)
		assert.ErrorIs(t, err, services.ErrNotFound)
	})

	t.Run("repository_delete_error_propagates", func(t *testing.T) {
		service, repo := newUserService(t)
		worker := helpers.CreateTestUser()
		repo.EXPECT().FindByID(gomock.Any(), worker.ID).Return(worker, nil)
		repo.EXPECT().Delete(gomock.Any(), worker.ID).
			Return(errors.New("foreign key violation"))

		err := service.Delete(context.Background(), uuid.New(), worker.ID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to delete user")
	})
}
