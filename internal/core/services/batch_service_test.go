// internal/core/services/batch_service_test.go
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
	"github.com/acrelle/supplytrack-be/internal/core/ports"
	"github.com/acrelle/supplytrack-be/internal/core/services"
	"github.com/acrelle/supplytrack-be/test/helpers"
	"github.com/acrelle/supplytrack-be/test/mocks"
)

func newBatchService(t *testing.T) (*services.BatchService, *mocks.MockBatchRepository, *mocks.MockCacheRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockBatchRepository(ctrl)
	cache := mocks.NewMockCacheRepository(ctrl)
	return services.NewBatchService(repo, cache, helpers.TestLogger()), repo, cache
}

func TestBatchService_Create(t *testing.T) {
	tests := []struct {
		name          string
		batch         *domain.Batch
		setupMocks    func(*mocks.MockBatchRepository, *mocks.MockCacheRepository)
		expectedError bool
		errorContains string
	}{
		{
			name:  "successful_create",
			batch: helpers.CreateTestBatch(),
			setupMocks: func(repo *mocks.MockBatchRepository, cache *mocks.MockCacheRepository) {
				repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
				cache.EXPECT().DeletePattern(gomock.Any(), "dash:*").Return(nil)
			},
		},
		{
			name: "defaults_status_axes_when_empty",
			batch: helpers.CreateTestBatch(func(b *domain.Batch) {
				b.Status = ""
				b.ApprovalStatus = ""
			}),
			setupMocks: func(repo *mocks.MockBatchRepository, cache *mocks.MockCacheRepository) {
				repo.EXPECT().
					Save(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, b *domain.Batch) error {
						assert.Equal(t, domain.BatchActive, b.Status)
						assert.Equal(t, domain.ApprovalPending, b.ApprovalStatus)
						return nil
					})
				cache.EXPECT().DeletePattern(gomock.Any(), "dash:*").Return(nil)
			},
		},
		{
			name: "validation_fails_for_missing_batch_number",
			batch: helpers.CreateTestBatch(func(b *domain.Batch) {
				b.BatchNumber = ""
			}),
			setupMocks:    func(*mocks.MockBatchRepository, *mocks.MockCacheRepository) {},
			expectedError: true,
			errorContains: "batch number is required",
		},
		{
			name: "validation_fails_for_missing_supplier",
			batch: helpers.CreateTestBatch(func(b *domain.Batch) {
				b.SupplierID = uuid.Nil
			}),
			setupMocks:    func(*mocks.MockBatchRepository, *mocks.MockCacheRepository) {},
			expectedError: true,
			errorContains: "source supplier is required",
		},
		{
			name:  "repository_error_propagates",
			batch: helpers.CreateTestBatch(),
			setupMocks: func(repo *mocks.MockBatchRepository, cache *mocks.MockCacheRepository) {
				repo.EXPECT().Save(gomock.Any(), gomock.Any()).
					Return(errors.New("duplicate key value"))
			},
			expectedError: true,
			errorContains: "failed to save batch",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repo, cache := newBatchService(t)
			tt.setupMocks(repo, cache)

			err := service.Create(context.Background(), tt.batch)

			if tt.expectedError {
				require.Error(t, err)
				if tt.errorContains != "" {
					assert.Contains(t, err.Error(), tt.errorContains)
				}
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestBatchService_Review(t *testing.T) {
	rejected := domain.ApprovalRejected
	notes := "contamination found during QA sampling"

	t.Run("rejection_with_notes", func(t *testing.T) {
		service, repo, cache := newBatchService(t)
		id := uuid.New()
		review := ports.BatchReview{ApprovalStatus: &rejected, Notes: &notes}

		reviewed := helpers.CreateTestBatch(func(b *domain.Batch) {
			b.ID = id
			b.ApprovalStatus = domain.ApprovalRejected
			b.Notes = notes
		})
		repo.EXPECT().UpdateReview(gomock.Any(), id, review).Return(reviewed, nil)
		cache.EXPECT().DeletePattern(gomock.Any(), "dash:*").Return(nil)

		batch, err := service.Review(context.Background(), id, review)
		require.NoError(t, err)
		assert.Equal(t, domain.ApprovalRejected, batch.ApprovalStatus)
		assert.Equal(t, notes, batch.Notes)
	})

	t.Run("invalid_approval_status_rejected", func(t *testing.T) {
		service, _, _ := newBatchService(t)
		bogus := domain.ApprovalStatus("Maybe")

		_, err := service.Review(context.Background(), uuid.New(),
			ports.BatchReview{ApprovalStatus: &bogus})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid approval status")
	})

	t.Run("missing_batch_is_not_found", func(t *testing.T) {
		service, repo, _ := newBatchService(t)
		id := uuid.New()
		repo.EXPECT().UpdateReview(gomock.Any(), id, gomock.Any()).Return(nil, nil)

		_, err := service.Review(context.Background(), id, ports.BatchReview{Notes: &notes})
		require.Error(t, err)
		assert.ErrorIs(t, err, services.ErrNotFound)
	})

	t.Run("notes_only_review_skips_status_validation", func(t *testing.T) {
		service, repo, cache := newBatchService(t)
		id := uuid.New()
		review := ports.BatchReview{Notes: &notes}

		repo.EXPECT().UpdateReview(gomock.Any(), id, review).
			Return(helpers.CreateTestBatch(), nil)
		cache.EXPECT().DeletePattern(gomock.Any(), "dash:*").Return(nil)

		_, err := service.Review(context.Background(), id, review)
		require.NoError(t, err)
	})
}
