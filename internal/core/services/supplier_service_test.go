// internal/core/services/supplier_service_test.go
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
	"github.com/acrelle/supplytrack-be/test/helpers"
	"github.com/acrelle/supplytrack-be/test/mocks"
)

type supplierMocks struct {
	repo      *mocks.MockSupplierRepository
	materials *mocks.MockMaterialRepository
	batches   *mocks.MockBatchRepository
	cache     *mocks.MockCacheRepository
}

func newSupplierService(t *testing.T) (*services.SupplierService, *supplierMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := &supplierMocks{
		repo:      mocks.NewMockSupplierRepository(ctrl),
		materials: mocks.NewMockMaterialRepository(ctrl),
		batches:   mocks.NewMockBatchRepository(ctrl),
		cache:     mocks.NewMockCacheRepository(ctrl),
	}
	service := services.NewSupplierService(m.repo, m.materials, m.batches, m.cache, helpers.TestLogger())
	return service, m
}

func TestSupplierService_Create(t *testing.T) {
	tests := []struct {
		name          string
		supplier      *domain.Supplier
		setupMocks    func(*supplierMocks)
		expectedError bool
		errorContains string
	}{
		{
			name:     "successful_create",
			supplier: helpers.CreateTestSupplier(),
			setupMocks: func(m *supplierMocks) {
				m.repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
				m.cache.EXPECT().DeletePattern(gomock.Any(), "dash:*").Return(nil)
			},
		},
		{
			name: "assigns_id_and_defaults_status_to_pending",
			supplier: helpers.CreateTestSupplier(func(s *domain.Supplier) {
				s.ID = uuid.Nil
				s.Status = ""
			}),
			setupMocks: func(m *supplierMocks) {
				m.repo.EXPECT().
					Save(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, s *domain.Supplier) error {
						assert.NotEqual(t, uuid.Nil, s.ID)
						assert.Equal(t, domain.SupplierPending, s.Status)
						return nil
					})
				m.cache.EXPECT().DeletePattern(gomock.Any(), "dash:*").Return(nil)
			},
		},
		{
			name: "validation_fails_for_missing_name",
			supplier: helpers.CreateTestSupplier(func(s *domain.Supplier) {
				s.Name = "  "
			}),
			setupMocks:    func(m *supplierMocks) {},
			expectedError: true,
			errorContains: "name is required",
		},
		{
			name: "validation_fails_for_unknown_status",
			supplier: helpers.CreateTestSupplier(func(s *domain.Supplier) {
				s.Status = "Blocked"
			}),
			setupMocks:    func(m *supplierMocks) {},
			expectedError: true,
			errorContains: "invalid status",
		},
		{
			name: "validation_fails_for_unnamed_certification",
			supplier: helpers.CreateTestSupplier(func(s *domain.Supplier) {
				s.Certifications = []domain.Certification{{Name: ""}}
			}),
			setupMocks:    func(m *supplierMocks) {},
			expectedError: true,
			errorContains: "certification 0: name is required",
		},
		{
			name:     "repository_error_propagates",
			supplier: helpers.CreateTestSupplier(),
			setupMocks: func(m *supplierMocks) {
				m.repo.EXPECT().Save(gomock.Any(), gomock.Any()).
					Return(errors.New("unique constraint violation"))
			},
			expectedError: true,
			errorContains: "failed to save supplier",
		},
		{
			name:     "cache_invalidation_failure_is_tolerated",
			supplier: helpers.CreateTestSupplier(),
			setupMocks: func(m *supplierMocks) {
				m.repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
				m.cache.EXPECT().DeletePattern(gomock.Any(), "dash:*").
					Return(errors.New("redis down"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := newSupplierService(t)
			tt.setupMocks(m)

			err := service.Create(context.Background(), tt.supplier)

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

func TestSupplierService_GetByID(t *testing.T) {
	t.Run("returns_supplier", func(t *testing.T) {
		service, m := newSupplierService(t)
		expected := helpers.CreateTestSupplier()
		m.repo.EXPECT().FindByID(gomock.Any(), expected.ID).Return(expected, nil)

		supplier, err := service.GetByID(context.Background(), expected.ID)
		require.NoError(t, err)
		assert.Equal(t, expected, supplier)
	})

	t.Run("nil_result_maps_to_not_found", func(t *testing.T) {
		service, m := newSupplierService(t)
		id := uuid.New()
		m.repo.EXPECT().FindByID(gomock.Any(), id).Return(nil, nil)

		_, err := service.GetByID(context.Background(), id)
		require.Error(t, err)
		assert.ErrorIs(t, err, services.ErrNotFound)
	})
}

func TestSupplierService_Delete(t *testing.T) {
	tests := []struct {
		name          string
		setupMocks    func(*supplierMocks, uuid.UUID)
		expectedError bool
		sentinel      error
		errorContains string
	}{
		{
			name: "successful_delete_with_no_references",
			setupMocks: func(m *supplierMocks, id uuid.UUID) {
				m.repo.EXPECT().Exists(gomock.Any(), id).Return(true, nil)
				m.materials.EXPECT().CountBySupplier(gomock.Any(), id).Return(int64(0), nil)
				m.batches.EXPECT().CountBySupplier(gomock.Any(), id).Return(int64(0), nil)
				m.repo.EXPECT().Delete(gomock.Any(), id).Return(nil)
				m.cache.EXPECT().DeletePattern(gomock.Any(), "dash:*").Return(nil)
			},
		},
		{
			name: "missing_supplier_is_not_found",
			setupMocks: func(m *supplierMocks, id uuid.UUID) {
				m.repo.EXPECT().Exists(gomock.Any(), id).Return(false, nil)
			},
			expectedError: true,
			sentinel:      services.ErrNotFound,
		},
		{
			name: "refused_while_materials_and_batches_reference_it",
			setupMocks: func(m *supplierMocks, id uuid.UUID) {
				m.repo.EXPECT().Exists(gomock.Any(), id).Return(true, nil)
				m.materials.EXPECT().CountBySupplier(gomock.Any(), id).Return(int64(2), nil)
				m.batches.EXPECT().CountBySupplier(gomock.Any(), id).Return(int64(1), nil)
			},
			expectedError: true,
			sentinel:      services.ErrSupplierInUse,
			errorContains: "2 raw material(s) and 1 batch(es)",
		},
		{
			name: "refused_with_materials_only",
			setupMocks: func(m *supplierMocks, id uuid.UUID) {
				m.repo.EXPECT().Exists(gomock.Any(), id).Return(true, nil)
				m.materials.EXPECT().CountBySupplier(gomock.Any(), id).Return(int64(3), nil)
				m.batches.EXPECT().CountBySupplier(gomock.Any(), id).Return(int64(0), nil)
			},
			expectedError: true,
			sentinel:      services.ErrSupplierInUse,
			errorContains: "3 raw material(s)",
		},
		{
			name: "reference_count_error_propagates",
			setupMocks: func(m *supplierMocks, id uuid.UUID) {
				m.repo.EXPECT().Exists(gomock.Any(), id).Return(true, nil)
				m.materials.EXPECT().CountBySupplier(gomock.Any(), id).
					Return(int64(0), errors.New("query timeout"))
			},
			expectedError: true,
			errorContains: "failed to count material references",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := newSupplierService(t)
			id := uuid.New()
			tt.setupMocks(m, id)

			err := service.Delete(context.Background(), id)

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
