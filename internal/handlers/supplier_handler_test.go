// internal/handlers/supplier_handler_test.go
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/acrelle/supplytrack-be/internal/core/domain"
	"github.com/acrelle/supplytrack-be/internal/core/ports"
	"github.com/acrelle/supplytrack-be/internal/core/services"
	"github.com/acrelle/supplytrack-be/internal/handlers"
	"github.com/acrelle/supplytrack-be/test/helpers"
	"github.com/acrelle/supplytrack-be/test/mocks"
)

func TestSupplierHandler_Get(t *testing.T) {
	testSupplier := helpers.CreateTestSupplier()

	tests := []struct {
		name           string
		supplierID     string
		setupMocks     func(*mocks.MockSupplierService)
		expectedStatus int
		validateBody   func(*testing.T, []byte)
	}{
		{
			name:       "successfully_retrieves_supplier",
			supplierID: testSupplier.ID.String(),
			setupMocks: func(m *mocks.MockSupplierService) {
				m.EXPECT().
					GetByID(gomock.Any(), testSupplier.ID).
					Return(testSupplier, nil)
			},
			expectedStatus: http.StatusOK,
			validateBody: func(t *testing.T, body []byte) {
				var response domain.Supplier
				err := json.Unmarshal(body, &response)
				require.NoError(t, err)
				assert.Equal(t, testSupplier.ID, response.ID)
				assert.Equal(t, testSupplier.Name, response.Name)
			},
		},
		{
			name:           "invalid_uuid_format",
			supplierID:     "not-a-uuid",
			setupMocks:     func(m *mocks.MockSupplierService) {},
			expectedStatus: http.StatusBadRequest,
			validateBody: func(t *testing.T, body []byte) {
				var response map[string]string
				err := json.Unmarshal(body, &response)
				require.NoError(t, err)
				assert.Equal(t, "Invalid supplier ID format", response["message"])
			},
		},
		{
			name:       "supplier_not_found",
			supplierID: testSupplier.ID.String(),
			setupMocks: func(m *mocks.MockSupplierService) {
				m.EXPECT().
					GetByID(gomock.Any(), testSupplier.ID).
					Return(nil, fmt.Errorf("supplier %s: %w", testSupplier.ID, services.ErrNotFound))
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:       "service_error",
			supplierID: testSupplier.ID.String(),
			setupMocks: func(m *mocks.MockSupplierService) {
				m.EXPECT().
					GetByID(gomock.Any(), testSupplier.ID).
					Return(nil, errors.New("database connection failed"))
			},
			expectedStatus: http.StatusInternalServerError,
			validateBody: func(t *testing.T, body []byte) {
				var response map[string]string
				err := json.Unmarshal(body, &response)
				require.NoError(t, err)
				assert.Equal(t, "database connection failed", response["message"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := mocks.NewMockSupplierService(ctrl)
			handler := handlers.NewSupplierHandler(mockService, helpers.TestLogger())

			tt.setupMocks(mockService)

			req := httptest.NewRequest("GET", "/api/v1/suppliers/"+tt.supplierID, nil)
			req.SetPathValue("id", tt.supplierID)
			w := httptest.NewRecorder()

			handler.Get(w, req)

			resp := w.Result()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.validateBody != nil {
				tt.validateBody(t, w.Body.Bytes())
			}
		})
	}
}

func TestSupplierHandler_Create(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMocks     func(*mocks.MockSupplierService)
		expectedStatus int
	}{
		{
			name: "successfully_creates_supplier",
			body: `{"name": "Nordic Organics AS", "status": "Approved"}`,
			setupMocks: func(m *mocks.MockSupplierService) {
				m.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, s *domain.Supplier) error {
						assert.Equal(t, "Nordic Organics AS", s.Name)
						assert.Equal(t, domain.SupplierApproved, s.Status)
						return nil
					})
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "decodes_legacy_certification_strings",
			body: `{"name": "Baltic Grain Partners", "certifications": ["ISO 22000", "Organic EU"]}`,
			setupMocks: func(m *mocks.MockSupplierService) {
				m.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, s *domain.Supplier) error {
						require.Len(t, s.Certifications, 2)
						assert.Equal(t, "ISO 22000", s.Certifications[0].Name)
						assert.Nil(t, s.Certifications[0].ExpiryDate)
						return nil
					})
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "malformed_json",
			body:           `{"name": `,
			setupMocks:     func(m *mocks.MockSupplierService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "validation_failure_is_bad_request",
			body: `{"name": ""}`,
			setupMocks: func(m *mocks.MockSupplierService) {
				m.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					Return(fmt.Errorf("validation failed: %w", errors.New("name is required")))
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "service_error_is_internal",
			body: `{"name": "Nordic Organics AS"}`,
			setupMocks: func(m *mocks.MockSupplierService) {
				m.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					Return(errors.New("database connection failed"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := mocks.NewMockSupplierService(ctrl)
			handler := handlers.NewSupplierHandler(mockService, helpers.TestLogger())

			tt.setupMocks(mockService)

			req := httptest.NewRequest("POST", "/api/v1/suppliers", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.Create(w, req)

			assert.Equal(t, tt.expectedStatus, w.Result().StatusCode)
		})
	}
}

func TestSupplierHandler_List(t *testing.T) {
	t.Run("passes_filters_and_returns_list", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockService := mocks.NewMockSupplierService(ctrl)
		handler := handlers.NewSupplierHandler(mockService, helpers.TestLogger())

		mockService.EXPECT().
			List(gomock.Any(), ports.SupplierListParams{Search: "nordic", Status: "Approved"}).
			Return([]domain.Supplier{*helpers.CreateTestSupplier()}, nil)

		req := httptest.NewRequest("GET", "/api/v1/suppliers?search=nordic&status=Approved", nil)
		w := httptest.NewRecorder()

		handler.List(w, req)

		assert.Equal(t, http.StatusOK, w.Result().StatusCode)

		var response []domain.Supplier
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Len(t, response, 1)
	})

	t.Run("nil_result_serializes_as_empty_array", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockService := mocks.NewMockSupplierService(ctrl)
		handler := handlers.NewSupplierHandler(mockService, helpers.TestLogger())

		mockService.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, nil)

		req := httptest.NewRequest("GET", "/api/v1/suppliers", nil)
		w := httptest.NewRecorder()

		handler.List(w, req)

		assert.Equal(t, http.StatusOK, w.Result().StatusCode)
		assert.JSONEq(t, "[]", w.Body.String())
	})
}

func TestSupplierHandler_Delete(t *testing.T) {
	t.Run("rejected_while_references_remain", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockService := mocks.NewMockSupplierService(ctrl)
		handler := handlers.NewSupplierHandler(mockService, helpers.TestLogger())

		id := uuid.New()
		mockService.EXPECT().
			Delete(gomock.Any(), id).
			Return(fmt.Errorf("%w by 2 raw material(s) and 1 batch(es)", services.ErrSupplierInUse))

		req := httptest.NewRequest("DELETE", "/api/v1/suppliers/"+id.String(), nil)
		req.SetPathValue("id", id.String())
		w := httptest.NewRecorder()

		handler.Delete(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Result().StatusCode)

		var response map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Contains(t, response["message"], "2 raw material(s) and 1 batch(es)")
	})

	t.Run("successful_delete", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockService := mocks.NewMockSupplierService(ctrl)
		handler := handlers.NewSupplierHandler(mockService, helpers.TestLogger())

		id := uuid.New()
		mockService.EXPECT().Delete(gomock.Any(), id).Return(nil)

		req := httptest.NewRequest("DELETE", "/api/v1/suppliers/"+id.String(), nil)
		req.SetPathValue("id", id.String())
		w := httptest.NewRecorder()

		handler.Delete(w, req)

		assert.Equal(t, http.StatusOK, w.Result().StatusCode)
	})
}
