// internal/handlers/dashboard_handler_test.go
package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/acrelle/supplytrack-be/internal/core/domain"
	"github.com/acrelle/supplytrack-be/internal/core/ports"
	"github.com/acrelle/supplytrack-be/internal/handlers"
	"github.com/acrelle/supplytrack-be/test/helpers"
	"github.com/acrelle/supplytrack-be/test/mocks"
)

func TestDashboardHandler_Alerts(t *testing.T) {
	tests := []struct {
		name           string
		setupMocks     func(*mocks.MockDashboardService)
		expectedStatus int
		validateBody   func(*testing.T, []byte)
	}{
		{
			name: "returns_derived_alerts",
			setupMocks: func(m *mocks.MockDashboardService) {
				m.EXPECT().Alerts(gomock.Any()).Return([]domain.Alert{
					{
						Type:     domain.AlertLowStock,
						Message:  "Rye Flour - 12 kg remaining",
						Supplier: "Baltic Grain Partners",
						Severity: domain.SeverityHigh,
						Date:     time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
					},
					{
						Type:     domain.AlertCertExpiring,
						Message:  "Nordic Organics AS - ISO 22000 expires in 12 day(s)",
						Supplier: "Nordic Organics AS",
						Severity: domain.SeverityMedium,
						Date:     time.Date(2025, 6, 27, 0, 0, 0, 0, time.UTC),
					},
				}, nil)
			},
			expectedStatus: http.StatusOK,
			validateBody: func(t *testing.T, body []byte) {
				var response []domain.Alert
				require.NoError(t, json.Unmarshal(body, &response))
				require.Len(t, response, 2)
				assert.Equal(t, domain.SeverityHigh, response[0].Severity)
				assert.Equal(t, "Rye Flour - 12 kg remaining", response[0].Message)
			},
		},
		{
			name: "empty_list_serializes_as_array",
			setupMocks: func(m *mocks.MockDashboardService) {
				m.EXPECT().Alerts(gomock.Any()).Return([]domain.Alert{}, nil)
			},
			expectedStatus: http.StatusOK,
			validateBody: func(t *testing.T, body []byte) {
				assert.JSONEq(t, "[]", string(body))
			},
		},
		{
			name: "service_error",
			setupMocks: func(m *mocks.MockDashboardService) {
				m.EXPECT().Alerts(gomock.Any()).
					Return(nil, errors.New("snapshot failed"))
			},
			expectedStatus: http.StatusInternalServerError,
			validateBody: func(t *testing.T, body []byte) {
				var response map[string]string
				require.NoError(t, json.Unmarshal(body, &response))
				assert.Equal(t, "snapshot failed", response["message"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockService := mocks.NewMockDashboardService(ctrl)
			handler := handlers.NewDashboardHandler(mockService, helpers.TestLogger())

			tt.setupMocks(mockService)

			req := httptest.NewRequest("GET", "/api/v1/dashboard/alerts", nil)
			w := httptest.NewRecorder()

			handler.Alerts(w, req)

			assert.Equal(t, tt.expectedStatus, w.Result().StatusCode)
			if tt.validateBody != nil {
				tt.validateBody(t, w.Body.Bytes())
			}
		})
	}
}

func TestDashboardHandler_Stats(t *testing.T) {
	t.Run("returns_summary_counters", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockService := mocks.NewMockDashboardService(ctrl)
		handler := handlers.NewDashboardHandler(mockService, helpers.TestLogger())

		mockService.EXPECT().Stats(gomock.Any()).Return(&ports.DashboardStats{
			TotalRawMaterials: ports.StatValue{Value: 42},
			ActiveSuppliers:   ports.StatValue{Value: 7},
			ActiveBatches:     ports.StatValue{Value: 4},
			PendingAlerts:     ports.StatValue{Value: 9},
		}, nil)

		req := httptest.NewRequest("GET", "/api/v1/dashboard/stats", nil)
		w := httptest.NewRecorder()

		handler.Stats(w, req)

		assert.Equal(t, http.StatusOK, w.Result().StatusCode)

		var response ports.DashboardStats
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, int64(42), response.TotalRawMaterials.Value)
		assert.Equal(t, int64(9), response.PendingAlerts.Value)
	})

	t.Run("service_error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockService := mocks.NewMockDashboardService(ctrl)
		handler := handlers.NewDashboardHandler(mockService, helpers.TestLogger())

		mockService.EXPECT().Stats(gomock.Any()).
			Return(nil, errors.New("cache unreachable"))

		req := httptest.NewRequest("GET", "/api/v1/dashboard/stats", nil)
		w := httptest.NewRecorder()

		handler.Stats(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Result().StatusCode)
	})
}

func TestDashboardHandler_RecentBatches(t *testing.T) {
	t.Run("returns_recent_batches", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockService := mocks.NewMockDashboardService(ctrl)
		handler := handlers.NewDashboardHandler(mockService, helpers.TestLogger())

		batches := []domain.Batch{
			*helpers.CreateTestBatch(func(b *domain.Batch) { b.BatchNumber = "B-300" }),
		}
		mockService.EXPECT().RecentBatches(gomock.Any()).Return(batches, nil)

		req := httptest.NewRequest("GET", "/api/v1/dashboard/recent-batches", nil)
		w := httptest.NewRecorder()

		handler.RecentBatches(w, req)

		assert.Equal(t, http.StatusOK, w.Result().StatusCode)

		var response []domain.Batch
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.Len(t, response, 1)
		assert.Equal(t, "B-300", response[0].BatchNumber)
	})
}
