// cmd/api/routes_test.go
package main

import (
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
	"github.com/acrelle/supplytrack-be/internal/pkg/auth"
	"github.com/acrelle/supplytrack-be/test/helpers"
	"github.com/acrelle/supplytrack-be/test/mocks"
)

func routedMux(t *testing.T, ctrl *gomock.Controller, jwtManager *auth.JWTManager) *http.ServeMux {
	t.Helper()

	dashboardService := mocks.NewMockDashboardService(ctrl)
	dashboardService.EXPECT().Alerts(gomock.Any()).Return([]domain.Alert{}, nil).AnyTimes()
	dashboardService.EXPECT().Stats(gomock.Any()).Return(&ports.DashboardStats{}, nil).AnyTimes()
	dashboardService.EXPECT().RecentBatches(gomock.Any()).Return([]domain.Batch{}, nil).AnyTimes()

	deps := &dependencies{
		dashboardHandler: handlers.NewDashboardHandler(dashboardService, helpers.TestLogger()),
		jwtManager:       jwtManager,
	}

	mux := http.NewServeMux()
	registerRoutes(mux, deps)
	return mux
}

func roleToken(t *testing.T, manager *auth.JWTManager, role domain.Role) string {
	t.Helper()
	token, err := manager.GenerateToken(helpers.CreateTestUser(func(u *domain.User) {
		u.Role = role
	}))
	require.NoError(t, err)
	return token
}

func TestRegisterRoutes_DashboardRequiresAdmin(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	manager := auth.NewJWTManager("test-secret", time.Hour)
	mux := routedMux(t, ctrl, manager)

	routes := []string{
		"/api/v1/dashboard/alerts",
		"/api/v1/dashboard/stats",
		"/api/v1/dashboard/recent-batches",
	}

	tests := []struct {
		name           string
		role           domain.Role
		expectedStatus int
	}{
		{
			name:           "admin_allowed",
			role:           domain.RoleAdmin,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "worker_forbidden",
			role:           domain.RoleWorker,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "qa_worker_forbidden",
			role:           domain.RoleQAWorker,
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, route := range routes {
				req := httptest.NewRequest("GET", route, nil)
				req.Header.Set("Authorization", "Bearer "+roleToken(t, manager, tt.role))
				w := httptest.NewRecorder()

				mux.ServeHTTP(w, req)

				assert.Equal(t, tt.expectedStatus, w.Result().StatusCode, route)
			}
		})
	}

	t.Run("unauthenticated_gets_401", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/dashboard/alerts", nil)
		w := httptest.NewRecorder()

		mux.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Result().StatusCode)
	})
}

func TestRegisterRoutes_ReportExportRequiresReviewer(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	manager := auth.NewJWTManager("test-secret", time.Hour)
	mux := routedMux(t, ctrl, manager)

	req := httptest.NewRequest("POST", "/api/v1/reports/export", nil)
	req.Header.Set("Authorization", "Bearer "+roleToken(t, manager, domain.RoleWorker))
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Result().StatusCode)
}
