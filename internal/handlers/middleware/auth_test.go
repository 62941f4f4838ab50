// internal/handlers/middleware/auth_test.go
package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acrelle/supplytrack-be/internal/core/domain"
	"github.com/acrelle/supplytrack-be/internal/handlers/middleware"
	"github.com/acrelle/supplytrack-be/internal/pkg/auth"
	"github.com/acrelle/supplytrack-be/test/helpers"
)

func tokenFor(t *testing.T, manager *auth.JWTManager, role domain.Role) string {
	t.Helper()
	token, err := manager.GenerateToken(helpers.CreateTestUser(func(u *domain.User) {
		u.Role = role
	}))
	require.NoError(t, err)
	return token
}

func TestAuthenticate(t *testing.T) {
	manager := auth.NewJWTManager("test-secret", time.Hour)

	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.ClaimsFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, domain.RoleWorker, claims.Role)
		w.WriteHeader(http.StatusOK)
	})
	protected := middleware.Authenticate(manager)(okHandler)

	tests := []struct {
		name           string
		header         string
		expectedStatus int
	}{
		{
			name:           "valid_token",
			header:         "Bearer " + tokenFor(t, manager, domain.RoleWorker),
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing_header",
			header:         "",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "not_a_bearer_token",
			header:         "Basic dXNlcjpwYXNz",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "garbage_token",
			header:         "Bearer not.a.token",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "token_signed_with_wrong_secret",
			header: "Bearer " + tokenFor(t,
				auth.NewJWTManager("other-secret", time.Hour), domain.RoleWorker),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "expired_token",
			header: "Bearer " + tokenFor(t,
				auth.NewJWTManager("test-secret", -time.Minute), domain.RoleWorker),
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/v1/suppliers", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			protected.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Result().StatusCode)
		})
	}
}

func TestRequireRole(t *testing.T) {
	manager := auth.NewJWTManager("test-secret", time.Hour)

	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name           string
		allowed        []domain.Role
		tokenRole      domain.Role
		expectedStatus int
	}{
		{
			name:           "admin_passes_admin_gate",
			allowed:        []domain.Role{domain.RoleAdmin},
			tokenRole:      domain.RoleAdmin,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "worker_blocked_by_admin_gate",
			allowed:        []domain.Role{domain.RoleAdmin},
			tokenRole:      domain.RoleWorker,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "qa_worker_passes_reviewer_gate",
			allowed:        []domain.Role{domain.RoleAdmin, domain.RoleQAWorker},
			tokenRole:      domain.RoleQAWorker,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "worker_blocked_by_reviewer_gate",
			allowed:        []domain.Role{domain.RoleAdmin, domain.RoleQAWorker},
			tokenRole:      domain.RoleWorker,
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain := middleware.Authenticate(manager)(
				middleware.RequireRole(tt.allowed...)(okHandler))

			req := httptest.NewRequest("PATCH", "/api/v1/batches/1/review", nil)
			req.Header.Set("Authorization", "Bearer "+tokenFor(t, manager, tt.tokenRole))
			w := httptest.NewRecorder()

			chain.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Result().StatusCode)
		})
	}

	t.Run("unauthenticated_request_is_401", func(t *testing.T) {
		gate := middleware.RequireRole(domain.RoleAdmin)(okHandler)

		req := httptest.NewRequest("GET", "/api/v1/users", nil)
		w := httptest.NewRecorder()

		gate.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Result().StatusCode)
	})
}
