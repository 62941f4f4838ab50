// internal/handlers/auth.go
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/acrelle/supplytrack-be/internal/core/domain"
	"github.com/acrelle/supplytrack-be/internal/core/ports"
	"github.com/acrelle/supplytrack-be/internal/handlers/middleware"
	"github.com/acrelle/supplytrack-be/internal/pkg/auth"
)

// AuthHandler handles login and account registration
type AuthHandler struct {
	users  ports.UserService
	jwt    *auth.JWTManager
	logger *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(users ports.UserService, jwt *auth.JWTManager, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		users:  users,
		jwt:    jwt,
		logger: logger.With(slog.String("handler", "auth")),
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	token, err := h.jwt.GenerateToken(user)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to generate token",
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, loginResponse{Token: token, User: user})
}

type registerRequest struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
}

// Register handles POST /api/v1/auth/register. Admin only: accounts are
// provisioned, not self-service.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user := &domain.User{
		Name:  req.Name,
		Email: req.Email,
		Role:  req.Role,
	}
	if err := h.users.Register(r.Context(), user, req.Password); err != nil {
		if strings.Contains(err.Error(), "validation failed") {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, user)
}

// Me handles GET /api/v1/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	user, err := h.users.GetByID(r.Context(), claims.UserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, user)
}
