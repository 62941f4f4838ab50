// internal/handlers/health.go
package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/acrelle/supplytrack-be/internal/core/ports"
)

// HealthHandler handles health and readiness probes
type HealthHandler struct {
	db      ports.Database
	cache   ports.CacheRepository
	version string
	logger  *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db ports.Database, cache ports.CacheRepository, version string, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		db:      db,
		cache:   cache,
		version: version,
		logger:  logger.With(slog.String("handler", "health")),
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"version":   h.version,
		"timestamp": time.Now().UTC(),
	})
}

// Readiness handles GET /ready. Checks the database and cache dependencies.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	checks := map[string]string{
		"database": "ok",
		"cache":    "ok",
	}
	status := http.StatusOK

	if err := h.db.Ping(ctx); err != nil {
		checks["database"] = err.Error()
		status = http.StatusServiceUnavailable
	}
	if err := h.cache.Ping(ctx); err != nil {
		checks["cache"] = err.Error()
		status = http.StatusServiceUnavailable
	}

	if status != http.StatusOK {
		h.logger.WarnContext(ctx, "readiness check failed", slog.Any("checks", checks))
	}

	respondJSON(w, status, map[string]interface{}{
		"status": http.StatusText(status),
		"checks": checks,
		"db":     h.db.Health(ctx),
	})
}
