// internal/handlers/dashboard.go
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/acrelle/supplytrack-be/internal/core/ports"
)

// DashboardHandler exposes the dashboard's alert feed, summary counters,
// and recent-batch activity.
type DashboardHandler struct {
	service ports.DashboardService
	logger  *slog.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service ports.DashboardService, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "dashboard")),
	}
}

// Alerts handles GET /api/v1/dashboard/alerts. The list is derived from a
// fresh snapshot on every request.
func (h *DashboardHandler) Alerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.service.Alerts(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to derive alerts",
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, alerts)
}

// Stats handles GET /api/v1/dashboard/stats
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to load stats",
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

// RecentBatches handles GET /api/v1/dashboard/recent-batches
func (h *DashboardHandler) RecentBatches(w http.ResponseWriter, r *http.Request) {
	batches, err := h.service.RecentBatches(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to load recent batches",
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, batches)
}
