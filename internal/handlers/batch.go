// internal/handlers/batch.go
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/acrelle/supplytrack-be/internal/core/domain"
	"github.com/acrelle/supplytrack-be/internal/core/ports"
)

// BatchHandler handles production batch CRUD and review operations
type BatchHandler struct {
	service ports.BatchService
	logger  *slog.Logger
}

// NewBatchHandler creates a new batch handler
func NewBatchHandler(service ports.BatchService, logger *slog.Logger) *BatchHandler {
	return &BatchHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "batch")),
	}
}

// Create handles POST /api/v1/batches
func (h *BatchHandler) Create(w http.ResponseWriter, r *http.Request) {
	var batch domain.Batch
	if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.Create(r.Context(), &batch); err != nil {
		if strings.Contains(err.Error(), "validation failed") {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.ErrorContext(r.Context(), "failed to create batch",
			slog.String("error", err.Error()))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, batch)
}

// Get handles GET /api/v1/batches/{id}
func (h *BatchHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid batch ID format")
		return
	}

	batch, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, batch)
}

// List handles GET /api/v1/batches
func (h *BatchHandler) List(w http.ResponseWriter, r *http.Request) {
	params := ports.BatchListParams{
		Search: r.URL.Query().Get("search"),
		Status: r.URL.Query().Get("status"),
		Buyer:  r.URL.Query().Get("buyer"),
	}
	if s := r.URL.Query().Get("supplierId"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid supplier ID format")
			return
		}
		params.SupplierID = id
	}

	batches, err := h.service.List(r.Context(), params)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list batches",
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if batches == nil {
		batches = []domain.Batch{}
	}

	respondJSON(w, http.StatusOK, batches)
}

// Update handles PUT /api/v1/batches/{id}
func (h *BatchHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid batch ID format")
		return
	}

	var batch domain.Batch
	if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.Update(r.Context(), id, &batch); err != nil {
		if strings.Contains(err.Error(), "validation failed") {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, batch)
}

// Review handles PATCH /api/v1/batches/{id}/review. QA reviewers submit an
// approval decision, review notes, or both.
func (h *BatchHandler) Review(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid batch ID format")
		return
	}

	var req struct {
		Notes          *string                `json:"notes"`
		ApprovalStatus *domain.ApprovalStatus `json:"approvalStatus"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Notes == nil && req.ApprovalStatus == nil {
		respondError(w, http.StatusBadRequest, "Review must include notes or an approval status")
		return
	}

	batch, err := h.service.Review(r.Context(), id, ports.BatchReview{
		Notes:          req.Notes,
		ApprovalStatus: req.ApprovalStatus,
	})
	if err != nil {
		if strings.Contains(err.Error(), "validation failed") {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, batch)
}

// Delete handles DELETE /api/v1/batches/{id}
func (h *BatchHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid batch ID format")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Batch deleted successfully"})
}
