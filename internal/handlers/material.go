// internal/handlers/material.go
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

// MaterialHandler handles raw material CRUD operations
type MaterialHandler struct {
	service ports.MaterialService
	logger  *slog.Logger
}

// NewMaterialHandler creates a new material handler
func NewMaterialHandler(service ports.MaterialService, logger *slog.Logger) *MaterialHandler {
	return &MaterialHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "material")),
	}
}

// Create handles POST /api/v1/materials
func (h *MaterialHandler) Create(w http.ResponseWriter, r *http.Request) {
	var material domain.RawMaterial
	if err := json.NewDecoder(r.Body).Decode(&material); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.Create(r.Context(), &material); err != nil {
		if strings.Contains(err.Error(), "validation failed") {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.ErrorContext(r.Context(), "failed to create material",
			slog.String("error", err.Error()))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, material)
}

// Get handles GET /api/v1/materials/{id}
func (h *MaterialHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid material ID format")
		return
	}

	material, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, material)
}

// List handles GET /api/v1/materials
func (h *MaterialHandler) List(w http.ResponseWriter, r *http.Request) {
	params := ports.MaterialListParams{
		Search:      r.URL.Query().Get("search"),
		Status:      r.URL.Query().Get("status"),
		HazardClass: r.URL.Query().Get("hazardClass"),
	}
	if s := r.URL.Query().Get("supplierId"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid supplier ID format")
			return
		}
		params.SupplierID = id
	}

	materials, err := h.service.List(r.Context(), params)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list materials",
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if materials == nil {
		materials = []domain.RawMaterial{}
	}

	respondJSON(w, http.StatusOK, materials)
}

// Update handles PUT /api/v1/materials/{id}
func (h *MaterialHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid material ID format")
		return
	}

	var material domain.RawMaterial
	if err := json.NewDecoder(r.Body).Decode(&material); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.Update(r.Context(), id, &material); err != nil {
		if strings.Contains(err.Error(), "validation failed") {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, material)
}

// Delete handles DELETE /api/v1/materials/{id}
func (h *MaterialHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid material ID format")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Material deleted successfully"})
}
