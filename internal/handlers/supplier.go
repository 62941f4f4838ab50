// internal/handlers/supplier.go
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

// SupplierHandler handles supplier CRUD operations
type SupplierHandler struct {
	service ports.SupplierService
	logger  *slog.Logger
}

// NewSupplierHandler creates a new supplier handler
func NewSupplierHandler(service ports.SupplierService, logger *slog.Logger) *SupplierHandler {
	return &SupplierHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "supplier")),
	}
}

// Create handles POST /api/v1/suppliers
func (h *SupplierHandler) Create(w http.ResponseWriter, r *http.Request) {
	var supplier domain.Supplier
	if err := json.NewDecoder(r.Body).Decode(&supplier); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.Create(r.Context(), &supplier); err != nil {
		if strings.Contains(err.Error(), "validation failed") {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.ErrorContext(r.Context(), "failed to create supplier",
			slog.String("error", err.Error()))
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, supplier)
}

// Get handles GET /api/v1/suppliers/{id}
func (h *SupplierHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid supplier ID format")
		return
	}

	supplier, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, supplier)
}

// List handles GET /api/v1/suppliers
func (h *SupplierHandler) List(w http.ResponseWriter, r *http.Request) {
	params := ports.SupplierListParams{
		Search: r.URL.Query().Get("search"),
		Status: r.URL.Query().Get("status"),
	}

	suppliers, err := h.service.List(r.Context(), params)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list suppliers",
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if suppliers == nil {
		suppliers = []domain.Supplier{}
	}

	respondJSON(w, http.StatusOK, suppliers)
}

// Update handles PUT /api/v1/suppliers/{id}
func (h *SupplierHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid supplier ID format")
		return
	}

	var supplier domain.Supplier
	if err := json.NewDecoder(r.Body).Decode(&supplier); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.Update(r.Context(), id, &supplier); err != nil {
		if strings.Contains(err.Error(), "validation failed") {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, supplier)
}

// Delete handles DELETE /api/v1/suppliers/{id}
func (h *SupplierHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid supplier ID format")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Supplier deleted successfully"})
}
