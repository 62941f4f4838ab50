// internal/core/ports/material_repository.go
package ports

import (
	"context"

	"github.com/acrelle/supplytrack-be/internal/core/domain"
	"github.com/google/uuid"
)

// MaterialListParams holds filters for listing raw materials
type MaterialListParams struct {
	Search      string
	Status      string
	SupplierID  uuid.UUID
	HazardClass string
}

// MaterialRepository defines the persistence port for raw materials.
// Reads join the owning supplier's name and status.
type MaterialRepository interface {
	Save(ctx context.Context, material *domain.RawMaterial) error
	Update(ctx context.Context, material *domain.RawMaterial) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.RawMaterial, error)
	FindAll(ctx context.Context, params MaterialListParams) ([]domain.RawMaterial, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountBySupplier(ctx context.Context, supplierID uuid.UUID) (int64, error)
}
