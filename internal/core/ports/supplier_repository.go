// internal/core/ports/supplier_repository.go
package ports

import (
	"context"

	"github.com/acrelle/supplytrack-be/internal/core/domain"
	"github.com/google/uuid"
)

// SupplierListParams holds filters for listing suppliers
type SupplierListParams struct {
	Search string
	Status string
}

// SupplierRepository defines the persistence port for suppliers.
// This interface is implemented by the database adapter.
type SupplierRepository interface {
	Save(ctx context.Context, supplier *domain.Supplier) error
	Update(ctx context.Context, supplier *domain.Supplier) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Supplier, error)
	FindAll(ctx context.Context, params SupplierListParams) ([]domain.Supplier, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}
