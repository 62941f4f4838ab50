// internal/core/ports/batch_repository.go
package ports

import (
	"context"

	"github.com/acrelle/supplytrack-be/internal/core/domain"
	"github.com/google/uuid"
)

// BatchListParams holds filters for listing batches
type BatchListParams struct {
	Search     string // matches batch number or buyer
	Status     string
	SupplierID uuid.UUID
	Buyer      string
}

// BatchReview carries a QA review update. Nil fields are left unchanged.
type BatchReview struct {
	Notes          *string
	ApprovalStatus *domain.ApprovalStatus
}

// BatchRepository defines the persistence port for production batches.
// Reads join the referenced raw-material and supplier names.
type BatchRepository interface {
	Save(ctx context.Context, batch *domain.Batch) error
	Update(ctx context.Context, batch *domain.Batch) error
	UpdateReview(ctx context.Context, id uuid.UUID, review BatchReview) (*domain.Batch, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Batch, error)
	FindAll(ctx context.Context, params BatchListParams) ([]domain.Batch, error)
	FindRecentActive(ctx context.Context, limit int) ([]domain.Batch, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountBySupplier(ctx context.Context, supplierID uuid.UUID) (int64, error)
}
