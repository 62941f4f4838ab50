// internal/core/ports/services.go
package ports

import (
	"context"

	"github.com/acrelle/supplytrack-be/internal/core/domain"
	"github.com/google/uuid"
)

// SupplierService defines the application service port for suppliers.
type SupplierService interface {
	Create(ctx context.Context, supplier *domain.Supplier) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Supplier, error)
	List(ctx context.Context, params SupplierListParams) ([]domain.Supplier, error)
	Update(ctx context.Context, id uuid.UUID, supplier *domain.Supplier) error
	// Delete refuses with ErrSupplierInUse while raw materials or batches
	// still reference the supplier.
	Delete(ctx context.Context, id uuid.UUID) error
}

// MaterialService defines the application service port for raw materials.
type MaterialService interface {
	Create(ctx context.Context, material *domain.RawMaterial) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.RawMaterial, error)
	List(ctx context.Context, params MaterialListParams) ([]domain.RawMaterial, error)
	Update(ctx context.Context, id uuid.UUID, material *domain.RawMaterial) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// BatchService defines the application service port for production batches.
type BatchService interface {
	Create(ctx context.Context, batch *domain.Batch) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Batch, error)
	List(ctx context.Context, params BatchListParams) ([]domain.Batch, error)
	Update(ctx context.Context, id uuid.UUID, batch *domain.Batch) error
	Review(ctx context.Context, id uuid.UUID, review BatchReview) (*domain.Batch, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserService defines the application service port for user accounts.
type UserService interface {
	Register(ctx context.Context, user *domain.User, password string) error
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	List(ctx context.Context, params UserListParams) ([]domain.User, error)
	Update(ctx context.Context, id uuid.UUID, user *domain.User, password string) error
	Delete(ctx context.Context, actorID, id uuid.UUID) error
}

// StatValue wraps a counter for the dashboard stat cards.
type StatValue struct {
	Value int64 `json:"value"`
}

// DashboardStats is the summary-counter response shape.
type DashboardStats struct {
	TotalRawMaterials StatValue `json:"totalRawMaterials"`
	ActiveSuppliers   StatValue `json:"activeSuppliers"`
	ActiveBatches     StatValue `json:"activeBatches"`
	PendingAlerts     StatValue `json:"pendingAlerts"`
}

// DashboardService is the port for the alerting/aggregation engine.
type DashboardService interface {
	// Alerts returns the full derived alert list, high severity first.
	// Never cached: recomputed from a fresh snapshot on every call.
	Alerts(ctx context.Context) ([]domain.Alert, error)
	Stats(ctx context.Context) (*DashboardStats, error)
	RecentBatches(ctx context.Context) ([]domain.Batch, error)
}
