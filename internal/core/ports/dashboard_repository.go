// internal/core/ports/dashboard_repository.go
package ports

import (
	"context"

	"github.com/acrelle/supplytrack-be/internal/core/domain"
)

// SummaryCounts are the per-condition counts behind the dashboard stat cards.
// They are computed by the storage layer independently of the alert list so
// the two paths stay separately testable.
type SummaryCounts struct {
	TotalRawMaterials int64
	ApprovedSuppliers int64
	ActiveBatches     int64
	LowStockMaterials int64
	RejectedBatches   int64
}

// DashboardRepository is the collector's storage contract: three read-only
// snapshot queries plus the summary counts. Errors propagate unchanged; there
// is no local recovery and no partial-result mode.
type DashboardRepository interface {
	// AllSuppliers returns every supplier with full certification and
	// quality-issue lists.
	AllSuppliers(ctx context.Context) ([]domain.Supplier, error)
	// LowStockMaterials returns materials with status "Low Stock", with the
	// owning supplier's display name populated.
	LowStockMaterials(ctx context.Context) ([]domain.RawMaterial, error)
	// RejectedBatches returns batches with approval status "Rejected", with
	// raw-material and supplier display names populated.
	RejectedBatches(ctx context.Context) ([]domain.Batch, error)
	SummaryCounts(ctx context.Context) (*SummaryCounts, error)
}
