// internal/adapters/db/dashboard_repository.go
package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/acrelle/supplytrack-be/internal/core/domain"
	"github.com/acrelle/supplytrack-be/internal/core/ports"
)

// dashboardRepository implements ports.DashboardRepository. It is read-only:
// the three snapshot queries feed the alert deriver and the counts query feeds
// the stat cards.
type dashboardRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewDashboardRepository creates a new dashboard repository
func NewDashboardRepository(db *Database, logger *slog.Logger) ports.DashboardRepository {
	return &dashboardRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "dashboard")),
	}
}

// AllSuppliers returns every supplier with full certification and
// quality-issue payloads.
func (r *dashboardRepository) AllSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	query := `SELECT ` + supplierColumns + ` FROM suppliers ORDER BY name ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query suppliers: %w", err)
	}
	defer rows.Close()

	var suppliers []domain.Supplier
	for rows.Next() {
		supplier, err := scanSupplierRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan supplier: %w", err)
		}
		suppliers = append(suppliers, *supplier)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return suppliers, nil
}

// LowStockMaterials returns materials flagged Low Stock with the owning
// supplier's name joined in.
func (r *dashboardRepository) LowStockMaterials(ctx context.Context) ([]domain.RawMaterial, error) {
	query := materialSelect + ` WHERE m.status = $1 ORDER BY m.name ASC`

	rows, err := r.db.Query(ctx, query, domain.MaterialLowStock)
	if err != nil {
		return nil, fmt.Errorf("failed to query low-stock materials: %w", err)
	}
	defer rows.Close()

	var materials []domain.RawMaterial
	for rows.Next() {
		material, err := scanMaterialRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan material: %w", err)
		}
		materials = append(materials, *material)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return materials, nil
}

// RejectedBatches returns QA-rejected batches with material and supplier
// names joined in.
func (r *dashboardRepository) RejectedBatches(ctx context.Context) ([]domain.Batch, error) {
	query := batchSelect + ` WHERE b.approval_status = $1 ORDER BY b.updated_at DESC`

	rows, err := r.db.Query(ctx, query, domain.ApprovalRejected)
	if err != nil {
		return nil, fmt.Errorf("failed to query rejected batches: %w", err)
	}
	defer rows.Close()

	var batches []domain.Batch
	for rows.Next() {
		batch, err := scanBatchRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan batch: %w", err)
		}
		batches = append(batches, *batch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return batches, nil
}

// SummaryCounts computes the stat-card counts in a single round trip.
func (r *dashboardRepository) SummaryCounts(ctx context.Context) (*ports.SummaryCounts, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM raw_materials),
			(SELECT COUNT(*) FROM suppliers WHERE status = $1),
			(SELECT COUNT(*) FROM batches WHERE status = $2),
			(SELECT COUNT(*) FROM raw_materials WHERE status = $3),
			(SELECT COUNT(*) FROM batches WHERE approval_status = $4)`

	counts := &ports.SummaryCounts{}
	err := r.db.QueryRow(ctx, query,
		domain.SupplierApproved, domain.BatchActive,
		domain.MaterialLowStock, domain.ApprovalRejected,
	).Scan(
		&counts.TotalRawMaterials,
		&counts.ApprovedSuppliers,
		&counts.ActiveBatches,
		&counts.LowStockMaterials,
		&counts.RejectedBatches,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query summary counts: %w", err)
	}

	return counts, nil
}
