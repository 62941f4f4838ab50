// internal/adapters/db/batch_repository.go
package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/acrelle/supplytrack-be/internal/core/domain"
	"github.com/acrelle/supplytrack-be/internal/core/ports"
)

// batchRepository implements ports.BatchRepository
type batchRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewBatchRepository creates a new batch repository
func NewBatchRepository(db *Database, logger *slog.Logger) ports.BatchRepository {
	return &batchRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "batch")),
	}
}

// Save creates a new batch
func (r *batchRepository) Save(ctx context.Context, batch *domain.Batch) error {
	query := `
		INSERT INTO batches (
			id, batch_number, raw_material_id, supplier_id,
			production_date, acquisition_date, buyer, contents,
			status, approval_status, quantity_value, quantity_unit,
			notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := r.db.Exec(ctx, query,
		batch.ID, batch.BatchNumber, batch.RawMaterialID, batch.SupplierID,
		batch.ProductionDate, batch.AcquisitionDate, batch.Buyer, batch.Contents,
		batch.Status, batch.ApprovalStatus,
		batch.Quantity.Value, batch.Quantity.Unit,
		batch.Notes, batch.CreatedAt, batch.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save batch: %w", err)
	}

	r.logger.DebugContext(ctx, "batch saved",
		slog.String("batch_id", batch.ID.String()),
		slog.String("batch_number", batch.BatchNumber))
	return nil
}

// Update updates an existing batch
func (r *batchRepository) Update(ctx context.Context, batch *domain.Batch) error {
	query := `
		UPDATE batches SET
			batch_number = $2, raw_material_id = $3, supplier_id = $4,
			production_date = $5, acquisition_date = $6, buyer = $7,
			contents = $8, status = $9, approval_status = $10,
			quantity_value = $11, quantity_unit = $12, notes = $13,
			updated_at = $14
		WHERE id = $1`

	batch.UpdatedAt = time.Now()

	tag, err := r.db.Exec(ctx, query,
		batch.ID, batch.BatchNumber, batch.RawMaterialID, batch.SupplierID,
		batch.ProductionDate, batch.AcquisitionDate, batch.Buyer,
		batch.Contents, batch.Status, batch.ApprovalStatus,
		batch.Quantity.Value, batch.Quantity.Unit, batch.Notes,
		batch.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update batch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("batch not found: %s", batch.ID)
	}

	r.logger.DebugContext(ctx, "batch updated",
		slog.String("batch_id", batch.ID.String()))
	return nil
}

// UpdateReview applies a QA review. Only the fields present in the review are
// written; the returned batch reflects the stored row after the update.
func (r *batchRepository) UpdateReview(ctx context.Context, id uuid.UUID, review ports.BatchReview) (*domain.Batch, error) {
	qb := squirrel.Update("batches").
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar)

	if review.Notes != nil {
		qb = qb.Set("notes", *review.Notes)
	}
	if review.ApprovalStatus != nil {
		qb = qb.Set("approval_status", *review.ApprovalStatus)
	}

	sqlQuery, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build review query: %w", err)
	}

	var updatedID uuid.UUID
	if err := r.db.QueryRow(ctx, sqlQuery, args...).Scan(&updatedID); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to apply batch review: %w", err)
	}

	return r.FindByID(ctx, updatedID)
}

// FindByID retrieves a batch by ID, joining the referenced material and supplier
func (r *batchRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Batch, error) {
	query := batchSelect + ` WHERE b.id = $1`

	batch, err := scanBatchRow(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find batch: %w", err)
	}
	return batch, nil
}

// FindAll retrieves batches with filtering
func (r *batchRepository) FindAll(ctx context.Context, params ports.BatchListParams) ([]domain.Batch, error) {
	qb := batchSelectBuilder()

	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		qb = qb.Where(squirrel.Or{
			squirrel.Expr("b.batch_number ILIKE ?", pattern),
			squirrel.Expr("b.buyer ILIKE ?", pattern),
		})
	}
	if params.Status != "" {
		qb = qb.Where(squirrel.Eq{"b.status": params.Status})
	}
	if params.SupplierID != uuid.Nil {
		qb = qb.Where(squirrel.Eq{"b.supplier_id": params.SupplierID})
	}
	if params.Buyer != "" {
		qb = qb.Where(squirrel.Eq{"b.buyer": params.Buyer})
	}
	qb = qb.OrderBy("b.created_at DESC")

	return r.queryBatches(ctx, qb)
}

// FindRecentActive retrieves the most recently created active batches
func (r *batchRepository) FindRecentActive(ctx context.Context, limit int) ([]domain.Batch, error) {
	qb := batchSelectBuilder().
		Where(squirrel.Eq{"b.status": domain.BatchActive}).
		OrderBy("b.created_at DESC").
		Limit(uint64(limit))

	return r.queryBatches(ctx, qb)
}

// FindRejected retrieves all QA-rejected batches for the dashboard
func (r *batchRepository) FindRejected(ctx context.Context) ([]domain.Batch, error) {
	qb := batchSelectBuilder().
		Where(squirrel.Eq{"b.approval_status": domain.ApprovalRejected}).
		OrderBy("b.updated_at DESC")

	return r.queryBatches(ctx, qb)
}

// Delete removes a batch
func (r *batchRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM batches WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete batch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("batch not found: %s", id)
	}

	r.logger.InfoContext(ctx, "batch deleted",
		slog.String("batch_id", id.String()))
	return nil
}

// CountBySupplier counts batches referencing a supplier
func (r *batchRepository) CountBySupplier(ctx context.Context, supplierID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM batches WHERE supplier_id = $1`, supplierID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count batches: %w", err)
	}
	return count, nil
}

func (r *batchRepository) queryBatches(ctx context.Context, qb squirrel.SelectBuilder) ([]domain.Batch, error) {
	sqlQuery, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.Query(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query batches: %w", err)
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

const batchSelect = `
	SELECT
		b.id, b.batch_number, b.raw_material_id, b.supplier_id,
		b.production_date, b.acquisition_date, b.buyer, b.contents,
		b.status, b.approval_status, b.quantity_value, b.quantity_unit,
		b.notes, b.created_at, b.updated_at, m.name, s.name
	FROM batches b
	LEFT JOIN raw_materials m ON m.id = b.raw_material_id
	LEFT JOIN suppliers s ON s.id = b.supplier_id`

func batchSelectBuilder() squirrel.SelectBuilder {
	return squirrel.Select(
		"b.id", "b.batch_number", "b.raw_material_id", "b.supplier_id",
		"b.production_date", "b.acquisition_date", "b.buyer", "b.contents",
		"b.status", "b.approval_status", "b.quantity_value", "b.quantity_unit",
		"b.notes", "b.created_at", "b.updated_at", "m.name", "s.name",
	).From("batches b").
		LeftJoin("raw_materials m ON m.id = b.raw_material_id").
		LeftJoin("suppliers s ON s.id = b.supplier_id").
		PlaceholderFormat(squirrel.Dollar)
}

func scanBatchRow(row pgx.Row) (*domain.Batch, error) {
	batch := &domain.Batch{}
	var (
		notes                      sql.NullString
		materialName, supplierName sql.NullString
	)

	err := row.Scan(
		&batch.ID, &batch.BatchNumber, &batch.RawMaterialID, &batch.SupplierID,
		&batch.ProductionDate, &batch.AcquisitionDate, &batch.Buyer, &batch.Contents,
		&batch.Status, &batch.ApprovalStatus,
		&batch.Quantity.Value, &batch.Quantity.Unit,
		&notes, &batch.CreatedAt, &batch.UpdatedAt,
		&materialName, &supplierName,
	)
	if err != nil {
		return nil, err
	}

	batch.Notes = notes.String
	batch.RawMaterialName = materialName.String
	batch.SupplierName = supplierName.String

	return batch, nil
}
