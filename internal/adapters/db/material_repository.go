// internal/adapters/db/material_repository.go
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

// materialRepository implements ports.MaterialRepository
type materialRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewMaterialRepository creates a new material repository
func NewMaterialRepository(db *Database, logger *slog.Logger) ports.MaterialRepository {
	return &materialRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "material")),
	}
}

// Save creates a new raw material
func (r *materialRepository) Save(ctx context.Context, material *domain.RawMaterial) error {
	query := `
		INSERT INTO raw_materials (
			id, name, purity, supplier_id, hazard_class, storage_temp,
			status, quantity_value, quantity_unit, expiry_date, lot_number,
			description, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := r.db.Exec(ctx, query,
		material.ID, material.Name, material.Purity, material.SupplierID,
		material.HazardClass, material.StorageTemp, material.Status,
		material.Quantity.Value, material.Quantity.Unit, material.ExpiryDate,
		material.LotNumber, material.Description,
		material.CreatedAt, material.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save material: %w", err)
	}

	r.logger.DebugContext(ctx, "material saved",
		slog.String("material_id", material.ID.String()))
	return nil
}

// Update updates an existing raw material
func (r *materialRepository) Update(ctx context.Context, material *domain.RawMaterial) error {
	query := `
		UPDATE raw_materials SET
			name = $2, purity = $3, supplier_id = $4, hazard_class = $5,
			storage_temp = $6, status = $7, quantity_value = $8,
			quantity_unit = $9, expiry_date = $10, lot_number = $11,
			description = $12, updated_at = $13
		WHERE id = $1`

	material.UpdatedAt = time.Now()

	tag, err := r.db.Exec(ctx, query,
		material.ID, material.Name, material.Purity, material.SupplierID,
		material.HazardClass, material.StorageTemp, material.Status,
		material.Quantity.Value, material.Quantity.Unit, material.ExpiryDate,
		material.LotNumber, material.Description, material.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update material: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("material not found: %s", material.ID)
	}

	r.logger.DebugContext(ctx, "material updated",
		slog.String("material_id", material.ID.String()))
	return nil
}

// FindByID retrieves a raw material by ID, joining the owning supplier
func (r *materialRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.RawMaterial, error) {
	query := materialSelect + ` WHERE m.id = $1`

	material, err := scanMaterialRow(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find material: %w", err)
	}
	return material, nil
}

// FindAll retrieves raw materials with filtering
func (r *materialRepository) FindAll(ctx context.Context, params ports.MaterialListParams) ([]domain.RawMaterial, error) {
	qb := squirrel.Select(
		"m.id", "m.name", "m.purity", "m.supplier_id", "m.hazard_class",
		"m.storage_temp", "m.status", "m.quantity_value", "m.quantity_unit",
		"m.expiry_date", "m.lot_number", "m.description",
		"m.created_at", "m.updated_at", "s.name", "s.status",
	).From("raw_materials m").
		LeftJoin("suppliers s ON s.id = m.supplier_id").
		PlaceholderFormat(squirrel.Dollar)

	if params.Search != "" {
		qb = qb.Where("m.name ILIKE ?", "%"+params.Search+"%")
	}
	if params.Status != "" {
		qb = qb.Where(squirrel.Eq{"m.status": params.Status})
	}
	if params.SupplierID != uuid.Nil {
		qb = qb.Where(squirrel.Eq{"m.supplier_id": params.SupplierID})
	}
	if params.HazardClass != "" {
		qb = qb.Where(squirrel.Eq{"m.hazard_class": params.HazardClass})
	}
	qb = qb.OrderBy("m.name ASC")

	sqlQuery, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.Query(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query materials: %w", err)
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

// Delete removes a raw material
func (r *materialRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM raw_materials WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete material: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("material not found: %s", id)
	}

	r.logger.InfoContext(ctx, "material deleted",
		slog.String("material_id", id.String()))
	return nil
}

// CountBySupplier counts raw materials referencing a supplier
func (r *materialRepository) CountBySupplier(ctx context.Context, supplierID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM raw_materials WHERE supplier_id = $1`, supplierID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count materials: %w", err)
	}
	return count, nil
}

const materialSelect = `
	SELECT
		m.id, m.name, m.purity, m.supplier_id, m.hazard_class,
		m.storage_temp, m.status, m.quantity_value, m.quantity_unit,
		m.expiry_date, m.lot_number, m.description,
		m.created_at, m.updated_at, s.name, s.status
	FROM raw_materials m
	LEFT JOIN suppliers s ON s.id = m.supplier_id`

func scanMaterialRow(row pgx.Row) (*domain.RawMaterial, error) {
	material := &domain.RawMaterial{}
	var (
		expiryDate                   sql.NullTime
		lotNumber, description       sql.NullString
		supplierName, supplierStatus sql.NullString
	)

	err := row.Scan(
		&material.ID, &material.Name, &material.Purity, &material.SupplierID,
		&material.HazardClass, &material.StorageTemp, &material.Status,
		&material.Quantity.Value, &material.Quantity.Unit,
		&expiryDate, &lotNumber, &description,
		&material.CreatedAt, &material.UpdatedAt,
		&supplierName, &supplierStatus,
	)
	if err != nil {
		return nil, err
	}

	if expiryDate.Valid {
		t := expiryDate.Time
		material.ExpiryDate = &t
	}
	material.LotNumber = lotNumber.String
	material.Description = description.String
	material.SupplierName = supplierName.String
	material.SupplierStatus = domain.SupplierStatus(supplierStatus.String)

	return material, nil
}
