// internal/adapters/db/supplier_repository.go
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/acrelle/supplytrack-be/internal/core/domain"
	"github.com/acrelle/supplytrack-be/internal/core/ports"
)

// supplierRepository implements ports.SupplierRepository
type supplierRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewSupplierRepository creates a new supplier repository
func NewSupplierRepository(db *Database, logger *slog.Logger) ports.SupplierRepository {
	return &supplierRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "supplier")),
	}
}

const supplierColumns = `
	id, name, status, certifications, quality_issues, last_audit,
	contact_email, contact_phone, address, notes, created_at, updated_at`

// Save creates a new supplier
func (r *supplierRepository) Save(ctx context.Context, supplier *domain.Supplier) error {
	query := `
		INSERT INTO suppliers (
			id, name, status, certifications, quality_issues, last_audit,
			contact_email, contact_phone, address, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	certs, issues, address, err := marshalSupplierJSON(supplier)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, query,
		supplier.ID, supplier.Name, supplier.Status, certs, issues, supplier.LastAudit,
		supplier.ContactEmail, supplier.ContactPhone, address, supplier.Notes,
		supplier.CreatedAt, supplier.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save supplier: %w", err)
	}

	r.logger.DebugContext(ctx, "supplier saved",
		slog.String("supplier_id", supplier.ID.String()))
	return nil
}

// Update updates an existing supplier
func (r *supplierRepository) Update(ctx context.Context, supplier *domain.Supplier) error {
	query := `
		UPDATE suppliers SET
			name = $2, status = $3, certifications = $4, quality_issues = $5,
			last_audit = $6, contact_email = $7, contact_phone = $8,
			address = $9, notes = $10, updated_at = $11
		WHERE id = $1`

	certs, issues, address, err := marshalSupplierJSON(supplier)
	if err != nil {
		return err
	}
	supplier.UpdatedAt = time.Now()

	tag, err := r.db.Exec(ctx, query,
		supplier.ID, supplier.Name, supplier.Status, certs, issues,
		supplier.LastAudit, supplier.ContactEmail, supplier.ContactPhone,
		address, supplier.Notes, supplier.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update supplier: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("supplier not found: %s", supplier.ID)
	}

	r.logger.DebugContext(ctx, "supplier updated",
		slog.String("supplier_id", supplier.ID.String()))
	return nil
}

// FindByID retrieves a supplier by ID
func (r *supplierRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Supplier, error) {
	query := `SELECT ` + supplierColumns + ` FROM suppliers WHERE id = $1`

	supplier, err := scanSupplierRow(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find supplier: %w", err)
	}
	return supplier, nil
}

// FindAll retrieves suppliers with filtering
func (r *supplierRepository) FindAll(ctx context.Context, params ports.SupplierListParams) ([]domain.Supplier, error) {
	qb := squirrel.Select(
		"id", "name", "status", "certifications", "quality_issues", "last_audit",
		"contact_email", "contact_phone", "address", "notes", "created_at", "updated_at",
	).From("suppliers").
		PlaceholderFormat(squirrel.Dollar)

	if params.Search != "" {
		qb = qb.Where("name ILIKE ?", "%"+params.Search+"%")
	}
	if params.Status != "" {
		qb = qb.Where(squirrel.Eq{"status": params.Status})
	}
	qb = qb.OrderBy("name ASC")

	sqlQuery, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.Query(ctx, sqlQuery, args...)
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

// Delete removes a supplier
func (r *supplierRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM suppliers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete supplier: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("supplier not found: %s", id)
	}

	r.logger.InfoContext(ctx, "supplier deleted",
		slog.String("supplier_id", id.String()))
	return nil
}

// Exists checks if a supplier exists
func (r *supplierRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM suppliers WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check existence: %w", err)
	}
	return exists, nil
}

// marshalSupplierJSON encodes the JSONB columns. QualityIssueList marshals
// back into whichever shape the record was read in.
func marshalSupplierJSON(supplier *domain.Supplier) (certs, issues, address []byte, err error) {
	certifications := supplier.Certifications
	if certifications == nil {
		certifications = []domain.Certification{}
	}
	if certs, err = json.Marshal(certifications); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode certifications: %w", err)
	}
	if issues, err = json.Marshal(supplier.QualityIssues); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode quality issues: %w", err)
	}
	if address, err = json.Marshal(supplier.Address); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode address: %w", err)
	}
	return certs, issues, address, nil
}

// scanSupplierRow scans one supplier row. The JSONB columns pass through the
// domain decoders, which normalize the legacy certification and quality-issue
// shapes.
func scanSupplierRow(row pgx.Row) (*domain.Supplier, error) {
	supplier := &domain.Supplier{}
	var (
		certsRaw, issuesRaw, addressRaw []byte
		lastAudit                       sql.NullTime
		contactEmail, contactPhone      sql.NullString
		notes                           sql.NullString
	)

	err := row.Scan(
		&supplier.ID, &supplier.Name, &supplier.Status,
		&certsRaw, &issuesRaw, &lastAudit,
		&contactEmail, &contactPhone, &addressRaw, &notes,
		&supplier.CreatedAt, &supplier.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lastAudit.Valid {
		t := lastAudit.Time
		supplier.LastAudit = &t
	}
	supplier.ContactEmail = contactEmail.String
	supplier.ContactPhone = contactPhone.String
	supplier.Notes = notes.String

	if len(certsRaw) > 0 {
		if err := json.Unmarshal(certsRaw, &supplier.Certifications); err != nil {
			return nil, fmt.Errorf("failed to decode certifications: %w", err)
		}
	}
	if len(issuesRaw) > 0 {
		if err := json.Unmarshal(issuesRaw, &supplier.QualityIssues); err != nil {
			return nil, fmt.Errorf("failed to decode quality issues: %w", err)
		}
	}
	if len(addressRaw) > 0 {
		if err := json.Unmarshal(addressRaw, &supplier.Address); err != nil {
			return nil, fmt.Errorf("failed to decode address: %w", err)
		}
	}

	return supplier, nil
}
