// internal/core/services/supplier.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/acrelle/supplytrack-be/internal/core/domain"
	"github.com/acrelle/supplytrack-be/internal/core/ports"
)

// SupplierService handles supplier business logic
type SupplierService struct {
	repo      ports.SupplierRepository
	materials ports.MaterialRepository
	batches   ports.BatchRepository
	cache     ports.CacheRepository
	logger    *slog.Logger
}

// Statically assert that *SupplierService implements the SupplierService interface.
var _ ports.SupplierService = (*SupplierService)(nil)

// NewSupplierService creates a new supplier service
func NewSupplierService(
	repo ports.SupplierRepository,
	materials ports.MaterialRepository,
	batches ports.BatchRepository,
	cache ports.CacheRepository,
	logger *slog.Logger,
) *SupplierService {
	return &SupplierService{
		repo:      repo,
		materials: materials,
		batches:   batches,
		cache:     cache,
		logger:    logger.With(slog.String("service", "supplier")),
	}
}

// Create validates and stores a new supplier
func (s *SupplierService) Create(ctx context.Context, supplier *domain.Supplier) error {
	if err := supplier.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	supplier.PrepareForStorage()

	if err := s.repo.Save(ctx, supplier); err != nil {
		return fmt.Errorf("failed to save supplier: %w", err)
	}

	s.invalidateDashboard(ctx)
	s.logger.InfoContext(ctx, "supplier created",
		slog.String("supplier_id", supplier.ID.String()),
		slog.String("name", supplier.Name))
	return nil
}

// GetByID retrieves a supplier by ID
func (s *SupplierService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Supplier, error) {
	supplier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get supplier: %w", err)
	}
	if supplier == nil {
		return nil, fmt.Errorf("supplier %s: %w", id, ErrNotFound)
	}
	return supplier, nil
}

// List retrieves suppliers matching the given filters
func (s *SupplierService) List(ctx context.Context, params ports.SupplierListParams) ([]domain.Supplier, error) {
	suppliers, err := s.repo.FindAll(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}
	return suppliers, nil
}

// Update validates and stores changes to an existing supplier
func (s *SupplierService) Update(ctx context.Context, id uuid.UUID, supplier *domain.Supplier) error {
	supplier.ID = id
	if err := supplier.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if err := s.repo.Update(ctx, supplier); err != nil {
		return fmt.Errorf("failed to update supplier: %w", err)
	}

	s.invalidateDashboard(ctx)
	s.logger.InfoContext(ctx, "supplier updated",
		slog.String("supplier_id", id.String()))
	return nil
}

// Delete removes a supplier. The delete is refused while raw materials or
// batches still reference the supplier, with a message naming the counts.
func (s *SupplierService) Delete(ctx context.Context, id uuid.UUID) error {
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check supplier existence: %w", err)
	}
	if !exists {
		return fmt.Errorf("supplier %s: %w", id, ErrNotFound)
	}

	materialCount, err := s.materials.CountBySupplier(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count material references: %w", err)
	}
	batchCount, err := s.batches.CountBySupplier(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count batch references: %w", err)
	}

	if materialCount > 0 || batchCount > 0 {
		var refs []string
		if materialCount > 0 {
			refs = append(refs, fmt.Sprintf("%d raw material(s)", materialCount))
		}
		if batchCount > 0 {
			refs = append(refs, fmt.Sprintf("%d batch(es)", batchCount))
		}
		return fmt.Errorf("%w by %s", ErrSupplierInUse, strings.Join(refs, " and "))
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete supplier: %w", err)
	}

	s.invalidateDashboard(ctx)
	s.logger.InfoContext(ctx, "supplier deleted",
		slog.String("supplier_id", id.String()))
	return nil
}

func (s *SupplierService) invalidateDashboard(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, "dash:*"); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate dashboard cache",
			slog.String("error", err.Error()))
	}
}
