// internal/core/services/material.go
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/acrelle/supplytrack-be/internal/core/domain"
	"github.com/acrelle/supplytrack-be/internal/core/ports"
)

// MaterialService handles raw material business logic
type MaterialService struct {
	repo      ports.MaterialRepository
	suppliers ports.SupplierRepository
	cache     ports.CacheRepository
	logger    *slog.Logger
}

// Statically assert that *MaterialService implements the MaterialService interface.
var _ ports.MaterialService = (*MaterialService)(nil)

// NewMaterialService creates a new material service
func NewMaterialService(
	repo ports.MaterialRepository,
	suppliers ports.SupplierRepository,
	cache ports.CacheRepository,
	logger *slog.Logger,
) *MaterialService {
	return &MaterialService{
		repo:      repo,
		suppliers: suppliers,
		cache:     cache,
		logger:    logger.With(slog.String("service", "material")),
	}
}

// Create validates and stores a new raw material
func (s *MaterialService) Create(ctx context.Context, material *domain.RawMaterial) error {
	if err := material.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	if err := s.checkSupplier(ctx, material.SupplierID); err != nil {
		return err
	}
	material.PrepareForStorage()

	if err := s.repo.Save(ctx, material); err != nil {
		return fmt.Errorf("failed to save material: %w", err)
	}

	s.invalidateDashboard(ctx)
	s.logger.InfoContext(ctx, "material created",
		slog.String("material_id", material.ID.String()),
		slog.String("name", material.Name),
		slog.String("status", string(material.Status)))
	return nil
}

// GetByID retrieves a raw material by ID
func (s *MaterialService) GetByID(ctx context.Context, id uuid.UUID) (*domain.RawMaterial, error) {
	material, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get material: %w", err)
	}
	if material == nil {
		return nil, fmt.Errorf("material %s: %w", id, ErrNotFound)
	}
	return material, nil
}

// List retrieves raw materials matching the given filters
func (s *MaterialService) List(ctx context.Context, params ports.MaterialListParams) ([]domain.RawMaterial, error) {
	materials, err := s.repo.FindAll(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list materials: %w", err)
	}
	return materials, nil
}

// Update validates and stores changes to an existing raw material
func (s *MaterialService) Update(ctx context.Context, id uuid.UUID, material *domain.RawMaterial) error {
	material.ID = id
	if err := material.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	if err := s.checkSupplier(ctx, material.SupplierID); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, material); err != nil {
		return fmt.Errorf("failed to update material: %w", err)
	}

	s.invalidateDashboard(ctx)
	s.logger.InfoContext(ctx, "material updated",
		slog.String("material_id", id.String()))
	return nil
}

// Delete removes a raw material
func (s *MaterialService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete material: %w", err)
	}

	s.invalidateDashboard(ctx)
	s.logger.InfoContext(ctx, "material deleted",
		slog.String("material_id", id.String()))
	return nil
}

// checkSupplier rejects materials pointing at a supplier that does not exist.
func (s *MaterialService) checkSupplier(ctx context.Context, supplierID uuid.UUID) error {
	exists, err := s.suppliers.Exists(ctx, supplierID)
	if err != nil {
		return fmt.Errorf("failed to check supplier existence: %w", err)
	}
	if !exists {
		return fmt.Errorf("supplier %s: %w", supplierID, ErrNotFound)
	}
	return nil
}

func (s *MaterialService) invalidateDashboard(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, "dash:*"); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate dashboard cache",
			slog.String("error", err.Error()))
	}
}
