// internal/core/services/batch.go
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/acrelle/supplytrack-be/internal/core/domain"
	"github.com/acrelle/supplytrack-be/internal/core/ports"
)

// BatchService handles production batch business logic
type BatchService struct {
	repo   ports.BatchRepository
	cache  ports.CacheRepository
	logger *slog.Logger
}

// Statically assert that *BatchService implements the BatchService interface.
var _ ports.BatchService = (*BatchService)(nil)

// NewBatchService creates a new batch service
func NewBatchService(
	repo ports.BatchRepository,
	cache ports.CacheRepository,
	logger *slog.Logger,
) *BatchService {
	return &BatchService{
		repo:   repo,
		cache:  cache,
		logger: logger.With(slog.String("service", "batch")),
	}
}

// Create validates and stores a new batch. New batches start Active with a
// Pending approval status regardless of what the caller sent.
func (s *BatchService) Create(ctx context.Context, batch *domain.Batch) error {
	if err := batch.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	batch.PrepareForStorage()

	if err := s.repo.Save(ctx, batch); err != nil {
		return fmt.Errorf("failed to save batch: %w", err)
	}

	s.invalidateDashboard(ctx)
	s.logger.InfoContext(ctx, "batch created",
		slog.String("batch_id", batch.ID.String()),
		slog.String("batch_number", batch.BatchNumber))
	return nil
}

// GetByID retrieves a batch by ID
func (s *BatchService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Batch, error) {
	batch, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get batch: %w", err)
	}
	if batch == nil {
		return nil, fmt.Errorf("batch %s: %w", id, ErrNotFound)
	}
	return batch, nil
}

// List retrieves batches matching the given filters
func (s *BatchService) List(ctx context.Context, params ports.BatchListParams) ([]domain.Batch, error) {
	batches, err := s.repo.FindAll(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list batches: %w", err)
	}
	return batches, nil
}

// Update validates and stores changes to an existing batch
func (s *BatchService) Update(ctx context.Context, id uuid.UUID, batch *domain.Batch) error {
	batch.ID = id
	if err := batch.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if err := s.repo.Update(ctx, batch); err != nil {
		return fmt.Errorf("failed to update batch: %w", err)
	}

	s.invalidateDashboard(ctx)
	s.logger.InfoContext(ctx, "batch updated",
		slog.String("batch_id", id.String()))
	return nil
}

// Review applies a QA review to a batch: approval status, review notes, or
// both. A rejection here is what feeds the dashboard's rejected-batch alerts.
func (s *BatchService) Review(ctx context.Context, id uuid.UUID, review ports.BatchReview) (*domain.Batch, error) {
	if review.ApprovalStatus != nil {
		if err := review.ApprovalStatus.Validate(); err != nil {
			return nil, fmt.Errorf("validation failed: %w", err)
		}
	}

	batch, err := s.repo.UpdateReview(ctx, id, review)
	if err != nil {
		return nil, fmt.Errorf("failed to review batch: %w", err)
	}
	if batch == nil {
		return nil, fmt.Errorf("batch %s: %w", id, ErrNotFound)
	}

	s.invalidateDashboard(ctx)
	s.logger.InfoContext(ctx, "batch reviewed",
		slog.String("batch_id", id.String()),
		slog.String("approval_status", string(batch.ApprovalStatus)))
	return batch, nil
}

// Delete removes a batch
func (s *BatchService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete batch: %w", err)
	}

	s.invalidateDashboard(ctx)
	s.logger.InfoContext(ctx, "batch deleted",
		slog.String("batch_id", id.String()))
	return nil
}

func (s *BatchService) invalidateDashboard(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, "dash:*"); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate dashboard cache",
			slog.String("error", err.Error()))
	}
}
