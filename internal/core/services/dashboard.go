// internal/core/services/dashboard.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/acrelle/supplytrack-be/internal/core/domain"
	"github.com/acrelle/supplytrack-be/internal/core/ports"
)

const (
	statsCacheKey = "dash:stats"
	statsCacheTTL = 60 * time.Second

	recentBatchLimit = 5
)

// DashboardService implements the alerting/aggregation engine behind the
// admin dashboard: it collects a snapshot of supplier, material, and batch
// records, derives the operational alert list, and computes the summary
// counters.
type DashboardService struct {
	repo    ports.DashboardRepository
	batches ports.BatchRepository
	cache   ports.CacheRepository
	logger  *slog.Logger
	now     func() time.Time
}

// Statically assert that *DashboardService implements the DashboardService interface.
var _ ports.DashboardService = (*DashboardService)(nil)

// DashboardOption configures a DashboardService
type DashboardOption func(*DashboardService)

// WithClock replaces the wall clock. The deriver is a pure function of the
// snapshot plus the current instant, so fixing the clock makes the expiry
// window fully deterministic in tests.
func WithClock(now func() time.Time) DashboardOption {
	return func(s *DashboardService) { s.now = now }
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	repo ports.DashboardRepository,
	batches ports.BatchRepository,
	cache ports.CacheRepository,
	logger *slog.Logger,
	opts ...DashboardOption,
) *DashboardService {
	s := &DashboardService{
		repo:    repo,
		batches: batches,
		cache:   cache,
		logger:  logger.With(slog.String("service", "dashboard")),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// snapshot holds the collector's three reads. The reads are non-atomic:
// concurrent writes may be half-visible across the three slices, which the
// dashboard accepts as staleness.
type snapshot struct {
	suppliers []domain.Supplier
	lowStock  []domain.RawMaterial
	rejected  []domain.Batch
}

// collect issues the three snapshot reads concurrently. Any failure fails the
// whole collection; there is no partial alert list.
func (s *DashboardService) collect(ctx context.Context) (*snapshot, error) {
	snap := &snapshot{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		snap.suppliers, err = s.repo.AllSuppliers(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.lowStock, err = s.repo.LowStockMaterials(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.rejected, err = s.repo.RejectedBatches(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to collect dashboard snapshot: %w", err)
	}
	return snap, nil
}

// Alerts returns the derived alert list, high severity first. Alerts are
// recomputed from a fresh snapshot on every call and are never cached.
func (s *DashboardService) Alerts(ctx context.Context) ([]domain.Alert, error) {
	snap, err := s.collect(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	alerts := deriveSupplierAlerts(snap.suppliers, now)
	alerts = append(alerts, deriveLowStockAlerts(snap.lowStock, now)...)
	alerts = append(alerts, deriveRejectedBatchAlerts(snap.rejected)...)
	alerts = rankAlerts(alerts)

	s.logger.DebugContext(ctx, "derived dashboard alerts",
		slog.Int("suppliers", len(snap.suppliers)),
		slog.Int("low_stock", len(snap.lowStock)),
		slog.Int("rejected", len(snap.rejected)),
		slog.Int("alerts", len(alerts)))

	if alerts == nil {
		alerts = []domain.Alert{}
	}
	return alerts, nil
}

// Stats returns the summary counters. The counters are computed by a path
// independent of the alert list: pendingAlerts counts underlying conditions,
// so it and len(Alerts()) only coincide when every condition maps to exactly
// one alert.
func (s *DashboardService) Stats(ctx context.Context) (*ports.DashboardStats, error) {
	var stats ports.DashboardStats
	err := s.cache.GetOrSet(ctx, statsCacheKey, &stats, func() (interface{}, error) {
		return s.loadStats(ctx)
	}, statsCacheTTL)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *DashboardService) loadStats(ctx context.Context) (*ports.DashboardStats, error) {
	var (
		counts    *ports.SummaryCounts
		suppliers []domain.Supplier
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		counts, err = s.repo.SummaryCounts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		suppliers, err = s.repo.AllSuppliers(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load dashboard stats: %w", err)
	}

	pending := countSupplierConditions(suppliers, s.now()) +
		counts.LowStockMaterials +
		counts.RejectedBatches

	return &ports.DashboardStats{
		TotalRawMaterials: ports.StatValue{Value: counts.TotalRawMaterials},
		ActiveSuppliers:   ports.StatValue{Value: counts.ApprovedSuppliers},
		ActiveBatches:     ports.StatValue{Value: counts.ActiveBatches},
		PendingAlerts:     ports.StatValue{Value: pending},
	}, nil
}

// RecentBatches returns the most recently created active batches for the
// dashboard's activity card.
func (s *DashboardService) RecentBatches(ctx context.Context) ([]domain.Batch, error) {
	batches, err := s.batches.FindRecentActive(ctx, recentBatchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent batches: %w", err)
	}
	if batches == nil {
		batches = []domain.Batch{}
	}
	return batches, nil
}
