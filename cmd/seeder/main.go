// cmd/seeder/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/acrelle/supplytrack-be/internal/adapters/db"
	"github.com/acrelle/supplytrack-be/internal/core/domain"
	"github.com/acrelle/supplytrack-be/internal/core/ports"
	"github.com/acrelle/supplytrack-be/internal/pkg/auth"
	"github.com/acrelle/supplytrack-be/internal/pkg/config"
	"github.com/acrelle/supplytrack-be/internal/pkg/logger"
)

func main() {
	var (
		adminEmail    = flag.String("admin-email", "admin@supplytrack.local", "Email for the seeded admin account")
		adminPassword = flag.String("admin-password", "changeme123", "Password for the seeded admin account")
		withFixtures  = flag.Bool("fixtures", true, "Seed demo suppliers, materials, and batches")
		dryRun        = flag.Bool("dry-run", false, "Preview changes without modifying the database")
		logLevel      = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	)
	flag.Parse()

	slogger := logger.SetupLogger(*logLevel, "text")

	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	if *dryRun {
		slogger.Info("dry run: no changes will be made")
	}

	database, err := db.NewDatabase(ctx, &db.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Name,
		SSLMode:         cfg.Database.SSLMode,
		MaxConnections:  4,
		MinConnections:  1,
		MaxConnLifetime: time.Hour,
		MaxConnIdleTime: 30 * time.Minute,
		ConnectTimeout:  10 * time.Second,
	}, slogger)
	if err != nil {
		slogger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.Close()

	seeder := &seeder{
		users:     db.NewUserRepository(database, slogger),
		suppliers: db.NewSupplierRepository(database, slogger),
		materials: db.NewMaterialRepository(database, slogger),
		batches:   db.NewBatchRepository(database, slogger),
		logger:    slogger,
		dryRun:    *dryRun,
	}

	if err := seeder.seedAdmin(ctx, *adminEmail, *adminPassword); err != nil {
		slogger.Error("failed to seed admin account", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if *withFixtures {
		if err := seeder.seedFixtures(ctx); err != nil {
			slogger.Error("failed to seed fixtures", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	slogger.Info("seed operation completed")
}

type seeder struct {
	users     ports.UserRepository
	suppliers ports.SupplierRepository
	materials ports.MaterialRepository
	batches   ports.BatchRepository
	logger    *slog.Logger
	dryRun    bool
}

func (s *seeder) seedAdmin(ctx context.Context, email, password string) error {
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to check for existing admin: %w", err)
	}
	if existing != nil {
		s.logger.Info("admin account already exists, skipping",
			slog.String("email", email))
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &domain.User{
		Name:         "Administrator",
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		IsActive:     true,
	}
	if err := admin.Validate(); err != nil {
		return err
	}
	admin.PrepareForStorage()

	if s.dryRun {
		s.logger.Info("would create admin account", slog.String("email", email))
		return nil
	}
	if err := s.users.Save(ctx, admin); err != nil {
		return fmt.Errorf("failed to save admin account: %w", err)
	}

	s.logger.Info("admin account created", slog.String("email", email))
	return nil
}

func (s *seeder) seedFixtures(ctx context.Context) error {
	today := time.Now().Truncate(24 * time.Hour)

	soonExpiry := today.AddDate(0, 0, 5)
	farExpiry := today.AddDate(1, 0, 0)

	suppliers := []*domain.Supplier{
		{
			Name:         "Nordic Organics AS",
			ContactEmail: "ingrid@nordicorganics.example",
			ContactPhone: "+47 22 00 11 22",
			Status:       domain.SupplierApproved,
			Address: domain.Address{
				Street:  "Havnegata 12",
				City:    "Oslo",
				Country: "Norway",
			},
			Certifications: []domain.Certification{
				{Name: "ISO 22000", ExpiryDate: &farExpiry},
				{Name: "Organic EU", ExpiryDate: &soonExpiry},
			},
		},
		{
			Name:         "Baltic Grain Partners",
			ContactEmail: "tomas@balticgrain.example",
			ContactPhone: "+370 5 210 4477",
			Status:       domain.SupplierPending,
			Address: domain.Address{
				Street:  "Uosto g. 8",
				City:    "Klaipeda",
				Country: "Lithuania",
			},
			QualityIssues: domain.QualityIssueList{
				Issues: []domain.QualityIssue{
					{Description: "Moisture above tolerance in November delivery", Date: today.AddDate(0, -3, 0)},
				},
			},
		},
		{
			Name:         "Iberia Citrus SL",
			ContactEmail: "carmen@iberiacitrus.example",
			ContactPhone: "+34 961 23 45 67",
			Status:       domain.SupplierApproved,
			Address: domain.Address{
				Street:  "Calle Naranja 3",
				City:    "Valencia",
				Country: "Spain",
			},
		},
	}

	for _, supplier := range suppliers {
		if err := supplier.Validate(); err != nil {
			return fmt.Errorf("supplier %q: %w", supplier.Name, err)
		}
		supplier.PrepareForStorage()
		if s.dryRun {
			s.logger.Info("would create supplier", slog.String("name", supplier.Name))
			continue
		}
		if err := s.suppliers.Save(ctx, supplier); err != nil {
			return fmt.Errorf("failed to save supplier %q: %w", supplier.Name, err)
		}
		s.logger.Info("supplier created", slog.String("name", supplier.Name))
	}

	materials := []*domain.RawMaterial{
		{
			Name:        "Organic Oat Flakes",
			Purity:      "99.5%",
			SupplierID:  suppliers[0].ID,
			HazardClass: "None",
			StorageTemp: "Ambient",
			Status:      domain.MaterialInStock,
			Quantity:    domain.Quantity{Value: decimal.NewFromInt(850), Unit: domain.UnitKilogram},
		},
		{
			Name:        "Rye Flour",
			Purity:      "98%",
			SupplierID:  suppliers[1].ID,
			HazardClass: "None",
			StorageTemp: "Ambient",
			Status:      domain.MaterialLowStock,
			Quantity:    domain.Quantity{Value: decimal.NewFromInt(12), Unit: domain.UnitKilogram},
		},
		{
			Name:        "Orange Concentrate",
			Purity:      "100%",
			SupplierID:  suppliers[2].ID,
			HazardClass: "None",
			StorageTemp: "4C",
			Status:      domain.MaterialInStock,
			Quantity:    domain.Quantity{Value: decimal.NewFromInt(400), Unit: domain.UnitLiter},
		},
	}

	for _, material := range materials {
		if err := material.Validate(); err != nil {
			return fmt.Errorf("material %q: %w", material.Name, err)
		}
		material.PrepareForStorage()
		if s.dryRun {
			s.logger.Info("would create material", slog.String("name", material.Name))
			continue
		}
		if err := s.materials.Save(ctx, material); err != nil {
			return fmt.Errorf("failed to save material %q: %w", material.Name, err)
		}
		s.logger.Info("material created", slog.String("name", material.Name))
	}

	batches := []*domain.Batch{
		{
			BatchNumber:     fmt.Sprintf("B-%s-001", today.Format("20060102")),
			RawMaterialID:   materials[0].ID,
			SupplierID:      suppliers[0].ID,
			ProductionDate:  today.AddDate(0, 0, -2),
			AcquisitionDate: today.AddDate(0, 0, -7),
			Buyer:           "Nordgren Foods",
			Contents:        "Oat flake muesli base",
			Status:          domain.BatchActive,
			ApprovalStatus:  domain.ApprovalPending,
			Quantity:        domain.Quantity{Value: decimal.NewFromInt(200), Unit: domain.UnitKilogram},
		},
		{
			BatchNumber:     fmt.Sprintf("B-%s-002", today.Format("20060102")),
			RawMaterialID:   materials[1].ID,
			SupplierID:      suppliers[1].ID,
			ProductionDate:  today.AddDate(0, 0, -10),
			AcquisitionDate: today.AddDate(0, 0, -14),
			Buyer:           "Kastrup Bakery",
			Contents:        "Rye sourdough starter",
			Status:          domain.BatchCompleted,
			ApprovalStatus:  domain.ApprovalRejected,
			Notes:           "contamination found during QA sampling",
			Quantity:        domain.Quantity{Value: decimal.NewFromInt(50), Unit: domain.UnitKilogram},
		},
	}

	for _, batch := range batches {
		if err := batch.Validate(); err != nil {
			return fmt.Errorf("batch %q: %w", batch.BatchNumber, err)
		}
		batch.PrepareForStorage()
		if s.dryRun {
			s.logger.Info("would create batch", slog.String("batch_number", batch.BatchNumber))
			continue
		}
		if err := s.batches.Save(ctx, batch); err != nil {
			return fmt.Errorf("failed to save batch %q: %w", batch.BatchNumber, err)
		}
		s.logger.Info("batch created", slog.String("batch_number", batch.BatchNumber))
	}

	return nil
}
