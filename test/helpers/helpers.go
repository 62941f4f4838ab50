// test/helpers/helpers.go
package helpers

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/acrelle/supplytrack-be/internal/adapters/db"
	"github.com/acrelle/supplytrack-be/internal/core/domain"
	"github.com/acrelle/supplytrack-be/internal/pkg/config"
)

// TestDB represents a test database instance
type TestDB struct {
	PgxPool  *pgxpool.Pool
	Database *db.Database
	Resource *dockertest.Resource
	Pool     *dockertest.Pool
	Config   *db.Config
}

// TestRedis represents a test Redis instance
type TestRedis struct {
	Client *redis.Client
	Server *miniredis.Miniredis
}

// TestLogger returns a test logger
func TestLogger() *slog.Logger {
	if testing.Verbose() {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// SetupTestDB creates a PostgreSQL container for integration tests
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	pool, err := dockertest.NewPool("")
	require.NoError(t, err, "Could not connect to Docker")

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=test",
			"POSTGRES_PASSWORD=test",
			"POSTGRES_DB=test_supplytrack",
			"listen_addresses = '*'",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err, "Could not start PostgreSQL container")

	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Logf("Could not purge resource: %s", err)
		}
	})

	dbConfig := &db.Config{
		Host:               "localhost",
		Port:               resource.GetPort("5432/tcp"),
		User:               "test",
		Password:           "test",
		Database:           "test_supplytrack",
		SSLMode:            "disable",
		MaxConnections:     5,
		MinConnections:     1,
		MaxConnLifetime:    time.Hour,
		MaxConnIdleTime:    time.Minute * 30,
		HealthCheckPeriod:  time.Minute,
		ConnectTimeout:     time.Second * 10,
		EnableQueryLogging: testing.Verbose(),
	}

	// Wait for database to be ready
	var database *db.Database
	err = pool.Retry(func() error {
		ctx := context.Background()
		var err error
		database, err = db.NewDatabase(ctx, dbConfig, TestLogger())
		if err != nil {
			return err
		}
		return database.Ping(ctx)
	})
	require.NoError(t, err, "Could not connect to PostgreSQL")

	ctx := context.Background()
	migrationConfig := &db.MigrationConfig{
		DatabaseURL: fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s",
			dbConfig.User, dbConfig.Password, dbConfig.Host, dbConfig.Port,
			dbConfig.Database, dbConfig.SSLMode),
		EmbeddedSource: db.MigrationFiles,
		UseEmbedded:    true,
		TableName:      "schema_migrations",
		SchemaName:     "public",
	}

	err = db.RunMigrationsWithRetry(ctx, migrationConfig, TestLogger(), 3)
	require.NoError(t, err, "Could not run migrations")

	return &TestDB{
		PgxPool:  database.Pool(),
		Database: database,
		Resource: resource,
		Pool:     pool,
		Config:   dbConfig,
	}
}

// SetupTestRedis creates a mock Redis instance for testing
func SetupTestRedis(t *testing.T) *TestRedis {
	t.Helper()

	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	return &TestRedis{
		Client: client,
		Server: mr,
	}
}

// LoadTestConfig returns a test configuration
func LoadTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:        "test-api",
			Environment: "test",
			Version:     "test",
			LogLevel:    "debug",
			LogFormat:   "text",
			Debug:       true,
		},
		Database: config.DatabaseConfig{
			Host:               "localhost",
			Port:               "5432",
			User:               "test",
			Password:           "test",
			Name:               "test_supplytrack",
			SSLMode:            "disable",
			MaxConnections:     10,
			MinConnections:     2,
			EnableQueryLogging: true,
		},
		Redis: config.RedisConfig{
			Host:     "localhost",
			Port:     "6379",
			DB:       0,
			TTL:      time.Hour,
			PoolSize: 10,
		},
		Security: config.SecurityConfig{
			JWTSecret:         "test-secret",
			JWTExpiration:     24 * time.Hour,
			RateLimitRequests: 100,
			RateLimitDuration: time.Minute,
			AllowedOrigins:    []string{"*"},
			SecureHeaders:     false,
		},
		Server: config.ServerConfig{
			Host:         "localhost",
			Port:         "8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		Reports: config.ReportsConfig{
			OutputDir:       os.TempDir(),
			ResultTTL:       time.Hour,
			ExportTimeout:   time.Minute,
			CleanupInterval: time.Hour,
		},
	}
}

// CreateTestSupplier creates a test supplier
func CreateTestSupplier(overrides ...func(*domain.Supplier)) *domain.Supplier {
	expiry := time.Now().AddDate(1, 0, 0)
	supplier := &domain.Supplier{
		ID:     uuid.New(),
		Name:   "Nordic Organics AS",
		Status: domain.SupplierApproved,
		Certifications: []domain.Certification{
			{Name: "ISO 22000", ExpiryDate: &expiry},
		},
		ContactEmail: "quality@nordicorganics.example",
		ContactPhone: "+47 22 00 00 00",
		Address: domain.Address{
			Street:  "Havnegata 12",
			City:    "Oslo",
			Country: "Norway",
		},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	for _, override := range overrides {
		override(supplier)
	}

	return supplier
}

// CreateTestMaterial creates a test raw material
func CreateTestMaterial(overrides ...func(*domain.RawMaterial)) *domain.RawMaterial {
	expiry := time.Now().AddDate(0, 6, 0)
	material := &domain.RawMaterial{
		ID:          uuid.New(),
		Name:        "Organic Oat Flour",
		Purity:      "99.5%",
		SupplierID:  uuid.New(),
		HazardClass: "Non-hazardous",
		StorageTemp: "15-25C",
		Status:      domain.MaterialInStock,
		Quantity: domain.Quantity{
			Value: decimal.NewFromInt(500),
			Unit:  domain.UnitKilogram,
		},
		ExpiryDate: &expiry,
		LotNumber:  "LOT-2025-001",
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	for _, override := range overrides {
		override(material)
	}

	return material
}

// CreateTestBatch creates a test production batch
func CreateTestBatch(overrides ...func(*domain.Batch)) *domain.Batch {
	batch := &domain.Batch{
		ID:              uuid.New(),
		BatchNumber:     "B-2025-001",
		RawMaterialID:   uuid.New(),
		SupplierID:      uuid.New(),
		ProductionDate:  time.Now().AddDate(0, 0, -2),
		AcquisitionDate: time.Now().AddDate(0, 0, -1),
		Buyer:           "Internal Production",
		Contents:        "Oat flour blend, 80/20",
		Status:          domain.BatchActive,
		ApprovalStatus:  domain.ApprovalPending,
		Quantity: domain.Quantity{
			Value: decimal.NewFromInt(200),
			Unit:  domain.UnitKilogram,
		},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	for _, override := range overrides {
		override(batch)
	}

	return batch
}

// CreateTestUser creates a test user account
func CreateTestUser(overrides ...func(*domain.User)) *domain.User {
	user := &domain.User{
		ID:        uuid.New(),
		Name:      "Test Worker",
		Email:     "worker@supplytrack.test",
		Role:      domain.RoleWorker,
		IsActive:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	for _, override := range overrides {
		override(user)
	}

	return user
}

// TruncateAllTables truncates all tables in the test database
func TruncateAllTables(t *testing.T, db *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()
	tables := []string{
		"batches",
		"raw_materials",
		"suppliers",
		"users",
	}

	for _, table := range tables {
		_, err := db.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		require.NoError(t, err, "Failed to truncate table: %s", table)
	}
}
