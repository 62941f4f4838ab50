// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/acrelle/supplytrack-be/internal/adapters/db"
	redis_a "github.com/acrelle/supplytrack-be/internal/adapters/redis_adapter"
	"github.com/acrelle/supplytrack-be/internal/core/domain"
	"github.com/acrelle/supplytrack-be/internal/core/ports"
	"github.com/acrelle/supplytrack-be/internal/core/services"
	"github.com/acrelle/supplytrack-be/internal/handlers"
	"github.com/acrelle/supplytrack-be/internal/handlers/middleware"
	"github.com/acrelle/supplytrack-be/internal/pkg/auth"
	"github.com/acrelle/supplytrack-be/internal/pkg/config"
	"github.com/acrelle/supplytrack-be/internal/pkg/logger"
)

// Build information injected at compile time
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	slogger := logger.SetupLogger("debug", "json")

	slogger.Info("starting supply chain tracking system",
		slog.String("version", Version),
		slog.String("build_time", BuildTime),
	)

	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Reconfigure logger with loaded settings
	slogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat)
	slogger.Info("configuration loaded",
		slog.String("environment", cfg.App.Environment),
		slog.String("log_level", cfg.App.LogLevel),
	)

	ctx := context.Background()

	deps, err := initializeDependencies(ctx, cfg, slogger)
	if err != nil {
		slogger.Error("failed to initialize dependencies", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer deps.cleanup()

	if err := runMigrations(ctx, cfg, slogger); err != nil {
		slogger.Error("failed to run migrations", slog.String("error", err.Error()))
		if cfg.IsProduction() {
			os.Exit(1)
		}
	}

	server := setupHTTPServer(cfg, deps, slogger)

	serverErrors := make(chan error, 1)
	go func() {
		slogger.Info("starting HTTP server",
			slog.String("address", cfg.GetServerAddress()),
		)
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slogger.Error("server error", slog.String("error", err.Error()))
		}
	case sig := <-shutdown:
		slogger.Info("shutdown signal received",
			slog.String("signal", sig.String()),
		)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slogger.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
			server.Close()
		}

		slogger.Info("server shutdown complete")
	}
}

// dependencies holds all application dependencies
type dependencies struct {
	database    *db.Database
	redisClient *redis.Client
	cache       ports.CacheRepository
	asynqClient *asynq.Client

	supplierHandler  *handlers.SupplierHandler
	materialHandler  *handlers.MaterialHandler
	batchHandler     *handlers.BatchHandler
	userHandler      *handlers.UserHandler
	authHandler      *handlers.AuthHandler
	dashboardHandler *handlers.DashboardHandler
	reportHandler    *handlers.ReportHandler
	healthHandler    *handlers.HealthHandler

	jwtManager *auth.JWTManager
}

func (d *dependencies) cleanup() {
	if d.asynqClient != nil {
		d.asynqClient.Close()
	}
	if d.redisClient != nil {
		d.redisClient.Close()
	}
	if d.database != nil {
		d.database.Close()
	}
}

func initializeDependencies(ctx context.Context, cfg *config.Config, slogger *slog.Logger) (*dependencies, error) {
	deps := &dependencies{}

	slogger.Info("connecting to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Name),
	)

	database, err := db.NewDatabase(ctx, &db.Config{
		Host:               cfg.Database.Host,
		Port:               cfg.Database.Port,
		User:               cfg.Database.User,
		Password:           cfg.Database.Password,
		Database:           cfg.Database.Name,
		SSLMode:            cfg.Database.SSLMode,
		MaxConnections:     cfg.Database.MaxConnections,
		MinConnections:     cfg.Database.MinConnections,
		MaxConnLifetime:    cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:    cfg.Database.MaxConnIdleTime,
		HealthCheckPeriod:  cfg.Database.HealthCheckPeriod,
		ConnectTimeout:     cfg.Database.ConnectTimeout,
		EnableQueryLogging: cfg.Database.EnableQueryLogging,
	}, slogger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	deps.database = database

	slogger.Info("connecting to Redis",
		slog.String("host", cfg.Redis.Host),
		slog.String("port", cfg.Redis.Port),
	)

	redisClient := redis.NewClient(&redis.Options{
		Addr:         cfg.GetRedisAddress(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		MaxRetries:   cfg.Redis.MaxRetries,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	deps.redisClient = redisClient
	deps.cache = redis_a.NewCache(redisClient, cfg.Redis.TTL, slogger)

	deps.asynqClient = asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Asynq.RedisAddr,
		Password: cfg.Asynq.RedisPassword,
		DB:       cfg.Asynq.RedisDB,
	})

	// Repositories
	supplierRepo := db.NewSupplierRepository(database, slogger)
	materialRepo := db.NewMaterialRepository(database, slogger)
	batchRepo := db.NewBatchRepository(database, slogger)
	userRepo := db.NewUserRepository(database, slogger)
	dashboardRepo := db.NewDashboardRepository(database, slogger)

	// Services
	supplierService := services.NewSupplierService(supplierRepo, materialRepo, batchRepo, deps.cache, slogger)
	materialService := services.NewMaterialService(materialRepo, supplierRepo, deps.cache, slogger)
	batchService := services.NewBatchService(batchRepo, deps.cache, slogger)
	userService := services.NewUserService(userRepo, slogger)
	dashboardService := services.NewDashboardService(dashboardRepo, batchRepo, deps.cache, slogger)

	deps.jwtManager = auth.NewJWTManager(cfg.Security.JWTSecret, cfg.Security.JWTExpiration)

	// Handlers
	deps.supplierHandler = handlers.NewSupplierHandler(supplierService, slogger)
	deps.materialHandler = handlers.NewMaterialHandler(materialService, slogger)
	deps.batchHandler = handlers.NewBatchHandler(batchService, slogger)
	deps.userHandler = handlers.NewUserHandler(userService, slogger)
	deps.authHandler = handlers.NewAuthHandler(userService, deps.jwtManager, slogger)
	deps.dashboardHandler = handlers.NewDashboardHandler(dashboardService, slogger)
	deps.reportHandler = handlers.NewReportHandler(
		deps.asynqClient,
		deps.cache,
		cfg.Reports.OutputDir,
		cfg.Reports.ResultTTL,
		cfg.Reports.ExportTimeout,
		slogger,
	)
	deps.healthHandler = handlers.NewHealthHandler(database, deps.cache, cfg.App.Version, slogger)

	slogger.Info("all dependencies initialized successfully")
	return deps, nil
}

func setupHTTPServer(cfg *config.Config, deps *dependencies, slogger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	registerRoutes(mux, deps)

	// Apply middleware in reverse order (innermost first)
	var handler http.Handler = mux
	handler = middleware.RequestID(handler)
	handler = middleware.Logger(slogger)(handler)
	handler = middleware.Recovery(slogger)(handler)

	if cfg.Security.RateLimitRequests > 0 {
		handler = middleware.RateLimit(cfg.Security.RateLimitRequests, cfg.Security.RateLimitDuration)(handler)
	}
	if len(cfg.Security.AllowedOrigins) > 0 {
		handler = middleware.CORS(cfg.Security.AllowedOrigins)(handler)
	}
	if cfg.Security.SecureHeaders {
		handler = middleware.SecureHeaders(handler)
	}

	return &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        handler,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(slogger.Handler(), slog.LevelError),
	}
}

func registerRoutes(mux *http.ServeMux, deps *dependencies) {
	apiV1 := "/api/v1"

	authed := middleware.Authenticate(deps.jwtManager)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)
	reviewers := middleware.RequireRole(domain.RoleAdmin, domain.RoleQAWorker)

	handle := func(pattern string, h http.HandlerFunc, wrap ...func(http.Handler) http.Handler) {
		var handler http.Handler = h
		for i := len(wrap) - 1; i >= 0; i-- {
			handler = wrap[i](handler)
		}
		mux.Handle(pattern, handler)
	}

	// Health and readiness endpoints
	mux.HandleFunc("GET /health", deps.healthHandler.Health)
	mux.HandleFunc("GET /ready", deps.healthHandler.Readiness)

	// Auth endpoints
	mux.HandleFunc("POST "+apiV1+"/auth/login", deps.authHandler.Login)
	handle("POST "+apiV1+"/auth/register", deps.authHandler.Register, authed, adminOnly)
	handle("GET "+apiV1+"/auth/me", deps.authHandler.Me, authed)

	// Supplier endpoints
	handle("GET "+apiV1+"/suppliers", deps.supplierHandler.List, authed)
	handle("GET "+apiV1+"/suppliers/{id}", deps.supplierHandler.Get, authed)
	handle("POST "+apiV1+"/suppliers", deps.supplierHandler.Create, authed, adminOnly)
	handle("PUT "+apiV1+"/suppliers/{id}", deps.supplierHandler.Update, authed, adminOnly)
	handle("DELETE "+apiV1+"/suppliers/{id}", deps.supplierHandler.Delete, authed, adminOnly)

	// Raw material endpoints
	handle("GET "+apiV1+"/materials", deps.materialHandler.List, authed)
	handle("GET "+apiV1+"/materials/{id}", deps.materialHandler.Get, authed)
	handle("POST "+apiV1+"/materials", deps.materialHandler.Create, authed, adminOnly)
	handle("PUT "+apiV1+"/materials/{id}", deps.materialHandler.Update, authed, adminOnly)
	handle("DELETE "+apiV1+"/materials/{id}", deps.materialHandler.Delete, authed, adminOnly)

	// Batch endpoints
	handle("GET "+apiV1+"/batches", deps.batchHandler.List, authed)
	handle("GET "+apiV1+"/batches/{id}", deps.batchHandler.Get, authed)
	handle("POST "+apiV1+"/batches", deps.batchHandler.Create, authed)
	handle("PUT "+apiV1+"/batches/{id}", deps.batchHandler.Update, authed)
	handle("PATCH "+apiV1+"/batches/{id}/review", deps.batchHandler.Review, authed, reviewers)
	handle("DELETE "+apiV1+"/batches/{id}", deps.batchHandler.Delete, authed, adminOnly)

	// User administration endpoints
	handle("GET "+apiV1+"/users", deps.userHandler.List, authed, adminOnly)
	handle("GET "+apiV1+"/users/{id}", deps.userHandler.Get, authed, adminOnly)
	handle("PUT "+apiV1+"/users/{id}", deps.userHandler.Update, authed, adminOnly)
	handle("DELETE "+apiV1+"/users/{id}", deps.userHandler.Delete, authed, adminOnly)

	// Dashboard endpoints
	handle("GET "+apiV1+"/dashboard/alerts", deps.dashboardHandler.Alerts, authed, adminOnly)
	handle("GET "+apiV1+"/dashboard/stats", deps.dashboardHandler.Stats, authed, adminOnly)
	handle("GET "+apiV1+"/dashboard/recent-batches", deps.dashboardHandler.RecentBatches, authed, adminOnly)

	// Report endpoints
	handle("POST "+apiV1+"/reports/export", deps.reportHandler.Export, authed, reviewers)
	handle("GET "+apiV1+"/reports/status/{jobId}", deps.reportHandler.Status, authed)
	handle("GET "+apiV1+"/reports/download/{jobId}", deps.reportHandler.Download, authed)
}

func runMigrations(ctx context.Context, cfg *config.Config, slogger *slog.Logger) error {
	slogger.Info("running database migrations")

	migrationConfig := &db.MigrationConfig{
		DatabaseURL:    cfg.GetDatabaseURL(),
		EmbeddedSource: db.MigrationFiles,
		UseEmbedded:    true,
		TableName:      "schema_migrations",
		SchemaName:     "public",
	}

	return db.RunMigrationsWithRetry(ctx, migrationConfig, slogger, 3)
}
