package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/teknova-erp/resource-api/internal/config"
	"github.com/teknova-erp/resource-api/internal/http/handler"
	"github.com/teknova-erp/resource-api/internal/http/middleware"
	"github.com/teknova-erp/resource-api/internal/http/router"
	"github.com/teknova-erp/resource-api/internal/jobs"
	"github.com/teknova-erp/resource-api/internal/logger"
	"github.com/teknova-erp/resource-api/internal/persistence"
	"github.com/teknova-erp/resource-api/internal/service"
	"github.com/teknova-erp/resource-api/internal/storage"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	// Load full configuration with secrets
	// In development: uses environment variables
	// In staging/production: fetches from Azure Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	// Initialize the record backend
	backend, err := newBackend(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize persistence backend: %w", err)
	}

	log.Info("Persistence backend initialized", zap.String("mode", cfg.Persistence.Mode))

	// Initialize services. Dependency order matters: contracts resolve
	// customers, projects resolve contracts, personnel resolve projects.
	customerService := service.NewCustomerService(backend, log)
	contractService := service.NewContractService(backend, customerService.Store(), log)
	projectService := service.NewProjectService(backend, contractService.Store(), log)
	personnelService := service.NewPersonnelService(backend, projectService.Store(), log)
	projectTaskService := service.NewProjectTaskService(backend, log)
	filterService := service.NewFilterService(backend, log)

	// Initialize middleware
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Initialize handlers
	customerHandler := handler.NewCustomerHandler(customerService, log)
	contractHandler := handler.NewContractHandler(contractService, log)
	projectHandler := handler.NewProjectHandler(projectService, log)
	personnelHandler := handler.NewPersonnelHandler(personnelService, log)
	projectTaskHandler := handler.NewProjectTaskHandler(projectTaskService, log)
	filterHandler := handler.NewFilterHandler(filterService, log)

	// Setup router
	rt := router.NewRouter(
		cfg,
		log,
		backend,
		rateLimiter,
		customerHandler,
		contractHandler,
		projectHandler,
		personnelHandler,
		projectTaskHandler,
		filterHandler,
	)

	// Initialize and start scheduler for the snapshot export job
	var scheduler *jobs.Scheduler
	if cfg.Snapshot.Enabled {
		archiveStorage, err := storage.NewStorage(&cfg.Storage, log)
		if err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
		log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

		snapshotJob := jobs.NewSnapshotJob(backend, archiveStorage, cfg.Snapshot.Prefix, log)
		scheduler = jobs.NewScheduler(log)
		if err := scheduler.AddJob("snapshot-export", cfg.Snapshot.Schedule, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			if err := snapshotJob.Run(jobCtx); err != nil {
				log.Error("Snapshot export failed", zap.Error(err))
			}
		}); err != nil {
			return fmt.Errorf("failed to register snapshot job: %w", err)
		}
		scheduler.Start()
	} else {
		log.Info("Snapshot export disabled")
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		if scheduler != nil {
			ctx := scheduler.Stop()
			<-ctx.Done()
			log.Info("Scheduler stopped")
		}

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}

// newBackend selects the record backend from configuration.
func newBackend(cfg *config.Config, log *zap.Logger) (persistence.Backend, error) {
	switch cfg.Persistence.Mode {
	case "memory":
		return persistence.NewMemoryBackend(), nil
	case "sqlite":
		return persistence.NewGormBackend(sqlite.Open(cfg.Persistence.SQLitePath))
	case "postgres":
		return persistence.NewGormBackend(postgres.Open(cfg.Database.ConnectionString()))
	case "remote":
		return persistence.NewRemoteBackend(&persistence.RemoteConfig{
			BaseURL:    cfg.Persistence.RemoteBaseURL,
			APIKey:     cfg.Persistence.RemoteAPIKey,
			Timeout:    cfg.Persistence.RemoteTimeoutDuration(),
			MaxRetries: cfg.Persistence.RemoteMaxRetries,
		}, log)
	default:
		return nil, fmt.Errorf("unsupported persistence mode: %s", cfg.Persistence.Mode)
	}
}
