package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/merchware/pulseboard/internal/adapter/api"
	"github.com/merchware/pulseboard/internal/adapter/metrics"
	"github.com/merchware/pulseboard/internal/infra/commerce"
	"github.com/merchware/pulseboard/internal/infra/repository"
	"github.com/merchware/pulseboard/internal/pkg/config"
	"github.com/merchware/pulseboard/internal/pkg/logger"
	"github.com/merchware/pulseboard/internal/scheduler"
	"github.com/merchware/pulseboard/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logger.New(cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := repository.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := repository.Migrate(ctx, db); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	m := metrics.New()

	userRepo := repository.NewPostgresUserRepository(db)
	tenantRepo := repository.NewPostgresTenantRepository(db)
	customerRepo := repository.NewPostgresCustomerRepository(db)
	productRepo := repository.NewPostgresProductRepository(db)
	orderRepo := repository.NewPostgresOrderRepository(db)
	eventRepo := repository.NewPostgresEventRepository(db)
	analyticsRepo := repository.NewPostgresAnalyticsRepository(db)

	reconciler := usecase.NewReconciler(customerRepo, productRepo, orderRepo, eventRepo, logger, m)
	authService := usecase.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpiry)
	analyticsService := usecase.NewAnalyticsService(analyticsRepo)

	clientFactory := commerce.NewFactory(cfg.ShopifyAccessToken, &http.Client{Timeout: cfg.FetchTimeout})
	syncService := usecase.NewSyncService(
		tenantRepo,
		userRepo,
		reconciler,
		clientFactory,
		usecase.StoreConfig{
			StoreURL:  cfg.ShopifyStoreURL,
			APIKey:    cfg.ShopifyAPIKey,
			APISecret: cfg.ShopifyAPISecret,
		},
		cfg.SyncPageSize,
		cfg.FetchTimeout,
		logger,
		m,
	)

	sched := scheduler.New(logger)
	sched.Add("sync", cfg.SyncInterval, func(ctx context.Context) {
		syncService.SyncAllTenants(ctx)
	})
	sched.Add("health", time.Hour, func(ctx context.Context) {
		if err := db.PingContext(ctx); err != nil {
			logger.Error("database health check failed", "error", err)
			return
		}
		var recent int64
		if err := db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM orders WHERE created_at > NOW() - INTERVAL '1 hour'`).Scan(&recent); err != nil {
			logger.Error("health check order count failed", "error", err)
			return
		}
		logger.Info("health check ok", "recent_orders", recent)
	})
	sched.Add("cleanup", 24*time.Hour, func(ctx context.Context) {
		cutoff := time.Now().UTC().Add(-cfg.EventRetention)
		removed, err := eventRepo.DeleteOlderThan(ctx, cutoff)
		if err != nil {
			logger.Error("event cleanup failed", "error", err)
			return
		}
		logger.Info("event cleanup completed", "removed", removed, "cutoff", cutoff)
	})
	sched.Start()
	defer sched.Stop()

	router := api.NewRouter(cfg, logger, api.Deps{
		Users:      userRepo,
		Tenants:    tenantRepo,
		Auth:       authService,
		Analytics:  analyticsService,
		Sync:       syncService,
		Reconciler: reconciler,
		Scheduler:  sched,
		Metrics:    m,
	})

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 5 * time.Minute, // a manual full sync can take a while
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting server", "addr", server.Addr, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}

	logger.Info("server shut down gracefully")
}
