package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/yachtexcel/fleetdeck/internal/app"
	"github.com/yachtexcel/fleetdeck/internal/auth"
	"github.com/yachtexcel/fleetdeck/internal/authstate"
	"github.com/yachtexcel/fleetdeck/internal/crew"
	"github.com/yachtexcel/fleetdeck/internal/dashboard"
	"github.com/yachtexcel/fleetdeck/internal/equipment"
	"github.com/yachtexcel/fleetdeck/internal/fleet"
	"github.com/yachtexcel/fleetdeck/internal/inventory"
	"github.com/yachtexcel/fleetdeck/internal/maintenance"
	"github.com/yachtexcel/fleetdeck/internal/observability"
	"github.com/yachtexcel/fleetdeck/internal/platform/cache"
	"github.com/yachtexcel/fleetdeck/internal/platform/db"
	"github.com/yachtexcel/fleetdeck/internal/shared"
	"github.com/yachtexcel/fleetdeck/internal/suppliers"
	"github.com/yachtexcel/fleetdeck/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "fleetdeck_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo)
	authSource := auth.NewSource(authService, redisClient, cfg.SessionTTL, logger)
	coordinator := authstate.New(cfg.AuthConfig(), authstate.Deps{
		Source:    authSource,
		Privilege: authService,
		Store:     auth.NewSessionStore(sessionManager),
		Logger:    logger,
	})
	authHandler := auth.NewHandler(logger, coordinator, csrfManager)
	guard := auth.Middleware{Coordinator: coordinator, Logger: logger}

	fleetRepo := fleet.NewRepository(dbpool)
	fleetService := fleet.NewService(fleetRepo)
	fleetHandler := fleet.NewHandler(logger, fleetService, guard)

	equipmentRepo := equipment.NewRepository(dbpool)
	equipmentService := equipment.NewService(equipmentRepo)
	equipmentHandler := equipment.NewHandler(logger, equipmentService, guard)

	inventoryRepo := inventory.NewRepository(dbpool)
	inventoryService := inventory.NewService(inventoryRepo, inventory.ServiceConfig{})
	inventoryHandler := inventory.NewHandler(logger, inventoryService, guard)

	crewRepo := crew.NewRepository(dbpool)
	crewService := crew.NewService(crewRepo)
	crewHandler := crew.NewHandler(logger, crewService, guard)

	maintenanceRepo := maintenance.NewRepository(dbpool)
	maintenanceService := maintenance.NewService(maintenanceRepo)
	maintenanceHandler := maintenance.NewHandler(logger, maintenanceService, guard)

	suppliersRepo := suppliers.NewRepository(dbpool)
	suppliersService := suppliers.NewService(suppliersRepo)
	suppliersHandler := suppliers.NewHandler(logger, suppliersService, guard)

	dashboardCache := dashboard.NewCache(redisClient, cfg.DashboardCacheTTL)
	dashboardService := dashboard.NewService(dashboard.Deps{
		Fleet:       fleetService,
		Equipment:   equipmentService,
		Inventory:   inventoryService,
		Maintenance: maintenanceService,
		Crew:        crewService,
		Suppliers:   suppliersService,
		Cache:       dashboardCache,
	})
	dashboardHandler := dashboard.NewHandler(logger, dashboardService, guard)

	metrics := observability.NewMetrics()

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		SessionManager:     sessionManager,
		CSRFManager:        csrfManager,
		AuthHandler:        authHandler,
		FleetHandler:       fleetHandler,
		EquipmentHandler:   equipmentHandler,
		InventoryHandler:   inventoryHandler,
		CrewHandler:        crewHandler,
		MaintenanceHandler: maintenanceHandler,
		SuppliersHandler:   suppliersHandler,
		DashboardHandler:   dashboardHandler,
		JobHandler:         jobHandler,
		Metrics:            metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
