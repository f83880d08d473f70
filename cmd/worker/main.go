package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/yachtexcel/fleetdeck/internal/app"
	jobmetrics "github.com/yachtexcel/fleetdeck/internal/jobs"
	"github.com/yachtexcel/fleetdeck/internal/maintenance"
	"github.com/yachtexcel/fleetdeck/internal/platform/db"
	"github.com/yachtexcel/fleetdeck/internal/suppliers"
	"github.com/yachtexcel/fleetdeck/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	metrics := jobmetrics.NewMetrics(nil)

	maintenanceService := maintenance.NewService(maintenance.NewRepository(pool))
	dueScanJob := jobs.NewDueScanJob(maintenanceService, logger, metrics)

	suppliersService := suppliers.NewService(suppliers.NewRepository(pool))
	scoreRefreshJob := jobs.NewScoreRefreshJob(suppliersService, logger, metrics)

	dueScanTask, err := jobs.NewDueScanTask(jobs.DueScanPayload{GraceHours: 0})
	if err != nil {
		logger.Error("build due scan task", slog.Any("error", err))
		os.Exit(1)
	}
	scoreRefreshTask, err := jobs.NewScoreRefreshTask(jobs.ScoreRefreshPayload{})
	if err != nil {
		logger.Error("build score refresh task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskMaintenanceDueScan, Handler: dueScanJob.Handle},
			{Type: jobs.TaskSupplierScoreRefresh, Handler: scoreRefreshJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "0 6 * * *", Task: dueScanTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: "30 6 * * 0", Task: scoreRefreshTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
