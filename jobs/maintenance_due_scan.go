package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/yachtexcel/fleetdeck/internal/jobs"
	"github.com/yachtexcel/fleetdeck/internal/maintenance"
)

// MaintenancePort is the slice of the maintenance service the scan needs.
type MaintenancePort interface {
	ListOverdue(ctx context.Context) ([]maintenance.Task, error)
}

// DueScanJob flags maintenance tasks that slipped past their due date.
type DueScanJob struct {
	Maintenance MaintenancePort
	Logger      *slog.Logger
	Metrics     *jobmetrics.Metrics
	clock       func() time.Time
}

// NewDueScanJob initialises the due-scan handler.
func NewDueScanJob(svc MaintenancePort, logger *slog.Logger, metrics *jobmetrics.Metrics) *DueScanJob {
	return &DueScanJob{
		Maintenance: svc,
		Logger:      logger,
		Metrics:     metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle executes the overdue scan.
func (j *DueScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Maintenance == nil {
		return errors.New("due scan: handler not configured")
	}
	var payload DueScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	start := j.now()
	tracker := j.metrics().Track(TaskMaintenanceDueScan)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger().With(slog.Int("grace_hours", payload.GraceHours))
	logger.Info("starting maintenance due scan")

	tasks, err := j.Maintenance.ListOverdue(ctx)
	if err != nil {
		resultErr = err
		logger.Error("due scan failed", slog.Any("error", err))
		return resultErr
	}

	grace := time.Duration(payload.GraceHours) * time.Hour
	flagged := 0
	for _, task := range tasks {
		if grace > 0 && start.Sub(task.DueAt) < grace {
			continue
		}
		flagged++
		logger.Warn("maintenance task overdue",
			slog.Int64("task_id", task.ID),
			slog.Int64("vessel_id", task.VesselID),
			slog.String("priority", string(task.Priority)),
			slog.Time("due_at", task.DueAt),
		)
		j.metrics().AddOverdue(string(task.Priority), task.VesselID, 1)
	}

	logger.Info("completed maintenance due scan",
		slog.Int("overdue", len(tasks)),
		slog.Int("flagged", flagged),
		slog.Duration("duration", time.Since(start)),
	)
	return resultErr
}

func (j *DueScanJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}

func (j *DueScanJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}

func (j *DueScanJob) metrics() *jobmetrics.Metrics {
	return j.Metrics
}
