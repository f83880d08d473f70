package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/yachtexcel/fleetdeck/internal/jobs"
)

// SupplierPort is the slice of the suppliers service the refresh needs.
type SupplierPort interface {
	RecomputeAll(ctx context.Context) (int, error)
}

// ScoreRefreshJob recomputes supplier scorecards on a schedule so
// grading rule changes propagate without manual re-rating.
type ScoreRefreshJob struct {
	Suppliers SupplierPort
	Logger    *slog.Logger
	Metrics   *jobmetrics.Metrics
}

// NewScoreRefreshJob initialises the score-refresh handler.
func NewScoreRefreshJob(svc SupplierPort, logger *slog.Logger, metrics *jobmetrics.Metrics) *ScoreRefreshJob {
	return &ScoreRefreshJob{Suppliers: svc, Logger: logger, Metrics: metrics}
}

// Handle executes the scorecard refresh.
func (j *ScoreRefreshJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Suppliers == nil {
		return errors.New("score refresh: handler not configured")
	}
	var payload ScoreRefreshPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	tracker := j.metrics().Track(TaskSupplierScoreRefresh)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	start := time.Now()
	logger := j.logger()
	logger.Info("starting supplier score refresh")

	updated, err := j.Suppliers.RecomputeAll(ctx)
	if err != nil {
		resultErr = err
		logger.Error("score refresh failed", slog.Any("error", err))
		return resultErr
	}

	logger.Info("completed supplier score refresh",
		slog.Int("updated", updated),
		slog.Duration("duration", time.Since(start)),
	)
	return resultErr
}

func (j *ScoreRefreshJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}

func (j *ScoreRefreshJob) metrics() *jobmetrics.Metrics {
	return j.Metrics
}
