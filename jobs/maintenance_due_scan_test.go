package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"github.com/yachtexcel/fleetdeck/internal/maintenance"
)

type stubMaintenance struct {
	tasks []maintenance.Task
	err   error
}

func (s *stubMaintenance) ListOverdue(context.Context) ([]maintenance.Task, error) {
	return s.tasks, s.err
}

type stubSuppliers struct {
	updated int
	err     error
	calls   int
}

func (s *stubSuppliers) RecomputeAll(context.Context) (int, error) {
	s.calls++
	return s.updated, s.err
}

func TestDueScanRespectsGracePeriod(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	stub := &stubMaintenance{tasks: []maintenance.Task{
		{ID: 1, VesselID: 1, Priority: maintenance.PriorityCritical, DueAt: now.Add(-48 * time.Hour)},
		{ID: 2, VesselID: 1, Priority: maintenance.PriorityRoutine, DueAt: now.Add(-2 * time.Hour)},
	}}

	job := NewDueScanJob(stub, nil, nil)
	job.clock = func() time.Time { return now }

	task, err := NewDueScanTask(DueScanPayload{GraceHours: 24})
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))
}

func TestDueScanMalformedPayloadSkipsRetry(t *testing.T) {
	job := NewDueScanJob(&stubMaintenance{}, nil, nil)

	task := asynq.NewTask(TaskMaintenanceDueScan, []byte("{"))
	err := job.Handle(context.Background(), task)
	require.ErrorIs(t, err, asynq.SkipRetry)
}

func TestScoreRefreshRunsRecompute(t *testing.T) {
	stub := &stubSuppliers{updated: 2}
	job := NewScoreRefreshJob(stub, nil, nil)

	task, err := NewScoreRefreshTask(ScoreRefreshPayload{})
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))
	require.Equal(t, 1, stub.calls)
}
