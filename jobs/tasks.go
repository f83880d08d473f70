package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskMaintenanceDueScan flags maintenance tasks past their due date.
	TaskMaintenanceDueScan = "maintenance:due_scan"
	// TaskSupplierScoreRefresh recomputes supplier scorecards.
	TaskSupplierScoreRefresh = "supplier:score_refresh"
)

// DueScanPayload tunes the maintenance due-date scan.
type DueScanPayload struct {
	// GraceHours delays flagging until the task has been overdue that long.
	GraceHours int `json:"grace_hours"`
}

// NewDueScanTask constructs the maintenance due-scan task.
func NewDueScanTask(payload DueScanPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskMaintenanceDueScan, data), nil
}

// ScoreRefreshPayload tunes the supplier scorecard refresh.
type ScoreRefreshPayload struct{}

// NewScoreRefreshTask constructs the supplier score-refresh task.
func NewScoreRefreshTask(payload ScoreRefreshPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSupplierScoreRefresh, data), nil
}
