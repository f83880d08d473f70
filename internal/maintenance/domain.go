package maintenance

import (
	"errors"
	"time"
)

// TaskStatus enumerates maintenance task states.
type TaskStatus string

const (
	StatusPlanned   TaskStatus = "PLANNED"
	StatusInService TaskStatus = "IN_SERVICE"
	StatusDone      TaskStatus = "DONE"
)

// Priority buckets tasks for scheduling.
type Priority string

const (
	PriorityRoutine  Priority = "ROUTINE"
	PriorityUrgent   Priority = "URGENT"
	PriorityCritical Priority = "CRITICAL"
)

var (
	// ErrUnknownStatus rejects task states outside the vocabulary.
	ErrUnknownStatus = errors.New("maintenance: unknown task status")
	// ErrUnknownPriority rejects priorities outside the vocabulary.
	ErrUnknownPriority = errors.New("maintenance: unknown priority")
	// ErrAlreadyDone reports a completion attempt on a finished task.
	ErrAlreadyDone = errors.New("maintenance: task already done")
)

// ValidStatus reports whether s belongs to the status vocabulary.
func ValidStatus(s TaskStatus) bool {
	switch s {
	case StatusPlanned, StatusInService, StatusDone:
		return true
	}
	return false
}

// ValidPriority reports whether p belongs to the priority vocabulary.
func ValidPriority(p Priority) bool {
	switch p {
	case PriorityRoutine, PriorityUrgent, PriorityCritical:
		return true
	}
	return false
}

// Task models one scheduled maintenance job for a vessel or a piece
// of equipment on it.
type Task struct {
	ID          int64      `json:"id"`
	VesselID    int64      `json:"vessel_id"`
	EquipmentID int64      `json:"equipment_id,omitempty"`
	Title       string     `json:"title"`
	Notes       string     `json:"notes,omitempty"`
	Priority    Priority   `json:"priority"`
	Status      TaskStatus `json:"status"`
	DueAt       time.Time  `json:"due_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CompletedBy string     `json:"completed_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ComplianceReport summarises how much of the schedule is on track.
type ComplianceReport struct {
	Open           int     `json:"open"`
	Overdue        int     `json:"overdue"`
	Done           int     `json:"done"`
	ComplianceRate float64 `json:"compliance_rate"`
}
