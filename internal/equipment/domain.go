package equipment

import (
	"errors"
	"time"
)

// Status enumerates equipment health states.
type Status string

const (
	// StatusOperational means the unit works within specification.
	StatusOperational Status = "OPERATIONAL"
	// StatusDegraded means the unit works with reduced capability.
	StatusDegraded Status = "DEGRADED"
	// StatusFailed means the unit is out of service.
	StatusFailed Status = "FAILED"
)

// ErrUnknownStatus rejects status values outside the vocabulary.
var ErrUnknownStatus = errors.New("equipment: unknown status")

// ValidStatus reports whether s belongs to the status vocabulary.
func ValidStatus(s Status) bool {
	switch s {
	case StatusOperational, StatusDegraded, StatusFailed:
		return true
	}
	return false
}

// Item models one piece of equipment installed on a vessel.
type Item struct {
	ID          int64
	VesselID    int64
	Name        string
	Category    string
	SerialNo    string
	Status      Status
	InstalledAt time.Time
	UpdatedAt   time.Time
}

// StatusRollup summarises equipment health for one vessel.
type StatusRollup struct {
	VesselID        int64   `json:"vessel_id"`
	Total           int     `json:"total"`
	Operational     int     `json:"operational"`
	Degraded        int     `json:"degraded"`
	Failed          int     `json:"failed"`
	OperationalRate float64 `json:"operational_rate"`
}
