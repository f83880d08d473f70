package fleet

import (
	"errors"
	"time"
)

// VesselStatus enumerates operational states of a vessel.
type VesselStatus string

const (
	// StatusActive means the vessel is in service.
	StatusActive VesselStatus = "ACTIVE"
	// StatusInRefit means the vessel is undergoing yard work.
	StatusInRefit VesselStatus = "IN_REFIT"
	// StatusChartered means the vessel is on charter.
	StatusChartered VesselStatus = "CHARTERED"
	// StatusLaidUp means the vessel is decommissioned or in storage.
	StatusLaidUp VesselStatus = "LAID_UP"
)

// ErrUnknownStatus rejects status values outside the vocabulary.
var ErrUnknownStatus = errors.New("fleet: unknown vessel status")

// ValidStatus reports whether s is part of the status vocabulary.
func ValidStatus(s VesselStatus) bool {
	switch s {
	case StatusActive, StatusInRefit, StatusChartered, StatusLaidUp:
		return true
	}
	return false
}

// Vessel models a yacht in the fleet registry.
type Vessel struct {
	ID        int64
	Name      string
	HomePort  string
	LengthM   float64
	Status    VesselStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
