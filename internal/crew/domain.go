package crew

import (
	"errors"
	"time"
)

// OnboardingStatus tracks how far a crew member's paperwork has come.
type OnboardingStatus string

const (
	StatusInvited   OnboardingStatus = "INVITED"
	StatusDocuments OnboardingStatus = "DOCUMENTS_PENDING"
	StatusMedical   OnboardingStatus = "MEDICAL_PENDING"
	StatusComplete  OnboardingStatus = "COMPLETE"
)

// ErrUnknownOnboardingStatus rejects values outside the vocabulary.
var ErrUnknownOnboardingStatus = errors.New("crew: unknown onboarding status")

// ValidOnboardingStatus reports whether s belongs to the vocabulary.
func ValidOnboardingStatus(s OnboardingStatus) bool {
	switch s {
	case StatusInvited, StatusDocuments, StatusMedical, StatusComplete:
		return true
	}
	return false
}

// Member models one crew member, optionally assigned to a vessel.
type Member struct {
	ID         int64            `json:"id"`
	VesselID   int64            `json:"vessel_id,omitempty"`
	Name       string           `json:"name"`
	Email      string           `json:"email"`
	Position   string           `json:"position"`
	Onboarding OnboardingStatus `json:"onboarding"`
	JoinedAt   time.Time        `json:"joined_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// OnboardingSummary reports fleet-wide onboarding progress.
type OnboardingSummary struct {
	Total          int     `json:"total"`
	Complete       int     `json:"complete"`
	CompletionRate float64 `json:"completion_rate"`
}
