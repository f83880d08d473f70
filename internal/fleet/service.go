package fleet

import (
	"context"
	"strings"
)

// RepositoryPort defines data access methods for the fleet registry.
type RepositoryPort interface {
	ListVessels(ctx context.Context) ([]Vessel, error)
	GetVessel(ctx context.Context, id int64) (*Vessel, error)
	CreateVessel(ctx context.Context, v *Vessel) error
	UpdateVesselStatus(ctx context.Context, id int64, status VesselStatus) error
}

// Service handles fleet business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// ListVessels returns all registered vessels.
func (s *Service) ListVessels(ctx context.Context) ([]Vessel, error) {
	return s.repo.ListVessels(ctx)
}

// GetVessel returns one vessel.
func (s *Service) GetVessel(ctx context.Context, id int64) (*Vessel, error) {
	return s.repo.GetVessel(ctx, id)
}

// CreateVessel registers a new vessel, defaulting its status to active.
func (s *Service) CreateVessel(ctx context.Context, v *Vessel) error {
	v.Name = strings.TrimSpace(v.Name)
	if v.Status == "" {
		v.Status = StatusActive
	}
	if !ValidStatus(v.Status) {
		return ErrUnknownStatus
	}
	return s.repo.CreateVessel(ctx, v)
}

// UpdateStatus transitions a vessel to a new operational status.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status VesselStatus) error {
	if !ValidStatus(status) {
		return ErrUnknownStatus
	}
	return s.repo.UpdateVesselStatus(ctx, id, status)
}
