package equipment

import (
	"context"
	"math"
)

// RepositoryPort abstracts equipment persistence for the service layer.
type RepositoryPort interface {
	ListByVessel(ctx context.Context, vesselID int64) ([]Item, error)
	Get(ctx context.Context, id int64) (Item, error)
	Create(ctx context.Context, it Item) (int64, error)
	UpdateStatus(ctx context.Context, id int64, status Status) error
}

type Service struct {
	repo RepositoryPort
}

func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListByVessel(ctx context.Context, vesselID int64) ([]Item, error) {
	return s.repo.ListByVessel(ctx, vesselID)
}

func (s *Service) Get(ctx context.Context, id int64) (Item, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, it Item) (int64, error) {
	if it.Status == "" {
		it.Status = StatusOperational
	}
	if !ValidStatus(it.Status) {
		return 0, ErrUnknownStatus
	}
	return s.repo.Create(ctx, it)
}

func (s *Service) UpdateStatus(ctx context.Context, id int64, status Status) error {
	if !ValidStatus(status) {
		return ErrUnknownStatus
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

// Rollup aggregates equipment health for one vessel. An empty fleet of
// equipment yields a 100% operational rate so new vessels do not show
// as unready on the dashboard.
func (s *Service) Rollup(ctx context.Context, vesselID int64) (StatusRollup, error) {
	items, err := s.repo.ListByVessel(ctx, vesselID)
	if err != nil {
		return StatusRollup{}, err
	}
	up := StatusRollup{VesselID: vesselID, Total: len(items)}
	for _, it := range items {
		switch it.Status {
		case StatusOperational:
			up.Operational++
		case StatusDegraded:
			up.Degraded++
		case StatusFailed:
			up.Failed++
		}
	}
	if up.Total == 0 {
		up.OperationalRate = 100
		return up, nil
	}
	up.OperationalRate = math.Round(float64(up.Operational)/float64(up.Total)*10000) / 100
	return up, nil
}
