package maintenance

import (
	"context"
	"errors"
	"math"
	"time"
)

// RepositoryPort abstracts maintenance persistence for the service layer.
type RepositoryPort interface {
	Get(ctx context.Context, id int64) (Task, error)
	ListByVessel(ctx context.Context, vesselID int64) ([]Task, error)
	ListOverdue(ctx context.Context, now time.Time) ([]Task, error)
	Create(ctx context.Context, t Task) (int64, error)
	Complete(ctx context.Context, id int64, completedBy string, completedAt time.Time) error
	UpdateStatus(ctx context.Context, id int64, status TaskStatus) error
	ComplianceCounts(ctx context.Context, now time.Time) (open, overdue, done int, err error)
}

type Service struct {
	repo RepositoryPort
	now  func() time.Time
}

func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

func (s *Service) Get(ctx context.Context, id int64) (Task, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListByVessel(ctx context.Context, vesselID int64) ([]Task, error) {
	return s.repo.ListByVessel(ctx, vesselID)
}

func (s *Service) ListOverdue(ctx context.Context) ([]Task, error) {
	return s.repo.ListOverdue(ctx, s.now())
}

func (s *Service) Create(ctx context.Context, t Task) (int64, error) {
	if t.VesselID == 0 || t.Title == "" {
		return 0, errors.New("maintenance: vessel and title required")
	}
	if t.DueAt.IsZero() {
		return 0, errors.New("maintenance: due date required")
	}
	if t.Priority == "" {
		t.Priority = PriorityRoutine
	}
	if !ValidPriority(t.Priority) {
		return 0, ErrUnknownPriority
	}
	if t.Status == "" {
		t.Status = StatusPlanned
	}
	if !ValidStatus(t.Status) {
		return 0, ErrUnknownStatus
	}
	return s.repo.Create(ctx, t)
}

func (s *Service) Complete(ctx context.Context, id int64, completedBy string) error {
	return s.repo.Complete(ctx, id, completedBy, s.now())
}

func (s *Service) UpdateStatus(ctx context.Context, id int64, status TaskStatus) error {
	if !ValidStatus(status) {
		return ErrUnknownStatus
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

// Compliance reports how much of the schedule is on track. With no
// open tasks the rate is 100.
func (s *Service) Compliance(ctx context.Context) (ComplianceReport, error) {
	open, overdue, done, err := s.repo.ComplianceCounts(ctx, s.now())
	if err != nil {
		return ComplianceReport{}, err
	}
	rep := ComplianceReport{Open: open, Overdue: overdue, Done: done}
	if open == 0 {
		rep.ComplianceRate = 100
		return rep, nil
	}
	rep.ComplianceRate = math.Round(float64(open-overdue)/float64(open)*10000) / 100
	return rep, nil
}
