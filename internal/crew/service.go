package crew

import (
	"context"
	"math"
	"strings"
)

// RepositoryPort abstracts crew persistence for the service layer.
type RepositoryPort interface {
	List(ctx context.Context, vesselID int64) ([]Member, error)
	Get(ctx context.Context, id int64) (Member, error)
	Create(ctx context.Context, m Member) (int64, error)
	UpdateOnboarding(ctx context.Context, id int64, status OnboardingStatus) error
	AssignVessel(ctx context.Context, id, vesselID int64) error
	OnboardingCounts(ctx context.Context) (total, complete int, err error)
}

type Service struct {
	repo RepositoryPort
}

func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, vesselID int64) ([]Member, error) {
	return s.repo.List(ctx, vesselID)
}

func (s *Service) Get(ctx context.Context, id int64) (Member, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, m Member) (int64, error) {
	m.Email = strings.ToLower(strings.TrimSpace(m.Email))
	if m.Onboarding == "" {
		m.Onboarding = StatusInvited
	}
	if !ValidOnboardingStatus(m.Onboarding) {
		return 0, ErrUnknownOnboardingStatus
	}
	return s.repo.Create(ctx, m)
}

func (s *Service) UpdateOnboarding(ctx context.Context, id int64, status OnboardingStatus) error {
	if !ValidOnboardingStatus(status) {
		return ErrUnknownOnboardingStatus
	}
	return s.repo.UpdateOnboarding(ctx, id, status)
}

func (s *Service) AssignVessel(ctx context.Context, id, vesselID int64) error {
	return s.repo.AssignVessel(ctx, id, vesselID)
}

// OnboardingSummary reports fleet-wide onboarding completion. An empty
// roster counts as fully onboarded.
func (s *Service) OnboardingSummary(ctx context.Context) (OnboardingSummary, error) {
	total, complete, err := s.repo.OnboardingCounts(ctx)
	if err != nil {
		return OnboardingSummary{}, err
	}
	sum := OnboardingSummary{Total: total, Complete: complete}
	if total == 0 {
		sum.CompletionRate = 100
		return sum, nil
	}
	sum.CompletionRate = math.Round(float64(complete)/float64(total)*10000) / 100
	return sum, nil
}
