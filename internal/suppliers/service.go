package suppliers

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"
)

// RepositoryPort abstracts supplier persistence for the service layer.
type RepositoryPort interface {
	List(ctx context.Context) ([]Supplier, error)
	Get(ctx context.Context, id int64) (Supplier, error)
	Create(ctx context.Context, s Supplier) (int64, error)
	SaveScorecard(ctx context.Context, card Scorecard) error
	GetScorecard(ctx context.Context, supplierID int64) (Scorecard, error)
	ListScorecards(ctx context.Context) ([]Scorecard, error)
}

type Service struct {
	repo RepositoryPort
	now  func() time.Time
}

func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

func (s *Service) List(ctx context.Context) ([]Supplier, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (Supplier, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, sup Supplier) (int64, error) {
	sup.Email = strings.ToLower(strings.TrimSpace(sup.Email))
	if sup.Name == "" {
		return 0, errors.New("suppliers: name required")
	}
	sup.Active = true
	return s.repo.Create(ctx, sup)
}

// Rate validates the ratings, computes the weighted score and grade,
// and persists the scorecard.
func (s *Service) Rate(ctx context.Context, supplierID int64, ratings Ratings) (Scorecard, error) {
	if err := ratings.validate(); err != nil {
		return Scorecard{}, err
	}
	if _, err := s.repo.Get(ctx, supplierID); err != nil {
		return Scorecard{}, err
	}
	score := math.Round(ratings.Weighted()*100) / 100
	card := Scorecard{
		SupplierID: supplierID,
		Ratings:    ratings,
		Score:      score,
		Grade:      GradeFor(score),
		ScoredAt:   s.now(),
	}
	if err := s.repo.SaveScorecard(ctx, card); err != nil {
		return Scorecard{}, err
	}
	return card, nil
}

func (s *Service) Scorecard(ctx context.Context, supplierID int64) (Scorecard, error) {
	return s.repo.GetScorecard(ctx, supplierID)
}

// Ranking lists scorecards best first.
func (s *Service) Ranking(ctx context.Context) ([]Scorecard, error) {
	return s.repo.ListScorecards(ctx)
}

// RecomputeAll refreshes score and grade for every stored scorecard.
// Used by the periodic refresh job after grading rules change.
func (s *Service) RecomputeAll(ctx context.Context) (int, error) {
	cards, err := s.repo.ListScorecards(ctx)
	if err != nil {
		return 0, err
	}
	updated := 0
	for _, card := range cards {
		score := math.Round(card.Ratings.Weighted()*100) / 100
		grade := GradeFor(score)
		if score == card.Score && grade == card.Grade {
			continue
		}
		card.Score = score
		card.Grade = grade
		card.ScoredAt = s.now()
		if err := s.repo.SaveScorecard(ctx, card); err != nil {
			return updated, err
		}
		updated++
	}
	return updated, nil
}
