package suppliers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yachtexcel/fleetdeck/internal/shared"
)

type mockRepo struct {
	suppliers map[int64]Supplier
	cards     map[int64]Scorecard
	saves     int
}

func newMockRepo() *mockRepo {
	return &mockRepo{suppliers: make(map[int64]Supplier), cards: make(map[int64]Scorecard)}
}

func (m *mockRepo) List(context.Context) ([]Supplier, error) { return nil, nil }

func (m *mockRepo) Get(_ context.Context, id int64) (Supplier, error) {
	if s, ok := m.suppliers[id]; ok {
		return s, nil
	}
	return Supplier{}, shared.ErrNotFound
}

func (m *mockRepo) Create(_ context.Context, s Supplier) (int64, error) {
	s.ID = int64(len(m.suppliers) + 1)
	m.suppliers[s.ID] = s
	return s.ID, nil
}

func (m *mockRepo) SaveScorecard(_ context.Context, card Scorecard) error {
	m.cards[card.SupplierID] = card
	m.saves++
	return nil
}

func (m *mockRepo) GetScorecard(_ context.Context, supplierID int64) (Scorecard, error) {
	if c, ok := m.cards[supplierID]; ok {
		return c, nil
	}
	return Scorecard{}, shared.ErrNotFound
}

func (m *mockRepo) ListScorecards(context.Context) ([]Scorecard, error) {
	var out []Scorecard
	for _, c := range m.cards {
		out = append(out, c)
	}
	return out, nil
}

func TestWeightedScore(t *testing.T) {
	r := Ratings{OnTime: 90, Quality: 80, Price: 70, Responsiveness: 60}
	// 0.4*90 + 0.3*80 + 0.2*70 + 0.1*60 = 36 + 24 + 14 + 6 = 80
	assert.InDelta(t, 80.0, r.Weighted(), 0.001)
}

func TestGradeBoundaries(t *testing.T) {
	cases := []struct {
		score float64
		grade string
	}{
		{95, "A"}, {90, "A"}, {89.99, "B"}, {80, "B"},
		{79.5, "C"}, {70, "C"}, {65, "D"}, {60, "D"}, {59.9, "F"}, {0, "F"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.grade, GradeFor(tc.score), "score %.2f", tc.score)
	}
}

func TestRatePersistsScorecard(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	id, err := svc.Create(ctx, Supplier{Name: "Med Marine Spares", Email: "SALES@medmarine.example"})
	require.NoError(t, err)
	assert.Equal(t, "sales@medmarine.example", repo.suppliers[id].Email)

	card, err := svc.Rate(ctx, id, Ratings{OnTime: 90, Quality: 80, Price: 70, Responsiveness: 60})
	require.NoError(t, err)
	assert.InDelta(t, 80.0, card.Score, 0.001)
	assert.Equal(t, "B", card.Grade)
	assert.Equal(t, svc.now(), card.ScoredAt)
	require.Contains(t, repo.cards, id)
}

func TestRateRejectsOutOfRange(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	id, err := svc.Create(context.Background(), Supplier{Name: "Vendor", Email: "v@example.com"})
	require.NoError(t, err)

	_, err = svc.Rate(context.Background(), id, Ratings{OnTime: 120})
	require.ErrorIs(t, err, ErrInvalidRating)
}

func TestRateUnknownSupplier(t *testing.T) {
	svc := NewService(newMockRepo())

	_, err := svc.Rate(context.Background(), 404, Ratings{OnTime: 50, Quality: 50, Price: 50, Responsiveness: 50})
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestRecomputeAllSkipsUnchanged(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	ctx := context.Background()

	id, err := svc.Create(ctx, Supplier{Name: "Vendor", Email: "v@example.com"})
	require.NoError(t, err)
	_, err = svc.Rate(ctx, id, Ratings{OnTime: 90, Quality: 80, Price: 70, Responsiveness: 60})
	require.NoError(t, err)

	saves := repo.saves
	updated, err := svc.RecomputeAll(ctx)
	require.NoError(t, err)
	assert.Zero(t, updated)
	assert.Equal(t, saves, repo.saves)

	// A stale stored score gets refreshed.
	card := repo.cards[id]
	card.Score = 10
	card.Grade = "F"
	repo.cards[id] = card

	updated, err = svc.RecomputeAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, updated)
	assert.InDelta(t, 80.0, repo.cards[id].Score, 0.001)
	assert.Equal(t, "B", repo.cards[id].Grade)
}
