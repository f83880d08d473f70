package crew

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	members  []Member
	updated  map[int64]OnboardingStatus
	total    int
	complete int
}

func newMockRepo() *mockRepo {
	return &mockRepo{updated: make(map[int64]OnboardingStatus)}
}

func (m *mockRepo) List(_ context.Context, vesselID int64) ([]Member, error) {
	if vesselID == 0 {
		return m.members, nil
	}
	var out []Member
	for _, mem := range m.members {
		if mem.VesselID == vesselID {
			out = append(out, mem)
		}
	}
	return out, nil
}

func (m *mockRepo) Get(_ context.Context, id int64) (Member, error) {
	for _, mem := range m.members {
		if mem.ID == id {
			return mem, nil
		}
	}
	return Member{}, nil
}

func (m *mockRepo) Create(_ context.Context, mem Member) (int64, error) {
	mem.ID = int64(len(m.members) + 1)
	m.members = append(m.members, mem)
	return mem.ID, nil
}

func (m *mockRepo) UpdateOnboarding(_ context.Context, id int64, status OnboardingStatus) error {
	m.updated[id] = status
	return nil
}

func (m *mockRepo) AssignVessel(context.Context, int64, int64) error { return nil }

func (m *mockRepo) OnboardingCounts(context.Context) (int, int, error) {
	return m.total, m.complete, nil
}

func TestCreateNormalisesEmailAndDefaultsStatus(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), Member{Name: "A. Deckhand", Email: "  Deckhand@Yacht.example ", Position: "Deckhand"})
	require.NoError(t, err)
	require.Len(t, repo.members, 1)
	assert.Equal(t, "deckhand@yacht.example", repo.members[0].Email)
	assert.Equal(t, StatusInvited, repo.members[0].Onboarding)
}

func TestUpdateOnboardingRejectsUnknownStatus(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	require.ErrorIs(t, svc.UpdateOnboarding(context.Background(), 1, "HIRED"), ErrUnknownOnboardingStatus)
	require.NoError(t, svc.UpdateOnboarding(context.Background(), 1, StatusComplete))
	assert.Equal(t, StatusComplete, repo.updated[1])
}

func TestOnboardingSummary(t *testing.T) {
	repo := newMockRepo()
	repo.total = 8
	repo.complete = 6
	svc := NewService(repo)

	sum, err := svc.OnboardingSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 8, sum.Total)
	assert.Equal(t, 6, sum.Complete)
	assert.InDelta(t, 75.0, sum.CompletionRate, 0.001)
}

func TestOnboardingSummaryEmptyRoster(t *testing.T) {
	svc := NewService(newMockRepo())

	sum, err := svc.OnboardingSummary(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 100.0, sum.CompletionRate, 0.001)
}
