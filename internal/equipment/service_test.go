package equipment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	items   map[int64][]Item
	created []Item
	updated map[int64]Status
}

func newMockRepo() *mockRepo {
	return &mockRepo{items: make(map[int64][]Item), updated: make(map[int64]Status)}
}

func (m *mockRepo) ListByVessel(_ context.Context, vesselID int64) ([]Item, error) {
	return m.items[vesselID], nil
}

func (m *mockRepo) Get(_ context.Context, id int64) (Item, error) {
	for _, items := range m.items {
		for _, it := range items {
			if it.ID == id {
				return it, nil
			}
		}
	}
	return Item{}, nil
}

func (m *mockRepo) Create(_ context.Context, it Item) (int64, error) {
	m.created = append(m.created, it)
	return int64(len(m.created)), nil
}

func (m *mockRepo) UpdateStatus(_ context.Context, id int64, status Status) error {
	m.updated[id] = status
	return nil
}

func TestRollupCountsByStatus(t *testing.T) {
	repo := newMockRepo()
	repo.items[7] = []Item{
		{ID: 1, VesselID: 7, Status: StatusOperational},
		{ID: 2, VesselID: 7, Status: StatusOperational},
		{ID: 3, VesselID: 7, Status: StatusDegraded},
		{ID: 4, VesselID: 7, Status: StatusFailed},
	}
	svc := NewService(repo)

	up, err := svc.Rollup(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 4, up.Total)
	assert.Equal(t, 2, up.Operational)
	assert.Equal(t, 1, up.Degraded)
	assert.Equal(t, 1, up.Failed)
	assert.InDelta(t, 50.0, up.OperationalRate, 0.001)
}

func TestRollupEmptyVesselIsFullyOperational(t *testing.T) {
	svc := NewService(newMockRepo())

	up, err := svc.Rollup(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, 0, up.Total)
	assert.InDelta(t, 100.0, up.OperationalRate, 0.001)
}

func TestCreateDefaultsToOperational(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), Item{VesselID: 1, Name: "Main Engine"})
	require.NoError(t, err)
	require.Len(t, repo.created, 1)
	assert.Equal(t, StatusOperational, repo.created[0].Status)
}

func TestCreateRejectsUnknownStatus(t *testing.T) {
	svc := NewService(newMockRepo())

	_, err := svc.Create(context.Background(), Item{VesselID: 1, Name: "Genset", Status: "BROKEN"})
	require.ErrorIs(t, err, ErrUnknownStatus)
}

func TestUpdateStatusValidates(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	require.ErrorIs(t, svc.UpdateStatus(context.Background(), 3, "EXPLODED"), ErrUnknownStatus)
	require.NoError(t, svc.UpdateStatus(context.Background(), 3, StatusDegraded))
	assert.Equal(t, StatusDegraded, repo.updated[3])
}
