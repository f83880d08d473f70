package fleet

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	vessels []Vessel
	updated map[int64]VesselStatus
}

func newMockRepo() *mockRepo {
	return &mockRepo{updated: make(map[int64]VesselStatus)}
}

func (m *mockRepo) ListVessels(context.Context) ([]Vessel, error) {
	return m.vessels, nil
}

func (m *mockRepo) GetVessel(_ context.Context, id int64) (*Vessel, error) {
	for i := range m.vessels {
		if m.vessels[i].ID == id {
			return &m.vessels[i], nil
		}
	}
	return nil, nil
}

func (m *mockRepo) CreateVessel(_ context.Context, v *Vessel) error {
	v.ID = int64(len(m.vessels) + 1)
	m.vessels = append(m.vessels, *v)
	return nil
}

func (m *mockRepo) UpdateVesselStatus(_ context.Context, id int64, status VesselStatus) error {
	m.updated[id] = status
	return nil
}

func TestCreateVesselDefaultsToActive(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	v := &Vessel{Name: "MY Aurora", HomePort: "Palma", LengthM: 42.5}
	require.NoError(t, svc.CreateVessel(context.Background(), v))
	assert.Equal(t, StatusActive, v.Status)
	require.Len(t, repo.vessels, 1)
}

func TestCreateVesselRejectsUnknownStatus(t *testing.T) {
	svc := NewService(newMockRepo())

	v := &Vessel{Name: "MY Aurora", HomePort: "Palma", LengthM: 42.5, Status: "SUNK"}
	require.ErrorIs(t, svc.CreateVessel(context.Background(), v), ErrUnknownStatus)
}

func TestUpdateStatusValidates(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	require.ErrorIs(t, svc.UpdateStatus(context.Background(), 7, "DOCKED"), ErrUnknownStatus)
	require.NoError(t, svc.UpdateStatus(context.Background(), 7, StatusChartered))
	assert.Equal(t, StatusChartered, repo.updated[7])
}
