package maintenance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yachtexcel/fleetdeck/internal/shared"
)

type mockRepo struct {
	tasks     map[int64]Task
	nextID    int64
	completed map[int64]string
	open      int
	overdue   int
	done      int
}

func newMockRepo() *mockRepo {
	return &mockRepo{tasks: make(map[int64]Task), completed: make(map[int64]string)}
}

func (m *mockRepo) Get(_ context.Context, id int64) (Task, error) {
	return m.tasks[id], nil
}

func (m *mockRepo) ListByVessel(_ context.Context, vesselID int64) ([]Task, error) {
	var out []Task
	for _, t := range m.tasks {
		if t.VesselID == vesselID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *mockRepo) ListOverdue(_ context.Context, now time.Time) ([]Task, error) {
	var out []Task
	for _, t := range m.tasks {
		if t.Status != StatusDone && t.DueAt.Before(now) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *mockRepo) Create(_ context.Context, t Task) (int64, error) {
	m.nextID++
	t.ID = m.nextID
	m.tasks[t.ID] = t
	return t.ID, nil
}

func (m *mockRepo) Complete(_ context.Context, id int64, completedBy string, completedAt time.Time) error {
	t, ok := m.tasks[id]
	if !ok {
		return shared.ErrNotFound
	}
	if t.Status == StatusDone {
		return ErrAlreadyDone
	}
	t.Status = StatusDone
	t.CompletedAt = &completedAt
	t.CompletedBy = completedBy
	m.tasks[id] = t
	m.completed[id] = completedBy
	return nil
}

func (m *mockRepo) UpdateStatus(_ context.Context, id int64, status TaskStatus) error {
	t := m.tasks[id]
	t.Status = status
	m.tasks[id] = t
	return nil
}

func (m *mockRepo) ComplianceCounts(context.Context, time.Time) (int, int, int, error) {
	return m.open, m.overdue, m.done, nil
}

func TestCreateAppliesDefaults(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	id, err := svc.Create(context.Background(), Task{
		VesselID: 1,
		Title:    "Oil change main engine",
		DueAt:    time.Now().Add(72 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, PriorityRoutine, repo.tasks[id].Priority)
	assert.Equal(t, StatusPlanned, repo.tasks[id].Status)
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()
	due := time.Now().Add(time.Hour)

	_, err := svc.Create(ctx, Task{Title: "no vessel", DueAt: due})
	require.Error(t, err)

	_, err = svc.Create(ctx, Task{VesselID: 1, Title: "no due date"})
	require.Error(t, err)

	_, err = svc.Create(ctx, Task{VesselID: 1, Title: "bad priority", DueAt: due, Priority: "WHENEVER"})
	require.ErrorIs(t, err, ErrUnknownPriority)
}

func TestCompleteIsIdempotentGuarded(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	ctx := context.Background()

	id, err := svc.Create(ctx, Task{VesselID: 1, Title: "Replace impeller", DueAt: time.Now().Add(time.Hour)})
	require.NoError(t, err)

	require.NoError(t, svc.Complete(ctx, id, "user-1"))
	assert.Equal(t, "user-1", repo.completed[id])

	require.ErrorIs(t, svc.Complete(ctx, id, "user-2"), ErrAlreadyDone)
}

func TestOverdueListing(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	ctx := context.Background()

	past, err := svc.Create(ctx, Task{VesselID: 1, Title: "Overdue job", DueAt: time.Now().Add(-24 * time.Hour)})
	require.NoError(t, err)
	_, err = svc.Create(ctx, Task{VesselID: 1, Title: "Future job", DueAt: time.Now().Add(24 * time.Hour)})
	require.NoError(t, err)

	overdue, err := svc.ListOverdue(ctx)
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, past, overdue[0].ID)
}

func TestComplianceRate(t *testing.T) {
	repo := newMockRepo()
	repo.open = 10
	repo.overdue = 3
	repo.done = 5
	svc := NewService(repo)

	rep, err := svc.Compliance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, rep.Overdue)
	assert.InDelta(t, 70.0, rep.ComplianceRate, 0.001)
}

func TestComplianceRateNoOpenTasks(t *testing.T) {
	svc := NewService(newMockRepo())

	rep, err := svc.Compliance(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 100.0, rep.ComplianceRate, 0.001)
}
