package maintenance

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yachtexcel/fleetdeck/internal/shared"
)

// Repository provides pgx-backed access to maintenance tasks.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const taskColumns = `id, vessel_id, COALESCE(equipment_id, 0), title, notes, priority, status, due_at, completed_at, completed_by, created_at, updated_at`

func scanTask(row pgx.Row) (Task, error) {
	var t Task
	err := row.Scan(&t.ID, &t.VesselID, &t.EquipmentID, &t.Title, &t.Notes, &t.Priority, &t.Status,
		&t.DueAt, &t.CompletedAt, &t.CompletedBy, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Task{}, shared.ErrNotFound
	}
	return t, err
}

func (r *Repository) Get(ctx context.Context, id int64) (Task, error) {
	return scanTask(r.pool.QueryRow(ctx, `SELECT `+taskColumns+` FROM maintenance_tasks WHERE id = $1`, id))
}

func (r *Repository) ListByVessel(ctx context.Context, vesselID int64) ([]Task, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+taskColumns+`
		FROM maintenance_tasks
		WHERE vessel_id = $1
		ORDER BY due_at`, vesselID)
	if err != nil {
		return nil, err
	}
	return collectTasks(rows)
}

// ListOverdue returns unfinished tasks whose due date passed before now.
func (r *Repository) ListOverdue(ctx context.Context, now time.Time) ([]Task, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+taskColumns+`
		FROM maintenance_tasks
		WHERE status <> $1 AND due_at < $2
		ORDER BY due_at`, StatusDone, now)
	if err != nil {
		return nil, err
	}
	return collectTasks(rows)
}

func collectTasks(rows pgx.Rows) ([]Task, error) {
	defer rows.Close()
	var tasks []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *Repository) Create(ctx context.Context, t Task) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO maintenance_tasks (vessel_id, equipment_id, title, notes, priority, status, due_at, created_at, updated_at)
		VALUES ($1, NULLIF($2, 0), $3, $4, $5, $6, $7, now(), now())
		RETURNING id`,
		t.VesselID, t.EquipmentID, t.Title, t.Notes, t.Priority, t.Status, t.DueAt).Scan(&id)
	return id, err
}

// Complete marks a task done. Returns ErrAlreadyDone when the task was
// finished earlier, ErrNotFound when it does not exist.
func (r *Repository) Complete(ctx context.Context, id int64, completedBy string, completedAt time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE maintenance_tasks
		SET status = $2, completed_at = $3, completed_by = $4, updated_at = now()
		WHERE id = $1 AND status <> $2`,
		id, StatusDone, completedAt, completedBy)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM maintenance_tasks WHERE id = $1)`, id).Scan(&exists); err != nil {
			return err
		}
		if exists {
			return ErrAlreadyDone
		}
		return shared.ErrNotFound
	}
	return nil
}

func (r *Repository) UpdateStatus(ctx context.Context, id int64, status TaskStatus) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE maintenance_tasks SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ComplianceCounts returns open, overdue and done task counts.
func (r *Repository) ComplianceCounts(ctx context.Context, now time.Time) (open, overdue, done int, err error) {
	err = r.pool.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE status <> $1),
			COUNT(*) FILTER (WHERE status <> $1 AND due_at < $2),
			COUNT(*) FILTER (WHERE status = $1)
		FROM maintenance_tasks`, StatusDone, now).Scan(&open, &overdue, &done)
	return open, overdue, done, err
}
