package equipment

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yachtexcel/fleetdeck/internal/shared"
)

// Repository provides pgx-backed access to equipment records.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) ListByVessel(ctx context.Context, vesselID int64) ([]Item, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, vessel_id, name, category, serial_no, status, installed_at, updated_at
		FROM equipment
		WHERE vessel_id = $1
		ORDER BY name`, vesselID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.VesselID, &it.Name, &it.Category, &it.SerialNo, &it.Status, &it.InstalledAt, &it.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *Repository) Get(ctx context.Context, id int64) (Item, error) {
	var it Item
	err := r.pool.QueryRow(ctx, `
		SELECT id, vessel_id, name, category, serial_no, status, installed_at, updated_at
		FROM equipment WHERE id = $1`, id).
		Scan(&it.ID, &it.VesselID, &it.Name, &it.Category, &it.SerialNo, &it.Status, &it.InstalledAt, &it.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Item{}, shared.ErrNotFound
	}
	return it, err
}

func (r *Repository) Create(ctx context.Context, it Item) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO equipment (vessel_id, name, category, serial_no, status, installed_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
		RETURNING id`,
		it.VesselID, it.Name, it.Category, it.SerialNo, it.Status).Scan(&id)
	return id, err
}

func (r *Repository) UpdateStatus(ctx context.Context, id int64, status Status) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE equipment SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
