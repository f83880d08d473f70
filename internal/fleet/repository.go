package fleet

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yachtexcel/fleetdeck/internal/shared"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListVessels returns all vessels ordered by name.
func (r *Repository) ListVessels(ctx context.Context) ([]Vessel, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, home_port, length_m, status, created_at, updated_at FROM vessels ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vessels []Vessel
	for rows.Next() {
		var v Vessel
		if err := rows.Scan(&v.ID, &v.Name, &v.HomePort, &v.LengthM, &v.Status, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		vessels = append(vessels, v)
	}
	return vessels, rows.Err()
}

// GetVessel fetches one vessel by ID.
func (r *Repository) GetVessel(ctx context.Context, id int64) (*Vessel, error) {
	var v Vessel
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, home_port, length_m, status, created_at, updated_at FROM vessels WHERE id = $1`, id).
		Scan(&v.ID, &v.Name, &v.HomePort, &v.LengthM, &v.Status, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

// CreateVessel inserts a new vessel and returns its assigned ID.
func (r *Repository) CreateVessel(ctx context.Context, v *Vessel) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO vessels (name, home_port, length_m, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, now(), now()) RETURNING id`,
		v.Name, v.HomePort, v.LengthM, v.Status).Scan(&v.ID)
}

// UpdateVesselStatus changes a vessel's operational status.
func (r *Repository) UpdateVesselStatus(ctx context.Context, id int64, status VesselStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE vessels SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
