package crew

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yachtexcel/fleetdeck/internal/shared"
)

// Repository provides pgx-backed access to crew records.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) List(ctx context.Context, vesselID int64) ([]Member, error) {
	query := `
		SELECT id, COALESCE(vessel_id, 0), name, email, position, onboarding, joined_at, updated_at
		FROM crew_members`
	args := []any{}
	if vesselID != 0 {
		query += ` WHERE vessel_id = $1`
		args = append(args, vesselID)
	}
	query += ` ORDER BY name`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []Member
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.ID, &m.VesselID, &m.Name, &m.Email, &m.Position, &m.Onboarding, &m.JoinedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *Repository) Get(ctx context.Context, id int64) (Member, error) {
	var m Member
	err := r.pool.QueryRow(ctx, `
		SELECT id, COALESCE(vessel_id, 0), name, email, position, onboarding, joined_at, updated_at
		FROM crew_members WHERE id = $1`, id).
		Scan(&m.ID, &m.VesselID, &m.Name, &m.Email, &m.Position, &m.Onboarding, &m.JoinedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Member{}, shared.ErrNotFound
	}
	return m, err
}

func (r *Repository) Create(ctx context.Context, m Member) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO crew_members (vessel_id, name, email, position, onboarding, joined_at, updated_at)
		VALUES (NULLIF($1, 0), $2, $3, $4, $5, now(), now())
		RETURNING id`,
		m.VesselID, m.Name, m.Email, m.Position, m.Onboarding).Scan(&id)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return 0, shared.ErrDuplicate
	}
	return id, err
}

func (r *Repository) UpdateOnboarding(ctx context.Context, id int64, status OnboardingStatus) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE crew_members SET onboarding = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *Repository) AssignVessel(ctx context.Context, id, vesselID int64) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE crew_members SET vessel_id = NULLIF($2, 0), updated_at = now() WHERE id = $1`, id, vesselID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// OnboardingCounts returns total members and how many completed onboarding.
func (r *Repository) OnboardingCounts(ctx context.Context) (total, complete int, err error) {
	err = r.pool.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE onboarding = $1)
		FROM crew_members`, StatusComplete).Scan(&total, &complete)
	return total, complete, err
}
