package suppliers

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yachtexcel/fleetdeck/internal/shared"
)

// Repository provides pgx-backed access to suppliers and scorecards.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) List(ctx context.Context) ([]Supplier, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, email, phone, country, active, created_at, updated_at
		FROM suppliers ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Supplier
	for rows.Next() {
		var s Supplier
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.Phone, &s.Country, &s.Active, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repository) Get(ctx context.Context, id int64) (Supplier, error) {
	var s Supplier
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, email, phone, country, active, created_at, updated_at
		FROM suppliers WHERE id = $1`, id).
		Scan(&s.ID, &s.Name, &s.Email, &s.Phone, &s.Country, &s.Active, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Supplier{}, shared.ErrNotFound
	}
	return s, err
}

func (r *Repository) Create(ctx context.Context, s Supplier) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO suppliers (name, email, phone, country, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
		RETURNING id`,
		s.Name, s.Email, s.Phone, s.Country, s.Active).Scan(&id)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return 0, shared.ErrDuplicate
	}
	return id, err
}

func (r *Repository) SaveScorecard(ctx context.Context, card Scorecard) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO supplier_scorecards (supplier_id, on_time, quality, price, responsiveness, score, grade, scored_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (supplier_id)
		DO UPDATE SET on_time = EXCLUDED.on_time, quality = EXCLUDED.quality,
			price = EXCLUDED.price, responsiveness = EXCLUDED.responsiveness,
			score = EXCLUDED.score, grade = EXCLUDED.grade, scored_at = EXCLUDED.scored_at`,
		card.SupplierID, card.Ratings.OnTime, card.Ratings.Quality, card.Ratings.Price,
		card.Ratings.Responsiveness, card.Score, card.Grade, card.ScoredAt)
	return err
}

func (r *Repository) GetScorecard(ctx context.Context, supplierID int64) (Scorecard, error) {
	var card Scorecard
	err := r.pool.QueryRow(ctx, `
		SELECT supplier_id, on_time, quality, price, responsiveness, score, grade, scored_at
		FROM supplier_scorecards WHERE supplier_id = $1`, supplierID).
		Scan(&card.SupplierID, &card.Ratings.OnTime, &card.Ratings.Quality, &card.Ratings.Price,
			&card.Ratings.Responsiveness, &card.Score, &card.Grade, &card.ScoredAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Scorecard{}, shared.ErrNotFound
	}
	return card, err
}

func (r *Repository) ListScorecards(ctx context.Context) ([]Scorecard, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT supplier_id, on_time, quality, price, responsiveness, score, grade, scored_at
		FROM supplier_scorecards ORDER BY score DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []Scorecard
	for rows.Next() {
		var card Scorecard
		if err := rows.Scan(&card.SupplierID, &card.Ratings.OnTime, &card.Ratings.Quality,
			&card.Ratings.Price, &card.Ratings.Responsiveness, &card.Score, &card.Grade, &card.ScoredAt); err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, rows.Err()
}
