package inventory

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yachtexcel/fleetdeck/internal/platform/db"
	"github.com/yachtexcel/fleetdeck/internal/shared"
)

// Repository persists spares data in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// TxRepository exposes transactional operations used by the service.
type TxRepository interface {
	InsertMovement(ctx context.Context, mv Movement) (int64, error)
	GetBalanceForUpdate(ctx context.Context, vesselID, partID int64) (Balance, error)
	UpsertBalance(ctx context.Context, balance Balance) error
}

type txRepo struct {
	tx pgx.Tx
}

// WithTx executes the callback inside a repeatable-read transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepo{tx: tx})
	})
}

func (r *Repository) CreatePart(ctx context.Context, p Part) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO spare_parts (sku, name, unit, reorder_level, created_at)
		VALUES ($1, $2, $3, $4, now())
		RETURNING id`,
		p.SKU, p.Name, p.Unit, p.ReorderLevel).Scan(&id)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return 0, shared.ErrDuplicate
	}
	return id, err
}

func (r *Repository) GetPart(ctx context.Context, id int64) (Part, error) {
	var p Part
	err := r.pool.QueryRow(ctx, `
		SELECT id, sku, name, unit, reorder_level, created_at
		FROM spare_parts WHERE id = $1`, id).
		Scan(&p.ID, &p.SKU, &p.Name, &p.Unit, &p.ReorderLevel, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Part{}, shared.ErrNotFound
	}
	return p, err
}

func (r *Repository) ListParts(ctx context.Context) ([]Part, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, sku, name, unit, reorder_level, created_at
		FROM spare_parts ORDER BY sku`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var parts []Part
	for rows.Next() {
		var p Part
		if err := rows.Scan(&p.ID, &p.SKU, &p.Name, &p.Unit, &p.ReorderLevel, &p.CreatedAt); err != nil {
			return nil, err
		}
		parts = append(parts, p)
	}
	return parts, rows.Err()
}

func (r *Repository) ListBalances(ctx context.Context, vesselID int64) ([]Balance, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT vessel_id, part_id, qty, avg_cost, updated_at
		FROM spare_balances
		WHERE vessel_id = $1
		ORDER BY part_id`, vesselID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var balances []Balance
	for rows.Next() {
		var b Balance
		if err := rows.Scan(&b.VesselID, &b.PartID, &b.Qty, &b.AvgCost, &b.UpdatedAt); err != nil {
			return nil, err
		}
		balances = append(balances, b)
	}
	return balances, rows.Err()
}

func (r *Repository) ListLowStock(ctx context.Context) ([]LowStockItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT b.vessel_id, b.part_id, p.sku, p.name, b.qty, p.reorder_level
		FROM spare_balances b
		JOIN spare_parts p ON p.id = b.part_id
		WHERE p.reorder_level > 0 AND b.qty < p.reorder_level
		ORDER BY b.vessel_id, p.sku`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []LowStockItem
	for rows.Next() {
		var it LowStockItem
		if err := rows.Scan(&it.VesselID, &it.PartID, &it.SKU, &it.Name, &it.Qty, &it.ReorderLevel); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// StockValue sums qty times moving-average cost over the whole fleet.
func (r *Repository) StockValue(ctx context.Context) (float64, error) {
	var value float64
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(qty * avg_cost), 0) FROM spare_balances`).Scan(&value)
	return value, err
}

func (r *txRepo) InsertMovement(ctx context.Context, mv Movement) (int64, error) {
	var id int64
	err := r.tx.QueryRow(ctx, `
		INSERT INTO spare_movements (code, tx_type, vessel_id, part_id, qty, unit_cost, note, posted_at, actor_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		mv.Code, mv.Type, mv.VesselID, mv.PartID, mv.Qty, mv.UnitCost, mv.Note, mv.PostedAt, mv.ActorID).Scan(&id)
	return id, err
}

func (r *txRepo) GetBalanceForUpdate(ctx context.Context, vesselID, partID int64) (Balance, error) {
	var b Balance
	err := r.tx.QueryRow(ctx, `
		SELECT vessel_id, part_id, qty, avg_cost, updated_at
		FROM spare_balances
		WHERE vessel_id = $1 AND part_id = $2
		FOR UPDATE`, vesselID, partID).
		Scan(&b.VesselID, &b.PartID, &b.Qty, &b.AvgCost, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Balance{VesselID: vesselID, PartID: partID}, ErrBalanceNotFound
	}
	return b, err
}

func (r *txRepo) UpsertBalance(ctx context.Context, balance Balance) error {
	_, err := r.tx.Exec(ctx, `
		INSERT INTO spare_balances (vessel_id, part_id, qty, avg_cost, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (vessel_id, part_id)
		DO UPDATE SET qty = EXCLUDED.qty, avg_cost = EXCLUDED.avg_cost, updated_at = now()`,
		balance.VesselID, balance.PartID, balance.Qty, balance.AvgCost)
	return err
}
