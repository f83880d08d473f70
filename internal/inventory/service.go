package inventory

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
)

// RepositoryPort abstracts repository usage for the service.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	CreatePart(ctx context.Context, p Part) (int64, error)
	GetPart(ctx context.Context, id int64) (Part, error)
	ListParts(ctx context.Context) ([]Part, error)
	ListBalances(ctx context.Context, vesselID int64) ([]Balance, error)
	ListLowStock(ctx context.Context) ([]LowStockItem, error)
	StockValue(ctx context.Context) (float64, error)
}

// ServiceConfig groups optional settings.
type ServiceConfig struct {
	AllowNegativeStock bool
}

// Service coordinates spares operations.
type Service struct {
	repo     RepositoryPort
	allowNeg bool
}

// NewService builds Service.
func NewService(repo RepositoryPort, cfg ServiceConfig) *Service {
	return &Service{repo: repo, allowNeg: cfg.AllowNegativeStock}
}

func (s *Service) CreatePart(ctx context.Context, p Part) (int64, error) {
	if p.SKU == "" || p.Name == "" {
		return 0, errors.New("inventory: sku and name required")
	}
	return s.repo.CreatePart(ctx, p)
}

func (s *Service) GetPart(ctx context.Context, id int64) (Part, error) {
	return s.repo.GetPart(ctx, id)
}

func (s *Service) ListParts(ctx context.Context) ([]Part, error) {
	return s.repo.ListParts(ctx)
}

func (s *Service) ListBalances(ctx context.Context, vesselID int64) ([]Balance, error) {
	return s.repo.ListBalances(ctx, vesselID)
}

func (s *Service) ListLowStock(ctx context.Context) ([]LowStockItem, error) {
	return s.repo.ListLowStock(ctx)
}

func (s *Service) StockValue(ctx context.Context) (float64, error) {
	return s.repo.StockValue(ctx)
}

// PostReceipt posts stock received aboard a vessel.
func (s *Service) PostReceipt(ctx context.Context, input MovementInput) (Balance, error) {
	if input.Qty <= 0 {
		return Balance{}, ErrInvalidQuantity
	}
	if input.UnitCost < 0 {
		return Balance{}, ErrInvalidUnitCost
	}
	return s.postMovement(ctx, MovementIn, input, input.Qty)
}

// PostIssue posts stock consumed or issued from a vessel.
func (s *Service) PostIssue(ctx context.Context, input MovementInput) (Balance, error) {
	if input.Qty <= 0 {
		return Balance{}, ErrInvalidQuantity
	}
	return s.postMovement(ctx, MovementOut, input, -input.Qty)
}

// PostAdjustment posts a manual correction, positive or negative.
func (s *Service) PostAdjustment(ctx context.Context, input MovementInput) (Balance, error) {
	if math.Abs(input.Qty) < 1e-9 {
		return Balance{}, ErrInvalidQuantity
	}
	if input.Qty > 0 && input.UnitCost < 0 {
		return Balance{}, ErrInvalidUnitCost
	}
	return s.postMovement(ctx, MovementAdjust, input, input.Qty)
}

func (s *Service) postMovement(ctx context.Context, txType MovementType, input MovementInput, qtyChange float64) (Balance, error) {
	if input.VesselID == 0 || input.PartID == 0 {
		return Balance{}, errors.New("inventory: vessel and part required")
	}
	now := time.Now().UTC()
	code := input.Code
	if code == "" {
		code = fmt.Sprintf("SPR-%d", now.UnixNano())
	}

	var result Balance
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		balance, err := tx.GetBalanceForUpdate(ctx, input.VesselID, input.PartID)
		if err != nil && !errors.Is(err, ErrBalanceNotFound) {
			return err
		}
		newQty := balance.Qty + qtyChange
		if !s.allowNeg && newQty < -0.0001 {
			return ErrNegativeStock
		}
		var unitCost, newAvg float64
		if qtyChange > 0 {
			// Inbound re-averages the on-board cost.
			unitCost = input.UnitCost
			totalCost := balance.Qty*balance.AvgCost + qtyChange*unitCost
			if newQty != 0 {
				newAvg = totalCost / newQty
			}
		} else {
			// Outbound leaves at the current moving-average cost.
			unitCost = balance.AvgCost
			if math.Abs(newQty) < 0.0001 {
				newQty = 0
			}
			if newQty > 0 {
				newAvg = balance.AvgCost
			}
		}
		mv := Movement{
			Code:     code,
			Type:     txType,
			VesselID: input.VesselID,
			PartID:   input.PartID,
			Qty:      qtyChange,
			UnitCost: unitCost,
			Note:     input.Note,
			PostedAt: now,
			ActorID:  input.ActorID,
		}
		if _, err := tx.InsertMovement(ctx, mv); err != nil {
			return err
		}
		balance.Qty = newQty
		balance.AvgCost = newAvg
		if err := tx.UpsertBalance(ctx, balance); err != nil {
			return err
		}
		result = balance
		return nil
	})
	if err != nil {
		return Balance{}, err
	}
	return result, nil
}
