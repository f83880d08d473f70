package inventory

import (
	"errors"
	"time"
)

// MovementType enumerates supported spare-part movements.
type MovementType string

const (
	// MovementIn represents stock received aboard.
	MovementIn MovementType = "IN"
	// MovementOut represents stock consumed or issued.
	MovementOut MovementType = "OUT"
	// MovementAdjust indicates a manual correction.
	MovementAdjust MovementType = "ADJUST"
)

// Part describes a catalogued spare part.
type Part struct {
	ID           int64     `json:"id"`
	SKU          string    `json:"sku"`
	Name         string    `json:"name"`
	Unit         string    `json:"unit"`
	ReorderLevel float64   `json:"reorder_level"`
	CreatedAt    time.Time `json:"created_at"`
}

// Movement records one posted stock movement for a part on a vessel.
type Movement struct {
	ID       int64
	Code     string
	Type     MovementType
	VesselID int64
	PartID   int64
	Qty      float64
	UnitCost float64
	Note     string
	PostedAt time.Time
	ActorID  string
}

// Balance summarises on-board stock of one part per vessel.
type Balance struct {
	VesselID  int64     `json:"vessel_id"`
	PartID    int64     `json:"part_id"`
	Qty       float64   `json:"qty"`
	AvgCost   float64   `json:"avg_cost"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LowStockItem flags a part whose on-board quantity fell below
// its reorder level.
type LowStockItem struct {
	VesselID     int64   `json:"vessel_id"`
	PartID       int64   `json:"part_id"`
	SKU          string  `json:"sku"`
	Name         string  `json:"name"`
	Qty          float64 `json:"qty"`
	ReorderLevel float64 `json:"reorder_level"`
}

// MovementInput describes a request to post a stock movement.
type MovementInput struct {
	Code     string
	VesselID int64
	PartID   int64
	Qty      float64
	UnitCost float64
	Note     string
	ActorID  string
}

var (
	// ErrNegativeStock triggered when a movement would leave negative quantity.
	ErrNegativeStock = errors.New("inventory: negative stock not allowed")
	// ErrInvalidQuantity rejects zero or wrong-signed quantities.
	ErrInvalidQuantity = errors.New("inventory: invalid quantity")
	// ErrInvalidUnitCost rejects negative unit costs.
	ErrInvalidUnitCost = errors.New("inventory: invalid unit cost")
	// ErrBalanceNotFound indicates a missing balance row.
	ErrBalanceNotFound = errors.New("inventory: balance not found")
)
