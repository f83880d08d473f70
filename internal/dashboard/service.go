package dashboard

import (
	"context"
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/yachtexcel/fleetdeck/internal/crew"
	"github.com/yachtexcel/fleetdeck/internal/equipment"
	"github.com/yachtexcel/fleetdeck/internal/fleet"
	"github.com/yachtexcel/fleetdeck/internal/inventory"
	"github.com/yachtexcel/fleetdeck/internal/maintenance"
	"github.com/yachtexcel/fleetdeck/internal/suppliers"
)

// Overview is the fleet-wide summary served to the operations board.
type Overview struct {
	GeneratedAt       time.Time             `json:"generated_at"`
	VesselCount       int                   `json:"vessel_count"`
	FleetReadiness    float64               `json:"fleet_readiness"`
	StockValue        float64               `json:"stock_value"`
	StockValueDisplay string                `json:"stock_value_display"`
	LowStockCount     int                   `json:"low_stock_count"`
	OverdueTasks      int                   `json:"overdue_tasks"`
	Compliance        float64               `json:"maintenance_compliance"`
	OnboardingRate    float64               `json:"crew_onboarding_rate"`
	TopSuppliers      []suppliers.Scorecard `json:"top_suppliers"`
	Vessels           []VesselReadiness     `json:"vessels"`
}

// VesselReadiness pairs a vessel with its equipment health.
type VesselReadiness struct {
	VesselID        int64   `json:"vessel_id"`
	Name            string  `json:"name"`
	Status          string  `json:"status"`
	OperationalRate float64 `json:"operational_rate"`
}

// FleetPort exposes the vessel registry reads the dashboard needs.
type FleetPort interface {
	ListVessels(ctx context.Context) ([]fleet.Vessel, error)
}

// EquipmentPort exposes per-vessel equipment health.
type EquipmentPort interface {
	Rollup(ctx context.Context, vesselID int64) (equipment.StatusRollup, error)
}

// InventoryPort exposes spares valuation and shortage reads.
type InventoryPort interface {
	StockValue(ctx context.Context) (float64, error)
	ListLowStock(ctx context.Context) ([]inventory.LowStockItem, error)
}

// MaintenancePort exposes schedule compliance reads.
type MaintenancePort interface {
	Compliance(ctx context.Context) (maintenance.ComplianceReport, error)
}

// CrewPort exposes onboarding progress reads.
type CrewPort interface {
	OnboardingSummary(ctx context.Context) (crew.OnboardingSummary, error)
}

// SupplierPort exposes the vendor ranking.
type SupplierPort interface {
	Ranking(ctx context.Context) ([]suppliers.Scorecard, error)
}

// Service aggregates module read models into one cached overview.
type Service struct {
	fleet       FleetPort
	equipment   EquipmentPort
	inventory   InventoryPort
	maintenance MaintenancePort
	crew        CrewPort
	suppliers   SupplierPort
	cache       *Cache
	printer     *message.Printer
	now         func() time.Time
}

// Deps lists the module ports the dashboard reads from.
type Deps struct {
	Fleet       FleetPort
	Equipment   EquipmentPort
	Inventory   InventoryPort
	Maintenance MaintenancePort
	Crew        CrewPort
	Suppliers   SupplierPort
	Cache       *Cache
}

// NewService wires the aggregation service.
func NewService(deps Deps) *Service {
	return &Service{
		fleet:       deps.Fleet,
		equipment:   deps.Equipment,
		inventory:   deps.Inventory,
		maintenance: deps.Maintenance,
		crew:        deps.Crew,
		suppliers:   deps.Suppliers,
		cache:       deps.Cache,
		printer:     message.NewPrinter(language.English),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

const topSupplierLimit = 3

// Overview returns the cached fleet summary, rebuilding it on a miss.
func (s *Service) Overview(ctx context.Context) (Overview, error) {
	key, err := s.cache.BuildKey(ctx, "dashboard", "overview")
	if err != nil {
		return Overview{}, err
	}
	var out Overview
	err = s.cache.FetchJSON(ctx, key, &out, func(ctx context.Context) (any, error) {
		return s.build(ctx)
	})
	return out, err
}

// Invalidate drops cached overviews after a write elsewhere.
func (s *Service) Invalidate(ctx context.Context) error {
	return s.cache.Bump(ctx)
}

func (s *Service) build(ctx context.Context) (Overview, error) {
	out := Overview{GeneratedAt: s.now()}

	vessels, err := s.fleet.ListVessels(ctx)
	if err != nil {
		return Overview{}, err
	}
	out.VesselCount = len(vessels)

	var readinessSum float64
	for _, v := range vessels {
		up, err := s.equipment.Rollup(ctx, v.ID)
		if err != nil {
			return Overview{}, err
		}
		readinessSum += up.OperationalRate
		out.Vessels = append(out.Vessels, VesselReadiness{
			VesselID:        v.ID,
			Name:            v.Name,
			Status:          string(v.Status),
			OperationalRate: up.OperationalRate,
		})
	}
	if len(vessels) > 0 {
		out.FleetReadiness = math.Round(readinessSum/float64(len(vessels))*100) / 100
	} else {
		out.FleetReadiness = 100
	}

	value, err := s.inventory.StockValue(ctx)
	if err != nil {
		return Overview{}, err
	}
	out.StockValue = value
	out.StockValueDisplay = s.printer.Sprintf("%.2f", value)

	low, err := s.inventory.ListLowStock(ctx)
	if err != nil {
		return Overview{}, err
	}
	out.LowStockCount = len(low)

	rep, err := s.maintenance.Compliance(ctx)
	if err != nil {
		return Overview{}, err
	}
	out.OverdueTasks = rep.Overdue
	out.Compliance = rep.ComplianceRate

	onb, err := s.crew.OnboardingSummary(ctx)
	if err != nil {
		return Overview{}, err
	}
	out.OnboardingRate = onb.CompletionRate

	ranking, err := s.suppliers.Ranking(ctx)
	if err != nil {
		return Overview{}, err
	}
	if len(ranking) > topSupplierLimit {
		ranking = ranking[:topSupplierLimit]
	}
	out.TopSuppliers = ranking

	return out, nil
}
