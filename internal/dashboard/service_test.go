package dashboard

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yachtexcel/fleetdeck/internal/crew"
	"github.com/yachtexcel/fleetdeck/internal/equipment"
	"github.com/yachtexcel/fleetdeck/internal/fleet"
	"github.com/yachtexcel/fleetdeck/internal/inventory"
	"github.com/yachtexcel/fleetdeck/internal/maintenance"
	"github.com/yachtexcel/fleetdeck/internal/suppliers"
)

type stubPorts struct {
	vessels    []fleet.Vessel
	rollups    map[int64]equipment.StatusRollup
	stockValue float64
	lowStock   []inventory.LowStockItem
	compliance maintenance.ComplianceReport
	onboarding crew.OnboardingSummary
	ranking    []suppliers.Scorecard
	buildCalls int
}

func (s *stubPorts) ListVessels(context.Context) ([]fleet.Vessel, error) {
	s.buildCalls++
	return s.vessels, nil
}

func (s *stubPorts) Rollup(_ context.Context, vesselID int64) (equipment.StatusRollup, error) {
	return s.rollups[vesselID], nil
}

func (s *stubPorts) StockValue(context.Context) (float64, error) { return s.stockValue, nil }

func (s *stubPorts) ListLowStock(context.Context) ([]inventory.LowStockItem, error) {
	return s.lowStock, nil
}

func (s *stubPorts) Compliance(context.Context) (maintenance.ComplianceReport, error) {
	return s.compliance, nil
}

func (s *stubPorts) OnboardingSummary(context.Context) (crew.OnboardingSummary, error) {
	return s.onboarding, nil
}

func (s *stubPorts) Ranking(context.Context) ([]suppliers.Scorecard, error) {
	return s.ranking, nil
}

func newTestService(t *testing.T, ports *stubPorts) (*Service, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	svc := NewService(Deps{
		Fleet:       ports,
		Equipment:   ports,
		Inventory:   ports,
		Maintenance: ports,
		Crew:        ports,
		Suppliers:   ports,
		Cache:       NewCache(client, time.Minute),
	})
	return svc, client
}

func fixturePorts() *stubPorts {
	return &stubPorts{
		vessels: []fleet.Vessel{
			{ID: 1, Name: "MY Aurora", Status: fleet.StatusActive},
			{ID: 2, Name: "SY Boreas", Status: fleet.StatusInRefit},
		},
		rollups: map[int64]equipment.StatusRollup{
			1: {VesselID: 1, Total: 10, Operational: 9, OperationalRate: 90},
			2: {VesselID: 2, Total: 4, Operational: 2, OperationalRate: 50},
		},
		stockValue: 125430.5,
		lowStock:   []inventory.LowStockItem{{PartID: 3}, {PartID: 9}},
		compliance: maintenance.ComplianceReport{Open: 10, Overdue: 2, Done: 30, ComplianceRate: 80},
		onboarding: crew.OnboardingSummary{Total: 12, Complete: 9, CompletionRate: 75},
		ranking: []suppliers.Scorecard{
			{SupplierID: 1, Score: 92, Grade: "A"},
			{SupplierID: 2, Score: 85, Grade: "B"},
			{SupplierID: 3, Score: 74, Grade: "C"},
			{SupplierID: 4, Score: 60, Grade: "D"},
		},
	}
}

func TestOverviewAggregates(t *testing.T) {
	ports := fixturePorts()
	svc, _ := newTestService(t, ports)

	out, err := svc.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, out.VesselCount)
	assert.InDelta(t, 70.0, out.FleetReadiness, 0.001)
	assert.InDelta(t, 125430.5, out.StockValue, 0.001)
	assert.Equal(t, "125,430.50", out.StockValueDisplay)
	assert.Equal(t, 2, out.LowStockCount)
	assert.Equal(t, 2, out.OverdueTasks)
	assert.InDelta(t, 80.0, out.Compliance, 0.001)
	assert.InDelta(t, 75.0, out.OnboardingRate, 0.001)
	require.Len(t, out.TopSuppliers, 3)
	assert.Equal(t, int64(1), out.TopSuppliers[0].SupplierID)
	require.Len(t, out.Vessels, 2)
}

func TestOverviewServedFromCache(t *testing.T) {
	ports := fixturePorts()
	svc, _ := newTestService(t, ports)
	ctx := context.Background()

	_, err := svc.Overview(ctx)
	require.NoError(t, err)
	_, err = svc.Overview(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, ports.buildCalls)
}

func TestInvalidateBumpsCacheVersion(t *testing.T) {
	ports := fixturePorts()
	svc, _ := newTestService(t, ports)
	ctx := context.Background()

	_, err := svc.Overview(ctx)
	require.NoError(t, err)
	require.NoError(t, svc.Invalidate(ctx))

	_, err = svc.Overview(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, ports.buildCalls)
}

func TestOverviewEmptyFleet(t *testing.T) {
	svc, _ := newTestService(t, &stubPorts{})

	out, err := svc.Overview(context.Background())
	require.NoError(t, err)
	assert.Zero(t, out.VesselCount)
	assert.InDelta(t, 100.0, out.FleetReadiness, 0.001)
}
