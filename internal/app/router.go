package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/yachtexcel/fleetdeck/internal/auth"
	"github.com/yachtexcel/fleetdeck/internal/crew"
	"github.com/yachtexcel/fleetdeck/internal/dashboard"
	"github.com/yachtexcel/fleetdeck/internal/equipment"
	"github.com/yachtexcel/fleetdeck/internal/fleet"
	"github.com/yachtexcel/fleetdeck/internal/inventory"
	"github.com/yachtexcel/fleetdeck/internal/maintenance"
	"github.com/yachtexcel/fleetdeck/internal/observability"
	"github.com/yachtexcel/fleetdeck/internal/shared"
	"github.com/yachtexcel/fleetdeck/internal/suppliers"
	"github.com/yachtexcel/fleetdeck/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager

	AuthHandler        *auth.Handler
	FleetHandler       *fleet.Handler
	EquipmentHandler   *equipment.Handler
	InventoryHandler   *inventory.Handler
	CrewHandler        *crew.Handler
	MaintenanceHandler *maintenance.Handler
	SuppliersHandler   *suppliers.Handler
	DashboardHandler   *dashboard.Handler
	JobHandler         *jobs.Handler
	Metrics            *observability.Metrics
}

// NewRouter constructs the chi.Router with FleetDeck defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)
	if params.FleetHandler != nil {
		r.Route("/fleet", params.FleetHandler.MountRoutes)
	}
	if params.EquipmentHandler != nil {
		r.Route("/equipment", params.EquipmentHandler.MountRoutes)
	}
	if params.InventoryHandler != nil {
		r.Route("/inventory", params.InventoryHandler.MountRoutes)
	}
	if params.CrewHandler != nil {
		r.Route("/crew", params.CrewHandler.MountRoutes)
	}
	if params.MaintenanceHandler != nil {
		r.Route("/maintenance", params.MaintenanceHandler.MountRoutes)
	}
	if params.SuppliersHandler != nil {
		r.Route("/suppliers", params.SuppliersHandler.MountRoutes)
	}
	if params.DashboardHandler != nil {
		r.Route("/dashboard", params.DashboardHandler.MountRoutes)
	}
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
