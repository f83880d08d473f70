package fleet

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/yachtexcel/fleetdeck/internal/auth"
	"github.com/yachtexcel/fleetdeck/internal/authstate"
	"github.com/yachtexcel/fleetdeck/internal/platform/httpx"
)

// Handler manages fleet registry endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	guard     auth.Middleware
	validator *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard auth.Middleware) *Handler {
	return &Handler{logger: logger, service: service, guard: guard, validator: validator.New()}
}

// MountRoutes registers fleet routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequirePermission(authstate.PermRead))
		r.Get("/", h.listVessels)
		r.Get("/{id}", h.getVessel)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireAnyRole(authstate.RoleSuperadmin, authstate.RoleAdmin))
		r.Post("/", h.createVessel)
		r.Put("/{id}/status", h.updateStatus)
	})
}

type createVesselRequest struct {
	Name     string  `json:"name" validate:"required,min=2"`
	HomePort string  `json:"home_port" validate:"required"`
	LengthM  float64 `json:"length_m" validate:"gt=0"`
	Status   string  `json:"status"`
}

func (h *Handler) listVessels(w http.ResponseWriter, r *http.Request) {
	vessels, err := h.service.ListVessels(r.Context())
	if err != nil {
		h.logger.Error("list vessels failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"vessels": vessels})
}

func (h *Handler) getVessel(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "vessel id must be numeric")
		return
	}
	vessel, err := h.service.GetVessel(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, vessel)
}

func (h *Handler) createVessel(w http.ResponseWriter, r *http.Request) {
	var form createVesselRequest
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "request body must be JSON")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	vessel := &Vessel{
		Name:     form.Name,
		HomePort: form.HomePort,
		LengthM:  form.LengthM,
		Status:   VesselStatus(form.Status),
	}
	if form.Status == "" {
		vessel.Status = StatusActive
	}
	if err := h.service.CreateVessel(r.Context(), vessel); err != nil {
		h.logger.Error("create vessel failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, vessel)
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "vessel id must be numeric")
		return
	}
	var form struct {
		Status string `json:"status" validate:"required"`
	}
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "request body must be JSON")
		return
	}
	if err := h.service.UpdateStatus(r.Context(), id, VesselStatus(form.Status)); err != nil {
		if errors.Is(err, ErrUnknownStatus) {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
			return
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": form.Status})
}
