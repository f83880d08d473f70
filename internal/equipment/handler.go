package equipment

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

// Handler manages equipment endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	guard     auth.Middleware
	validator *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service, guard auth.Middleware) *Handler {
	return &Handler{logger: logger, service: service, guard: guard, validator: validator.New()}
}

// MountRoutes registers equipment routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequirePermission(authstate.PermRead))
		r.Get("/vessel/{vesselID}", h.listByVessel)
		r.Get("/vessel/{vesselID}/rollup", h.rollup)
		r.Get("/{id}", h.get)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireAnyRole(authstate.RoleSuperadmin, authstate.RoleAdmin, authstate.RoleManager))
		r.Post("/", h.create)
		r.Put("/{id}/status", h.updateStatus)
	})
}

type createItemRequest struct {
	VesselID int64  `json:"vessel_id" validate:"required,gt=0"`
	Name     string `json:"name" validate:"required,min=2"`
	Category string `json:"category" validate:"required"`
	SerialNo string `json:"serial_no"`
	Status   string `json:"status"`
}

func (h *Handler) listByVessel(w http.ResponseWriter, r *http.Request) {
	vesselID, err := strconv.ParseInt(chi.URLParam(r, "vesselID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "vessel id must be numeric")
		return
	}
	items, err := h.service.ListByVessel(r.Context(), vesselID)
	if err != nil {
		h.logger.Error("list equipment failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"equipment": items})
}

func (h *Handler) rollup(w http.ResponseWriter, r *http.Request) {
	vesselID, err := strconv.ParseInt(chi.URLParam(r, "vesselID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "vessel id must be numeric")
		return
	}
	up, err := h.service.Rollup(r.Context(), vesselID)
	if err != nil {
		h.logger.Error("equipment rollup failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, up)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "equipment id must be numeric")
		return
	}
	item, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var form createItemRequest
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "request body must be JSON")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	item := Item{
		VesselID: form.VesselID,
		Name:     form.Name,
		Category: form.Category,
		SerialNo: form.SerialNo,
		Status:   Status(form.Status),
	}
	id, err := h.service.Create(r.Context(), item)
	if err != nil {
		if errors.Is(err, ErrUnknownStatus) {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
			return
		}
		h.logger.Error("create equipment failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "equipment id must be numeric")
		return
	}
	var form struct {
		Status string `json:"status" validate:"required"`
	}
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "request body must be JSON")
		return
	}
	if err := h.service.UpdateStatus(r.Context(), id, Status(form.Status)); err != nil {
		if errors.Is(err, ErrUnknownStatus) {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
			return
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": form.Status})
}
