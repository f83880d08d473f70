package crew

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

// Handler manages crew roster endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	guard     auth.Middleware
	validator *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service, guard auth.Middleware) *Handler {
	return &Handler{logger: logger, service: service, guard: guard, validator: validator.New()}
}

// MountRoutes registers crew routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequirePermission(authstate.PermRead))
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
		r.Get("/onboarding/summary", h.onboardingSummary)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireAnyRole(authstate.RoleSuperadmin, authstate.RoleAdmin, authstate.RoleManager))
		r.Post("/", h.create)
		r.Put("/{id}/onboarding", h.updateOnboarding)
		r.Put("/{id}/vessel", h.assignVessel)
	})
}

type createMemberRequest struct {
	VesselID int64  `json:"vessel_id"`
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Position string `json:"position" validate:"required"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	var vesselID int64
	if raw := r.URL.Query().Get("vessel_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "vessel_id must be numeric")
			return
		}
		vesselID = id
	}
	members, err := h.service.List(r.Context(), vesselID)
	if err != nil {
		h.logger.Error("list crew failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"crew": members})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "crew id must be numeric")
		return
	}
	member, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, member)
}

func (h *Handler) onboardingSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.service.OnboardingSummary(r.Context())
	if err != nil {
		h.logger.Error("onboarding summary failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, sum)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var form createMemberRequest
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "request body must be JSON")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	id, err := h.service.Create(r.Context(), Member{
		VesselID: form.VesselID,
		Name:     form.Name,
		Email:    form.Email,
		Position: form.Position,
	})
	if err != nil {
		h.logger.Error("create crew member failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (h *Handler) updateOnboarding(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "crew id must be numeric")
		return
	}
	var form struct {
		Onboarding string `json:"onboarding" validate:"required"`
	}
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "request body must be JSON")
		return
	}
	if err := h.service.UpdateOnboarding(r.Context(), id, OnboardingStatus(form.Onboarding)); err != nil {
		if errors.Is(err, ErrUnknownOnboardingStatus) {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
			return
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"onboarding": form.Onboarding})
}

func (h *Handler) assignVessel(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "crew id must be numeric")
		return
	}
	var form struct {
		VesselID int64 `json:"vessel_id"`
	}
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "request body must be JSON")
		return
	}
	if err := h.service.AssignVessel(r.Context(), id, form.VesselID); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]int64{"vessel_id": form.VesselID})
}
