package maintenance

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/yachtexcel/fleetdeck/internal/auth"
	"github.com/yachtexcel/fleetdeck/internal/authstate"
	"github.com/yachtexcel/fleetdeck/internal/platform/httpx"
)

// Handler manages maintenance schedule endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	guard     auth.Middleware
	validator *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service, guard auth.Middleware) *Handler {
	return &Handler{logger: logger, service: service, guard: guard, validator: validator.New()}
}

// MountRoutes registers maintenance routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequirePermission(authstate.PermRead))
		r.Get("/vessel/{vesselID}", h.listByVessel)
		r.Get("/overdue", h.listOverdue)
		r.Get("/compliance", h.compliance)
		r.Get("/{id}", h.get)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireAnyRole(authstate.RoleSuperadmin, authstate.RoleAdmin, authstate.RoleManager))
		r.Post("/", h.create)
		r.Post("/{id}/complete", h.complete)
		r.Put("/{id}/status", h.updateStatus)
	})
}

type createTaskRequest struct {
	VesselID    int64     `json:"vessel_id" validate:"required,gt=0"`
	EquipmentID int64     `json:"equipment_id"`
	Title       string    `json:"title" validate:"required,min=3"`
	Notes       string    `json:"notes"`
	Priority    string    `json:"priority"`
	DueAt       time.Time `json:"due_at" validate:"required"`
}

func (h *Handler) listByVessel(w http.ResponseWriter, r *http.Request) {
	vesselID, err := strconv.ParseInt(chi.URLParam(r, "vesselID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "vessel id must be numeric")
		return
	}
	tasks, err := h.service.ListByVessel(r.Context(), vesselID)
	if err != nil {
		h.logger.Error("list tasks failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"tasks": tasks})
}

func (h *Handler) listOverdue(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.service.ListOverdue(r.Context())
	if err != nil {
		h.logger.Error("list overdue failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"tasks": tasks})
}

func (h *Handler) compliance(w http.ResponseWriter, r *http.Request) {
	rep, err := h.service.Compliance(r.Context())
	if err != nil {
		h.logger.Error("compliance report failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rep)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "task id must be numeric")
		return
	}
	task, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, task)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var form createTaskRequest
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "request body must be JSON")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	id, err := h.service.Create(r.Context(), Task{
		VesselID:    form.VesselID,
		EquipmentID: form.EquipmentID,
		Title:       form.Title,
		Notes:       form.Notes,
		Priority:    Priority(form.Priority),
		DueAt:       form.DueAt,
	})
	if err != nil {
		if errors.Is(err, ErrUnknownPriority) || errors.Is(err, ErrUnknownStatus) {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
			return
		}
		h.logger.Error("create task failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (h *Handler) complete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "task id must be numeric")
		return
	}
	var completedBy string
	if snap := h.guard.Coordinator.Snapshot(); snap.User != nil {
		completedBy = snap.User.ID
	}
	if err := h.service.Complete(r.Context(), id, completedBy); err != nil {
		if errors.Is(err, ErrAlreadyDone) {
			httpx.Problem(w, http.StatusConflict, "Conflict", err.Error())
			return
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": string(StatusDone)})
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "task id must be numeric")
		return
	}
	var form struct {
		Status string `json:"status" validate:"required"`
	}
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "request body must be JSON")
		return
	}
	if err := h.service.UpdateStatus(r.Context(), id, TaskStatus(form.Status)); err != nil {
		if errors.Is(err, ErrUnknownStatus) {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
			return
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": form.Status})
}
