package inventory

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/yachtexcel/fleetdeck/internal/auth"
	"github.com/yachtexcel/fleetdeck/internal/authstate"
	"github.com/yachtexcel/fleetdeck/internal/platform/httpx"
	"github.com/yachtexcel/fleetdeck/internal/shared"
)

// Handler manages spares inventory endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	guard     auth.Middleware
	validator *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service, guard auth.Middleware) *Handler {
	return &Handler{logger: logger, service: service, guard: guard, validator: validator.New()}
}

// MountRoutes registers inventory routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequirePermission(authstate.PermRead))
		r.Get("/parts", h.listParts)
		r.Get("/parts/{id}", h.getPart)
		r.Get("/vessel/{vesselID}/balances", h.listBalances)
		r.Get("/low-stock", h.listLowStock)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireAnyRole(authstate.RoleSuperadmin, authstate.RoleAdmin, authstate.RoleManager))
		r.Post("/parts", h.createPart)
		r.Post("/receipts", h.postReceipt)
		r.Post("/issues", h.postIssue)
		r.Post("/adjustments", h.postAdjustment)
	})
}

type createPartRequest struct {
	SKU          string  `json:"sku" validate:"required,min=2"`
	Name         string  `json:"name" validate:"required,min=2"`
	Unit         string  `json:"unit" validate:"required"`
	ReorderLevel float64 `json:"reorder_level" validate:"gte=0"`
}

type movementRequest struct {
	Code     string  `json:"code"`
	VesselID int64   `json:"vessel_id" validate:"required,gt=0"`
	PartID   int64   `json:"part_id" validate:"required,gt=0"`
	Qty      float64 `json:"qty" validate:"required"`
	UnitCost float64 `json:"unit_cost"`
	Note     string  `json:"note"`
}

func (h *Handler) listParts(w http.ResponseWriter, r *http.Request) {
	parts, err := h.service.ListParts(r.Context())
	if err != nil {
		h.logger.Error("list parts failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	pagination := shared.NewPagination(page, perPage, len(parts))
	start := (pagination.Page - 1) * pagination.PerPage
	if start > len(parts) {
		start = len(parts)
	}
	end := start + pagination.PerPage
	if end > len(parts) {
		end = len(parts)
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"parts":      parts[start:end],
		"pagination": pagination,
	})
}

func (h *Handler) getPart(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "part id must be numeric")
		return
	}
	part, err := h.service.GetPart(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, part)
}

func (h *Handler) createPart(w http.ResponseWriter, r *http.Request) {
	var form createPartRequest
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "request body must be JSON")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	id, err := h.service.CreatePart(r.Context(), Part{
		SKU:          form.SKU,
		Name:         form.Name,
		Unit:         form.Unit,
		ReorderLevel: form.ReorderLevel,
	})
	if err != nil {
		h.logger.Error("create part failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (h *Handler) listBalances(w http.ResponseWriter, r *http.Request) {
	vesselID, err := strconv.ParseInt(chi.URLParam(r, "vesselID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "vessel id must be numeric")
		return
	}
	balances, err := h.service.ListBalances(r.Context(), vesselID)
	if err != nil {
		h.logger.Error("list balances failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"balances": balances})
}

func (h *Handler) listLowStock(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListLowStock(r.Context())
	if err != nil {
		h.logger.Error("list low stock failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"low_stock": items})
}

func (h *Handler) postReceipt(w http.ResponseWriter, r *http.Request) {
	h.postMovement(w, r, h.service.PostReceipt)
}

func (h *Handler) postIssue(w http.ResponseWriter, r *http.Request) {
	h.postMovement(w, r, h.service.PostIssue)
}

func (h *Handler) postAdjustment(w http.ResponseWriter, r *http.Request) {
	h.postMovement(w, r, h.service.PostAdjustment)
}

func (h *Handler) postMovement(w http.ResponseWriter, r *http.Request, post func(ctx context.Context, input MovementInput) (Balance, error)) {
	var form movementRequest
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "request body must be JSON")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	input := MovementInput{
		Code:     form.Code,
		VesselID: form.VesselID,
		PartID:   form.PartID,
		Qty:      form.Qty,
		UnitCost: form.UnitCost,
		Note:     form.Note,
	}
	if snap := h.guard.Coordinator.Snapshot(); snap.User != nil {
		input.ActorID = snap.User.ID
	}
	balance, err := post(r.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, ErrNegativeStock), errors.Is(err, ErrInvalidQuantity), errors.Is(err, ErrInvalidUnitCost):
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		default:
			h.logger.Error("post movement failed", slog.Any("error", err))
			httpx.RespondError(w, err)
		}
		return
	}
	httpx.JSON(w, http.StatusOK, balance)
}
