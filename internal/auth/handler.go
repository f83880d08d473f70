package auth

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/yachtexcel/fleetdeck/internal/authstate"
	"github.com/yachtexcel/fleetdeck/internal/platform/httpx"
	"github.com/yachtexcel/fleetdeck/internal/shared"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger      *slog.Logger
	coordinator *authstate.Coordinator
	csrfManager *shared.CSRFManager
	validator   *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, coordinator *authstate.Coordinator, csrf *shared.CSRFManager) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:      logger,
		coordinator: coordinator,
		csrfManager: csrf,
		validator:   validator.New(),
	}
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/login", h.handleLogin)
	r.Post("/signup", h.handleSignup)
	r.Post("/logout", h.handleLogout)
	r.Get("/me", h.handleMe)
	r.Post("/refresh", h.handleRefresh)
}

type credentialsRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type stateResponse struct {
	Authenticated bool             `json:"authenticated"`
	Loading       bool             `json:"loading"`
	UserID        string           `json:"user_id,omitempty"`
	Email         string           `json:"email,omitempty"`
	Roles         []authstate.Role `json:"roles"`
	Permissions   []string         `json:"permissions"`
	CSRFToken     string           `json:"csrf_token,omitempty"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var form credentialsRequest
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "request body must be JSON")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", shared.UserSafeMessage(shared.ErrInvalidCredentials))
		return
	}

	if err := h.coordinator.SignIn(r.Context(), form.Email, form.Password); err != nil {
		h.logger.Warn("login failed", slog.String("email", form.Email))
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", shared.UserSafeMessage(shared.ErrInvalidCredentials))
		return
	}

	h.bindRequestSession(r)
	httpx.JSON(w, http.StatusOK, h.stateView(r))
}

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	var form credentialsRequest
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "request body must be JSON")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "email and a password of at least 8 characters are required")
		return
	}

	if err := h.coordinator.SignUp(r.Context(), form.Email, form.Password, ""); err != nil {
		h.logger.Warn("signup failed", slog.String("email", form.Email), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	h.bindRequestSession(r)
	httpx.JSON(w, http.StatusCreated, h.stateView(r))
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	// Local state flips to guest immediately; a backend failure is logged
	// and surfaced, but never rolls the sign-out back.
	err := h.coordinator.SignOut(r.Context())
	if err != nil {
		h.logger.Warn("remote sign-out failed", slog.Any("error", err))
	}
	httpx.JSON(w, http.StatusOK, h.stateView(r))
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.stateView(r))
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	h.coordinator.RefreshRoles(r.Context())
	httpx.JSON(w, http.StatusOK, h.stateView(r))
}

func (h *Handler) stateView(r *http.Request) stateResponse {
	snap := h.coordinator.Snapshot()
	view := stateResponse{
		Authenticated: snap.Authenticated,
		Loading:       snap.Loading,
		Roles:         snap.Roles,
		Permissions:   snap.Permissions,
	}
	if snap.User != nil {
		view.UserID = snap.User.ID
		view.Email = snap.User.Email
	}
	if sess := shared.SessionFromContext(r.Context()); sess != nil && h.csrfManager != nil {
		if token, err := h.csrfManager.EnsureToken(r.Context(), sess); err == nil {
			view.CSRFToken = token
		}
	}
	return view
}

// HandleLoginForTest exposes the login handler for tests.
func (h *Handler) HandleLoginForTest(w http.ResponseWriter, r *http.Request) {
	h.handleLogin(w, r)
}

// HandleLogoutForTest exposes the logout handler for tests.
func (h *Handler) HandleLogoutForTest(w http.ResponseWriter, r *http.Request) {
	h.handleLogout(w, r)
}

// HandleMeForTest exposes the state handler for tests.
func (h *Handler) HandleMeForTest(w http.ResponseWriter, r *http.Request) {
	h.handleMe(w, r)
}

func (h *Handler) bindRequestSession(r *http.Request) {
	snap := h.coordinator.Snapshot()
	sess := shared.SessionFromContext(r.Context())
	if sess == nil || snap.User == nil {
		return
	}
	sess.SetUser(snap.User.ID)
}
