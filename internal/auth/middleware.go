package auth

import (
	"log/slog"
	"net/http"

	"github.com/yachtexcel/fleetdeck/internal/authstate"
)

// Middleware guards routes with role requirements resolved against the
// auth coordinator.
type Middleware struct {
	Coordinator *authstate.Coordinator
	Logger      *slog.Logger
}

// RequireAnyRole ensures the current identity carries at least one of the
// required roles. An uninitialized coordinator is treated as guest.
func (m Middleware) RequireAnyRole(roles ...authstate.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(roles) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			snap := m.Coordinator.Initialize(r.Context())
			if snap.HasAnyRole(roles...) {
				next.ServeHTTP(w, r)
				return
			}
			if m.Logger != nil {
				m.Logger.Warn("role check rejected request",
					slog.String("path", r.URL.Path),
					slog.Any("have", snap.Roles))
			}
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		})
	}
}

// RequireRole ensures the current identity carries the required role.
func (m Middleware) RequireRole(role authstate.Role) func(http.Handler) http.Handler {
	return m.RequireAnyRole(role)
}

// RequirePermission ensures the current identity's derived permission set
// grants perm.
func (m Middleware) RequirePermission(perm string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			snap := m.Coordinator.Initialize(r.Context())
			if snap.HasPermission(perm) {
				next.ServeHTTP(w, r)
				return
			}
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		})
	}
}
