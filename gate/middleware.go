package gate

import (
	"context"
	"net/http"

	stitchgate "github.com/MrEthical07/stitchgate"
	"github.com/MrEthical07/stitchgate/api"
)

type identityContextKey struct{}

// IdentityFromContext returns the identity [Guard] attached for an allowed
// request.
func IdentityFromContext(ctx context.Context) (*api.Identity, bool) {
	identity, ok := ctx.Value(identityContextKey{}).(*api.Identity)
	return identity, ok
}

// Guard wraps a handler with a gate decision over the manager's current
// snapshot. Pending answers 503 with Retry-After so clients poll instead of
// misreading "loading" as "logged out"; redirects use 303.
func Guard(m *stitchgate.Manager, cfg Config, allowedRoles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m == nil {
				http.Error(w, "session unavailable", http.StatusServiceUnavailable)
				return
			}

			snap := m.Snapshot()
			decision := Decide(snap.Status, snap.Identity, allowedRoles, r.URL.RequestURI(), cfg)

			switch decision.Action {
			case ActionPending:
				m.Metrics().Inc(stitchgate.MetricGatePending)
				w.Header().Set("Retry-After", "1")
				http.Error(w, "session loading", http.StatusServiceUnavailable)

			case ActionRedirectLogin:
				m.Metrics().Inc(stitchgate.MetricGateLoginRedirect)
				http.Redirect(w, r, decision.Location, http.StatusSeeOther)

			case ActionRedirectDefault:
				m.Metrics().Inc(stitchgate.MetricGateRoleRedirect)
				http.Redirect(w, r, decision.Location, http.StatusSeeOther)

			default:
				m.Metrics().Inc(stitchgate.MetricGateAllow)
				ctx := context.WithValue(r.Context(), identityContextKey{}, snap.Identity)
				next.ServeHTTP(w, r.WithContext(ctx))
			}
		})
	}
}

// RequireAuthenticated guards a route that any logged-in user may see.
func RequireAuthenticated(m *stitchgate.Manager, cfg Config) func(http.Handler) http.Handler {
	return Guard(m, cfg)
}

// RequireAdmin guards an admin back-office route.
func RequireAdmin(m *stitchgate.Manager, cfg Config) func(http.Handler) http.Handler {
	return Guard(m, cfg, api.RoleAdmin)
}

// RequireStaff guards routes shared by tailors and admins.
func RequireStaff(m *stitchgate.Manager, cfg Config) func(http.Handler) http.Handler {
	return Guard(m, cfg, api.RoleTailor, api.RoleAdmin)
}
