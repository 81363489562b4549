package gate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	stitchgate "github.com/MrEthical07/stitchgate"
	"github.com/MrEthical07/stitchgate/api"
	"github.com/MrEthical07/stitchgate/storage"
)

func newGuardedManager(t *testing.T, identity api.Identity) *stitchgate.Manager {
	t.Helper()

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"data": identity})
	}))
	t.Cleanup(backend.Close)

	cfg := stitchgate.DefaultConfig()
	cfg.API.BaseURL = backend.URL

	manager, err := stitchgate.New().
		WithConfig(cfg).
		WithStorage(storage.NewMemory()).
		WithMetricsEnabled(true).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	t.Cleanup(manager.Dispose)

	return manager
}

func guardedEcho() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok {
			http.Error(w, "no identity in context", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(identity.Username))
	})
}

func TestGuardPendingBeforeBootstrap(t *testing.T) {
	manager := newGuardedManager(t, api.Identity{})

	handler := RequireAuthenticated(manager, DefaultConfig())(guardedEcho())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/account", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503 while undecided", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "1" {
		t.Fatal("pending answer must carry Retry-After")
	}
	if got := manager.MetricsSnapshot().Counters[stitchgate.MetricGatePending]; got != 1 {
		t.Fatalf("pending counter = %d, want 1", got)
	}
}

func TestGuardAnonymousRedirect(t *testing.T) {
	manager := newGuardedManager(t, api.Identity{})
	if err := manager.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}

	handler := RequireAuthenticated(manager, DefaultConfig())(guardedEcho())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/account/orders", nil))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != "/login?redirect=%2Faccount%2Forders" {
		t.Fatalf("Location = %q", got)
	}
}

func TestGuardAllowsAndInjectsIdentity(t *testing.T) {
	identity := api.Identity{ID: "u-1", Username: "ada", Role: api.RoleCustomer}
	manager := newGuardedManager(t, identity)

	ctx := context.Background()
	if err := manager.Login(ctx, stitchgate.LoginInput{Token: "tok", Identity: &identity}); err != nil {
		t.Fatalf("Login: %v", err)
	}
	manager.Flush()

	handler := RequireAuthenticated(manager, DefaultConfig())(guardedEcho())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/account", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %q", rec.Code, rec.Body.String())
	}
	if rec.Body.String() != "ada" {
		t.Fatalf("body = %q, want the context identity", rec.Body.String())
	}
}

func TestGuardWrongRoleRedirectsToRoleDefault(t *testing.T) {
	identity := api.Identity{ID: "u-2", Username: "bo", Role: api.RoleTailor}
	manager := newGuardedManager(t, identity)

	ctx := context.Background()
	if err := manager.Login(ctx, stitchgate.LoginInput{Token: "tok", Identity: &identity}); err != nil {
		t.Fatalf("Login: %v", err)
	}
	manager.Flush()

	handler := RequireAdmin(manager, DefaultConfig())(guardedEcho())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != "/tailor/orders" {
		t.Fatalf("Location = %q, want /tailor/orders", got)
	}
	if got := manager.MetricsSnapshot().Counters[stitchgate.MetricGateRoleRedirect]; got != 1 {
		t.Fatalf("role redirect counter = %d, want 1", got)
	}
}

func TestGuardStaffAdmitsTailorAndAdmin(t *testing.T) {
	for _, role := range []string{api.RoleTailor, api.RoleAdmin} {
		identity := api.Identity{ID: "u-9", Username: "staff", Role: role}
		manager := newGuardedManager(t, identity)

		ctx := context.Background()
		if err := manager.Login(ctx, stitchgate.LoginInput{Token: "tok", Identity: &identity}); err != nil {
			t.Fatalf("Login: %v", err)
		}
		manager.Flush()

		handler := RequireStaff(manager, DefaultConfig())(guardedEcho())
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tailor/orders", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("role %s: status = %d, want 200", role, rec.Code)
		}
	}
}
