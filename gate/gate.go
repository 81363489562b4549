package gate

import (
	"net/url"
	"slices"

	stitchgate "github.com/MrEthical07/stitchgate"
	"github.com/MrEthical07/stitchgate/api"
)

// Action is what the gate tells the caller to do.
type Action uint8

const (
	// ActionPending means the session is still loading; render a neutral
	// pending indicator and make no redirect decision yet.
	ActionPending Action = iota
	// ActionAllow means render the target.
	ActionAllow
	// ActionRedirectLogin means send the user to the login entry point;
	// Location carries the original path for post-login return.
	ActionRedirectLogin
	// ActionRedirectDefault means the user is authenticated but the target
	// requires a role they lack; Location is their role's landing page.
	ActionRedirectDefault
)

// Decision is the gate's answer for one navigation.
type Decision struct {
	Action   Action
	Location string
}

// Config is the routing table behind gate decisions. The role→default-path
// mapping is deliberately configuration, not per-call-site logic.
type Config struct {
	// LoginPath is the login entry point. Defaults to "/login".
	LoginPath string
	// ReturnToParam is the query parameter carrying the originally requested
	// path. Defaults to "redirect".
	ReturnToParam string
	// RoleDefaults maps a role to its landing page.
	RoleDefaults map[string]string
	// DefaultPath is the landing page for roles absent from RoleDefaults.
	// Defaults to "/".
	DefaultPath string
}

// DefaultConfig returns the storefront routing table.
func DefaultConfig() Config {
	return Config{
		LoginPath:     "/login",
		ReturnToParam: "redirect",
		DefaultPath:   "/",
		RoleDefaults: map[string]string{
			api.RoleCustomer: "/",
			api.RoleTailor:   "/tailor/orders",
			api.RoleAdmin:    "/admin/dashboard",
		},
	}
}

func (c Config) loginPath() string {
	if c.LoginPath == "" {
		return "/login"
	}
	return c.LoginPath
}

func (c Config) returnToParam() string {
	if c.ReturnToParam == "" {
		return "redirect"
	}
	return c.ReturnToParam
}

func (c Config) defaultFor(role string) string {
	if path, ok := c.RoleDefaults[role]; ok {
		return path
	}
	if c.DefaultPath == "" {
		return "/"
	}
	return c.DefaultPath
}

// Decide evaluates one navigation. It is deterministic and side-effect-free:
//
//  1. While the session is loading or uninitialized the answer is Pending;
//     loading is "decision pending", never "unauthenticated".
//  2. Without an identity, redirect to login, carrying requestedPath.
//  3. With an identity but a declared role set it does not belong to,
//     redirect to the role's default landing page, not to login.
//  4. Otherwise allow. An empty allowedRoles admits any authenticated
//     identity; the gate then only checks "logged in".
func Decide(status stitchgate.Status, identity *api.Identity, allowedRoles []string, requestedPath string, cfg Config) Decision {
	if status == stitchgate.StatusLoading || status == stitchgate.StatusUninitialized {
		return Decision{Action: ActionPending}
	}

	if identity == nil {
		location := cfg.loginPath()
		if requestedPath != "" {
			location += "?" + cfg.returnToParam() + "=" + url.QueryEscape(requestedPath)
		}
		return Decision{Action: ActionRedirectLogin, Location: location}
	}

	if len(allowedRoles) > 0 && !slices.Contains(allowedRoles, identity.Role) {
		return Decision{Action: ActionRedirectDefault, Location: cfg.defaultFor(identity.Role)}
	}

	return Decision{Action: ActionAllow}
}
