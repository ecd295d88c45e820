// Package guard holds the route-guard decisions. Guards read only the cached
// profile: they are synchronous and never touch the network, so the startup
// probe must have populated the cache before their verdicts mean anything.
package guard

import "entrance-client/internal/model"

// Well-known routes the guards redirect to
const (
	LoginPath         = "/login"
	ResidentDashboard = "/dashboard"
	ManagerDashboard  = "/admin/dashboard"
)

// Decision is a guard verdict: either render the requested view or redirect
type Decision struct {
	Allow      bool
	RedirectTo string
}

func allow() Decision {
	return Decision{Allow: true}
}

func redirect(to string) Decision {
	return Decision{RedirectTo: to}
}

// DashboardFor returns the role-appropriate dashboard root
func DashboardFor(role model.Role) string {
	if role == model.RoleBuildingManager {
		return ManagerDashboard
	}
	return ResidentDashboard
}

// RequireAuthenticated protects a view. An empty cache redirects to login; a
// role mismatch silently redirects to the user's own dashboard instead of the
// requested view. Pass an empty required role to accept any authenticated
// user.
func RequireAuthenticated(user *model.User, required model.Role) Decision {
	if user == nil {
		return redirect(LoginPath)
	}
	if required != "" && user.Role != required {
		return redirect(DashboardFor(user.Role))
	}
	return allow()
}

// RedirectIfAuthenticated protects public-only views such as the login and
// registration forms: already-authenticated users go straight to their
// dashboard.
func RedirectIfAuthenticated(user *model.User) Decision {
	if user != nil {
		return redirect(DashboardFor(user.Role))
	}
	return allow()
}
