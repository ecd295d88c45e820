package guard_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"entrance-client/internal/guard"
	"entrance-client/internal/model"
)

func TestRequireAuthenticatedRedirectsAnonymousToLogin(t *testing.T) {
	decision := guard.RequireAuthenticated(nil, "")
	require.False(t, decision.Allow)
	require.Equal(t, guard.LoginPath, decision.RedirectTo)

	decision = guard.RequireAuthenticated(nil, model.RoleBuildingManager)
	require.False(t, decision.Allow)
	require.Equal(t, guard.LoginPath, decision.RedirectTo)
}

func TestRequireAuthenticatedAllowsMatchingRole(t *testing.T) {
	resident := &model.User{ID: 1, Role: model.RoleResident}

	require.True(t, guard.RequireAuthenticated(resident, "").Allow)
	require.True(t, guard.RequireAuthenticated(resident, model.RoleResident).Allow)
}

func TestRequireAuthenticatedRedirectsRoleMismatchToOwnDashboard(t *testing.T) {
	resident := &model.User{ID: 1, Role: model.RoleResident}
	manager := &model.User{ID: 2, Role: model.RoleBuildingManager}

	decision := guard.RequireAuthenticated(resident, model.RoleBuildingManager)
	require.False(t, decision.Allow)
	require.Equal(t, guard.ResidentDashboard, decision.RedirectTo)

	decision = guard.RequireAuthenticated(manager, model.RoleResident)
	require.False(t, decision.Allow)
	require.Equal(t, guard.ManagerDashboard, decision.RedirectTo)
}

func TestRedirectIfAuthenticated(t *testing.T) {
	require.True(t, guard.RedirectIfAuthenticated(nil).Allow)

	decision := guard.RedirectIfAuthenticated(&model.User{ID: 1, Role: model.RoleResident})
	require.False(t, decision.Allow)
	require.Equal(t, guard.ResidentDashboard, decision.RedirectTo)

	decision = guard.RedirectIfAuthenticated(&model.User{ID: 2, Role: model.RoleBuildingManager})
	require.False(t, decision.Allow)
	require.Equal(t, guard.ManagerDashboard, decision.RedirectTo)
}

func TestDashboardFor(t *testing.T) {
	require.Equal(t, guard.ManagerDashboard, guard.DashboardFor(model.RoleBuildingManager))
	require.Equal(t, guard.ResidentDashboard, guard.DashboardFor(model.RoleResident))
}
