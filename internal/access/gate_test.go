package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pmadmin/console/internal/models"
)

func user(role models.Role) *models.User {
	return &models.User{ID: "1", Email: "u@x.com", FullName: "U", Role: role}
}

func TestAnonymousAlwaysSeesLogin(t *testing.T) {
	gate := NewGate(DefaultRules)
	for _, path := range []string{"/", "/projects", "/settings", "/unknown", "/login"} {
		d := gate.Resolve(nil, path)
		assert.Equal(t, PathLogin, d.Path, path)
		assert.Equal(t, ViewLogin, d.View, path)
	}
	assert.Equal(t, RedirectLogin, gate.Resolve(nil, "/projects").Outcome)
	assert.Equal(t, Allow, gate.Resolve(nil, "/login").Outcome)
}

func TestRoleTable(t *testing.T) {
	gate := NewGate(DefaultRules)

	tests := []struct {
		role    models.Role
		path    string
		outcome Outcome
		view    View
	}{
		{models.RoleAdmin, "/projects", Allow, ViewProjects},
		{models.RoleAdmin, "/settings", Allow, ViewSettings},
		{models.RoleAdmin, "/pm-tools", Allow, ViewPMTools},
		{models.RolePM, "/employees/12", Allow, ViewEmployees},
		{models.RolePM, "/projects?page=2", Allow, ViewProjects},
		{models.RolePM, "/settings", RedirectHome, ViewDashboard},
		{models.RolePM, "/pm-tools/", RedirectHome, ViewDashboard},
		{models.RoleEmployee, "/projects", RedirectHome, ViewEmployeeDashboard},
		{models.RoleEmployee, "/employees", RedirectHome, ViewEmployeeDashboard},
		{models.RoleEmployee, "/settings", RedirectHome, ViewEmployeeDashboard},
		{models.RoleEmployee, "/", Allow, ViewEmployeeDashboard},
		{models.RoleAdmin, "/", Allow, ViewDashboard},
		{models.RoleEmployee, "/reports", Allow, ViewNotFound},
		{models.RoleEmployee, "/projectsx", Allow, ViewNotFound},
	}

	for _, tt := range tests {
		d := gate.Resolve(user(tt.role), tt.path)
		assert.Equal(t, tt.outcome, d.Outcome, "%s %s", tt.role, tt.path)
		assert.Equal(t, tt.view, d.View, "%s %s", tt.role, tt.path)
		if tt.outcome == RedirectHome {
			assert.Equal(t, PathHome, d.Path)
		}
	}
}

func TestUnlistedPathsOpenToEveryRole(t *testing.T) {
	gate := NewGate(DefaultRules)
	for _, role := range []models.Role{models.RoleAdmin, models.RolePM, models.RoleEmployee} {
		assert.True(t, gate.Allowed(role, "/profile"), role)
		assert.True(t, gate.Allowed(role, "/"), role)
	}
	assert.False(t, gate.Allowed(models.RoleEmployee, "/projects"))
}
