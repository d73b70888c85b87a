package models

import (
	"strings"
	"time"
)

// Role is the console-side role used by the route gate.
type Role string

const (
	RoleAdmin    Role = "admin"
	RolePM       Role = "pm"
	RoleEmployee Role = "employee"
)

// Role names as the backend spells them.
const (
	BackendRoleAdmin          = "ADMIN"
	BackendRoleProjectManager = "PROJECT_MANAGER"
	BackendRoleEmployee       = "EMPLOYEE"
)

// MapBackendRole maps a backend role name to a console role. Anything not
// recognised maps to RoleEmployee, never to a privileged role.
func MapBackendRole(backendRole string) Role {
	switch strings.ToUpper(strings.TrimSpace(backendRole)) {
	case BackendRoleAdmin:
		return RoleAdmin
	case BackendRoleProjectManager, "PM":
		return RolePM
	default:
		return RoleEmployee
	}
}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RolePM, RoleEmployee:
		return true
	}
	return false
}

// User is the profile mirrored into the durable session store.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     Role   `json:"role"`
}

// Session is a server-side login held by the stub backend.
type Session struct {
	ID               string
	EmployeeID       int64
	RefreshTokenHash []byte
	CreatedAt        time.Time
	LastSeenAt       time.Time
	ExpiresAt        time.Time
}
